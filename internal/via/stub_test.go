package via

import "testing"

func TestIFRWriteOneToClear(t *testing.T) {
	v := NewStub()
	v.regs[regIFR] = 0xFF
	v.Write(regIFR, 0x01)
	if v.regs[regIFR] != 0xFE {
		t.Errorf("IFR after write-1-to-clear: got %#x, want 0xfe", v.regs[regIFR])
	}
}

func TestTimer1ExpiryRaisesIFR(t *testing.T) {
	v := NewStub()
	v.Write(regT1LL, 2)
	v.Write(regT1LH, 0)
	v.Write(regT1CL, 2)
	v.Write(regT1CH, 0)
	v.Step(3)
	if v.regs[regIFR]&0x40 == 0 {
		t.Error("T1 expiry should set IFR bit 6")
	}
}

func TestIRQLineRespectsIER(t *testing.T) {
	v := NewStub()
	v.regs[regIFR] = 0x40
	v.regs[regIER] = 0x00
	if v.IRQLine() {
		t.Error("IRQLine should be false when IER masks the pending flag")
	}
	v.regs[regIER] = 0x40
	if !v.IRQLine() {
		t.Error("IRQLine should be true once IER enables the pending flag")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	v := NewStub()
	v.Write(regORA, 0x5A)
	v.Write(regT1LL, 9)
	snap := v.Snapshot()

	other := NewStub()
	other.Restore(snap)
	if other.Read(regORA) != 0x5A {
		t.Errorf("restored ORA: got %#x, want 0x5a", other.Read(regORA))
	}
}
