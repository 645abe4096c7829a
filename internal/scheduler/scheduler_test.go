package scheduler

import (
	"io"
	"testing"
)

// loadVectors loads a ROM image whose reset vector points at 0x0800 and whose
// IRQ vector points at 0x0900.
func loadVectors(m *Machine) {
	rom := make([]byte, 0x4000)
	rom[0x3FFC], rom[0x3FFD] = 0x00, 0x08
	rom[0x3FFE], rom[0x3FFF] = 0x00, 0x09
	m.Mem.LoadROM(rom)
}

func TestNewMachineResetSetsPCFromVector(t *testing.T) {
	m := NewMachine(8, 4)
	loadVectors(m)
	m.Reset(false)
	if m.CPU.Reg.PC != 0x0800 {
		t.Errorf("PC after reset: got %#x, want 0x0800", m.CPU.Reg.PC)
	}
}

func TestStepAdvancesEveryPeripheral(t *testing.T) {
	m := NewMachine(8, 4)
	loadVectors(m)
	m.Mem.Write(0x0800, 0, 0xEA) // NOP
	m.Reset(false)

	m.VIA1.Write(0x06, 1) // T1 latch low = 1
	m.VIA1.Write(0x07, 0) // T1 latch high = 0
	m.VIA1.Write(0x04, 1) // T1 counter low = 1
	m.VIA1.Write(0x05, 0)

	cyc, _ := m.Step()
	if cyc == 0 {
		t.Fatal("expected nonzero cycle count from a NOP step")
	}
	if m.VIA1.Read(0x0D)&0x40 == 0 {
		t.Error("VIA1 timer should have expired and raised IFR after Step advanced it")
	}
}

func TestAggregateIRQRaisesCPULine(t *testing.T) {
	m := NewMachine(8, 4)
	loadVectors(m)
	m.Reset(false)
	m.CPU.Reg.SetFlag(0x04, false) // clear I so IRQ is honored

	m.VIA1.Write(0x0E, 0x40) // IER enables T1 flag
	m.VIA1.Write(0x0D, 0x00)
	// Manually raise VIA1's IFR bit the way Step would once the timer expires.
	m.VIA1.Write(0x06, 0)
	m.VIA1.Write(0x07, 0)
	m.VIA1.Write(0x04, 0)
	m.VIA1.Write(0x05, 0)
	m.VIA1.Step(1) // timer at 0 expires immediately, setting IFR bit 6

	if !m.VIA1.IRQLine() {
		t.Fatal("VIA1 IRQLine should be asserted after its timer expired")
	}
	m.aggregateIRQ()
	m.CPU.Step() // the raised IRQ line is taken before the next instruction
	if m.CPU.Reg.PC != 0x0900 {
		t.Errorf("CPU did not take the aggregated IRQ: PC=%#x, want 0x0900", m.CPU.Reg.PC)
	}
}

func TestRunUntilFrameStopsOnCallback(t *testing.T) {
	m := NewMachine(8, 4)
	loadVectors(m)
	m.Mem.Write(0x0800, 0, 0xEA) // NOP, so PC never advances past the loaded program
	for i := uint16(1); i < 0x100; i++ {
		m.Mem.Write(0x0800+i, 0, 0xEA)
	}
	m.Reset(false)

	calls := 0
	m.RunUntilFrame(func() bool {
		calls++
		return calls > 5
	})
	if calls <= 5 {
		t.Errorf("stop callback should have halted the run: calls=%d", calls)
	}
}

func TestSaveLoadStateRoundTrip(t *testing.T) {
	m := NewMachine(8, 4)
	loadVectors(m)
	m.Reset(false)
	m.Mem.SetRAMBank(1)
	m.Mem.Write(0xA000, 0, 0x55)
	m.CPU.Cycles = 1234

	var buf bufferWriter
	if err := m.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	other := NewMachine(8, 4)
	if err := other.LoadState(&buf); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if other.CPU.Cycles != 1234 {
		t.Errorf("restored cycles: got %d, want 1234", other.CPU.Cycles)
	}
	other.Mem.SetRAMBank(1)
	if got := other.Mem.Read(0xA000, 0); got != 0x55 {
		t.Errorf("restored RAM: got %#x, want 0x55", got)
	}
}

// bufferWriter is a minimal io.ReadWriter backed by an in-memory slice, used
// to round-trip SaveState/LoadState without touching the filesystem.
type bufferWriter struct {
	data []byte
	pos  int
}

func (b *bufferWriter) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bufferWriter) Read(p []byte) (int, error) {
	n := copy(p, b.data[b.pos:])
	b.pos += n
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
