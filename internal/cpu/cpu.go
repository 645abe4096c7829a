// Package cpu implements the 65C02/65C816 interpreter: a table-driven
// big-step decoder that reads and writes through an AddressSpace, tracks a
// running cycle counter, and exposes edge-triggered IRQ/NMI/STP inputs.
package cpu

import (
	"commanderx16emu/internal/addrspace"
	"commanderx16emu/internal/debug"
)

// Interrupt vector table, per §6. Offsets are added to 0xFFE0 (native) or
// 0xFFF0 (emulation); see vectorAddress.
const (
	vecCOP = 0x04
	vecBRK = 0x06
	vecNMI = 0x0A
	vecIRQ = 0x0E
)

const vectorReset = 0xFFFC

// CPU is the instruction interpreter. It owns nothing but the register file
// and cycle counter; all memory effects go through Mem.
type CPU struct {
	Reg    Registers
	Mem    *addrspace.AddressSpace
	Logger *debug.Logger

	Cycles uint64

	irqPending bool
	nmiPending bool

	// OnStop is called when the guest executes STP. Optional.
	OnStop func(pc uint16, bank uint8)
}

// New creates a CPU wired to mem. Call Reset before stepping.
func New(mem *addrspace.AddressSpace) *CPU {
	return &CPU{Mem: mem}
}

// Reset performs the RESET sequence: PC from $FFFC/D, SP=0x1FD, E=1, I=1,
// D=0, personality selected by is816.
func (c *CPU) Reset(is816 bool) {
	c.Reg = Registers{}
	c.Reg.Is816 = is816
	c.Reg.E = true
	c.Reg.DP = 0
	c.Reg.DB = 0
	c.Reg.K = 0
	c.Reg.SP = 0x01FD
	c.Reg.P |= FlagI
	c.Reg.P &^= FlagD
	c.Reg.ForceEmulationWidths()
	lo := c.Mem.Read(vectorReset, 0)
	hi := c.Mem.Read(vectorReset+1, 0)
	c.Reg.PC = uint16(lo) | uint16(hi)<<8
	c.Cycles = 0
	c.irqPending = false
	c.nmiPending = false
}

// IRQ raises a level-triggered IRQ line; it is honored at the start of the
// next Step unless the I flag is set.
func (c *CPU) IRQ() { c.irqPending = true }

// IRQClear lowers the IRQ line (the peripheral query is re-evaluated by the
// scheduler every step, so an edge-only "IRQ()" latch is not required, but
// callers that track their own line state may use this to mirror it).
func (c *CPU) IRQClear() { c.irqPending = false }

// NMI raises a one-shot, edge-triggered NMI.
func (c *CPU) NMI() { c.nmiPending = true }

func (c *CPU) opTable() *[256]opEntry {
	if c.Reg.Is816 {
		return &table816
	}
	return &table02
}

// Step executes exactly one instruction (or one cycle of WAI/STP) and
// returns the number of cycles it consumed. It is the only place Cycles
// advances.
func (c *CPU) Step() uint32 {
	if c.Reg.Stopped {
		c.Cycles++
		return 1
	}

	if c.nmiPending {
		c.nmiPending = false
		c.Reg.Waiting = false
		n := c.interrupt(vecNMI, false)
		c.Cycles += uint64(n)
		return n
	}
	if c.irqPending && !c.Reg.GetFlag(FlagI) {
		c.Reg.Waiting = false
		n := c.interrupt(vecIRQ, false)
		c.Cycles += uint64(n)
		return n
	}

	if c.Reg.Waiting {
		c.Cycles++
		return 1
	}

	c.Reg.ForceEmulationWidths()

	opcode := c.fetch8()

	var pen stepPenalties
	entry := c.opTable()[opcode]
	ea, eaBank := c.computeEA(entry.Mode, &pen)

	entry.Op(c, ea, eaBank, entry.Mode, &pen)

	cycles := uint32(entry.Cycles)
	if pen.addrCross {
		cycles++
	}
	if pen.memWide16 && c.Reg.MemWidth16() {
		cycles++
	}
	if pen.idxWide16 && c.Reg.IndexWidth16() {
		cycles++
	}
	if c.Mem.PenaltyRead(ea, eaBank) {
		cycles += 3
	}

	c.Cycles += uint64(cycles)
	return cycles
}

// ExecUntil steps until the cycle counter reaches target, returning the
// number of instructions executed.
func (c *CPU) ExecUntil(target uint64) int {
	n := 0
	for c.Cycles < target && !c.Reg.Stopped {
		c.Step()
		n++
	}
	return n
}

// stepPenalties are the per-instruction flags set by the addressing-mode
// routine and consumed once, at the end of Step.
type stepPenalties struct {
	addrCross    bool   // page-cross / extra-cycle addressing penalty
	memWide16    bool   // instruction cares about M-width penalty
	idxWide16    bool   // instruction cares about X-width penalty
	branchTarget uint16 // ModeZPRelative's rel8 branch target, for BBRx/BBSx
}

func (c *CPU) fetch8() uint8 {
	v := c.Mem.Read(c.Reg.PC, c.Reg.K)
	c.Reg.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func vectorAddress(offset uint16, emulation bool) uint16 {
	if emulation {
		return 0xFFF0 + offset
	}
	return 0xFFE0 + offset
}

// interrupt performs RESET-vectored handling for NMI/IRQ/BRK/COP. K is
// pushed only in native mode (E=0), for every interrupt type uniformly,
// exactly as the hardware this is grounded on: `if (!e) push8(k)`.
func (c *CPU) interrupt(vec uint16, brk bool) uint32 {
	if !c.Reg.E {
		c.push8(c.Reg.K)
	}
	c.push16(c.Reg.PC)

	status := c.Reg.P
	if c.Reg.E {
		if brk {
			status |= FlagBreak
		} else {
			status &^= FlagBreak
		}
	}
	c.push8(status)

	c.Reg.SetFlag(FlagI, true)
	c.Reg.SetFlag(FlagD, false)
	c.Reg.K = 0

	addr := vectorAddress(vec, c.Reg.E)
	lo := c.Mem.Read(addr, 0)
	hi := c.Mem.Read(addr+1, 0)
	c.Reg.PC = uint16(lo) | uint16(hi)<<8

	return 7
}

func (c *CPU) push8(v uint8) {
	c.Mem.Write(c.Reg.SP, 0, v)
	if c.Reg.E {
		c.Reg.SP = 0x0100 | ((c.Reg.SP - 1) & 0x00FF)
	} else {
		c.Reg.SP--
	}
}

func (c *CPU) pull8() uint8 {
	if c.Reg.E {
		c.Reg.SP = 0x0100 | ((c.Reg.SP + 1) & 0x00FF)
	} else {
		c.Reg.SP++
	}
	return c.Mem.Read(c.Reg.SP, 0)
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) updateNZ8(v uint8) {
	c.Reg.SetFlag(FlagZ, v == 0)
	c.Reg.SetFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) updateNZ16(v uint16) {
	c.Reg.SetFlag(FlagZ, v == 0)
	c.Reg.SetFlag(FlagN, v&0x8000 != 0)
}

func (c *CPU) updateNZ(v uint16, wide bool) {
	if wide {
		c.updateNZ16(v)
	} else {
		c.updateNZ8(uint8(v))
	}
}
