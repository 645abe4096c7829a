// Package scheduler ticks the CPU and its peripherals in lockstep: each call
// to Machine.Step runs exactly one CPU instruction, advances every
// peripheral by the same cycle count, and aggregates IRQ lines back onto
// the CPU. There is no concurrency here; the scheduler is the only place
// "time" advances in the emulated machine.
package scheduler

import (
	"commanderx16emu/internal/addrspace"
	"commanderx16emu/internal/audio"
	"commanderx16emu/internal/cpu"
	"commanderx16emu/internal/debug"
	"commanderx16emu/internal/via"
	"commanderx16emu/internal/video"
)

// Machine owns every piece of emulated state and is passed by exclusive
// reference into each step; nothing about it is shared across goroutines.
type Machine struct {
	CPU   *cpu.CPU
	Mem   *addrspace.AddressSpace
	Video *video.Core
	VIA1  *via.Stub
	VIA2  *via.Stub
	Audio *audio.Stub

	MHz uint32 // CPU clock, in MHz, feeding video.Core.Step

	Logger *debug.Logger
}

// NewMachine wires a CPU, address space, and peripherals into a Machine.
// mhz is the nominal CPU clock used to pace the video core's raster timer.
func NewMachine(mhz uint32, ramBanks int) *Machine {
	mem := addrspace.New(ramBanks)
	v := video.New()
	via1 := via.NewStub()
	via2 := via.NewStub()
	au := audio.NewStub()

	mem.VIA1 = via1
	mem.VIA2 = via2
	mem.Video = v
	mem.Audio = au

	c := cpu.New(mem)

	return &Machine{
		CPU:   c,
		Mem:   mem,
		Video: v,
		VIA1:  via1,
		VIA2:  via2,
		Audio: au,
		MHz:   mhz,
	}
}

// Reset resets the CPU and video core to their power-on state. is816 selects
// the CPU's personality (65C02 vs 65C816) on every reset.
func (m *Machine) Reset(is816 bool) {
	m.CPU.Reset(is816)
	m.Video.Reset()
}

// Step runs exactly one CPU instruction, advances the video core and
// peripherals by the resulting cycle count, and aggregates IRQ sources back
// onto the CPU. It returns the cycle count consumed and whether a new video
// frame was completed during this step.
func (m *Machine) Step() (cycles uint32, newFrame bool) {
	cycles = m.CPU.Step()
	newFrame = m.Video.Step(m.MHz, cycles, false)
	m.VIA1.Step(cycles)
	m.VIA2.Step(cycles)
	m.Audio.Step(cycles)
	m.aggregateIRQ()
	return cycles, newFrame
}

// RunUntilFrame steps the machine until a new video frame completes or stop
// reports true, whichever comes first. stop may be nil.
func (m *Machine) RunUntilFrame(stop func() bool) {
	for {
		if stop != nil && stop() {
			return
		}
		_, newFrame := m.Step()
		if newFrame {
			return
		}
	}
}

// RunCycles steps the machine until at least n cycles have elapsed or stop
// reports true.
func (m *Machine) RunCycles(n uint64, stop func() bool) {
	var elapsed uint64
	for elapsed < n {
		if stop != nil && stop() {
			return
		}
		c, _ := m.Step()
		elapsed += uint64(c)
	}
}

// aggregateIRQ ORs every peripheral IRQ source onto the CPU's IRQ line. NMI
// is not aggregated here: nothing in this machine drives NMI directly, but
// the hook exists on CPU for a host embedding to raise it (e.g. a reset
// button or cartridge-mapped NMI line).
func (m *Machine) aggregateIRQ() {
	if m.Video.IRQLine() || m.VIA1.IRQLine() || m.VIA2.IRQLine() || m.Audio.IRQLine() {
		m.CPU.IRQ()
	} else {
		m.CPU.IRQClear()
	}
}
