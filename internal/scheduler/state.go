package scheduler

import (
	"encoding/gob"
	"io"

	"commanderx16emu/internal/addrspace"
	"commanderx16emu/internal/audio"
	"commanderx16emu/internal/cpu"
	"commanderx16emu/internal/video"
	"commanderx16emu/internal/via"
)

// MachineState is the gob-encodable save state for an entire Machine: CPU
// registers, address-space contents, video core, and both VIAs/audio.
type MachineState struct {
	Cycles uint64
	Reg    cpu.Registers
	Mem    addrspace.Snapshot
	Video  video.Snapshot
	VIA1   via.Snapshot
	VIA2   via.Snapshot
	Audio  audio.Snapshot
}

// SaveState gob-encodes the machine's current state to w.
func (m *Machine) SaveState(w io.Writer) error {
	s := MachineState{
		Cycles: m.CPU.Cycles,
		Reg:    m.CPU.Reg,
		Mem:    m.Mem.Snapshot(),
		Video:  m.Video.Snapshot(),
		VIA1:   m.VIA1.Snapshot(),
		VIA2:   m.VIA2.Snapshot(),
		Audio:  m.Audio.Snapshot(),
	}
	return gob.NewEncoder(w).Encode(&s)
}

// LoadState restores a previously-saved machine state from r. The RAM/ROM
// bank counts must match what this Machine was constructed with.
func (m *Machine) LoadState(r io.Reader) error {
	var s MachineState
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return err
	}
	m.CPU.Cycles = s.Cycles
	m.CPU.Reg = s.Reg
	m.Mem.Restore(s.Mem)
	m.Video.Restore(s.Video)
	m.VIA1.Restore(s.VIA1)
	m.VIA2.Restore(s.VIA2)
	m.Audio.Restore(s.Audio)
	return nil
}
