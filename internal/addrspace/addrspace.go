// Package addrspace implements the banked 24-bit address decoder that sits
// between the CPU and every other peripheral: low RAM, the CPU bank port,
// VIA pairs, video and audio register windows, the emulator-state window,
// banked RAM, and the ROM/cartridge window.
package addrspace

import (
	"commanderx16emu/internal/cartridge"
	"commanderx16emu/internal/debug"
)

// IOHandler decouples AddressSpace from concrete peripheral types (video,
// audio, VIA). Each handler owns a small register window and is addressed
// by an offset relative to the start of that window.
type IOHandler interface {
	Read(reg uint8) uint8
	Write(reg uint8, v uint8)
}

const (
	lowRAMSize   = 0x9F00
	ramBankSize  = 8 * 1024
	romBankSize  = 16 * 1024
	romBankCount = 32
	maxRAMBanks  = 256

	emuStateSize = 0x10
)

// AddressSpace is the single entry point for every CPU memory access.
type AddressSpace struct {
	lowRAM [lowRAMSize]uint8

	ramBanks [][ramBankSize]uint8
	romBanks [][romBankSize]uint8

	ramBank uint8
	romBank uint8

	Cart *cartridge.Cartridge

	VIA1  IOHandler
	VIA2  IOHandler
	Video IOHandler
	Audio IOHandler
	MIDI  IOHandler // optional; nil means open bus

	emuState [emuStateSize]uint8

	ReportUninitialized bool
	ramTouched          []bool

	Logger *debug.Logger
}

// New builds an AddressSpace with the given number of 8 KiB RAM banks
// (clamped to [1,256]) and the fixed 32-bank ROM.
func New(ramBankCount int) *AddressSpace {
	if ramBankCount < 1 {
		ramBankCount = 1
	}
	if ramBankCount > maxRAMBanks {
		ramBankCount = maxRAMBanks
	}
	a := &AddressSpace{
		ramBanks:   make([][ramBankSize]uint8, ramBankCount),
		romBanks:   make([][romBankSize]uint8, romBankCount),
		ramTouched: make([]bool, ramBankCount),
	}
	a.emuState[14] = '1'
	a.emuState[15] = '6'
	return a
}

// LoadROM copies data into the fixed 32x16KiB ROM window, starting at bank 0.
func (a *AddressSpace) LoadROM(data []byte) {
	for i := 0; i < len(data) && i < romBankCount*romBankSize; i++ {
		a.romBanks[i/romBankSize][i%romBankSize] = data[i]
	}
}

func (a *AddressSpace) SetRAMBank(b uint8) { a.ramBank = b }
func (a *AddressSpace) SetROMBank(b uint8) { a.romBank = b }
func (a *AddressSpace) GetRAMBank() uint8  { return a.ramBank }
func (a *AddressSpace) GetROMBank() uint8  { return a.romBank }

func openBus(addr uint16) uint8 { return uint8(addr >> 8) }

// Read performs a full CPU read, including the 3-cycle-penalty address
// range flag consulted by the caller via PenaltyRead.
func (a *AddressSpace) Read(addr uint16, bank uint8) uint8 {
	return a.read(addr, bank, false)
}

// DebugRead performs the same lookup with no side effects: it must not
// advance a video data-port's prefetch or otherwise mutate peripheral state.
func (a *AddressSpace) DebugRead(addr uint16, bank uint8) uint8 {
	return a.read(addr, bank, true)
}

// PenaltyRead reports whether addr (in bank 0) costs 3 extra cycles to read.
func (a *AddressSpace) PenaltyRead(addr uint16, bank uint8) bool {
	return bank == 0 && addr >= 0x9FA0
}

func (a *AddressSpace) read(addr uint16, bank uint8, debugOnly bool) uint8 {
	if bank != 0 {
		return openBus(addr)
	}

	switch {
	case addr <= 0x0001:
		if addr == 0x0000 {
			return a.ramBank
		}
		return a.romBank
	case addr <= 0x9EFF:
		return a.lowRAM[addr]
	case addr >= 0x9F00 && addr <= 0x9F0F:
		return a.ioRead(a.VIA1, uint8(addr-0x9F00))
	case addr >= 0x9F10 && addr <= 0x9F1F:
		return a.ioRead(a.VIA2, uint8(addr-0x9F10))
	case addr >= 0x9F20 && addr <= 0x9F3F:
		if debugOnly {
			if dbg, ok := a.Video.(interface{ DebugRead(uint8) uint8 }); ok {
				return dbg.DebugRead(uint8(addr - 0x9F20))
			}
		}
		return a.ioRead(a.Video, uint8(addr-0x9F20))
	case addr >= 0x9F40 && addr <= 0x9F5F:
		return a.ioRead(a.Audio, uint8(addr-0x9F40))
	case addr >= 0x9F60 && addr <= 0x9FAF:
		if a.MIDI == nil {
			return openBus(addr)
		}
		return a.ioRead(a.MIDI, uint8(addr-0x9F60))
	case addr >= 0x9FB0 && addr <= 0x9FBF:
		return a.emuState[addr-0x9FB0]
	case addr >= 0x9FC0 && addr <= 0x9FFF:
		return openBus(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		bankIdx := int(a.ramBank)
		if bankIdx >= len(a.ramBanks) {
			return openBus(addr)
		}
		if a.ReportUninitialized && !a.ramTouched[bankIdx] && a.Logger != nil {
			a.Logger.Logf(debug.ComponentAddrSpace, debug.LogLevelWarning,
				"read of uninitialized RAM bank %d offset 0x%04x", a.ramBank, addr-0xA000)
		}
		return a.ramBanks[bankIdx][addr-0xA000]
	case addr >= 0xC000:
		if a.romBank < romBankCount {
			return a.romBanks[a.romBank][addr-0xC000]
		}
		if a.Cart != nil {
			return a.Cart.Read(addr-0xC000, a.romBank)
		}
		return openBus(addr)
	default:
		return openBus(addr)
	}
}

func (a *AddressSpace) ioRead(h IOHandler, reg uint8) uint8 {
	if h == nil {
		return 0
	}
	return h.Read(reg)
}

// Write performs a full CPU write. Writes into ROM banks and None-type
// cartridge banks are silently dropped.
func (a *AddressSpace) Write(addr uint16, bank uint8, v uint8) {
	if bank != 0 {
		return
	}

	switch {
	case addr == 0x0000:
		a.ramBank = v
	case addr == 0x0001:
		a.romBank = v
	case addr <= 0x9EFF:
		a.lowRAM[addr] = v
	case addr >= 0x9F00 && addr <= 0x9F0F:
		a.ioWrite(a.VIA1, uint8(addr-0x9F00), v)
	case addr >= 0x9F10 && addr <= 0x9F1F:
		a.ioWrite(a.VIA2, uint8(addr-0x9F10), v)
	case addr >= 0x9F20 && addr <= 0x9F3F:
		a.ioWrite(a.Video, uint8(addr-0x9F20), v)
	case addr >= 0x9F40 && addr <= 0x9F5F:
		a.ioWrite(a.Audio, uint8(addr-0x9F40), v)
	case addr >= 0x9F60 && addr <= 0x9FAF:
		a.ioWrite(a.MIDI, uint8(addr-0x9F60), v)
	case addr >= 0x9FB0 && addr <= 0x9FBF:
		a.emuState[addr-0x9FB0] = v
	case addr >= 0xA000 && addr <= 0xBFFF:
		bankIdx := int(a.ramBank)
		if bankIdx >= len(a.ramBanks) {
			return // open bus: write dropped
		}
		a.ramBanks[bankIdx][addr-0xA000] = v
		a.ramTouched[bankIdx] = true
	case addr >= 0xC000:
		if a.romBank < romBankCount {
			return // ROM: writes dropped
		}
		if a.Cart != nil {
			a.Cart.Write(addr-0xC000, a.romBank, v)
		}
	}
}

func (a *AddressSpace) ioWrite(h IOHandler, reg uint8, v uint8) {
	if h == nil {
		return
	}
	h.Write(reg, v)
}

// EmuState exposes the raw emulator-state register window (0x9FB0-0x9FBF)
// for hosts that want to set debugger/recorder bits directly.
func (a *AddressSpace) EmuState() *[emuStateSize]uint8 { return &a.emuState }

// Snapshot is the gob-encodable save-state view of an AddressSpace: RAM
// contents, bank selectors, and the emulator-state window. Peripherals are
// snapshotted independently by their own owners.
type Snapshot struct {
	LowRAM   [lowRAMSize]uint8
	RAMBanks [][ramBankSize]uint8
	ROMBanks [][romBankSize]uint8
	RAMBank  uint8
	ROMBank  uint8
	EmuState [emuStateSize]uint8
}

// Snapshot captures the current state for persistence.
func (a *AddressSpace) Snapshot() Snapshot {
	s := Snapshot{
		LowRAM:   a.lowRAM,
		RAMBanks: make([][ramBankSize]uint8, len(a.ramBanks)),
		ROMBanks: make([][romBankSize]uint8, len(a.romBanks)),
		RAMBank:  a.ramBank,
		ROMBank:  a.romBank,
		EmuState: a.emuState,
	}
	copy(s.RAMBanks, a.ramBanks)
	copy(s.ROMBanks, a.romBanks)
	return s
}

// Restore replaces the live state with a previously captured Snapshot. The
// number of RAM/ROM banks must match what this AddressSpace was built with.
func (a *AddressSpace) Restore(s Snapshot) {
	a.lowRAM = s.LowRAM
	n := len(a.ramBanks)
	if len(s.RAMBanks) < n {
		n = len(s.RAMBanks)
	}
	copy(a.ramBanks, s.RAMBanks[:n])
	n = len(a.romBanks)
	if len(s.ROMBanks) < n {
		n = len(s.ROMBanks)
	}
	copy(a.romBanks, s.ROMBanks[:n])
	a.ramBank = s.RAMBank
	a.romBank = s.ROMBank
	a.emuState = s.EmuState
}
