// Package video implements the VERA-style video co-processor: a 32-byte CPU
// register window, 128 KiB of VRAM, a 256-entry palette, two tile/bitmap
// layers, 128 sprites, and a scanline-driven composer with raster IRQs.
package video

import "commanderx16emu/internal/debug"

const (
	vramSize    = 128 * 1024
	paletteSize = 256 * 2 // 2 bytes/entry, RGB444 packed little-endian
	oamBase     = 0x1FC00 // sprite attribute table mirrored from VRAM
	oamSize     = 128 * 8
	spriteCount = 128

	// pixelFreqQ16 is the VERA dot clock scaled so that step(mhz, cycles, ...)
	// advances the horizontal position by pixelFreqQ16*cycles/mhz. 25.2 MHz
	// dot clock, Q16.16 fixed point.
	pixelFreqQ16 = (25200000 << 16) / 1000000

	vgaScanWidth  = 800
	ntscScanWidth = 794
	frameLines    = 525
)

// Core is the VERA-style co-processor. It is driven by Step, which the
// scheduler calls once per CPU instruction with the elapsed cycle count.
type Core struct {
	VRAM    [vramSize]uint8
	Palette [256]uint16 // RGB444, little-endian on the wire

	ports [2]dataPort

	ctrl     uint8 // bit0 ADDRSEL, bits1-6 DCSEL, bit7 stored only (no reset action)
	ien      uint8
	isr      uint8
	lineCmp  uint16 // 9-bit raster-compare line

	dc [64][4]uint8 // DCSEL-switched register file

	layers  [2]layerRegs
	lprops  [2]layerProps
	sprites [spriteCount]spriteAttr

	// composer/timing state
	hpos       uint32 // Q16.16 horizontal position
	scanline   int
	frameCount uint64
	output     uint32 // off=0, VGA=1, NTSC-I=2, NTSC-P=3 (from dc[0][0])

	// pipeline-latency history: index 0 is "one line ago", 1 is "two lines ago"
	prevComposer [2][8]uint8
	prevLayers   [2][2]layerRegs

	collisionAccum uint8
	fx             fxEngine

	FrameBuffer [640 * 480]uint32 // RGBA8888, widest supported mode

	Logger *debug.Logger
}

type dataPort struct {
	addr      uint32 // 17-bit VRAM address
	nibblePtr bool
	nibbleInc bool
	incCode   uint8
	prefetch  uint8
}

// incTable holds the 32 signed auto-increment strides selectable per port.
// Codes 0-15 are the positive/zero values; 16-31 are their negations.
var incTable = func() [32]int32 {
	base := [16]int32{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 40, 80, 160, 320, 640}
	var t [32]int32
	for i, v := range base {
		t[i] = v
		t[i+16] = -v
	}
	return t
}()

// New creates a Core with VRAM zeroed and the default palette installed.
func New() *Core {
	c := &Core{}
	c.Reset()
	return c
}

// Reset clears the I/O registers, installs the default palette, zeroes VRAM,
// and resets the raster position to (0,0).
func (c *Core) Reset() {
	for i := range c.VRAM {
		c.VRAM[i] = 0
	}
	installDefaultPalette(&c.Palette)
	c.ports = [2]dataPort{}
	c.ctrl = 0
	c.ien = 0
	c.isr = 0
	c.lineCmp = 0
	c.dc = [64][4]uint8{}
	c.dc[0][1] = 128  // hscale = 1.0
	c.dc[0][2] = 128  // vscale = 1.0
	c.dc[1][1] = 640 >> 2 // hstop = full width
	c.dc[1][3] = 480 >> 1 // vstop = full height
	c.layers = [2]layerRegs{}
	for i := range c.lprops {
		c.recomputeLayerProps(i)
	}
	c.sprites = [spriteCount]spriteAttr{}
	c.hpos = 0
	c.scanline = 0
	c.frameCount = 0
	c.output = 0
	c.prevComposer = [2][8]uint8{}
	c.prevLayers = [2][2]layerRegs{}
	c.collisionAccum = 0
	c.fx = fxEngine{}
}

func (c *Core) activePort() int {
	if c.ctrl&0x01 != 0 {
		return 1
	}
	return 0
}

func (c *Core) dcsel() int { return int((c.ctrl >> 1) & 0x3F) }

// Read implements addrspace.IOHandler: CPU-visible register reads, with VRAM
// data-port side effects (prefetch advance).
func (c *Core) Read(reg uint8) uint8 {
	return c.read(reg, false)
}

// DebugRead performs the same decode with no side effects: no port advance,
// no log emission.
func (c *Core) DebugRead(reg uint8) uint8 {
	return c.read(reg, true)
}

func (c *Core) read(reg uint8, debugOnly bool) uint8 {
	p := &c.ports[c.activePort()]
	switch reg {
	case 0x00:
		return uint8(p.addr)
	case 0x01:
		return uint8(p.addr >> 8)
	case 0x02:
		return addrHHByte(p)
	case 0x03:
		return c.readData(0, debugOnly)
	case 0x04:
		return c.readData(1, debugOnly)
	case 0x05:
		return c.ctrl
	case 0x06:
		return c.ien
	case 0x07:
		return c.isr
	case 0x08:
		return uint8(c.lineCmp)
	case 0x09, 0x0A, 0x0B, 0x0C:
		return c.dc[c.dcsel()][reg-0x09]
	default:
		return c.readAux(reg)
	}
}

func (c *Core) readData(port int, debugOnly bool) uint8 {
	p := &c.ports[port]
	v := p.prefetch
	if !debugOnly {
		c.advancePort(p)
	}
	return v
}

func (c *Core) advancePort(p *dataPort) {
	step := incTable[p.incCode&0x1F]
	if p.nibbleInc {
		if step >= 0 {
			p.addr += uint32(step) / 2
		} else {
			p.addr -= uint32(-step) / 2
		}
	} else {
		p.addr = uint32(int64(p.addr)+int64(step)) & 0x1FFFF
	}
	p.addr &= 0x1FFFF
	p.prefetch = c.vramRead(p.addr)
}

// Write implements addrspace.IOHandler.
func (c *Core) Write(reg uint8, v uint8) {
	p := &c.ports[c.activePort()]
	switch reg {
	case 0x00:
		p.addr = (p.addr &^ 0x0FF) | uint32(v)
		p.prefetch = c.vramRead(p.addr)
	case 0x01:
		p.addr = (p.addr &^ 0xFF00) | uint32(v)<<8
		p.prefetch = c.vramRead(p.addr)
	case 0x02:
		p.addr = (p.addr &^ 0x10000) | uint32(v&0x01)<<16
		p.nibblePtr = v&0x02 != 0
		p.nibbleInc = v&0x04 != 0
		p.incCode = v >> 3
		p.prefetch = c.vramRead(p.addr)
	case 0x03:
		c.writeData(0, v)
	case 0x04:
		c.writeData(1, v)
	case 0x05:
		c.ctrl = v
	case 0x06:
		c.ien = v
	case 0x07:
		c.isr &^= v & 0x0F // write-1-to-clear, low nibble
	case 0x08:
		c.lineCmp = (c.lineCmp &^ 0xFF) | uint16(v)
	case 0x09, 0x0A, 0x0B, 0x0C:
		c.writeDC(c.dcsel(), int(reg-0x09), v)
	default:
		c.writeAux(reg, v)
	}
}

func (c *Core) writeData(port int, v uint8) {
	p := &c.ports[port]
	c.vramWrite(p.addr, v)
	c.advancePort(p)
}

func addrHHByte(p *dataPort) uint8 {
	var b uint8
	if p.addr&0x10000 != 0 {
		b |= 0x01
	}
	if p.nibblePtr {
		b |= 0x02
	}
	if p.nibbleInc {
		b |= 0x04
	}
	b |= p.incCode << 3
	return b
}

func (c *Core) vramRead(addr uint32) uint8 {
	return c.VRAM[addr&(vramSize-1)]
}

func (c *Core) vramWrite(addr uint32, v uint8) {
	a := addr & (vramSize - 1)
	c.VRAM[a] = v
	if a >= oamBase && a < oamBase+oamSize {
		c.recomputeSpriteProps(int((a - oamBase) / 8))
	}
}

// IRQLine reports the composed interrupt line: (ISR & IEN) != 0.
func (c *Core) IRQLine() bool {
	return c.isr&c.ien&0x0F != 0
}

// PortState is the gob-encodable mirror of a data port, since dataPort's
// own fields are unexported.
type PortState struct {
	Addr      uint32
	NibblePtr bool
	NibbleInc bool
	IncCode   uint8
	Prefetch  uint8
}

// Snapshot is the gob-encodable save-state view of a Core: VRAM, palette,
// registers, and raster position. Cached derived state (layer/sprite
// properties) is not persisted; it is recomputed from the raw registers on
// Restore.
type Snapshot struct {
	VRAM    [vramSize]uint8
	Palette [256]uint16
	Ports   [2]PortState
	Ctrl    uint8
	IEN     uint8
	ISR     uint8
	LineCmp uint16
	DC      [64][4]uint8
	HPos    uint32
	Scanline int
	FrameCount uint64
}

func (c *Core) Snapshot() Snapshot {
	s := Snapshot{
		VRAM:    c.VRAM,
		Palette: c.Palette,
		Ctrl:    c.ctrl,
		IEN:     c.ien,
		ISR:     c.isr,
		LineCmp: c.lineCmp,
		DC:      c.dc,
		HPos:    c.hpos,
		Scanline: c.scanline,
		FrameCount: c.frameCount,
	}
	for i, p := range c.ports {
		s.Ports[i] = PortState{p.addr, p.nibblePtr, p.nibbleInc, p.incCode, p.prefetch}
	}
	return s
}

// Restore replaces the live state with a previously captured Snapshot and
// recomputes every cached derived property (layers, sprites).
func (c *Core) Restore(s Snapshot) {
	c.VRAM = s.VRAM
	c.Palette = s.Palette
	c.ctrl = s.Ctrl
	c.ien = s.IEN
	c.isr = s.ISR
	c.lineCmp = s.LineCmp
	c.dc = s.DC
	c.hpos = s.HPos
	c.scanline = s.Scanline
	c.frameCount = s.FrameCount
	for i, p := range s.Ports {
		c.ports[i] = dataPort{p.Addr, p.NibblePtr, p.NibbleInc, p.IncCode, p.Prefetch}
	}
	c.recomputeLayerProps(0)
	c.recomputeLayerProps(1)
	for i := range c.sprites {
		c.recomputeSpriteProps(i)
	}
}
