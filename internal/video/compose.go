package video

const (
	isrVSYNC   = 0x01
	isrLINE    = 0x02
	isrSPRCOLL = 0x04
	isrAFLOW   = 0x08

	dcVideoModeMask = 0x03
	dcChromaDisable = 0x04
	dcLayer0Enable  = 0x10
	dcLayer1Enable  = 0x20
	dcSpriteEnable  = 0x40

	visibleWidth  = 640
	visibleHeight = 480
)

// Step advances the raster by the pixels corresponding to cycles CPU cycles
// at the given clock (mhz). It returns true exactly once per frame, when the
// scan position wraps past the bottom of the frame. A midline call with
// cycles=0 is a hint that a mid-scanline register write just happened;
// timing-sensitive raster effects rely on the caller making such a call
// before relying on the new register values, but this implementation does
// not split a scanline's render at the write point (see the design ledger).
func (c *Core) Step(mhz uint32, cycles uint32, midline bool) bool {
	if midline && cycles == 0 {
		return false
	}

	scanWidth := uint64(vgaScanWidth)
	if c.dc[0][0]&dcVideoModeMask >= 2 {
		scanWidth = ntscScanWidth
	}
	scanWidthQ16 := scanWidth << 16

	var delta uint64
	if mhz > 0 {
		delta = uint64(pixelFreqQ16) * uint64(cycles) / uint64(mhz)
	}
	c.hpos += uint32(delta)

	newFrame := false
	for uint64(c.hpos) >= scanWidthQ16 {
		c.hpos -= uint32(scanWidthQ16)
		c.renderScanline(c.scanline)
		c.pushHistory()
		c.scanline++

		if uint16(c.scanline) == c.lineCmp {
			c.isr |= isrLINE
		}
		if c.scanline >= frameLines {
			c.scanline = 0
			c.frameCount++
			newFrame = true
			c.isr |= isrVSYNC
			if c.collisionAccum != 0 {
				c.isr |= isrSPRCOLL
				c.isr = (c.isr & 0x0F) | c.collisionAccum<<4
				c.collisionAccum = 0
			}
		}
	}
	return newFrame
}

func (c *Core) pushHistory() {
	c.prevComposer[1] = c.prevComposer[0]
	c.prevComposer[0] = [8]uint8{
		c.dc[0][0], c.dc[0][1], c.dc[0][2], c.dc[0][3],
		c.dc[1][0], c.dc[1][1], c.dc[1][2], c.dc[1][3],
	}
	c.prevLayers[1] = c.prevLayers[0]
	c.prevLayers[0] = [2]layerRegs{c.layers[0], c.layers[1]}
}

func (c *Core) renderScanline(y int) {
	if y < 0 || y >= visibleHeight {
		return
	}
	comp := c.prevComposer[0]
	videoMode := comp[0] & dcVideoModeMask
	if videoMode == 0 {
		for x := 0; x < visibleWidth; x++ {
			c.FrameBuffer[y*visibleWidth+x] = 0xFF000000
		}
		return
	}

	hscale, vscale := comp[1], comp[2]
	borderColor := comp[3]
	hstart := clampAxis(uint16(comp[4])<<2, visibleWidth)
	hstop := clampAxis(uint16(comp[5])<<2, visibleWidth)
	vstart := clampAxis(uint16(comp[6])<<1, visibleHeight)
	vstop := clampAxis(uint16(comp[7])<<1, visibleHeight)

	effY := scaledPos(y, vstart, vscale)

	var l0, l1 [visibleWidth]uint8
	var sprIdx, sprZ [visibleWidth]uint8

	if comp[0]&dcLayer0Enable != 0 {
		c.renderLayerLine(0, effY, visibleWidth, l0[:])
	}
	if comp[0]&dcLayer1Enable != 0 {
		c.renderLayerLine(1, effY, visibleWidth, l1[:])
	}
	if comp[0]&dcSpriteEnable != 0 {
		c.renderSpriteLine(effY, visibleWidth, sprIdx[:], sprZ[:])
	}

	chromaOff := comp[0]&dcChromaDisable != 0
	overscan := c.inOverscan(y)
	inVWindow := y >= int(vstart) && y <= int(vstop)

	for x := 0; x < visibleWidth; x++ {
		var palIdx uint8
		if !inVWindow || x < int(hstart) || x >= int(hstop) {
			palIdx = borderColor
		} else {
			effX := scaledPos(x, hstart, hscale)
			if effX >= visibleWidth {
				effX = visibleWidth - 1
			}
			palIdx = composePixel(l0[effX], l1[effX], sprIdx[effX], sprZ[effX])
			if palIdx == 0 {
				palIdx = borderColor
			}
		}
		r, g, b := rgb888(c.Palette[palIdx])
		if chromaOff {
			r, g, b = grayscale(r, g, b)
		}
		if overscan || c.inOverscanX(x) {
			r, g, b = r>>2, g>>2, b>>2
		}
		c.FrameBuffer[y*visibleWidth+x] = packRGBA(r, g, b)
	}
}

func clampAxis(v uint16, axisLen int) uint16 {
	if int(v) > axisLen {
		return uint16(axisLen)
	}
	return v
}

// scaledPos maps an output coordinate to its scaled source coordinate: 0
// until pos passes start, then advancing by scale/128 per step past start.
// 128 is unity scale, matching the composer's 8-bit fixed point convention.
func scaledPos(pos int, start uint16, scale uint8) int {
	if pos <= int(start) {
		return 0
	}
	return (pos - int(start)) * int(scale) / 128
}

// inOverscan/inOverscanX implement the NTSC 7%/5% title-safe dimming rule.
func (c *Core) inOverscan(y int) bool {
	if c.dc[0][0]&dcVideoModeMask < 2 {
		return false
	}
	margin := visibleHeight * 5 / 100
	return y < margin || y >= visibleHeight-margin
}

func (c *Core) inOverscanX(x int) bool {
	if c.dc[0][0]&dcVideoModeMask < 2 {
		return false
	}
	margin := visibleWidth * 7 / 100
	return x < margin || x >= visibleWidth-margin
}

func composePixel(l0, l1, spr, z uint8) uint8 {
	switch z {
	case 3:
		if spr != 0 {
			return spr
		}
		if l1 != 0 {
			return l1
		}
		return l0
	case 2:
		if l1 != 0 {
			return l1
		}
		if spr != 0 {
			return spr
		}
		return l0
	case 1:
		if l1 != 0 {
			return l1
		}
		if l0 != 0 {
			return l0
		}
		return spr
	default:
		if l1 != 0 {
			return l1
		}
		return l0
	}
}

func packRGBA(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}
