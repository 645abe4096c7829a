package video

// layerRegs is the raw 7-byte register set for one layer, stored across two
// DCSEL slots (2 and 3 for layer 0, 4 and 5 for layer 1).
type layerRegs struct {
	config  uint8 // bits0-1 bpp code, bit2 bitmap, bits4-5 mapw, bits6-7 maph (text/tile mode)
	mapBase uint8
	tileBase uint8 // bits0-1 tile w/h select, bits2-7 base>>11
	hScrollL uint8
	hScrollH uint8
	vScrollL uint8
	vScrollH uint8
}

// layerProps is the recomputed, render-ready view of a layerRegs: the spec
// calls this caching out explicitly so the per-pixel renderer never has to
// decode bitfields.
type layerProps struct {
	bitmap     bool
	bpp        uint8 // 0 = text mode, else 1/2/4/8
	mapBaseAddr uint32
	tileBaseAddr uint32
	mapWLog2   uint8 // 5..8 (32..256)
	mapHLog2   uint8
	tileWLog2  uint8 // 3 or 4 (8 or 16)
	tileHLog2  uint8
	hScroll    uint16
	vScroll    uint16
	bitmapWidth uint16 // 320 or 640, bitmap mode only
}

func (c *Core) layerRegsFor(layer int) layerRegs {
	lo := c.dc[2+layer*2]
	hi := c.dc[3+layer*2]
	return layerRegs{
		config:   lo[0],
		mapBase:  lo[1],
		tileBase: lo[2],
		hScrollL: lo[3],
		hScrollH: hi[0],
		vScrollL: hi[1],
		vScrollH: hi[2],
	}
}

func (c *Core) writeDC(dcsel, idx int, v uint8) {
	c.dc[dcsel][idx] = v
	switch {
	case dcsel == 2 || dcsel == 3:
		c.recomputeLayerProps(0)
	case dcsel == 4 || dcsel == 5:
		c.recomputeLayerProps(1)
	}
}

func (c *Core) recomputeLayerProps(layer int) {
	r := c.layerRegsFor(layer)
	c.layers[layer] = r

	bppCode := r.config & 0x03
	bpp := [4]uint8{1, 2, 4, 8}[bppCode]
	bitmap := r.config&0x04 != 0
	if bppCode == 0 && !bitmap {
		bpp = 0 // text mode
	}

	p := layerProps{
		bitmap:       bitmap,
		bpp:          bpp,
		mapBaseAddr:  uint32(r.mapBase) << 9,
		tileBaseAddr: uint32(r.tileBase>>2) << 11,
		mapWLog2:     5 + (r.config>>4)&0x03,
		mapHLog2:     5 + (r.config>>6)&0x03,
		hScroll:      uint16(r.hScrollL) | uint16(r.hScrollH&0x0F)<<8,
		vScroll:      uint16(r.vScrollL) | uint16(r.vScrollH&0x0F)<<8,
	}
	if r.tileBase&0x02 != 0 {
		p.tileHLog2 = 4
	} else {
		p.tileHLog2 = 3
	}
	if r.tileBase&0x01 != 0 {
		p.tileWLog2 = 4
	} else {
		p.tileWLog2 = 3
	}
	if bitmap {
		if r.tileBase&0x01 != 0 {
			p.bitmapWidth = 640
		} else {
			p.bitmapWidth = 320
		}
	}
	c.lprops[layer] = p
}

// renderLayerLine fills dst (one scanline, palette indices, 0 = transparent)
// for the given layer at output row y. The map entry is read for every output
// pixel; map-row reads are not batched.
func (c *Core) renderLayerLine(layer int, y int, width int, dst []uint8) {
	p := &c.lprops[layer]
	if p.bitmap {
		c.renderBitmapLine(layer, y, width, dst)
		return
	}

	tileW := 1 << p.tileWLog2
	tileH := 1 << p.tileHLog2
	mapW := 1 << p.mapWLog2
	mapH := 1 << p.mapHLog2
	mapPixelW := mapW * tileW
	mapPixelH := mapH * tileH

	worldY := (y + int(p.vScroll)) & (mapPixelH - 1)
	tileRow := worldY / tileH
	rowInTile := worldY % tileH

	for x := 0; x < width; x++ {
		worldX := (x + int(p.hScroll)) & (mapPixelW - 1)
		tileCol := worldX / tileW
		colInTile := worldX % tileW

		mapAddr := p.mapBaseAddr + uint32(tileRow*mapW+tileCol)*2
		tileIdx := c.vramRead(mapAddr)
		attr := c.vramRead(mapAddr + 1)

		dst[x] = c.sampleTile(p, tileIdx, attr, colInTile, rowInTile, tileW, tileH)
	}
}

func (c *Core) sampleTile(p *layerProps, tileIdx, attr uint8, col, row, tileW, tileH int) uint8 {
	if p.bpp == 0 {
		// text mode: tileIdx is glyph, attr is fg(0-3)/bg(4-7) nibbles,
		// glyph bitmap is 1bpp, 8x8 fixed regardless of tileW/H.
		glyphAddr := p.tileBaseAddr + uint32(tileIdx)*8 + uint32(row&7)
		bits := c.vramRead(glyphAddr)
		bit := (bits >> (7 - (col & 7))) & 1
		if bit != 0 {
			return attr & 0x0F
		}
		return (attr >> 4) & 0x0F
	}

	if attr&0x04 != 0 { // horizontal flip
		col = tileW - 1 - col
	}
	if attr&0x08 != 0 { // vertical flip
		row = tileH - 1 - row
	}

	bytesPerRow := (tileW * int(p.bpp)) / 8
	if bytesPerRow < 1 {
		bytesPerRow = 1
	}
	tileSize := uint32(bytesPerRow * tileH)
	base := p.tileBaseAddr + uint32(tileIdx)*tileSize + uint32(row*bytesPerRow)

	// High nibble of the map attribute byte is a palette offset, added to
	// any color index in 1..15 regardless of bpp. 8bpp indices of 16+
	// already select their own palette entry and are left alone.
	paletteOffset := attr & 0xF0

	var v uint8
	switch p.bpp {
	case 1:
		b := c.vramRead(base + uint32(col/8))
		v = (b >> (7 - uint(col%8))) & 1
	case 2:
		b := c.vramRead(base + uint32(col/4))
		shift := uint(6 - 2*(col%4))
		v = (b >> shift) & 0x03
	case 4:
		b := c.vramRead(base + uint32(col/2))
		if col%2 == 0 {
			v = b >> 4
		} else {
			v = b & 0x0F
		}
	default: // 8bpp
		v = c.vramRead(base + uint32(col))
	}
	if v > 0 && v < 16 {
		v += paletteOffset
	}
	return v
}

func (c *Core) renderBitmapLine(layer int, y int, width int, dst []uint8) {
	p := &c.lprops[layer]
	bytesPerRow := (int(p.bitmapWidth) * int(p.bpp)) / 8
	row := (y + int(p.vScroll)) % 480
	base := p.tileBaseAddr + uint32(row*bytesPerRow)

	for x := 0; x < width && x < int(p.bitmapWidth); x++ {
		switch p.bpp {
		case 1:
			b := c.vramRead(base + uint32(x/8))
			dst[x] = (b >> (7 - uint(x%8))) & 1
		case 2:
			b := c.vramRead(base + uint32(x/4))
			dst[x] = (b >> uint(6-2*(x%4))) & 0x03
		case 4:
			b := c.vramRead(base + uint32(x/2))
			if x%2 == 0 {
				dst[x] = b >> 4
			} else {
				dst[x] = b & 0x0F
			}
		default:
			dst[x] = c.vramRead(base + uint32(x))
		}
	}
}
