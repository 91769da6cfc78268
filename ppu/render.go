package ppu

// TickDot advances the PPU by exactly one dot (1/3 of a CPU cycle). It
// drives the 341x262 scan geometry, the background shift-register pipeline,
// sprite evaluation for the following scanline, VBlank/NMI edges and the
// odd-frame dot skip.
func (p *PPU) TickDot() {
	if p.scanline == -1 && p.dot == 0 && p.oddFrame && p.renderingEnabled() {
		p.dot = 1 // skip the idle dot of the pre-render line on odd frames
	}

	switch {
	case p.scanline >= 0 && p.scanline < 240:
		p.visibleScanline()
	case p.scanline == 241 && p.dot == 1:
		if !p.suppressVBlank {
			p.status |= StatusVBlank
			if p.ctrl&CtrlGenerateNMI != 0 {
				p.nmiOutput = true
			}
		}
		p.suppressVBlank = false
		p.frameDone = true
	case p.scanline == -1:
		p.preRenderScanline()
	}

	if p.dotsSinceReset < resetIgnoreDots {
		p.dotsSinceReset++
	}
	p.openBusDots++
	if p.openBusDots == openBusDecayDots {
		p.openBus = 0
	}

	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) preRenderScanline() {
	if p.dot == 1 {
		p.status &^= StatusVBlank | StatusSprite0Hit | StatusSpriteOverflow
		p.nmiOutput = false
	}
	if !p.renderingEnabled() {
		return
	}
	if p.dot >= 280 && p.dot <= 304 {
		p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0) // copy vertical bits from t
	}
	p.backgroundFetch()
	if p.dot == 257 {
		p.copyHorizontalBits()
		p.evaluateSprites()
	}
}

func (p *PPU) visibleScanline() {
	if p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}
	p.backgroundFetch()
	if p.dot == 257 {
		p.copyHorizontalBits()
		p.evaluateSprites()
	}
}

func (p *PPU) copyHorizontalBits() {
	if p.renderingEnabled() {
		p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
	}
}

// backgroundFetch reloads the tile shift registers every 8 dots across the
// visible (1-256) and next-scanline prefetch (321-336) windows, and shifts
// every dot rendering is active.
func (p *PPU) backgroundFetch() {
	if !p.renderingEnabled() {
		return
	}
	inFetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if inFetchWindow {
		if p.dot%8 == 1 {
			p.fetchTile()
		}
		p.bgShiftLo <<= 1
		p.bgShiftHi <<= 1
		p.bgShiftAttrLo = p.bgShiftAttrLo<<1 | uint16(p.bgAttr&0x01)
		p.bgShiftAttrHi = p.bgShiftAttrHi<<1 | uint16((p.bgAttr>>1)&0x01)
	}
	if p.dot == 256 {
		p.incrementVertical()
	}
	if p.dot == 328 || p.dot == 336 {
		// coarse X wraps as part of the final fetch of the window
	}
}

func (p *PPU) fetchTile() {
	ntAddr := 0x2000 | (p.v & 0x0FFF)
	p.bgNametable = p.readVRAM(ntAddr)

	atAddr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	at := p.readVRAM(atAddr)
	shift := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	p.bgAttr = (at >> shift) & 0x03

	patternBase := uint16(0)
	if p.ctrl&CtrlBGPatternAddr != 0 {
		patternBase = 0x1000
	}
	fineY := (p.v >> 12) & 0x07
	tileAddr := patternBase + uint16(p.bgNametable)*16 + fineY
	p.bgLo = p.readVRAM(tileAddr)
	p.bgHi = p.readVRAM(tileAddr + 8)

	p.bgShiftLo = p.bgShiftLo&0xFF00 | uint16(p.bgLo)
	p.bgShiftHi = p.bgShiftHi&0xFF00 | uint16(p.bgHi)

	p.incrementCoarseX()
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementVertical() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	bgPixel, bgOpaque := p.backgroundPixelAt()
	sprPixel, sprOpaque, sprPriority, isZero := p.spritePixelAt(x)

	if x < 8 {
		if p.mask&MaskShowBGLeft == 0 {
			bgPixel, bgOpaque = 0, false
		}
		if p.mask&MaskShowSpriteLeft == 0 {
			sprPixel, sprOpaque, isZero = 0, false, false
		}
	}

	var paletteAddr uint16
	switch {
	case !bgOpaque && !sprOpaque:
		paletteAddr = 0x3F00
	case !bgOpaque && sprOpaque:
		paletteAddr = 0x3F10 + uint16(sprPixel)
	case bgOpaque && !sprOpaque:
		paletteAddr = 0x3F00 + uint16(bgPixel)
	default:
		// Sprite 0 hit never fires at x=255 (the last visible dot, where
		// real hardware's comparator is already loading the next tile) or
		// on scanline 239, the last visible one.
		if isZero && x != 255 && p.scanline < 239 {
			p.status |= StatusSprite0Hit
		}
		if sprPriority {
			paletteAddr = 0x3F00 + uint16(bgPixel)
		} else {
			paletteAddr = 0x3F10 + uint16(sprPixel)
		}
	}

	v := uint16(p.readPalette(paletteAddr))
	v |= uint16(p.mask&(MaskGrayscale|MaskEmphasizeRed|MaskEmphasizeGreen|MaskEmphasizeBlue)) << 6
	if p.scanline >= 0 && int(x) < Width {
		p.frame[int(p.scanline)*Width+int(x)] = v
	}
}

func (p *PPU) backgroundPixelAt() (uint8, bool) {
	if p.mask&MaskShowBG == 0 {
		return 0, false
	}
	shift := uint(15 - p.x)
	lo := uint8(p.bgShiftLo>>shift) & 1
	hi := uint8(p.bgShiftHi>>shift) & 1
	at := uint8(p.bgShiftAttrLo>>shift)&1 | uint8(p.bgShiftAttrHi>>shift)&1<<1
	pix := lo | hi<<1
	if pix == 0 {
		return 0, false
	}
	return at<<2 | pix, true
}

func (p *PPU) spritePixelAt(x int32) (pixel uint8, opaque bool, behindBG bool, isZero bool) {
	if p.mask&MaskShowSprites == 0 {
		return 0, false, false, false
	}
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		if int32(s.x) > x || x >= int32(s.x)+8 {
			continue
		}
		shift := uint(x - int32(s.x))
		if s.attr&0x40 != 0 {
			shift = 7 - shift
		}
		lo := (s.patternLo >> (7 - shift)) & 1
		hi := (s.patternHi >> (7 - shift)) & 1
		pix := lo | hi<<1
		if pix == 0 {
			continue
		}
		return s.attr&0x03<<2 | pix, true, s.attr&0x20 != 0, s.isSpriteZero
	}
	return 0, false, false, false
}

// evaluateSprites scans primary OAM for sprites visible on the next
// scanline. Once secondary OAM fills with 8 sprites, real hardware doesn't
// cleanly stop: it keeps comparing OAM bytes as Y-coordinates with n (the
// sprite index) and m (the byte within it) both advancing on a miss, so
// subsequent checks drift onto tile/attribute/X bytes instead of the next
// sprite's Y. This reproduces that (n,m) walk rather than a clean 9th-sprite
// check.
// https://www.nesdev.org/wiki/PPU_sprite_evaluation
func (p *PPU) evaluateSprites() {
	spriteHeight := int32(8)
	if p.ctrl&CtrlSpriteSize != 0 {
		spriteHeight = 16
	}
	targetLine := p.scanline + 1
	inRange := func(y int32) bool { return targetLine >= y && targetLine < y+spriteHeight }

	p.spriteCount = 0
	overflow := false

	n := 0
	for n < 64 && p.spriteCount < 8 {
		y := int32(p.oam[n*4])
		if inRange(y) {
			p.loadSprite(p.spriteCount, n, targetLine, spriteHeight)
			p.spriteCount++
		}
		n++
	}

	m := 0
	for n < 64 {
		y := int32(p.oam[n*4+m])
		if inRange(y) {
			overflow = true
			m++
			if m == 4 {
				m = 0
				n++
			}
		} else {
			// The hardware bug: a miss still advances both n and m, so the
			// next comparison lands on a misaligned OAM byte instead of the
			// next sprite's Y-coordinate.
			n++
			m = (m + 1) % 4
		}
	}
	if overflow {
		p.status |= StatusSpriteOverflow
	}
}

func (p *PPU) loadSprite(slot, oamIndex int, targetLine, spriteHeight int32) {
	base := oamIndex * 4
	y := int32(p.oam[base])
	tile := p.oam[base+1]
	attr := p.oam[base+2]
	x := p.oam[base+3]

	row := targetLine - y
	if attr&0x80 != 0 { // vertical flip
		row = spriteHeight - 1 - row
	}

	var patternAddr uint16
	if spriteHeight == 16 {
		table := uint16(tile&0x01) * 0x1000
		tileIdx := uint16(tile &^ 0x01)
		if row >= 8 {
			tileIdx++
			row -= 8
		}
		patternAddr = table + tileIdx*16 + uint16(row)
	} else {
		table := uint16(0)
		if p.ctrl&CtrlSpritePatternAddr != 0 {
			table = 0x1000
		}
		patternAddr = table + uint16(tile)*16 + uint16(row)
	}

	p.sprites[slot] = spriteUnit{
		patternLo:    p.readVRAM(patternAddr),
		patternHi:    p.readVRAM(patternAddr + 8),
		attr:         attr,
		x:            x,
		isSpriteZero: oamIndex == 0,
	}
}
