package ppu

// Background shifter maintenance and per-dot pixel composition.

// loadBackgroundShifters reloads the low bytes of the pattern shifters
// with the latched next-tile row and inflates the tile's 2-bit attribute
// across the attribute shifters.
func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = p.bgShifterPatternLo&0xFF00 | uint16(p.bgNextTileLSB)
	p.bgShifterPatternHi = p.bgShifterPatternHi&0xFF00 | uint16(p.bgNextTileMSB)

	p.bgShifterAttrLo &= 0xFF00
	if p.bgNextTileAttr&0x01 != 0 {
		p.bgShifterAttrLo |= 0x00FF
	}
	p.bgShifterAttrHi &= 0xFF00
	if p.bgNextTileAttr&0x02 != 0 {
		p.bgShifterAttrHi |= 0x00FF
	}
}

// updateShifters advances the background shifters one bit and counts
// sprite X positions down, shifting a sprite's pattern once its counter
// reaches the current dot.
func (p *PPU) updateShifters() {
	if p.mask.ShowBackground() {
		p.bgShifterPatternLo <<= 1
		p.bgShifterPatternHi <<= 1
		p.bgShifterAttrLo <<= 1
		p.bgShifterAttrHi <<= 1
	}

	if p.mask.ShowSprites() && p.cycle >= 1 && p.cycle < 258 {
		for i := 0; i < p.sprCount; i++ {
			if p.sprScanline[i].X > 0 {
				p.sprScanline[i].X--
			} else {
				p.sprShifterPatternLo[i] <<= 1
				p.sprShifterPatternHi[i] <<= 1
			}
		}
	}
}

// composePixel muxes the background and foreground pixels for the current
// dot, applies sprite priority and sprite-0 hit detection, and writes the
// resulting palette colour to the working screen.
func (p *PPU) composePixel() {
	var bgPixel, bgPalette uint8

	if p.mask.ShowBackground() {
		bitMux := uint16(0x8000) >> p.fineX

		if p.bgShifterPatternLo&bitMux != 0 {
			bgPixel |= 0x01
		}
		if p.bgShifterPatternHi&bitMux != 0 {
			bgPixel |= 0x02
		}
		if p.bgShifterAttrLo&bitMux != 0 {
			bgPalette |= 0x01
		}
		if p.bgShifterAttrHi&bitMux != 0 {
			bgPalette |= 0x02
		}
	}

	var fgPixel, fgPalette uint8
	fgBehind := false

	if p.mask.ShowSprites() {
		p.spr0Rendering = false

		// Sprite priority among sprites is their OAM order: the first
		// one with an opaque pixel at this dot wins.
		for i := 0; i < p.sprCount; i++ {
			if p.sprScanline[i].X != 0 {
				continue
			}

			if p.sprShifterPatternLo[i]&0x80 != 0 {
				fgPixel |= 0x01
			}
			if p.sprShifterPatternHi[i]&0x80 != 0 {
				fgPixel |= 0x02
			}

			if fgPixel != 0 {
				fgPalette = p.sprScanline[i].Attr&attrPalette + 4
				fgBehind = p.sprScanline[i].Attr&attrBehindBG != 0
				if i == 0 {
					p.spr0Rendering = true
				}
				break
			}
		}
	}

	var pixel, palette uint8

	switch {
	case bgPixel == 0 && fgPixel == 0:
		// Both transparent: backdrop colour.
	case bgPixel == 0:
		pixel, palette = fgPixel, fgPalette
	case fgPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if fgBehind {
			pixel, palette = bgPixel, bgPalette
		} else {
			pixel, palette = fgPixel, fgPalette
		}

		p.checkSprite0Hit()
	}

	// With both left-column bits clear the first 8 pixels show the
	// backdrop.
	if !p.mask.ShowBackgroundLeft() && !p.mask.ShowSpritesLeft() && p.cycle < 9 {
		pixel, palette = 0, 0
	}

	x := p.cycle - 1
	y := p.scanline
	p.screen[y*ScreenWidth+x] = p.colorFromPalette(palette, pixel)
}

// checkSprite0Hit raises the sprite-0 hit status bit when sprite 0 is the
// sprite being drawn over an opaque background pixel. With left-column
// clipping on for either layer the window narrows to cycles 9-257; the
// hit never fires at cycle 256.
func (p *PPU) checkSprite0Hit() {
	if !p.spr0CanHit || !p.spr0Rendering {
		return
	}
	if !p.mask.ShowBackground() || !p.mask.ShowSprites() {
		return
	}
	if p.cycle == 256 || p.cycle >= 258 {
		return
	}

	clipping := !p.mask.ShowBackgroundLeft() || !p.mask.ShowSpritesLeft()
	if clipping && p.cycle < 9 {
		return
	}

	p.status.SetSprite0Hit(true)
}
