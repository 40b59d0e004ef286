package ppu

// masterPalette is the 64-colour NES hardware palette as packed ARGB
// (A in bits 24-31, R in 16-23, G in 8-15, B in 0-7), using the standard
// NTSC colours.
var masterPalette = [64]uint32{
	argb(84, 84, 84), argb(0, 30, 116), argb(8, 16, 144), argb(48, 0, 136),
	argb(68, 0, 100), argb(92, 0, 48), argb(84, 4, 0), argb(60, 24, 0),
	argb(32, 42, 0), argb(8, 58, 0), argb(0, 64, 0), argb(0, 60, 0),
	argb(0, 50, 60), argb(0, 0, 0), argb(0, 0, 0), argb(0, 0, 0),

	argb(152, 150, 152), argb(8, 76, 196), argb(48, 50, 236), argb(92, 30, 228),
	argb(136, 20, 176), argb(160, 20, 100), argb(152, 34, 32), argb(120, 60, 0),
	argb(84, 90, 0), argb(40, 114, 0), argb(8, 124, 0), argb(0, 118, 40),
	argb(0, 102, 120), argb(0, 0, 0), argb(0, 0, 0), argb(0, 0, 0),

	argb(236, 238, 236), argb(76, 154, 236), argb(120, 124, 236), argb(176, 98, 236),
	argb(228, 84, 236), argb(236, 88, 180), argb(236, 106, 100), argb(212, 136, 32),
	argb(160, 170, 0), argb(116, 196, 0), argb(76, 208, 32), argb(56, 204, 108),
	argb(56, 180, 204), argb(60, 60, 60), argb(0, 0, 0), argb(0, 0, 0),

	argb(236, 238, 236), argb(168, 204, 236), argb(188, 188, 236), argb(212, 178, 236),
	argb(236, 174, 236), argb(236, 174, 212), argb(236, 180, 176), argb(228, 196, 144),
	argb(204, 210, 120), argb(180, 222, 120), argb(168, 226, 144), argb(152, 226, 180),
	argb(160, 214, 228), argb(160, 162, 160), argb(0, 0, 0), argb(0, 0, 0),
}

func argb(r, g, b uint32) uint32 {
	return 0xFF000000 | r<<16 | g<<8 | b
}

// colorFromPalette resolves a (palette, pixel) pair through palette RAM
// to a master-palette ARGB colour.
func (p *PPU) colorFromPalette(palette, pixel uint8) uint32 {
	idx := p.read(0x3F00 + uint16(palette)<<2 + uint16(pixel))
	return masterPalette[idx&0x3F]
}
