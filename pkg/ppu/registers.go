package ppu

// The CPU-visible registers and the internal scroll registers are plain
// bytes/words wrapped in small types whose accessors name the fields, so
// the bit layout lives in exactly one place.

// Control is the PPUCTRL register ($2000), write only.
//
// Bit layout (VPHB SINN):
//
//	7:   V = NMI enable
//	6:   P = master/slave select (unused on the NES)
//	5:   H = sprite height (0: 8x8; 1: 8x16)
//	4:   B = background pattern table (0: $0000; 1: $1000)
//	3:   S = sprite pattern table (0: $0000; 1: $1000)
//	2:   I = VRAM increment (0: add 1; 1: add 32)
//	1-0: NN = base nametable select
type Control struct {
	reg uint8
}

func (c *Control) Set(value uint8) { c.reg = value }
func (c *Control) Get() uint8      { return c.reg }

func (c *Control) NametableX() uint16 { return uint16(c.reg & 0x01) }
func (c *Control) NametableY() uint16 { return uint16(c.reg>>1) & 0x01 }

// Increment returns the VRAM auto-increment step, 1 or 32.
func (c *Control) Increment() uint16 {
	if c.reg&0x04 != 0 {
		return 32
	}
	return 1
}

// SpritePatternTable returns $0000 or $1000 (8x8 sprites only).
func (c *Control) SpritePatternTable() uint16 {
	if c.reg&0x08 != 0 {
		return 0x1000
	}
	return 0x0000
}

// BackgroundPatternTable returns $0000 or $1000.
func (c *Control) BackgroundPatternTable() uint16 {
	if c.reg&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}

// SpriteHeight returns 8 or 16 pixels per the sprite size bit.
func (c *Control) SpriteHeight() int {
	if c.reg&0x20 != 0 {
		return 16
	}
	return 8
}

// NMIEnabled reports whether vblank raises NMI.
func (c *Control) NMIEnabled() bool { return c.reg&0x80 != 0 }

// Mask is the PPUMASK register ($2001), write only.
//
// Bit layout (BGRs bMmG):
//
//	7-5: colour emphasis
//	4:   show sprites
//	3:   show background
//	2:   show sprites in the left 8 columns
//	1:   show background in the left 8 columns
//	0:   grayscale
type Mask struct {
	reg uint8
}

func (m *Mask) Set(value uint8) { m.reg = value }
func (m *Mask) Get() uint8      { return m.reg }

func (m *Mask) Grayscale() bool          { return m.reg&0x01 != 0 }
func (m *Mask) ShowBackgroundLeft() bool { return m.reg&0x02 != 0 }
func (m *Mask) ShowSpritesLeft() bool    { return m.reg&0x04 != 0 }
func (m *Mask) ShowBackground() bool     { return m.reg&0x08 != 0 }
func (m *Mask) ShowSprites() bool        { return m.reg&0x10 != 0 }
func (m *Mask) RenderingEnabled() bool   { return m.reg&0x18 != 0 }

// Status is the PPUSTATUS register ($2002), read only.
//
// Bit layout (VSO- ----): vblank, sprite-0 hit, sprite overflow; the low
// five bits float and read back from the data buffer.
type Status struct {
	reg uint8
}

func (s *Status) Set(value uint8) { s.reg = value }
func (s *Status) Get() uint8      { return s.reg }

func (s *Status) SetVBlank(v bool)         { s.setBit(0x80, v) }
func (s *Status) VBlank() bool             { return s.reg&0x80 != 0 }
func (s *Status) SetSprite0Hit(v bool)     { s.setBit(0x40, v) }
func (s *Status) Sprite0Hit() bool         { return s.reg&0x40 != 0 }
func (s *Status) SetSpriteOverflow(v bool) { s.setBit(0x20, v) }
func (s *Status) SpriteOverflow() bool     { return s.reg&0x20 != 0 }

func (s *Status) setBit(mask uint8, v bool) {
	if v {
		s.reg |= mask
	} else {
		s.reg &^= mask
	}
}

// Loopy is one of the PPU's 15-bit composite scroll registers (the V and
// T of Loopy's documentation).
//
// Bit layout (yyy NN YYYYY XXXXX):
//
//	14-12: fine Y scroll
//	11:    nametable Y
//	10:    nametable X
//	9-5:   coarse Y scroll
//	4-0:   coarse X scroll
type Loopy struct {
	reg uint16
}

func (l *Loopy) Set(value uint16) { l.reg = value & 0x7FFF }
func (l *Loopy) Get() uint16      { return l.reg }

func (l *Loopy) CoarseX() uint16 { return l.reg & 0x001F }
func (l *Loopy) SetCoarseX(v uint16) {
	l.reg = l.reg&^uint16(0x001F) | v&0x001F
}

func (l *Loopy) CoarseY() uint16 { return (l.reg & 0x03E0) >> 5 }
func (l *Loopy) SetCoarseY(v uint16) {
	l.reg = l.reg&^uint16(0x03E0) | (v&0x001F)<<5
}

func (l *Loopy) NametableX() uint16 { return (l.reg & 0x0400) >> 10 }
func (l *Loopy) SetNametableX(v uint16) {
	l.reg = l.reg&^uint16(0x0400) | (v&1)<<10
}

func (l *Loopy) NametableY() uint16 { return (l.reg & 0x0800) >> 11 }
func (l *Loopy) SetNametableY(v uint16) {
	l.reg = l.reg&^uint16(0x0800) | (v&1)<<11
}

func (l *Loopy) FineY() uint16 { return (l.reg & 0x7000) >> 12 }
func (l *Loopy) SetFineY(v uint16) {
	l.reg = l.reg&^uint16(0x7000) | (v&0x0007)<<12
}

// IncrementX steps one tile right, wrapping into the neighbouring
// horizontal nametable.
func (l *Loopy) IncrementX() {
	if l.CoarseX() == 31 {
		l.SetCoarseX(0)
		l.SetNametableX(l.NametableX() ^ 1)
	} else {
		l.SetCoarseX(l.CoarseX() + 1)
	}
}

// IncrementY steps one scanline down through fine Y, then coarse Y.
// Row 29 is the last visible tile row, so it wraps and flips the vertical
// nametable; row 31 (attribute territory) wraps without flipping.
func (l *Loopy) IncrementY() {
	if l.FineY() < 7 {
		l.SetFineY(l.FineY() + 1)
		return
	}
	l.SetFineY(0)

	switch y := l.CoarseY(); y {
	case 29:
		l.SetCoarseY(0)
		l.SetNametableY(l.NametableY() ^ 1)
	case 31:
		l.SetCoarseY(0)
	default:
		l.SetCoarseY(y + 1)
	}
}

// TransferX copies the horizontal components (coarse X, nametable X) from
// another register. Runs at cycle 257 of rendering scanlines.
func (l *Loopy) TransferX(src *Loopy) {
	l.reg = l.reg&^uint16(0x041F) | src.reg&0x041F
}

// TransferY copies the vertical components (fine Y, nametable Y, coarse
// Y) from another register. Runs during pre-render cycles 280-304.
func (l *Loopy) TransferY(src *Loopy) {
	l.reg = l.reg&^uint16(0x7BE0) | src.reg&0x7BE0
}
