package ppu

import (
	"bytes"
	"testing"

	"github.com/bedhededdy/nescle/pkg/cartridge"
)

// newTestPPU builds a PPU over a CHR-RAM NROM cartridge so tests can
// write pattern data freely.
func newTestPPU(t *testing.T, vertical bool) (*PPU, *cartridge.Cartridge) {
	t.Helper()

	rom := make([]byte, 16)
	copy(rom, "NES\x1a")
	rom[4] = 1 // one PRG bank
	rom[5] = 0 // CHR-RAM
	if vertical {
		rom[6] = 0x01
	}
	rom = append(rom, bytes.Repeat([]byte{0xEA}, 16384)...)

	cart, err := cartridge.LoadFromBytes(rom)
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	return New(cart), cart
}

// clockTo advances the PPU until it reaches the given scanline and cycle.
func clockTo(t *testing.T, p *PPU, scanline, cycle int) {
	t.Helper()
	for i := 0; i < 2*ScanlinesPerFrame*CyclesPerScanline; i++ {
		if p.scanline == scanline && p.cycle == cycle {
			return
		}
		p.Clock()
	}
	t.Fatalf("never reached scanline %d cycle %d", scanline, cycle)
}

func TestPaletteMirroring(t *testing.T) {
	p, _ := newTestPPU(t, false)

	mirrors := []struct{ mirror, base uint16 }{
		{0x3F10, 0x3F00},
		{0x3F14, 0x3F04},
		{0x3F18, 0x3F08},
		{0x3F1C, 0x3F0C},
	}

	for _, m := range mirrors {
		p.write(m.mirror, 0x2A)
		if got := p.palette[m.base-0x3F00]; got != 0x2A {
			t.Errorf("write %04X: palette[%02X] = %02X, want 2A", m.mirror, m.base-0x3F00, got)
		}
		if got := p.read(m.base); got != 0x2A {
			t.Errorf("read %04X = %02X, want 2A", m.base, got)
		}
	}
}

func TestStatusReadClearsToggleAndVBlank(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.RegisterWrite(0x2005, 0x10) // flips the shared toggle
	if !p.addrLatch {
		t.Fatal("first $2005 write should set the toggle")
	}
	p.status.SetVBlank(true)

	got := p.RegisterRead(0x2002)
	if got&0x80 == 0 {
		t.Error("status read should report vblank")
	}
	if p.status.VBlank() {
		t.Error("status read should clear vblank")
	}
	if p.addrLatch {
		t.Error("status read should reset the write toggle")
	}
}

func TestScrollAndAddrShareToggle(t *testing.T) {
	p, _ := newTestPPU(t, false)

	// First write through $2005, second through $2006: the pair shares
	// one latch, so the $2006 write behaves as a low-byte write and
	// copies T into V.
	p.RegisterWrite(0x2005, 0x00)
	p.RegisterWrite(0x2006, 0x33)

	if p.addrLatch {
		t.Error("toggle should be clear after the second write")
	}
	if got := p.vramAddr.Get() & 0x00FF; got != 0x33 {
		t.Errorf("V low byte = %02X, want 33", got)
	}
}

func TestPPUDataWriteAndBufferedRead(t *testing.T) {
	p, _ := newTestPPU(t, false)

	// $2006 = 21, $2006 = 08, $2007 = 42: write lands at $2108 and V
	// auto-increments by 1.
	p.RegisterWrite(0x2006, 0x21)
	p.RegisterWrite(0x2006, 0x08)
	p.RegisterWrite(0x2007, 0x42)

	if got := p.read(0x2108); got != 0x42 {
		t.Errorf("ppu_read(0x2108) = %02X, want 42", got)
	}
	if got := p.vramAddr.Get(); got != 0x2109 {
		t.Errorf("V = %04X, want 2109", got)
	}

	// Reads are delayed one access through the data buffer.
	p.RegisterWrite(0x2006, 0x21)
	p.RegisterWrite(0x2006, 0x08)
	p.RegisterRead(0x2007)
	if got := p.RegisterRead(0x2007); got != 0x42 {
		t.Errorf("second buffered read = %02X, want 42", got)
	}
}

func TestPPUDataPaletteReadIsImmediate(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.write(0x3F01, 0x19)

	p.RegisterWrite(0x2006, 0x3F)
	p.RegisterWrite(0x2006, 0x01)
	if got := p.RegisterRead(0x2007); got != 0x19 {
		t.Errorf("palette read = %02X, want 19 (no one-read delay)", got)
	}
}

func TestPPUDataIncrement32(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.RegisterWrite(0x2000, 0x04) // increment mode: add 32
	p.RegisterWrite(0x2006, 0x20)
	p.RegisterWrite(0x2006, 0x00)
	p.RegisterWrite(0x2007, 0x01)

	if got := p.vramAddr.Get(); got != 0x2020 {
		t.Errorf("V = %04X, want 2020", got)
	}
}

func TestControlWriteSetsTempNametable(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.RegisterWrite(0x2000, 0x03)
	if p.tramAddr.NametableX() != 1 || p.tramAddr.NametableY() != 1 {
		t.Errorf("T nametable bits = %d,%d, want 1,1",
			p.tramAddr.NametableX(), p.tramAddr.NametableY())
	}
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name     string
		vertical bool
		a, b     uint16
	}{
		{"vertical shares $2000/$2800", true, 0x2000, 0x2800},
		{"horizontal shares $2000/$2400", false, 0x2000, 0x2400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPPU(t, tt.vertical)
			p.write(tt.a, 0x77)
			if got := p.read(tt.b); got != 0x77 {
				t.Errorf("read(%04X) = %02X, want 77", tt.b, got)
			}
		})
	}
}

func TestWritesInHighMirrorLandInBase(t *testing.T) {
	p, _ := newTestPPU(t, true)

	p.write(0x3123, 0xAB)
	if got := p.read(0x2123); got != 0xAB {
		t.Errorf("read(0x2123) = %02X, want AB", got)
	}
}

func TestVBlankAndNMI(t *testing.T) {
	p, _ := newTestPPU(t, false)
	p.RegisterWrite(0x2000, 0x80) // NMI on

	clockTo(t, p, 241, 2)

	if !p.status.VBlank() {
		t.Error("vblank not set at scanline 241")
	}
	if !p.NMI() {
		t.Error("NMI not asserted with control bit 7 set")
	}

	p.ClearNMI()
	clockTo(t, p, -1, 2)
	if p.status.VBlank() {
		t.Error("vblank not cleared on the pre-render scanline")
	}
}

func TestNoNMIWhenDisabled(t *testing.T) {
	p, _ := newTestPPU(t, false)

	clockTo(t, p, 241, 2)
	if p.NMI() {
		t.Error("NMI asserted with control bit 7 clear")
	}
}

func TestFrameCadence(t *testing.T) {
	p, _ := newTestPPU(t, false)

	for !p.FrameComplete() {
		p.Clock()
	}
	p.ClearFrameComplete()

	ticks := 0
	for !p.FrameComplete() {
		p.Clock()
		ticks++
	}

	if want := CyclesPerScanline * ScanlinesPerFrame; ticks != want {
		t.Errorf("frame took %d dots, want %d", ticks, want)
	}
}

func TestSprite0Hit(t *testing.T) {
	p, cart := newTestPPU(t, false)

	// Tile 1: a fully opaque 8x8 pattern in the CHR-RAM low plane.
	for row := uint16(0); row < 8; row++ {
		cart.PPUWrite(0x0010+row, 0xFF)
	}

	// Cover the background with tile 1 and park sprite 0 at (10, 10).
	for i := uint16(0); i < 960; i++ {
		p.write(0x2000+i, 0x01)
	}
	p.oam[0] = 10 // y
	p.oam[1] = 1  // tile
	p.oam[2] = 0  // attributes
	p.oam[3] = 10 // x

	p.RegisterWrite(0x2001, 0x1E) // bg + sprites, left columns shown

	// The sprite is picked up at scanline 10 and drawn on scanline 11.
	clockTo(t, p, 10, 340)
	if p.status.Sprite0Hit() {
		t.Fatal("hit set before the sprite was rendered")
	}

	clockTo(t, p, 11, 30)
	if !p.status.Sprite0Hit() {
		t.Fatal("hit not set while sprite 0 overlapped the background")
	}

	// And it clears at the top of the next frame.
	clockTo(t, p, -1, 2)
	if p.status.Sprite0Hit() {
		t.Error("hit not cleared on the pre-render scanline")
	}
}

func TestSpriteOverflow(t *testing.T) {
	p, _ := newTestPPU(t, false)

	// Nine sprites share scanline 20.
	for i := 0; i < 9; i++ {
		p.oam[i*4+0] = 20
		p.oam[i*4+1] = 0
		p.oam[i*4+2] = 0
		p.oam[i*4+3] = uint8(i * 8)
	}
	p.RegisterWrite(0x2001, 0x18)

	clockTo(t, p, 20, 300)
	if !p.status.SpriteOverflow() {
		t.Error("ninth sprite on a line should set overflow")
	}
	if p.sprCount != spritesPerLine {
		t.Errorf("sprite count = %d, want %d", p.sprCount, spritesPerLine)
	}
}

func TestOAMDataReadWrite(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.RegisterWrite(0x2003, 0x10)
	p.RegisterWrite(0x2004, 0xAA) // stores and increments
	if p.oam[0x10] != 0xAA {
		t.Errorf("oam[10] = %02X, want AA", p.oam[0x10])
	}
	if p.oamAddr != 0x11 {
		t.Errorf("oam_addr = %02X, want 11", p.oamAddr)
	}

	p.RegisterWrite(0x2003, 0x10)
	if got := p.RegisterRead(0x2004); got != 0xAA {
		t.Errorf("oam read = %02X, want AA", got)
	}
}

func TestRegisterInspectHasNoSideEffects(t *testing.T) {
	p, _ := newTestPPU(t, false)

	p.status.SetVBlank(true)
	p.RegisterWrite(0x2005, 0x08)

	inspected := p.RegisterInspect(0x2002)
	if inspected&0x80 == 0 {
		t.Error("inspect should see the vblank bit")
	}
	if !p.status.VBlank() || !p.addrLatch {
		t.Error("inspect must not clear vblank or the write toggle")
	}

	v := p.vramAddr.Get()
	p.RegisterInspect(0x2007)
	if p.vramAddr.Get() != v {
		t.Error("inspect must not advance V")
	}
}

func TestFramebufferPublishedAtVBlank(t *testing.T) {
	p, _ := newTestPPU(t, false)

	// Backdrop colour: palette entry $3F00 = $21 (a light blue).
	p.write(0x3F00, 0x21)

	clockTo(t, p, 241, 2)

	want := masterPalette[0x21]
	if got := p.Framebuffer()[0]; got != want {
		t.Errorf("framebuffer[0] = %08X, want %08X", got, want)
	}
}
