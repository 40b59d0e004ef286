// Package ppu implements the NES Picture Processing Unit (2C02).
//
// The PPU advances one dot per clock: 341 cycles per scanline, scanlines
// -1 (pre-render) through 260, with the frame-complete flag raised at the
// end of scanline 260. Background tiles stream through a pair of 16-bit
// pattern shifters fed by the canonical 8-cycle fetch sequence; up to
// eight sprites per line are evaluated at cycle 257 and their patterns
// fetched at cycle 340. The composed 256x240 screen is copied to a stable
// frame buffer when vblank begins.
//
// Memory Map:
//
//	$0000-$1FFF: pattern tables (CHR, via the cartridge mapper)
//	$2000-$2FFF: nametables (2KB internal, arrangement chosen by mapper)
//	$3000-$3EFF: mirror of $2000-$2EFF
//	$3F00-$3F1F: palette RAM (32 bytes, mirrored through $3FFF)
package ppu

import "github.com/bedhededdy/nescle/pkg/cartridge"

// Screen dimensions and timing (NTSC).
const (
	ScreenWidth  = 256
	ScreenHeight = 240

	CyclesPerScanline = 341
	ScanlinesPerFrame = 262

	spritesPerLine = 8
)

// oamEntry is one sprite descriptor: four bytes of OAM.
type oamEntry struct {
	Y      uint8 `json:"y"`
	TileID uint8 `json:"tile_id"`
	Attr   uint8 `json:"attributes"`
	X      uint8 `json:"x"`
}

// Sprite attribute bits.
const (
	attrPalette  = 0x03
	attrBehindBG = 0x20
	attrFlipH    = 0x40
	attrFlipV    = 0x80
)

// PPU represents the NES picture processing unit.
type PPU struct {
	cart *cartridge.Cartridge

	// Nametable RAM (2KB internal). The 4KB nametable window maps onto
	// these two 1KB pages per the mapper's mirroring mode.
	nametable [2048]uint8

	// Palette RAM. Entries $10/$14/$18/$1C mirror $00/$04/$08/$0C.
	palette [32]uint8

	// Object Attribute Memory: 64 sprites, 4 bytes each.
	oam     [256]uint8
	oamAddr uint8

	control Control
	mask    Mask
	status  Status

	// Loopy V/T scroll registers, fine X, and the shared $2005/$2006
	// write toggle.
	vramAddr   Loopy
	tramAddr   Loopy
	fineX      uint8
	addrLatch  bool
	dataBuffer uint8

	scanline      int
	cycle         int
	frameComplete bool
	nmi           bool

	// Background pipeline: latched next-tile fetches and the shifters
	// they reload.
	bgNextTileID   uint8
	bgNextTileAttr uint8
	bgNextTileLSB  uint8
	bgNextTileMSB  uint8

	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttrLo    uint16
	bgShifterAttrHi    uint16

	// Sprite pipeline: the scanline's selected sprites and their pattern
	// shifters.
	sprScanline         [spritesPerLine]oamEntry
	sprCount            int
	sprShifterPatternLo [spritesPerLine]uint8
	sprShifterPatternHi [spritesPerLine]uint8

	spr0CanHit    bool
	spr0Rendering bool

	// screen is composed in place; frameBuffer is the stable copy handed
	// to the host, refreshed at scanline 241 cycle 1.
	screen      [ScreenWidth * ScreenHeight]uint32
	frameBuffer [ScreenWidth * ScreenHeight]uint32
}

// New creates a PPU reading pattern data through the given cartridge.
func New(cart *cartridge.Cartridge) *PPU {
	p := &PPU{cart: cart}
	p.PowerOn()
	return p
}

// PowerOn zeroes the PPU including its memories and blanks both buffers.
func (p *PPU) PowerOn() {
	p.nametable = [2048]uint8{}
	p.palette = [32]uint8{}
	p.oam = [256]uint8{}
	for i := range p.screen {
		p.screen[i] = 0xFF000000
		p.frameBuffer[i] = 0xFF000000
	}
	p.Reset()
}

// Reset re-zeroes the register and pipeline state. Nametables, palette
// and OAM survive a reset.
func (p *PPU) Reset() {
	p.control.Set(0)
	p.mask.Set(0)
	p.status.Set(0)
	p.oamAddr = 0

	p.vramAddr.Set(0)
	p.tramAddr.Set(0)
	p.fineX = 0
	p.addrLatch = false
	p.dataBuffer = 0

	p.scanline = 0
	p.cycle = 0
	p.frameComplete = false
	p.nmi = false

	p.bgNextTileID = 0
	p.bgNextTileAttr = 0
	p.bgNextTileLSB = 0
	p.bgNextTileMSB = 0
	p.bgShifterPatternLo = 0
	p.bgShifterPatternHi = 0
	p.bgShifterAttrLo = 0
	p.bgShifterAttrHi = 0

	p.sprScanline = [spritesPerLine]oamEntry{}
	p.sprCount = 0
	p.sprShifterPatternLo = [spritesPerLine]uint8{}
	p.sprShifterPatternHi = [spritesPerLine]uint8{}
	p.spr0CanHit = false
	p.spr0Rendering = false
}

// Clock advances the PPU by one dot.
func (p *PPU) Clock() {
	if p.scanline >= -1 && p.scanline < 240 {
		if (p.cycle >= 2 && p.cycle < 258) || (p.cycle >= 321 && p.cycle < 338) {
			p.updateShifters()

			// The canonical 8-cycle background fetch sequence.
			switch (p.cycle - 1) % 8 {
			case 0:
				p.loadBackgroundShifters()
				p.bgNextTileID = p.read(0x2000 | p.vramAddr.Get()&0x0FFF)

			case 2:
				// Attribute byte for the 4x4-tile block, then shift
				// down to the 2 bits of this block's quadrant.
				addr := 0x23C0 |
					p.vramAddr.NametableY()<<11 |
					p.vramAddr.NametableX()<<10 |
					(p.vramAddr.CoarseY()>>2)<<3 |
					p.vramAddr.CoarseX()>>2
				p.bgNextTileAttr = p.read(addr)

				if p.vramAddr.CoarseY()&0x02 != 0 {
					p.bgNextTileAttr >>= 4
				}
				if p.vramAddr.CoarseX()&0x02 != 0 {
					p.bgNextTileAttr >>= 2
				}
				p.bgNextTileAttr &= 0x03

			case 4:
				addr := p.control.BackgroundPatternTable() +
					uint16(p.bgNextTileID)<<4 + p.vramAddr.FineY()
				p.bgNextTileLSB = p.read(addr)

			case 6:
				addr := p.control.BackgroundPatternTable() +
					uint16(p.bgNextTileID)<<4 + p.vramAddr.FineY()
				p.bgNextTileMSB = p.read(addr + 8)

			case 7:
				if p.mask.RenderingEnabled() {
					p.vramAddr.IncrementX()
				}
			}
		} else if p.scanline == -1 && p.cycle == 1 {
			// Top of the frame: clear vblank, sprite-0 hit, overflow,
			// and drain the sprite shifters.
			p.status.SetVBlank(false)
			p.status.SetSprite0Hit(false)
			p.status.SetSpriteOverflow(false)
			for i := 0; i < spritesPerLine; i++ {
				p.sprShifterPatternLo[i] = 0
				p.sprShifterPatternHi[i] = 0
			}
		} else if p.scanline == -1 && p.cycle >= 280 && p.cycle < 305 {
			if p.mask.RenderingEnabled() {
				p.vramAddr.TransferY(&p.tramAddr)
			}
		}

		if p.cycle == 256 {
			if p.mask.RenderingEnabled() {
				p.vramAddr.IncrementY()
			}
		} else if p.cycle == 257 {
			p.loadBackgroundShifters()
			if p.mask.RenderingEnabled() {
				p.vramAddr.TransferX(&p.tramAddr)
			}
			if p.scanline >= 0 {
				p.evaluateSprites()
			}
		} else if p.cycle == 338 || p.cycle == 340 {
			// Dummy nametable fetches at the end of the line.
			p.bgNextTileID = p.read(0x2000 | p.vramAddr.Get()&0x0FFF)

			if p.cycle == 340 {
				p.fetchSpritePatterns()
			}
		}
	} else if p.scanline == 241 && p.cycle == 1 {
		// Enter vblank: publish the finished frame and raise NMI if the
		// control register asks for it.
		p.status.SetVBlank(true)
		p.frameBuffer = p.screen
		if p.control.NMIEnabled() {
			p.nmi = true
		}
	}

	if p.scanline >= 0 && p.scanline < ScreenHeight && p.cycle >= 1 && p.cycle <= ScreenWidth {
		p.composePixel()
	}

	// MMC3-style scanline counters tick at the end of the visible span.
	if p.mask.RenderingEnabled() && p.cycle == 260 && p.scanline < 240 {
		p.cart.Mapper().CountdownScanline()
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameComplete = true
		}
	}
}

// read accesses the PPU's own address space.
func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.cart.PPURead(addr)
	case addr < 0x3F00:
		return p.nametable[p.mirrorNametable(addr)]
	default:
		return p.palette[paletteIndex(addr)]
	}
}

// write accesses the PPU's own address space. Writes in the $3000-$3EFF
// mirror land in the $2000-$2EFF base region.
func (p *PPU) write(addr uint16, data uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.cart.PPUWrite(addr, data)
	case addr < 0x3F00:
		p.nametable[p.mirrorNametable(addr)] = data
	default:
		p.palette[paletteIndex(addr)] = data
	}
}

// mirrorNametable folds a $2000-$3EFF address onto the 2KB of internal
// nametable RAM per the mapper's current mirroring mode.
func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400

	switch p.cart.MirrorMode() {
	case cartridge.MirrorVertical:
		return addr % 0x0800
	case cartridge.MirrorHorizontal:
		return table/2*0x0400 + offset
	case cartridge.MirrorOneScreenLow:
		return offset
	case cartridge.MirrorOneScreenHigh:
		return 0x0400 + offset
	}
	return 0
}

// paletteIndex folds a $3F00-$3FFF address onto the 32 palette bytes,
// mirroring the sprite backdrop entries onto the background ones.
func paletteIndex(addr uint16) uint16 {
	addr %= 32
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}
	return addr
}

// RegisterRead services a CPU read of the eight PPU registers, which
// mirror through $2000-$3FFF.
func (p *PPU) RegisterRead(addr uint16) uint8 {
	tmp := uint8(0xFF)

	switch addr % 8 {
	case 0: // control
		tmp = p.control.Get()
	case 1: // mask
		tmp = p.mask.Get()
	case 2: // status
		// Only the top bits are driven; the rest float at the data
		// buffer's old contents. Reading clears vblank and the shared
		// write toggle.
		tmp = p.status.Get()&0xE0 | p.dataBuffer&0x1F
		p.status.SetVBlank(false)
		p.addrLatch = false
	case 4: // OAM data
		tmp = p.oam[p.oamAddr]
	case 7: // PPU data
		// Reads are buffered one access behind, except palette
		// addresses which respond immediately.
		tmp = p.dataBuffer
		p.dataBuffer = p.read(p.vramAddr.Get())
		if p.vramAddr.Get() >= 0x3F00 {
			tmp = p.read(p.vramAddr.Get())
		}
		p.vramAddr.Set(p.vramAddr.Get() + p.control.Increment())
	}

	return tmp
}

// RegisterWrite services a CPU write of the eight PPU registers.
func (p *PPU) RegisterWrite(addr uint16, data uint8) {
	switch addr % 8 {
	case 0: // control
		p.control.Set(data)
		p.tramAddr.SetNametableX(uint16(data) & 0x01)
		p.tramAddr.SetNametableY(uint16(data) >> 1 & 0x01)

	case 1: // mask
		p.mask.Set(data)

	case 3: // OAM address
		p.oamAddr = data

	case 4: // OAM data
		p.oam[p.oamAddr] = data
		p.oamAddr++

	case 5: // scroll
		if !p.addrLatch {
			p.fineX = data & 0x07
			p.tramAddr.SetCoarseX(uint16(data) >> 3)
			p.addrLatch = true
		} else {
			p.tramAddr.SetFineY(uint16(data) & 0x07)
			p.tramAddr.SetCoarseY(uint16(data) >> 3)
			p.addrLatch = false
		}

	case 6: // PPU address: high byte then low byte
		if !p.addrLatch {
			p.tramAddr.Set(p.tramAddr.Get()&0x00FF | uint16(data&0x3F)<<8)
			p.addrLatch = true
		} else {
			p.tramAddr.Set(p.tramAddr.Get()&0xFF00 | uint16(data))
			p.vramAddr.Set(p.tramAddr.Get())
			p.addrLatch = false
		}

	case 7: // PPU data
		p.write(p.vramAddr.Get(), data)
		p.vramAddr.Set(p.vramAddr.Get() + p.control.Increment())
	}
}

// RegisterInspect reads a register without side effects: status keeps its
// vblank bit and the write toggle, data reads don't advance V. Used by
// the disassembler.
func (p *PPU) RegisterInspect(addr uint16) uint8 {
	tmp := uint8(0xFF)

	switch addr % 8 {
	case 0:
		tmp = p.control.Get()
	case 1:
		tmp = p.mask.Get()
	case 2:
		tmp = p.status.Get()&0xE0 | p.dataBuffer&0x1F
	case 4:
		tmp = p.oam[p.oamAddr]
	case 7:
		tmp = p.dataBuffer
		if p.vramAddr.Get() >= 0x3F00 {
			tmp = p.read(p.vramAddr.Get())
		}
	}

	return tmp
}

// WriteOAM stores a byte directly into OAM, bypassing OAMADDR. Used by
// the bus during OAM-DMA.
func (p *PPU) WriteOAM(addr uint8, data uint8) {
	p.oam[addr] = data
}

// ReadOAM returns a byte of OAM.
func (p *PPU) ReadOAM(addr uint8) uint8 {
	return p.oam[addr]
}

// OAMAddr returns the current OAMADDR register.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

// SetOAMAddr restores OAMADDR, used by the bus when a DMA completes.
func (p *PPU) SetOAMAddr(addr uint8) { p.oamAddr = addr }

// NMI reports whether the PPU is asserting the NMI line.
func (p *PPU) NMI() bool { return p.nmi }

// ClearNMI acknowledges the NMI.
func (p *PPU) ClearNMI() { p.nmi = false }

// FrameComplete reports whether a full frame has elapsed since the last
// clear.
func (p *PPU) FrameComplete() bool { return p.frameComplete }

// ClearFrameComplete rearms the frame flag for the next frame.
func (p *PPU) ClearFrameComplete() { p.frameComplete = false }

// Framebuffer returns the stable frame published at the last vblank,
// as packed ARGB pixels. Only consistent between Clock calls.
func (p *PPU) Framebuffer() *[ScreenWidth * ScreenHeight]uint32 {
	return &p.frameBuffer
}

// Scanline returns the current scanline in [-1, 260].
func (p *PPU) Scanline() int { return p.scanline }

// Cycle returns the current dot in [0, 340].
func (p *PPU) Cycle() int { return p.cycle }
