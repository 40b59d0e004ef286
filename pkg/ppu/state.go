package ppu

// State is the serialized PPU state. The working screen and published
// frame buffer are deliberately excluded; they regenerate within a frame.
type State struct {
	Nametable []uint8 `json:"nametbl"`
	Palette   []uint8 `json:"palette"`
	OAM       []uint8 `json:"oam"`
	OAMAddr   uint8   `json:"oam_addr"`

	Control uint8 `json:"control"`
	Mask    uint8 `json:"mask"`
	Status  uint8 `json:"status"`

	VRAMAddr   uint16 `json:"vram_addr"`
	TRAMAddr   uint16 `json:"tram_addr"`
	FineX      uint8  `json:"fine_x"`
	AddrLatch  bool   `json:"addr_latch"`
	DataBuffer uint8  `json:"data_buffer"`

	Scanline      int  `json:"scanline"`
	Cycle         int  `json:"cycle"`
	FrameComplete bool `json:"frame_complete"`
	NMI           bool `json:"nmi"`

	BGNextTileID   uint8 `json:"bg_next_tile_id"`
	BGNextTileAttr uint8 `json:"bg_next_tile_attr"`
	BGNextTileLSB  uint8 `json:"bg_next_tile_lsb"`
	BGNextTileMSB  uint8 `json:"bg_next_tile_msb"`

	BGShifterPatternLo uint16 `json:"bg_shifter_pattern_lo"`
	BGShifterPatternHi uint16 `json:"bg_shifter_pattern_hi"`
	BGShifterAttrLo    uint16 `json:"bg_shifter_attr_lo"`
	BGShifterAttrHi    uint16 `json:"bg_shifter_attr_hi"`

	SprScanline         []oamEntry `json:"spr_scanline"`
	SprCount            int        `json:"spr_count"`
	SprShifterPatternLo []uint8    `json:"spr_shifter_pattern_lo"`
	SprShifterPatternHi []uint8    `json:"spr_shifter_pattern_hi"`
	Spr0CanHit          bool       `json:"spr0_can_hit"`
	Spr0Rendering       bool       `json:"spr0_rendering"`
}

// SaveState captures everything but the pixel buffers.
func (p *PPU) SaveState() State {
	return State{
		Nametable: append([]uint8(nil), p.nametable[:]...),
		Palette:   append([]uint8(nil), p.palette[:]...),
		OAM:       append([]uint8(nil), p.oam[:]...),
		OAMAddr:   p.oamAddr,

		Control: p.control.Get(),
		Mask:    p.mask.Get(),
		Status:  p.status.Get(),

		VRAMAddr:   p.vramAddr.Get(),
		TRAMAddr:   p.tramAddr.Get(),
		FineX:      p.fineX,
		AddrLatch:  p.addrLatch,
		DataBuffer: p.dataBuffer,

		Scanline:      p.scanline,
		Cycle:         p.cycle,
		FrameComplete: p.frameComplete,
		NMI:           p.nmi,

		BGNextTileID:   p.bgNextTileID,
		BGNextTileAttr: p.bgNextTileAttr,
		BGNextTileLSB:  p.bgNextTileLSB,
		BGNextTileMSB:  p.bgNextTileMSB,

		BGShifterPatternLo: p.bgShifterPatternLo,
		BGShifterPatternHi: p.bgShifterPatternHi,
		BGShifterAttrLo:    p.bgShifterAttrLo,
		BGShifterAttrHi:    p.bgShifterAttrHi,

		SprScanline:         append([]oamEntry(nil), p.sprScanline[:]...),
		SprCount:            p.sprCount,
		SprShifterPatternLo: append([]uint8(nil), p.sprShifterPatternLo[:]...),
		SprShifterPatternHi: append([]uint8(nil), p.sprShifterPatternHi[:]...),
		Spr0CanHit:          p.spr0CanHit,
		Spr0Rendering:       p.spr0Rendering,
	}
}

// LoadState restores a snapshot taken by SaveState.
func (p *PPU) LoadState(s State) {
	copy(p.nametable[:], s.Nametable)
	copy(p.palette[:], s.Palette)
	copy(p.oam[:], s.OAM)
	p.oamAddr = s.OAMAddr

	p.control.Set(s.Control)
	p.mask.Set(s.Mask)
	p.status.Set(s.Status)

	p.vramAddr.Set(s.VRAMAddr)
	p.tramAddr.Set(s.TRAMAddr)
	p.fineX = s.FineX
	p.addrLatch = s.AddrLatch
	p.dataBuffer = s.DataBuffer

	p.scanline = s.Scanline
	p.cycle = s.Cycle
	p.frameComplete = s.FrameComplete
	p.nmi = s.NMI

	p.bgNextTileID = s.BGNextTileID
	p.bgNextTileAttr = s.BGNextTileAttr
	p.bgNextTileLSB = s.BGNextTileLSB
	p.bgNextTileMSB = s.BGNextTileMSB

	p.bgShifterPatternLo = s.BGShifterPatternLo
	p.bgShifterPatternHi = s.BGShifterPatternHi
	p.bgShifterAttrLo = s.BGShifterAttrLo
	p.bgShifterAttrHi = s.BGShifterAttrHi

	copy(p.sprScanline[:], s.SprScanline)
	p.sprCount = s.SprCount
	copy(p.sprShifterPatternLo[:], s.SprShifterPatternLo)
	copy(p.sprShifterPatternHi[:], s.SprShifterPatternHi)
	p.spr0CanHit = s.Spr0CanHit
	p.spr0Rendering = s.Spr0Rendering
}
