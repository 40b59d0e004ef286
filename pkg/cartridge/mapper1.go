package cartridge

import "encoding/json"

// Mapper1 implements iNES Mapper 1 (MMC1).
//
// Used by The Legend of Zelda, Metroid, Mega Man 2, Kid Icarus.
//
// All control happens through a serial 5-bit load register: writes to
// $8000-$FFFF with bit 7 clear shift bit 0 in; the fifth write commits the
// value to one of four internal registers selected by bits 13-14 of the
// write address. A write with bit 7 set resets the shifter and ORs the
// control register with $0C (fix-last-bank PRG mode).
//
// CPU Memory Map:
//
//	$6000-$7FFF: 8 KB PRG-RAM
//	$8000-$BFFF: 16 KB PRG-ROM bank (switchable or fixed depending on mode)
//	$C000-$FFFF: 16 KB PRG-ROM bank (switchable or fixed depending on mode)
//
// PPU Memory Map:
//
//	$0000-$0FFF: 4 KB CHR bank (or lower half of an 8KB bank)
//	$1000-$1FFF: 4 KB CHR bank (or upper half of an 8KB bank)
type Mapper1 struct {
	baseMapper

	sram [8192]uint8

	load      uint8
	loadCount uint8
	ctrl      uint8

	chrSelect4Lo uint8
	chrSelect4Hi uint8
	chrSelect8   uint8

	prgSelect16Lo uint8
	prgSelect16Hi uint8
	prgSelect32   uint8
}

// NewMapper1 creates a new MMC1 mapper (Mapper 1).
func NewMapper1(cart *Cartridge, mirroring MirrorMode) *Mapper1 {
	m := &Mapper1{baseMapper: baseMapper{cart: cart, mirror: mirroring}}
	m.Reset()
	return m
}

// Reset restores the power-on configuration: shifter cleared, control set
// to fix-last-bank PRG mode.
func (m *Mapper1) Reset() {
	m.load = 0
	m.loadCount = 0
	m.ctrl = 0x1C

	m.chrSelect4Lo = 0
	m.chrSelect4Hi = 0
	m.chrSelect8 = 0

	m.prgSelect32 = 0
	m.prgSelect16Lo = 0
	m.prgSelect16Hi = m.cart.PRGBlocks() - 1

	m.mirror = MirrorHorizontal
}

// CPURead reads from PRG-RAM ($6000-$7FFF) or a PRG-ROM bank.
func (m *Mapper1) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.sram[addr%0x2000]
	}

	if m.ctrl&0x08 != 0 {
		// 16KB mode
		sel := m.prgSelect16Lo
		if addr >= 0xC000 {
			sel = m.prgSelect16Hi
		}
		return m.cart.ReadPRGROM(int(sel)*0x4000 + int(addr%0x4000))
	}
	// 32KB mode
	return m.cart.ReadPRGROM(int(m.prgSelect32)*0x8000 + int(addr%0x8000))
}

// CPUWrite writes PRG-RAM or feeds the serial load register.
func (m *Mapper1) CPUWrite(addr uint16, data uint8) {
	if addr < 0x8000 {
		m.sram[addr%0x2000] = data
		return
	}

	if data&0x80 != 0 {
		m.load = 0
		m.loadCount = 0
		m.ctrl |= 0x0C
		return
	}

	m.load >>= 1
	m.load |= (data & 1) << 4
	m.loadCount++

	if m.loadCount < 5 {
		return
	}

	// Bits 13-14 of the address pick the target register.
	switch (addr >> 13) & 3 {
	case 0: // control
		m.ctrl = m.load & 0x1F
		switch m.ctrl & 3 {
		case 0:
			m.mirror = MirrorOneScreenLow
		case 1:
			m.mirror = MirrorOneScreenHigh
		case 2:
			m.mirror = MirrorVertical
		case 3:
			m.mirror = MirrorHorizontal
		}
	case 1: // CHR bank 0
		if m.ctrl&0x10 != 0 {
			m.chrSelect4Lo = m.load & 0x1F
		} else {
			m.chrSelect8 = (m.load & 0x1E) >> 1
		}
	case 2: // CHR bank 1
		if m.ctrl&0x10 != 0 {
			m.chrSelect4Hi = m.load & 0x1F
		}
	case 3: // PRG bank
		switch (m.ctrl >> 2) & 3 {
		case 0, 1:
			m.prgSelect32 = (m.load & 0x0E) >> 1
		case 2:
			m.prgSelect16Lo = 0
			m.prgSelect16Hi = m.load & 0x0F
		case 3:
			m.prgSelect16Lo = m.load & 0x0F
			m.prgSelect16Hi = m.cart.PRGBlocks() - 1
		}
	}

	m.load = 0
	m.loadCount = 0
}

// PPURead reads from the selected CHR bank.
func (m *Mapper1) PPURead(addr uint16) uint8 {
	if m.cart.CHRBlocks() == 0 {
		return m.cart.ReadCHR(int(addr))
	}

	if m.ctrl&0x10 != 0 {
		// 4KB mode
		sel := m.chrSelect4Lo
		if addr >= 0x1000 {
			sel = m.chrSelect4Hi
		}
		return m.cart.ReadCHR(int(sel)*0x1000 + int(addr%0x1000))
	}
	// 8KB mode
	return m.cart.ReadCHR(int(m.chrSelect8)*0x2000 + int(addr%0x2000))
}

// PPUWrite writes CHR-RAM; CHR-ROM writes are dropped.
func (m *Mapper1) PPUWrite(addr uint16, data uint8) {
	if m.cart.CHRBlocks() == 0 {
		m.cart.WriteCHR(int(addr), data)
	}
}

type mapper1State struct {
	Ctrl         uint8      `json:"ctrl"`
	Load         uint8      `json:"load"`
	LoadCount    uint8      `json:"load_reg_ct"`
	CHRSelect4Lo uint8      `json:"chr_select4_lo"`
	CHRSelect4Hi uint8      `json:"chr_select4_hi"`
	CHRSelect8   uint8      `json:"chr_select8"`
	PRGSelect16L uint8      `json:"prg_select16_lo"`
	PRGSelect16H uint8      `json:"prg_select16_hi"`
	PRGSelect32  uint8      `json:"prg_select32"`
	Mirror       MirrorMode `json:"mirror_mode"`
	SRAM         []byte     `json:"sram"`
}

// SaveState serializes the mapper registers and SRAM.
func (m *Mapper1) SaveState() ([]byte, error) {
	return json.Marshal(mapper1State{
		Ctrl:         m.ctrl,
		Load:         m.load,
		LoadCount:    m.loadCount,
		CHRSelect4Lo: m.chrSelect4Lo,
		CHRSelect4Hi: m.chrSelect4Hi,
		CHRSelect8:   m.chrSelect8,
		PRGSelect16L: m.prgSelect16Lo,
		PRGSelect16H: m.prgSelect16Hi,
		PRGSelect32:  m.prgSelect32,
		Mirror:       m.mirror,
		SRAM:         m.sram[:],
	})
}

// LoadState restores the mapper registers and SRAM.
func (m *Mapper1) LoadState(data []byte) error {
	var s mapper1State
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.ctrl = s.Ctrl
	m.load = s.Load
	m.loadCount = s.LoadCount
	m.chrSelect4Lo = s.CHRSelect4Lo
	m.chrSelect4Hi = s.CHRSelect4Hi
	m.chrSelect8 = s.CHRSelect8
	m.prgSelect16Lo = s.PRGSelect16L
	m.prgSelect16Hi = s.PRGSelect16H
	m.prgSelect32 = s.PRGSelect32
	m.mirror = s.Mirror
	copy(m.sram[:], s.SRAM)
	return nil
}
