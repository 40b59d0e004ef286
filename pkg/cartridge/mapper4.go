package cartridge

import "encoding/json"

// Mapper4 implements iNES Mapper 4 (MMC3).
//
// Used by Super Mario Bros. 2 and 3, Mega Man 3-6.
//
// Two programmable 8KB PRG banks with a mode swap, two 2KB and four 1KB
// CHR windows with an inversion swap, and a scanline counter that raises
// an IRQ for split-screen effects. The PPU drives the counter at cycle 260
// of visible scanlines.
//
// CPU Memory Map:
//
//	$6000-$7FFF: 8 KB PRG-RAM
//	$8000-$9FFF: 8 KB PRG bank (R6 or fixed second-to-last, per mode)
//	$A000-$BFFF: 8 KB PRG bank (R7)
//	$C000-$DFFF: 8 KB PRG bank (fixed second-to-last or R6, per mode)
//	$E000-$FFFF: 8 KB PRG bank, fixed to the last bank
//
// Registers (even/odd addresses in $8000-$FFFF):
//
//	$8000/$8001: bank select / bank data
//	$A000/$A001: mirroring / PRG-RAM protect
//	$C000/$C001: IRQ reload value / IRQ counter clear
//	$E000/$E001: IRQ disable / IRQ enable
type Mapper4 struct {
	baseMapper

	sram [8192]uint8

	registers      [8]uint8
	chrBanks       [8]int // byte offsets of the eight 1KB CHR windows
	prgBanks       [4]int // byte offsets of the four 8KB PRG windows
	targetRegister uint8
	prgBankMode    bool
	chrInversion   bool

	irqCounter uint8
	irqReload  uint8
	irqEnabled bool
	irqActive  bool
}

// NewMapper4 creates a new MMC3 mapper (Mapper 4).
func NewMapper4(cart *Cartridge, mirroring MirrorMode) *Mapper4 {
	m := &Mapper4{baseMapper: baseMapper{cart: cart, mirror: mirroring}}
	m.Reset()
	return m
}

// Reset restores the power-on bank layout: first banks mapped low, last
// two banks fixed high.
func (m *Mapper4) Reset() {
	m.targetRegister = 0
	m.prgBankMode = false
	m.chrInversion = false
	m.mirror = MirrorHorizontal

	m.irqActive = false
	m.irqEnabled = false
	m.irqCounter = 0
	m.irqReload = 0

	for i := range m.registers {
		m.registers[i] = 0
		m.chrBanks[i] = 0
	}

	prg8k := int(m.cart.PRGBlocks()) * 2
	m.prgBanks[0] = 0
	m.prgBanks[1] = 0x2000
	m.prgBanks[2] = (prg8k - 2) * 0x2000
	m.prgBanks[3] = (prg8k - 1) * 0x2000
}

// CPURead reads from PRG-RAM or the selected 8KB PRG window.
func (m *Mapper4) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.sram[addr%0x2000]
	}
	return m.cart.ReadPRGROM(m.prgBanks[(addr-0x8000)/0x2000] + int(addr%0x2000))
}

// CPUWrite writes PRG-RAM or one of the paired control registers.
func (m *Mapper4) CPUWrite(addr uint16, data uint8) {
	if addr < 0x8000 {
		m.sram[addr%0x2000] = data
		return
	}

	switch {
	case addr < 0xA000:
		if addr&1 == 0 {
			// Bank select
			m.targetRegister = data & 0x07
			m.prgBankMode = data&0x40 != 0
			m.chrInversion = data&0x80 != 0
		} else {
			// Bank data: recompute every window
			m.registers[m.targetRegister] = data
			m.updateBanks()
		}

	case addr < 0xC000:
		if addr&1 == 0 {
			if data&1 != 0 {
				m.mirror = MirrorHorizontal
			} else {
				m.mirror = MirrorVertical
			}
		}
		// Odd: PRG-RAM protect, not modeled

	case addr < 0xE000:
		if addr&1 == 0 {
			m.irqReload = data
		} else {
			m.irqCounter = 0
		}

	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqActive = false
		} else {
			m.irqEnabled = true
		}
	}
}

// updateBanks recomputes the CHR and PRG window offsets from the bank
// registers and the two mode bits.
func (m *Mapper4) updateBanks() {
	if m.chrInversion {
		m.chrBanks[0] = int(m.registers[2]) * 0x400
		m.chrBanks[1] = int(m.registers[3]) * 0x400
		m.chrBanks[2] = int(m.registers[4]) * 0x400
		m.chrBanks[3] = int(m.registers[5]) * 0x400
		m.chrBanks[4] = int(m.registers[0]&0xFE) * 0x400
		m.chrBanks[5] = m.chrBanks[4] + 0x400
		m.chrBanks[6] = int(m.registers[1]&0xFE) * 0x400
		m.chrBanks[7] = m.chrBanks[6] + 0x400
	} else {
		m.chrBanks[0] = int(m.registers[0]&0xFE) * 0x400
		m.chrBanks[1] = m.chrBanks[0] + 0x400
		m.chrBanks[2] = int(m.registers[1]&0xFE) * 0x400
		m.chrBanks[3] = m.chrBanks[2] + 0x400
		m.chrBanks[4] = int(m.registers[2]) * 0x400
		m.chrBanks[5] = int(m.registers[3]) * 0x400
		m.chrBanks[6] = int(m.registers[4]) * 0x400
		m.chrBanks[7] = int(m.registers[5]) * 0x400
	}

	prg8k := int(m.cart.PRGBlocks()) * 2
	if m.prgBankMode {
		m.prgBanks[2] = int(m.registers[6]&0x3F) * 0x2000
		m.prgBanks[0] = (prg8k - 2) * 0x2000
	} else {
		m.prgBanks[0] = int(m.registers[6]&0x3F) * 0x2000
		m.prgBanks[2] = (prg8k - 2) * 0x2000
	}
	m.prgBanks[1] = int(m.registers[7]&0x3F) * 0x2000
	m.prgBanks[3] = (prg8k - 1) * 0x2000
}

// PPURead reads through the 1KB CHR windows.
func (m *Mapper4) PPURead(addr uint16) uint8 {
	return m.cart.ReadCHR(m.chrBanks[addr/0x400] + int(addr%0x400))
}

// PPUWrite writes CHR-RAM through the windows; CHR-ROM writes are dropped.
func (m *Mapper4) PPUWrite(addr uint16, data uint8) {
	if m.cart.CHRBlocks() == 0 {
		m.cart.WriteCHR(m.chrBanks[addr/0x400]+int(addr%0x400), data)
	}
}

// CountdownScanline decrements the IRQ counter, reloading it at zero, and
// raises the IRQ line when the counter hits zero with IRQs enabled.
func (m *Mapper4) CountdownScanline() {
	if m.irqCounter == 0 {
		m.irqCounter = m.irqReload
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqActive = true
	}
}

// IRQActive reports whether the mapper is asserting its IRQ line.
func (m *Mapper4) IRQActive() bool {
	return m.irqActive
}

// IRQClear acknowledges the IRQ.
func (m *Mapper4) IRQClear() {
	m.irqActive = false
}

type mapper4State struct {
	Registers      [8]uint8   `json:"registers"`
	CHRBanks       [8]int     `json:"chr_banks"`
	PRGBanks       [4]int     `json:"prg_banks"`
	TargetRegister uint8      `json:"target_register"`
	PRGBankMode    bool       `json:"prg_bank_mode"`
	CHRInversion   bool       `json:"chr_inversion"`
	IRQActive      bool       `json:"irq_active"`
	IRQEnabled     bool       `json:"irq_enabled"`
	IRQCounter     uint8      `json:"irq_counter"`
	IRQReload      uint8      `json:"irq_reload"`
	Mirror         MirrorMode `json:"mirror_mode"`
	SRAM           []byte     `json:"sram"`
}

// SaveState serializes the mapper registers and SRAM.
func (m *Mapper4) SaveState() ([]byte, error) {
	return json.Marshal(mapper4State{
		Registers:      m.registers,
		CHRBanks:       m.chrBanks,
		PRGBanks:       m.prgBanks,
		TargetRegister: m.targetRegister,
		PRGBankMode:    m.prgBankMode,
		CHRInversion:   m.chrInversion,
		IRQActive:      m.irqActive,
		IRQEnabled:     m.irqEnabled,
		IRQCounter:     m.irqCounter,
		IRQReload:      m.irqReload,
		Mirror:         m.mirror,
		SRAM:           m.sram[:],
	})
}

// LoadState restores the mapper registers and SRAM.
func (m *Mapper4) LoadState(data []byte) error {
	var s mapper4State
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.registers = s.Registers
	m.chrBanks = s.CHRBanks
	m.prgBanks = s.PRGBanks
	m.targetRegister = s.TargetRegister
	m.prgBankMode = s.PRGBankMode
	m.chrInversion = s.CHRInversion
	m.irqActive = s.IRQActive
	m.irqEnabled = s.IRQEnabled
	m.irqCounter = s.IRQCounter
	m.irqReload = s.IRQReload
	m.mirror = s.Mirror
	copy(m.sram[:], s.SRAM)
	return nil
}
