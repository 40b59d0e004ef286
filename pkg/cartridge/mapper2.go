package cartridge

import "encoding/json"

// Mapper2 implements iNES Mapper 2 (UxROM).
//
// Used by Mega Man, Castlevania, Duck Tales, Contra.
//
// CPU Memory Map:
//
//	$8000-$BFFF: 16 KB switchable PRG-ROM bank (selected by any write)
//	$C000-$FFFF: 16 KB PRG-ROM bank, fixed to the last bank
//
// CHR is 8KB CHR-RAM on most UxROM boards.
type Mapper2 struct {
	baseMapper

	bankSelect uint8
}

// NewMapper2 creates a new UxROM mapper (Mapper 2).
func NewMapper2(cart *Cartridge, mirroring MirrorMode) *Mapper2 {
	return &Mapper2{baseMapper: baseMapper{cart: cart, mirror: mirroring}}
}

// CPURead reads from the switchable bank at $8000 or the fixed last bank
// at $C000.
func (m *Mapper2) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	if addr < 0xC000 {
		sel := int(m.bankSelect & 0x0F)
		return m.cart.ReadPRGROM(sel*0x4000 + int(addr%0x4000))
	}
	last := int(m.cart.PRGBlocks()-1) * 0x4000
	return m.cart.ReadPRGROM(last + int(addr%0x4000))
}

// CPUWrite selects the bank mapped at $8000.
func (m *Mapper2) CPUWrite(addr uint16, data uint8) {
	if addr >= 0x8000 {
		m.bankSelect = data
	}
}

// PPURead reads from CHR-ROM/RAM.
func (m *Mapper2) PPURead(addr uint16) uint8 {
	return m.cart.ReadCHR(int(addr))
}

// PPUWrite writes to CHR-RAM; CHR-ROM writes are dropped.
func (m *Mapper2) PPUWrite(addr uint16, data uint8) {
	m.cart.WriteCHR(int(addr), data)
}

// Reset clears the bank select register.
func (m *Mapper2) Reset() {
	m.bankSelect = 0
}

type mapper2State struct {
	BankSelect uint8      `json:"bank_select"`
	Mirror     MirrorMode `json:"mirror_mode"`
}

// SaveState serializes the mapper registers.
func (m *Mapper2) SaveState() ([]byte, error) {
	return json.Marshal(mapper2State{BankSelect: m.bankSelect, Mirror: m.mirror})
}

// LoadState restores the mapper registers.
func (m *Mapper2) LoadState(data []byte) error {
	var s mapper2State
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.bankSelect = s.BankSelect
	m.mirror = s.Mirror
	return nil
}
