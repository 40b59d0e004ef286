package cartridge

import "encoding/json"

// Mapper66 implements iNES Mapper 66 (GxROM).
//
// Used by Super Mario Bros. + Duck Hunt, Dragon Power.
//
// One register serves both banks: bits 4-5 pick a 32KB PRG bank, bits 0-1
// pick an 8KB CHR bank.
type Mapper66 struct {
	baseMapper

	bankSelect uint8
}

// NewMapper66 creates a new GxROM mapper (Mapper 66).
func NewMapper66(cart *Cartridge, mirroring MirrorMode) *Mapper66 {
	return &Mapper66{baseMapper: baseMapper{cart: cart, mirror: mirroring}}
}

// CPURead reads from the selected 32KB PRG bank.
func (m *Mapper66) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	sel := int(m.bankSelect&0x30) >> 4
	return m.cart.ReadPRGROM(sel<<15 | int(addr%0x8000))
}

// CPUWrite sets the shared bank select register.
func (m *Mapper66) CPUWrite(addr uint16, data uint8) {
	if addr >= 0x8000 {
		m.bankSelect = data
	}
}

// PPURead reads from the selected 8KB CHR bank.
func (m *Mapper66) PPURead(addr uint16) uint8 {
	sel := int(m.bankSelect & 0x03)
	return m.cart.ReadCHR(sel<<13 | int(addr))
}

// PPUWrite writes CHR-RAM through the selected bank; CHR-ROM writes are
// dropped.
func (m *Mapper66) PPUWrite(addr uint16, data uint8) {
	if m.cart.CHRBlocks() == 0 {
		sel := int(m.bankSelect & 0x03)
		m.cart.WriteCHR(sel<<13|int(addr), data)
	}
}

// Reset clears the bank select register.
func (m *Mapper66) Reset() {
	m.bankSelect = 0
}

type mapper66State struct {
	BankSelect uint8      `json:"bank_select"`
	Mirror     MirrorMode `json:"mirror_mode"`
}

// SaveState serializes the mapper registers.
func (m *Mapper66) SaveState() ([]byte, error) {
	return json.Marshal(mapper66State{BankSelect: m.bankSelect, Mirror: m.mirror})
}

// LoadState restores the mapper registers.
func (m *Mapper66) LoadState(data []byte) error {
	var s mapper66State
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.bankSelect = s.BankSelect
	m.mirror = s.Mirror
	return nil
}
