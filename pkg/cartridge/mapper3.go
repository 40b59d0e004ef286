package cartridge

import "encoding/json"

// Mapper3 implements iNES Mapper 3 (CNROM).
//
// Used by Arkanoid, Cybernoid, Solomon's Key.
//
// PRG is NROM-like (16KB mirrored or 32KB fixed); any write to PRG space
// selects one of four 8KB CHR banks through the low bits of the data byte.
type Mapper3 struct {
	baseMapper

	bankSelect uint8
}

// NewMapper3 creates a new CNROM mapper (Mapper 3).
func NewMapper3(cart *Cartridge, mirroring MirrorMode) *Mapper3 {
	return &Mapper3{baseMapper: baseMapper{cart: cart, mirror: mirroring}}
}

// CPURead reads from PRG-ROM, mirrored like NROM.
func (m *Mapper3) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	if m.cart.PRGBlocks() > 1 {
		return m.cart.ReadPRGROM(int(addr % 0x8000))
	}
	return m.cart.ReadPRGROM(int(addr % 0x4000))
}

// CPUWrite selects the 8KB CHR bank.
func (m *Mapper3) CPUWrite(addr uint16, data uint8) {
	if addr >= 0x8000 {
		m.bankSelect = data
	}
}

// PPURead reads from the selected 8KB CHR bank.
func (m *Mapper3) PPURead(addr uint16) uint8 {
	sel := int(m.bankSelect & 0x03)
	return m.cart.ReadCHR(sel<<13 | int(addr))
}

// PPUWrite is dropped; CNROM carts carry CHR-ROM.
func (m *Mapper3) PPUWrite(addr uint16, data uint8) {}

// Reset clears the bank select register.
func (m *Mapper3) Reset() {
	m.bankSelect = 0
}

type mapper3State struct {
	BankSelect uint8      `json:"bank_select"`
	Mirror     MirrorMode `json:"mirror_mode"`
}

// SaveState serializes the mapper registers.
func (m *Mapper3) SaveState() ([]byte, error) {
	return json.Marshal(mapper3State{BankSelect: m.bankSelect, Mirror: m.mirror})
}

// LoadState restores the mapper registers.
func (m *Mapper3) LoadState(data []byte) error {
	var s mapper3State
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.bankSelect = s.BankSelect
	m.mirror = s.Mirror
	return nil
}
