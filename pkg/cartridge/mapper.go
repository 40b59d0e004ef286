// Package cartridge implements NES cartridge ROM loading and memory mappers.
//
// NES cartridges contain PRG-ROM (program code for CPU) and CHR-ROM/RAM
// (graphics data for PPU). Different cartridges use different mapper chips
// to extend the NES's memory space through bank switching. The mapper also
// selects how the console's two 1KB nametable pages appear across the 4KB
// nametable region (CIRAM mirroring), and on MMC3 drives a scanline-counted
// IRQ.
package cartridge

import "fmt"

// MirrorMode selects the nametable arrangement presented to the PPU.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorOneScreenLow
	MirrorOneScreenHigh
)

// Mapper defines the interface for NES cartridge mappers.
//
// Mappers handle the translation between CPU/PPU addresses and actual
// ROM/RAM locations. Different mapper numbers implement different
// bank switching schemes.
type Mapper interface {
	// CPURead reads a byte from cartridge CPU space ($4020-$FFFF).
	CPURead(addr uint16) uint8

	// CPUWrite writes to PRG-RAM or triggers mapper control.
	CPUWrite(addr uint16, data uint8)

	// PPURead reads a byte from pattern-table space ($0000-$1FFF).
	PPURead(addr uint16) uint8

	// PPUWrite writes to CHR-RAM. CHR-ROM writes are dropped.
	PPUWrite(addr uint16, data uint8)

	// MirrorMode returns the current nametable arrangement.
	MirrorMode() MirrorMode

	// Reset restores the power-on bank configuration.
	Reset()

	// CountdownScanline is called by the PPU at cycle 260 of visible
	// scanlines while rendering is enabled (for IRQ timing).
	CountdownScanline()

	// IRQActive reports whether the mapper is asserting its IRQ line.
	IRQActive() bool

	// IRQClear acknowledges the mapper IRQ.
	IRQClear()

	// SaveState and LoadState serialize the mapper's bank registers and
	// any on-cart RAM with stable field names.
	SaveState() ([]byte, error)
	LoadState(data []byte) error
}

// createMapper instantiates the appropriate mapper for the given mapper ID.
func createMapper(mapperID uint8, cart *Cartridge, mirroring MirrorMode) (Mapper, error) {
	switch mapperID {
	case 0:
		// NROM: Super Mario Bros., Donkey Kong, Ice Climber
		return NewMapper0(cart, mirroring), nil
	case 1:
		// MMC1: The Legend of Zelda, Metroid, Mega Man 2
		return NewMapper1(cart, mirroring), nil
	case 2:
		// UxROM: Mega Man, Castlevania, Contra
		return NewMapper2(cart, mirroring), nil
	case 3:
		// CNROM: Arkanoid, Cybernoid, Solomon's Key
		return NewMapper3(cart, mirroring), nil
	case 4:
		// MMC3: Super Mario Bros. 2 and 3, Mega Man 3-6
		return NewMapper4(cart, mirroring), nil
	case 7:
		// AxROM: Battletoads, Marble Madness
		return NewMapper7(cart, mirroring), nil
	case 66:
		// GxROM: Super Mario Bros. + Duck Hunt, Dragon Power
		return NewMapper66(cart, mirroring), nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %d", mapperID)
	}
}

// baseMapper carries the state every mapper variant shares. The concrete
// types embed it and layer their bank registers on top.
type baseMapper struct {
	cart   *Cartridge
	mirror MirrorMode
}

func (m *baseMapper) MirrorMode() MirrorMode {
	return m.mirror
}

// CountdownScanline is a no-op for mappers without a scanline counter.
func (m *baseMapper) CountdownScanline() {}

// IRQActive reports false for mappers without an IRQ line.
func (m *baseMapper) IRQActive() bool { return false }

// IRQClear is a no-op for mappers without an IRQ line.
func (m *baseMapper) IRQClear() {}
