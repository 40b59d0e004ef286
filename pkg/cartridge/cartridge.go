package cartridge

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

const (
	// iNES file format constants
	headerSize     = 16
	trainerSize    = 512
	prgROMBankSize = 16384 // 16 KB
	chrROMBankSize = 8192  // 8 KB

	// iNES header magic number
	inesMagic = "NES\x1a"
)

// FileType identifies the container revision of a loaded ROM.
type FileType uint8

const (
	FileINES FileType = iota
	FileNES2
)

// Header is the 16-byte iNES / NES 2.0 header.
//
// Byte layout:
//
//	0-3:   "NES\x1a" magic
//	4:     PRG-ROM size in 16KB blocks
//	5:     CHR-ROM size in 8KB blocks (0 means the cart carries 8KB CHR-RAM)
//	6:     Flags 6 (mapper low nibble, mirroring, battery, trainer)
//	7:     Flags 7 (mapper high nibble, NES 2.0 tag in bits 2-3)
//	8:     PRG-RAM size in 8KB blocks
//	9-10:  TV system
//	11-15: padding
type Header struct {
	PRGBlocks uint8
	CHRBlocks uint8
	Flags6    uint8
	Flags7    uint8
	PRGRAM    uint8
	TV1       uint8
	TV2       uint8
	Padding   [5]uint8
}

// DecodeHeader parses the first 16 bytes of a ROM image.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < headerSize {
		return h, fmt.Errorf("file too small to be a valid iNES ROM")
	}
	if string(data[0:4]) != inesMagic {
		return h, fmt.Errorf("invalid iNES header magic: expected %q, got %q", inesMagic, string(data[0:4]))
	}

	h.PRGBlocks = data[4]
	h.CHRBlocks = data[5]
	h.Flags6 = data[6]
	h.Flags7 = data[7]
	h.PRGRAM = data[8]
	h.TV1 = data[9]
	h.TV2 = data[10]
	copy(h.Padding[:], data[11:16])

	return h, nil
}

// Encode reproduces the original 16 header bytes.
func (h Header) Encode() [headerSize]byte {
	var out [headerSize]byte
	copy(out[0:4], inesMagic)
	out[4] = h.PRGBlocks
	out[5] = h.CHRBlocks
	out[6] = h.Flags6
	out[7] = h.Flags7
	out[8] = h.PRGRAM
	out[9] = h.TV1
	out[10] = h.TV2
	copy(out[11:16], h.Padding[:])
	return out
}

// MapperID combines the mapper nibbles split across flags 6 and 7.
func (h Header) MapperID() uint8 {
	return (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
}

// HasTrainer reports whether a 512-byte trainer precedes PRG-ROM.
func (h Header) HasTrainer() bool {
	return h.Flags6&0x04 != 0
}

// HasSaveRAM reports whether the cart has battery-backed PRG-RAM.
func (h Header) HasSaveRAM() bool {
	return h.Flags6&0x02 != 0
}

// FileType distinguishes iNES from NES 2.0 by bits 2-3 of flags 7.
func (h Header) FileType() FileType {
	if h.Flags7&0x0C == 0x08 {
		return FileNES2
	}
	return FileINES
}

// Mirroring returns the hardwired nametable arrangement from flags 6.
func (h Header) Mirroring() MirrorMode {
	if h.Flags6&0x01 != 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}

// Cartridge owns the PRG-ROM and CHR-ROM/RAM of a loaded game along with
// the mapper that translates bus addresses into them.
//
// CHR is backed by RAM when the header reports zero CHR blocks; in that
// case the region is 8KB and writable through the mapper.
type Cartridge struct {
	header   Header
	fileType FileType

	prgROM []uint8
	chr    []uint8

	chrIsRAM bool
	mapper   Mapper
}

// LoadFromFile loads an iNES format ROM file (.nes).
func LoadFromFile(filename string) (*Cartridge, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses an iNES format ROM from a byte slice.
//
// On any failure the returned cartridge is nil; a partially parsed image is
// never handed back.
func LoadFromBytes(data []byte) (*Cartridge, error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	offset := headerSize
	if header.HasTrainer() {
		offset += trainerSize
	}

	prgSize := int(header.PRGBlocks) * prgROMBankSize
	if len(data) < offset+prgSize {
		return nil, fmt.Errorf("file too small for PRG-ROM data")
	}
	prgROM := make([]uint8, prgSize)
	copy(prgROM, data[offset:offset+prgSize])
	offset += prgSize

	// Zero CHR blocks means the cart carries 8KB of CHR-RAM instead.
	chrIsRAM := header.CHRBlocks == 0
	chrSize := int(header.CHRBlocks) * chrROMBankSize
	if chrIsRAM {
		chrSize = chrROMBankSize
	}
	chr := make([]uint8, chrSize)
	if !chrIsRAM {
		if len(data) < offset+chrSize {
			return nil, fmt.Errorf("file too small for CHR-ROM data")
		}
		copy(chr, data[offset:offset+chrSize])
	}

	cart := &Cartridge{
		header:   header,
		fileType: header.FileType(),
		prgROM:   prgROM,
		chr:      chr,
		chrIsRAM: chrIsRAM,
	}

	mapper, err := createMapper(header.MapperID(), cart, header.Mirroring())
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	glog.Infof("loaded ROM: mapper %d, PRG %dKB, CHR %dKB (RAM=%v)",
		header.MapperID(), prgSize/1024, chrSize/1024, chrIsRAM)

	return cart, nil
}

// CPURead routes a CPU-space read ($4020-$FFFF) through the mapper.
func (c *Cartridge) CPURead(addr uint16) uint8 {
	return c.mapper.CPURead(addr)
}

// CPUWrite routes a CPU-space write through the mapper.
func (c *Cartridge) CPUWrite(addr uint16, data uint8) {
	c.mapper.CPUWrite(addr, data)
}

// PPURead routes a pattern-table read ($0000-$1FFF) through the mapper.
func (c *Cartridge) PPURead(addr uint16) uint8 {
	return c.mapper.PPURead(addr)
}

// PPUWrite routes a pattern-table write through the mapper.
func (c *Cartridge) PPUWrite(addr uint16, data uint8) {
	c.mapper.PPUWrite(addr, data)
}

// MirrorMode returns the nametable arrangement currently selected by the
// mapper. Several mappers change this at runtime.
func (c *Cartridge) MirrorMode() MirrorMode {
	return c.mapper.MirrorMode()
}

// Mapper returns the cartridge's mapper.
func (c *Cartridge) Mapper() Mapper {
	return c.mapper
}

// MapperID returns the mapper number from the header.
func (c *Cartridge) MapperID() uint8 {
	return c.header.MapperID()
}

// Header returns the parsed 16-byte header.
func (c *Cartridge) Header() Header {
	return c.header
}

// PRGBlocks returns the number of 16KB PRG-ROM banks.
func (c *Cartridge) PRGBlocks() uint8 {
	return c.header.PRGBlocks
}

// CHRBlocks returns the number of 8KB CHR-ROM banks (0 for CHR-RAM carts).
func (c *Cartridge) CHRBlocks() uint8 {
	return c.header.CHRBlocks
}

// ReadPRGROM reads a byte at a mapper-computed PRG-ROM offset.
func (c *Cartridge) ReadPRGROM(off int) uint8 {
	if off >= 0 && off < len(c.prgROM) {
		return c.prgROM[off]
	}
	return 0
}

// ReadCHR reads a byte at a mapper-computed CHR offset.
func (c *Cartridge) ReadCHR(off int) uint8 {
	if off >= 0 && off < len(c.chr) {
		return c.chr[off]
	}
	return 0
}

// WriteCHR writes a byte at a mapper-computed CHR offset. Writes to
// CHR-ROM carts are dropped.
func (c *Cartridge) WriteCHR(off int, data uint8) {
	if c.chrIsRAM && off >= 0 && off < len(c.chr) {
		c.chr[off] = data
	}
}

// CHRIsRAM reports whether the CHR region is writable.
func (c *Cartridge) CHRIsRAM() bool {
	return c.chrIsRAM
}

// Reset resets the mapper's bank registers.
func (c *Cartridge) Reset() {
	c.mapper.Reset()
}

// State is the serialized form of the cartridge-side state: the mapper
// registers plus CHR contents when they are RAM. ROM contents are not
// serialized; a snapshot only restores onto the same loaded game.
type State struct {
	MapperID uint8  `json:"mapper_id"`
	Mapper   []byte `json:"mapper"`
	CHRRAM   []byte `json:"chr_ram,omitempty"`
}

// SaveState captures the mapper registers and any CHR-RAM.
func (c *Cartridge) SaveState() (State, error) {
	ms, err := c.mapper.SaveState()
	if err != nil {
		return State{}, err
	}
	s := State{MapperID: c.MapperID(), Mapper: ms}
	if c.chrIsRAM {
		s.CHRRAM = append([]byte(nil), c.chr...)
	}
	return s, nil
}

// LoadState restores mapper registers and CHR-RAM from a snapshot taken on
// the same game. State is untouched on failure.
func (c *Cartridge) LoadState(s State) error {
	if s.MapperID != c.MapperID() {
		return fmt.Errorf("snapshot is for mapper %d, cartridge uses mapper %d", s.MapperID, c.MapperID())
	}
	if c.chrIsRAM && len(s.CHRRAM) != len(c.chr) {
		return fmt.Errorf("snapshot CHR-RAM size %d does not match cartridge %d", len(s.CHRRAM), len(c.chr))
	}
	if err := c.mapper.LoadState(s.Mapper); err != nil {
		return err
	}
	if c.chrIsRAM {
		copy(c.chr, s.CHRRAM)
	}
	return nil
}
