package cpu

// AddrMode identifies a 6502 addressing mode.
type AddrMode uint8

const (
	ModeACC AddrMode = iota // accumulator
	ModeIMM                 // immediate
	ModeABS                 // absolute
	ModeZPG                 // zero page
	ModeZPX                 // zero page, X-indexed
	ModeZPY                 // zero page, Y-indexed
	ModeABX                 // absolute, X-indexed
	ModeABY                 // absolute, Y-indexed
	ModeIMP                 // implied
	ModeREL                 // relative
	ModeIDX                 // (zp,X) indexed indirect
	ModeIDY                 // (zp),Y indirect indexed
	ModeIND                 // indirect (JMP only)
	ModeINV                 // unofficial opcode
)

// OpType identifies a 6502 operation.
type OpType uint8

const (
	OpADC OpType = iota
	OpAND
	OpASL
	OpBCC
	OpBCS
	OpBEQ
	OpBIT
	OpBMI
	OpBNE
	OpBPL
	OpBRK
	OpBVC
	OpBVS
	OpCLC
	OpCLD
	OpCLI
	OpCLV
	OpCMP
	OpCPX
	OpCPY
	OpDEC
	OpDEX
	OpDEY
	OpEOR
	OpINC
	OpINX
	OpINY
	OpJMP
	OpJSR
	OpLDA
	OpLDX
	OpLDY
	OpLSR
	OpNOP
	OpORA
	OpPHA
	OpPHP
	OpPLA
	OpPLP
	OpROL
	OpROR
	OpRTI
	OpRTS
	OpSBC
	OpSEC
	OpSED
	OpSEI
	OpSTA
	OpSTX
	OpSTY
	OpTAX
	OpTAY
	OpTSX
	OpTXA
	OpTXS
	OpTYA
	OpINV
)

var opNames = [...]string{
	"ADC", "AND", "ASL",
	"BCC", "BCS", "BEQ", "BIT", "BMI", "BNE", "BPL", "BRK", "BVC", "BVS",
	"CLC", "CLD", "CLI", "CLV", "CMP", "CPX", "CPY",
	"DEC", "DEX", "DEY",
	"EOR",
	"INC", "INX", "INY",
	"JMP", "JSR",
	"LDA", "LDX", "LDY", "LSR",
	"NOP",
	"ORA",
	"PHA", "PHP", "PLA", "PLP",
	"ROL", "ROR", "RTI", "RTS",
	"SBC", "SEC", "SED", "SEI", "STA", "STX", "STY",
	"TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
	"NOP",
}

// Name returns the mnemonic of the operation; unofficial opcodes read as
// the NOP they execute as.
func (op OpType) Name() string {
	return opNames[op]
}

// Instr describes one entry of the decode table.
type Instr struct {
	Opcode uint8
	Mode   AddrMode
	Op     OpType
	Bytes  uint8
	Cycles uint8
}

// Decode returns the table entry for an opcode.
func Decode(opcode uint8) *Instr {
	return &isa[opcode]
}

// isa is the 6502 instruction set indexed by opcode. Unofficial opcodes
// decode as 1-byte, 2-cycle INV entries.
var isa = [256]Instr{
	{0x00, ModeIMP, OpBRK, 1, 7}, {0x01, ModeIDX, OpORA, 2, 6}, {0x02, ModeINV, OpINV, 1, 2}, {0x03, ModeINV, OpINV, 1, 2},
	{0x04, ModeINV, OpINV, 1, 2}, {0x05, ModeZPG, OpORA, 2, 3}, {0x06, ModeZPG, OpASL, 2, 5}, {0x07, ModeINV, OpINV, 1, 2},
	{0x08, ModeIMP, OpPHP, 1, 3}, {0x09, ModeIMM, OpORA, 2, 2}, {0x0A, ModeACC, OpASL, 1, 2}, {0x0B, ModeINV, OpINV, 1, 2},
	{0x0C, ModeINV, OpINV, 1, 2}, {0x0D, ModeABS, OpORA, 3, 4}, {0x0E, ModeABS, OpASL, 3, 6}, {0x0F, ModeINV, OpINV, 1, 2},

	{0x10, ModeREL, OpBPL, 2, 2}, {0x11, ModeIDY, OpORA, 2, 5}, {0x12, ModeINV, OpINV, 1, 2}, {0x13, ModeINV, OpINV, 1, 2},
	{0x14, ModeINV, OpINV, 1, 2}, {0x15, ModeZPX, OpORA, 2, 4}, {0x16, ModeZPX, OpASL, 2, 6}, {0x17, ModeINV, OpINV, 1, 2},
	{0x18, ModeIMP, OpCLC, 1, 2}, {0x19, ModeABY, OpORA, 3, 4}, {0x1A, ModeINV, OpINV, 1, 2}, {0x1B, ModeINV, OpINV, 1, 2},
	{0x1C, ModeINV, OpINV, 1, 2}, {0x1D, ModeABX, OpORA, 3, 4}, {0x1E, ModeABX, OpASL, 3, 7}, {0x1F, ModeINV, OpINV, 1, 2},

	{0x20, ModeABS, OpJSR, 3, 6}, {0x21, ModeIDX, OpAND, 2, 6}, {0x22, ModeINV, OpINV, 1, 2}, {0x23, ModeINV, OpINV, 1, 2},
	{0x24, ModeZPG, OpBIT, 2, 3}, {0x25, ModeZPG, OpAND, 2, 3}, {0x26, ModeZPG, OpROL, 2, 5}, {0x27, ModeINV, OpINV, 1, 2},
	{0x28, ModeIMP, OpPLP, 1, 4}, {0x29, ModeIMM, OpAND, 2, 2}, {0x2A, ModeACC, OpROL, 1, 2}, {0x2B, ModeINV, OpINV, 1, 2},
	{0x2C, ModeABS, OpBIT, 3, 4}, {0x2D, ModeABS, OpAND, 3, 4}, {0x2E, ModeABS, OpROL, 3, 6}, {0x2F, ModeINV, OpINV, 1, 2},

	{0x30, ModeREL, OpBMI, 2, 2}, {0x31, ModeIDY, OpAND, 2, 5}, {0x32, ModeINV, OpINV, 1, 2}, {0x33, ModeINV, OpINV, 1, 2},
	{0x34, ModeINV, OpINV, 1, 2}, {0x35, ModeZPX, OpAND, 2, 4}, {0x36, ModeZPX, OpROL, 2, 6}, {0x37, ModeINV, OpINV, 1, 2},
	{0x38, ModeIMP, OpSEC, 1, 2}, {0x39, ModeABY, OpAND, 3, 4}, {0x3A, ModeINV, OpINV, 1, 2}, {0x3B, ModeINV, OpINV, 1, 2},
	{0x3C, ModeINV, OpINV, 1, 2}, {0x3D, ModeABX, OpAND, 3, 4}, {0x3E, ModeABX, OpROL, 3, 7}, {0x3F, ModeINV, OpINV, 1, 2},

	{0x40, ModeIMP, OpRTI, 1, 6}, {0x41, ModeIDX, OpEOR, 2, 6}, {0x42, ModeINV, OpINV, 1, 2}, {0x43, ModeINV, OpINV, 1, 2},
	{0x44, ModeINV, OpINV, 1, 2}, {0x45, ModeZPG, OpEOR, 2, 3}, {0x46, ModeZPG, OpLSR, 2, 5}, {0x47, ModeINV, OpINV, 1, 2},
	{0x48, ModeIMP, OpPHA, 1, 3}, {0x49, ModeIMM, OpEOR, 2, 2}, {0x4A, ModeACC, OpLSR, 1, 2}, {0x4B, ModeINV, OpINV, 1, 2},
	{0x4C, ModeABS, OpJMP, 3, 3}, {0x4D, ModeABS, OpEOR, 3, 4}, {0x4E, ModeABS, OpLSR, 3, 6}, {0x4F, ModeINV, OpINV, 1, 2},

	{0x50, ModeREL, OpBVC, 2, 2}, {0x51, ModeIDY, OpEOR, 2, 5}, {0x52, ModeINV, OpINV, 1, 2}, {0x53, ModeINV, OpINV, 1, 2},
	{0x54, ModeINV, OpINV, 1, 2}, {0x55, ModeZPX, OpEOR, 2, 4}, {0x56, ModeZPX, OpLSR, 2, 6}, {0x57, ModeINV, OpINV, 1, 2},
	{0x58, ModeIMP, OpCLI, 1, 2}, {0x59, ModeABY, OpEOR, 3, 4}, {0x5A, ModeINV, OpINV, 1, 2}, {0x5B, ModeINV, OpINV, 1, 2},
	{0x5C, ModeINV, OpINV, 1, 2}, {0x5D, ModeABX, OpEOR, 3, 4}, {0x5E, ModeABX, OpLSR, 3, 7}, {0x5F, ModeINV, OpINV, 1, 2},

	{0x60, ModeIMP, OpRTS, 1, 6}, {0x61, ModeIDX, OpADC, 2, 6}, {0x62, ModeINV, OpINV, 1, 2}, {0x63, ModeINV, OpINV, 1, 2},
	{0x64, ModeINV, OpINV, 1, 2}, {0x65, ModeZPG, OpADC, 2, 3}, {0x66, ModeZPG, OpROR, 2, 5}, {0x67, ModeINV, OpINV, 1, 2},
	{0x68, ModeIMP, OpPLA, 1, 4}, {0x69, ModeIMM, OpADC, 2, 2}, {0x6A, ModeACC, OpROR, 1, 2}, {0x6B, ModeINV, OpINV, 1, 2},
	{0x6C, ModeIND, OpJMP, 3, 5}, {0x6D, ModeABS, OpADC, 3, 4}, {0x6E, ModeABS, OpROR, 3, 6}, {0x6F, ModeINV, OpINV, 1, 2},

	{0x70, ModeREL, OpBVS, 2, 2}, {0x71, ModeIDY, OpADC, 2, 5}, {0x72, ModeINV, OpINV, 1, 2}, {0x73, ModeINV, OpINV, 1, 2},
	{0x74, ModeINV, OpINV, 1, 2}, {0x75, ModeZPX, OpADC, 2, 4}, {0x76, ModeZPX, OpROR, 2, 6}, {0x77, ModeINV, OpINV, 1, 2},
	{0x78, ModeIMP, OpSEI, 1, 2}, {0x79, ModeABY, OpADC, 3, 4}, {0x7A, ModeINV, OpINV, 1, 2}, {0x7B, ModeINV, OpINV, 1, 2},
	{0x7C, ModeINV, OpINV, 1, 2}, {0x7D, ModeABX, OpADC, 3, 4}, {0x7E, ModeABX, OpROR, 3, 7}, {0x7F, ModeINV, OpINV, 1, 2},

	{0x80, ModeINV, OpINV, 1, 2}, {0x81, ModeIDX, OpSTA, 2, 6}, {0x82, ModeINV, OpINV, 1, 2}, {0x83, ModeINV, OpINV, 1, 2},
	{0x84, ModeZPG, OpSTY, 2, 3}, {0x85, ModeZPG, OpSTA, 2, 3}, {0x86, ModeZPG, OpSTX, 2, 3}, {0x87, ModeINV, OpINV, 1, 2},
	{0x88, ModeIMP, OpDEY, 1, 2}, {0x89, ModeINV, OpINV, 1, 2}, {0x8A, ModeIMP, OpTXA, 1, 2}, {0x8B, ModeINV, OpINV, 1, 2},
	{0x8C, ModeABS, OpSTY, 3, 4}, {0x8D, ModeABS, OpSTA, 3, 4}, {0x8E, ModeABS, OpSTX, 3, 4}, {0x8F, ModeINV, OpINV, 1, 2},

	{0x90, ModeREL, OpBCC, 2, 2}, {0x91, ModeIDY, OpSTA, 2, 6}, {0x92, ModeINV, OpINV, 1, 2}, {0x93, ModeINV, OpINV, 1, 2},
	{0x94, ModeZPX, OpSTY, 2, 4}, {0x95, ModeZPX, OpSTA, 2, 4}, {0x96, ModeZPY, OpSTX, 2, 4}, {0x97, ModeINV, OpINV, 1, 2},
	{0x98, ModeIMP, OpTYA, 1, 2}, {0x99, ModeABY, OpSTA, 3, 5}, {0x9A, ModeIMP, OpTXS, 1, 2}, {0x9B, ModeINV, OpINV, 1, 2},
	{0x9C, ModeINV, OpINV, 1, 2}, {0x9D, ModeABX, OpSTA, 3, 5}, {0x9E, ModeINV, OpINV, 1, 2}, {0x9F, ModeINV, OpINV, 1, 2},

	{0xA0, ModeIMM, OpLDY, 2, 2}, {0xA1, ModeIDX, OpLDA, 2, 6}, {0xA2, ModeIMM, OpLDX, 2, 2}, {0xA3, ModeINV, OpINV, 1, 2},
	{0xA4, ModeZPG, OpLDY, 2, 3}, {0xA5, ModeZPG, OpLDA, 2, 3}, {0xA6, ModeZPG, OpLDX, 2, 3}, {0xA7, ModeINV, OpINV, 1, 2},
	{0xA8, ModeIMP, OpTAY, 1, 2}, {0xA9, ModeIMM, OpLDA, 2, 2}, {0xAA, ModeIMP, OpTAX, 1, 2}, {0xAB, ModeINV, OpINV, 1, 2},
	{0xAC, ModeABS, OpLDY, 3, 4}, {0xAD, ModeABS, OpLDA, 3, 4}, {0xAE, ModeABS, OpLDX, 3, 4}, {0xAF, ModeINV, OpINV, 1, 2},

	{0xB0, ModeREL, OpBCS, 2, 2}, {0xB1, ModeIDY, OpLDA, 2, 5}, {0xB2, ModeINV, OpINV, 1, 2}, {0xB3, ModeINV, OpINV, 1, 2},
	{0xB4, ModeZPX, OpLDY, 2, 4}, {0xB5, ModeZPX, OpLDA, 2, 4}, {0xB6, ModeZPY, OpLDX, 2, 4}, {0xB7, ModeINV, OpINV, 1, 2},
	{0xB8, ModeIMP, OpCLV, 1, 2}, {0xB9, ModeABY, OpLDA, 3, 4}, {0xBA, ModeIMP, OpTSX, 1, 2}, {0xBB, ModeINV, OpINV, 1, 2},
	{0xBC, ModeABX, OpLDY, 3, 4}, {0xBD, ModeABX, OpLDA, 3, 4}, {0xBE, ModeABY, OpLDX, 3, 4}, {0xBF, ModeINV, OpINV, 1, 2},

	{0xC0, ModeIMM, OpCPY, 2, 2}, {0xC1, ModeIDX, OpCMP, 2, 6}, {0xC2, ModeINV, OpINV, 1, 2}, {0xC3, ModeINV, OpINV, 1, 2},
	{0xC4, ModeZPG, OpCPY, 2, 3}, {0xC5, ModeZPG, OpCMP, 2, 3}, {0xC6, ModeZPG, OpDEC, 2, 5}, {0xC7, ModeINV, OpINV, 1, 2},
	{0xC8, ModeIMP, OpINY, 1, 2}, {0xC9, ModeIMM, OpCMP, 2, 2}, {0xCA, ModeIMP, OpDEX, 1, 2}, {0xCB, ModeINV, OpINV, 1, 2},
	{0xCC, ModeABS, OpCPY, 3, 4}, {0xCD, ModeABS, OpCMP, 3, 4}, {0xCE, ModeABS, OpDEC, 3, 6}, {0xCF, ModeINV, OpINV, 1, 2},

	{0xD0, ModeREL, OpBNE, 2, 2}, {0xD1, ModeIDY, OpCMP, 2, 5}, {0xD2, ModeINV, OpINV, 1, 2}, {0xD3, ModeINV, OpINV, 1, 2},
	{0xD4, ModeINV, OpINV, 1, 2}, {0xD5, ModeZPX, OpCMP, 2, 4}, {0xD6, ModeZPX, OpDEC, 2, 6}, {0xD7, ModeINV, OpINV, 1, 2},
	{0xD8, ModeIMP, OpCLD, 1, 2}, {0xD9, ModeABY, OpCMP, 3, 4}, {0xDA, ModeINV, OpINV, 1, 2}, {0xDB, ModeINV, OpINV, 1, 2},
	{0xDC, ModeINV, OpINV, 1, 2}, {0xDD, ModeABX, OpCMP, 3, 4}, {0xDE, ModeABX, OpDEC, 3, 7}, {0xDF, ModeINV, OpINV, 1, 2},

	{0xE0, ModeIMM, OpCPX, 2, 2}, {0xE1, ModeIDX, OpSBC, 2, 6}, {0xE2, ModeINV, OpINV, 1, 2}, {0xE3, ModeINV, OpINV, 1, 2},
	{0xE4, ModeZPG, OpCPX, 2, 3}, {0xE5, ModeZPG, OpSBC, 2, 3}, {0xE6, ModeZPG, OpINC, 2, 5}, {0xE7, ModeINV, OpINV, 1, 2},
	{0xE8, ModeIMP, OpINX, 1, 2}, {0xE9, ModeIMM, OpSBC, 2, 2}, {0xEA, ModeIMP, OpNOP, 1, 2}, {0xEB, ModeINV, OpINV, 1, 2},
	{0xEC, ModeABS, OpCPX, 3, 4}, {0xED, ModeABS, OpSBC, 3, 4}, {0xEE, ModeABS, OpINC, 3, 6}, {0xEF, ModeINV, OpINV, 1, 2},

	{0xF0, ModeREL, OpBEQ, 2, 2}, {0xF1, ModeIDY, OpSBC, 2, 5}, {0xF2, ModeINV, OpINV, 1, 2}, {0xF3, ModeINV, OpINV, 1, 2},
	{0xF4, ModeINV, OpINV, 1, 2}, {0xF5, ModeZPX, OpSBC, 2, 4}, {0xF6, ModeZPX, OpINC, 2, 6}, {0xF7, ModeINV, OpINV, 1, 2},
	{0xF8, ModeIMP, OpSED, 1, 2}, {0xF9, ModeABY, OpSBC, 3, 4}, {0xFA, ModeINV, OpINV, 1, 2}, {0xFB, ModeINV, OpINV, 1, 2},
	{0xFC, ModeINV, OpINV, 1, 2}, {0xFD, ModeABX, OpSBC, 3, 4}, {0xFE, ModeABX, OpINC, 3, 7}, {0xFF, ModeINV, OpINV, 1, 2},
}
