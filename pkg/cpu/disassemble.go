package cpu

import (
	"fmt"
	"strings"
)

// Disassemble renders the instruction at addr as a nestest-style line,
// e.g. "C000  4C F5 C5  JMP $C5F5". All memory is read through the bus
// inspect path, so disassembling never perturbs emulation state.
func (c *CPU) Disassemble(addr uint16) string {
	opcode := c.bus.Inspect(addr)
	instr := Decode(opcode)

	b2 := c.bus.Inspect(addr + 1)
	b3 := c.bus.Inspect(addr + 2)

	bytecode := fmt.Sprintf("%02X", opcode)
	if instr.Bytes > 1 {
		bytecode += fmt.Sprintf(" %02X", b2)
	}
	if instr.Bytes > 2 {
		bytecode += fmt.Sprintf(" %02X", b3)
	}

	marker := " "
	if instr.Mode == ModeINV {
		marker = "*"
	}

	line := fmt.Sprintf("%04X  %-8s %s%s %s", addr, bytecode, marker, instr.Op.Name(), c.operandString(addr, instr, b2, b3))
	return strings.TrimRight(line, " ")
}

// TraceLine renders the instruction at PC together with the register
// state, matching the nestest reference log layout.
func (c *CPU) TraceLine() string {
	return fmt.Sprintf("%-47s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.Disassemble(c.pc), c.a, c.x, c.y, c.status, c.sp, c.cyclesCount)
}

// operandString formats the operand field the way the nestest golden log
// does, annotating resolved addresses and the values read from them.
func (c *CPU) operandString(addr uint16, instr *Instr, b2, b3 uint8) string {
	abs := uint16(b3)<<8 | uint16(b2)

	switch instr.Mode {
	case ModeACC:
		return "A"

	case ModeIMM:
		return fmt.Sprintf("#$%02X", b2)

	case ModeABS:
		if instr.Op == OpJMP || instr.Op == OpJSR {
			return fmt.Sprintf("$%04X", abs)
		}
		return fmt.Sprintf("$%04X = %02X", abs, c.bus.Inspect(abs))

	case ModeZPG:
		return fmt.Sprintf("$%02X = %02X", b2, c.bus.Inspect(uint16(b2)))

	case ModeZPX:
		eff := uint16(b2 + c.x)
		return fmt.Sprintf("$%02X,X @ %02X = %02X", b2, uint8(eff), c.bus.Inspect(eff))

	case ModeZPY:
		eff := uint16(b2 + c.y)
		return fmt.Sprintf("$%02X,Y @ %02X = %02X", b2, uint8(eff), c.bus.Inspect(eff))

	case ModeABX:
		eff := abs + uint16(c.x)
		return fmt.Sprintf("$%04X,X @ %04X = %02X", abs, eff, c.bus.Inspect(eff))

	case ModeABY:
		eff := abs + uint16(c.y)
		return fmt.Sprintf("$%04X,Y @ %04X = %02X", abs, eff, c.bus.Inspect(eff))

	case ModeREL:
		return fmt.Sprintf("$%04X", addr+2+uint16(int16(int8(b2))))

	case ModeIDX:
		ptr := b2 + c.x
		eff := uint16(c.bus.Inspect(uint16(ptr+1)))<<8 | uint16(c.bus.Inspect(uint16(ptr)))
		return fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", b2, ptr, eff, c.bus.Inspect(eff))

	case ModeIDY:
		base := uint16(c.bus.Inspect(uint16(b2+1)))<<8 | uint16(c.bus.Inspect(uint16(b2)))
		eff := base + uint16(c.y)
		return fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", b2, base, eff, c.bus.Inspect(eff))

	case ModeIND:
		var eff uint16
		if abs&0x00FF == 0x00FF {
			eff = uint16(c.bus.Inspect(abs&0xFF00))<<8 | uint16(c.bus.Inspect(abs))
		} else {
			eff = uint16(c.bus.Inspect(abs+1))<<8 | uint16(c.bus.Inspect(abs))
		}
		return fmt.Sprintf("($%04X) = %04X", abs, eff)

	default:
		return ""
	}
}
