package cpu

import "testing"

// testBus is a flat 64KB memory with no side effects.
type testBus struct {
	mem [65536]uint8
}

func (b *testBus) Read(addr uint16) uint8        { return b.mem[addr] }
func (b *testBus) Write(addr uint16, data uint8) { b.mem[addr] = data }
func (b *testBus) Inspect(addr uint16) uint8     { return b.mem[addr] }

// newTestCPU loads a program at $8000, points the reset vector at it, and
// burns through the 7-cycle reset charge so the next Step executes the
// first instruction.
func newTestCPU(t *testing.T, prog []byte) (*CPU, *testBus) {
	t.Helper()

	b := &testBus{}
	copy(b.mem[0x8000:], prog)
	b.mem[resetVector] = 0x00
	b.mem[resetVector+1] = 0x80

	c := New(b)
	c.Reset()
	c.Step()

	if c.PC() != 0x8000 {
		t.Fatalf("reset vector not honored: PC = %04X", c.PC())
	}
	return c, b
}

// stepN executes n whole instructions.
func stepN(c *CPU, n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// stepCycles executes one instruction and returns how many cycles it
// consumed.
func stepCycles(c *CPU) uint64 {
	before := c.TotalCycles()
	c.Step()
	return c.TotalCycles() - before
}

// drain runs clocks until the charged interrupt time expires.
func drain(c *CPU) {
	for c.CyclesRem() > 0 {
		c.Clock()
	}
}

// checkFlag asserts one status flag.
func checkFlag(t *testing.T, c *CPU, flag uint8, want bool) {
	t.Helper()
	if got := c.Status()&flag != 0; got != want {
		t.Errorf("flag %02X = %v, want %v", flag, got, want)
	}
}

func TestADCFlags(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		operand uint8
		carryIn bool
		want    uint8
		c, v    bool
		z, n    bool
	}{
		{"simple", 0x50, 0x10, false, 0x60, false, false, false, false},
		{"signed overflow", 0x50, 0x50, false, 0xA0, false, true, false, true},
		{"negative overflow", 0xD0, 0x90, false, 0x60, true, true, false, false},
		{"carry out to zero", 0xFF, 0x01, false, 0x00, true, false, true, false},
		{"carry in", 0x10, 0x10, true, 0x21, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carryOp := byte(0x18) // CLC
			if tt.carryIn {
				carryOp = 0x38 // SEC
			}
			c, _ := newTestCPU(t, []byte{carryOp, 0xA9, tt.a, 0x69, tt.operand})
			stepN(c, 3)

			if c.A() != tt.want {
				t.Errorf("A = %02X, want %02X", c.A(), tt.want)
			}
			checkFlag(t, c, FlagC, tt.c)
			checkFlag(t, c, FlagV, tt.v)
			checkFlag(t, c, FlagZ, tt.z)
			checkFlag(t, c, FlagN, tt.n)
		})
	}
}

func TestSBCFlags(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		operand uint8
		want    uint8
		c, v    bool
	}{
		{"no borrow", 0x50, 0x30, 0x20, true, false},
		{"borrow", 0x50, 0x70, 0xE0, false, false},
		{"signed overflow", 0x50, 0xB0, 0xA0, false, true},
		{"negative minus positive", 0xD0, 0x70, 0x60, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// SEC first: SBC subtracts the complemented borrow.
			c, _ := newTestCPU(t, []byte{0x38, 0xA9, tt.a, 0xE9, tt.operand})
			stepN(c, 3)

			if c.A() != tt.want {
				t.Errorf("A = %02X, want %02X", c.A(), tt.want)
			}
			checkFlag(t, c, FlagC, tt.c)
			checkFlag(t, c, FlagV, tt.v)
		})
	}
}

func TestBITFlags(t *testing.T) {
	// BIT $10 with A=0x01 against memory 0xC0: Z from A&M, N from bit 7,
	// V from bit 6 of the operand.
	c, b := newTestCPU(t, []byte{0xA9, 0x01, 0x24, 0x10})
	b.mem[0x10] = 0xC0
	stepN(c, 2)

	checkFlag(t, c, FlagZ, true)
	checkFlag(t, c, FlagN, true)
	checkFlag(t, c, FlagV, true)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		operand uint8
		c, z, n bool
	}{
		{"greater", 0x40, 0x20, true, false, false},
		{"equal", 0x40, 0x40, true, true, false},
		{"less", 0x20, 0x40, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(t, []byte{0xA9, tt.a, 0xC9, tt.operand})
			stepN(c, 2)

			checkFlag(t, c, FlagC, tt.c)
			checkFlag(t, c, FlagZ, tt.z)
			checkFlag(t, c, FlagN, tt.n)
		})
	}
}

func TestBranchCycles(t *testing.T) {
	t.Run("not taken", func(t *testing.T) {
		// LDA #1 clears Z, BEQ falls through.
		c, _ := newTestCPU(t, []byte{0xA9, 0x01, 0xF0, 0x02})
		stepN(c, 1)
		if got := stepCycles(c); got != 2 {
			t.Errorf("untaken branch took %d cycles, want 2", got)
		}
	})

	t.Run("taken same page", func(t *testing.T) {
		c, _ := newTestCPU(t, []byte{0xA9, 0x00, 0xF0, 0x02})
		stepN(c, 1)
		if got := stepCycles(c); got != 3 {
			t.Errorf("taken branch took %d cycles, want 3", got)
		}
		if c.PC() != 0x8006 {
			t.Errorf("PC = %04X, want 8006", c.PC())
		}
	})

	t.Run("taken cross page", func(t *testing.T) {
		b := &testBus{}
		// LDA #0 at $80F6, BEQ +$10 at $80F8: target $810A.
		b.mem[0x80F6] = 0xA9
		b.mem[0x80F7] = 0x00
		b.mem[0x80F8] = 0xF0
		b.mem[0x80F9] = 0x10
		b.mem[resetVector] = 0xF6
		b.mem[resetVector+1] = 0x80

		c := New(b)
		c.Reset()
		c.Step()
		stepN(c, 1)
		if got := stepCycles(c); got != 4 {
			t.Errorf("page-crossing branch took %d cycles, want 4", got)
		}
		if c.PC() != 0x810A {
			t.Errorf("PC = %04X, want 810A", c.PC())
		}
	})
}

func TestPageCrossPenalty(t *testing.T) {
	tests := []struct {
		name string
		prog []byte
		want uint64
	}{
		{"lda abs,x same page", []byte{0xA2, 0x01, 0xBD, 0x00, 0x20}, 4},
		{"lda abs,x cross page", []byte{0xA2, 0x01, 0xBD, 0xFF, 0x20}, 5},
		{"sta abs,x always flat", []byte{0xA2, 0x01, 0x9D, 0xFF, 0x20}, 5},
		{"lda (zp),y cross page", []byte{0xA0, 0x01, 0xB1, 0x10}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b := newTestCPU(t, tt.prog)
			// Pointer for the (zp),Y case crosses from $20FF.
			b.mem[0x10] = 0xFF
			b.mem[0x11] = 0x20

			stepN(c, 1)
			if got := stepCycles(c); got != tt.want {
				t.Errorf("instruction took %d cycles, want %d", got, tt.want)
			}
		})
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, b := newTestCPU(t, []byte{0x6C, 0xFF, 0x02})
	b.mem[0x02FF] = 0x34
	b.mem[0x0200] = 0x12 // high byte comes from the same page, not $0300
	b.mem[0x0300] = 0x99
	stepN(c, 1)

	if c.PC() != 0x1234 {
		t.Errorf("PC = %04X, want 1234 (page-wrap bug)", c.PC())
	}
}

func TestStackPushPopWrap(t *testing.T) {
	// LDX #$00, TXS, LDA #$7E, PHA: push at $0100 leaves SP at $FF.
	c, b := newTestCPU(t, []byte{0xA2, 0x00, 0x9A, 0xA9, 0x7E, 0x48, 0x68})
	stepN(c, 4)

	if b.mem[0x0100] != 0x7E {
		t.Errorf("stack top = %02X, want 7E", b.mem[0x0100])
	}
	if c.SP() != 0xFF {
		t.Errorf("SP = %02X, want FF (wrapped)", c.SP())
	}

	// PLA wraps back up and restores A.
	stepN(c, 1)
	if c.A() != 0x7E || c.SP() != 0x00 {
		t.Errorf("after PLA: A=%02X SP=%02X, want A=7E SP=00", c.A(), c.SP())
	}
}

func TestPHPAndPLPQuirks(t *testing.T) {
	// Status after reset is I|U = $24; PHP must push $34 (B set) while
	// leaving the live register's B clear.
	c, b := newTestCPU(t, []byte{0x08, 0xA9, 0xFF, 0x48, 0x28})
	stepN(c, 1)

	if got := b.mem[0x01FD]; got != 0x34 {
		t.Errorf("PHP pushed %02X, want 34", got)
	}
	if c.Status()&FlagB != 0 {
		t.Error("PHP left B set in the live status register")
	}

	// PLP of $FF forces B clear and U set.
	stepN(c, 3)
	if got := c.Status(); got != 0xEF {
		t.Errorf("status after PLP($FF) = %02X, want EF", got)
	}
}

func TestNMI(t *testing.T) {
	c, b := newTestCPU(t, []byte{0xEA})
	b.mem[nmiVector] = 0x00
	b.mem[nmiVector+1] = 0x90

	spBefore := c.SP()
	c.NMI()
	drain(c)

	if c.PC() != 0x9000 {
		t.Errorf("PC = %04X, want 9000", c.PC())
	}
	if c.Status()&FlagI == 0 {
		t.Error("NMI must set the interrupt disable flag")
	}

	// Pushed: PCH, PCL, status with B clear.
	if got := b.mem[0x0100+uint16(spBefore)]; got != 0x80 {
		t.Errorf("pushed PCH = %02X, want 80", got)
	}
	if got := b.mem[0x0100+uint16(spBefore)-1]; got != 0x00 {
		t.Errorf("pushed PCL = %02X, want 00", got)
	}
	if got := b.mem[0x0100+uint16(spBefore)-2]; got&FlagB != 0 {
		t.Errorf("pushed status %02X has B set", got)
	}
}

func TestIRQMasking(t *testing.T) {
	c, b := newTestCPU(t, []byte{0xEA, 0x58, 0xEA})
	b.mem[irqVector] = 0x00
	b.mem[irqVector+1] = 0xA0

	// I is set after reset, so the IRQ is ignored.
	c.IRQ()
	if c.PC() == 0xA000 {
		t.Fatal("IRQ taken while I was set")
	}

	stepN(c, 2) // NOP, CLI
	c.IRQ()
	drain(c)
	if c.PC() != 0xA000 {
		t.Errorf("PC = %04X, want A000 after unmasked IRQ", c.PC())
	}
}

func TestBRK(t *testing.T) {
	c, b := newTestCPU(t, []byte{0x00})
	b.mem[irqVector] = 0x00
	b.mem[irqVector+1] = 0xA0

	stepN(c, 1)

	if c.PC() != 0xA000 {
		t.Errorf("PC = %04X, want A000", c.PC())
	}
	// BRK pushes PC+1 ($8002) and status with B set.
	if b.mem[0x01FD] != 0x80 || b.mem[0x01FC] != 0x02 {
		t.Errorf("pushed return = %02X%02X, want 8002", b.mem[0x01FD], b.mem[0x01FC])
	}
	if b.mem[0x01FB]&FlagB == 0 {
		t.Error("BRK must push status with B set")
	}
}

func TestInvalidOpcodeActsAsNOP(t *testing.T) {
	c, _ := newTestCPU(t, []byte{0x02, 0xEA})

	if got := stepCycles(c); got != 2 {
		t.Errorf("INV took %d cycles, want 2", got)
	}
	if c.PC() != 0x8001 {
		t.Errorf("PC = %04X, want 8001 (1-byte INV)", c.PC())
	}
}

func TestCyclesRemainingInvariant(t *testing.T) {
	c, _ := newTestCPU(t, []byte{0xA9, 0x01, 0xEA})

	// Mid-instruction the CPU is still "executing": no new fetch.
	c.Clock()
	if c.CyclesRem() == 0 {
		t.Fatal("LDA immediate should take 2 cycles")
	}
	pcMid := c.PC()
	c.Clock()
	if c.CyclesRem() != 0 {
		t.Fatalf("cycles remaining = %d after 2 clocks", c.CyclesRem())
	}
	if c.PC() != pcMid {
		t.Error("PC moved while cycles remained on the current instruction")
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	c, b := newTestCPU(t, []byte{0xA9, 0x42, 0xEA, 0xEA})
	stepN(c, 1)
	c.Clock() // into the middle of the NOP

	state := c.SaveState()

	c2 := New(b)
	c2.LoadState(state)

	if got := c2.SaveState(); got != state {
		t.Errorf("restored state differs: %+v vs %+v", got, state)
	}

	// The restored CPU picks up where the snapshot left off.
	drain(c2)
	c2.Step()
	if c2.PC() != 0x8004 {
		t.Errorf("PC = %04X, want 8004 after finishing both NOPs", c2.PC())
	}
}

func TestDisassemble(t *testing.T) {
	c, b := newTestCPU(t, nil)
	prog := []byte{
		0x4C, 0xF5, 0xC5, // JMP $C5F5
		0xA9, 0x10, // LDA #$10
		0xA5, 0x33, // LDA $33
		0xEA,       // NOP
		0x02,       // invalid
		0xF0, 0x04, // BEQ
		0x6C, 0xFF, 0x02, // JMP ($02FF)
	}
	copy(b.mem[0xC000:], prog)
	b.mem[0x33] = 0x7F
	b.mem[0x02FF] = 0x34
	b.mem[0x0200] = 0x12

	tests := []struct {
		addr uint16
		want string
	}{
		{0xC000, "C000  4C F5 C5  JMP $C5F5"},
		{0xC003, "C003  A9 10     LDA #$10"},
		{0xC005, "C005  A5 33     LDA $33 = 7F"},
		{0xC007, "C007  EA        NOP"},
		{0xC008, "C008  02       *NOP"},
		{0xC009, "C009  F0 04     BEQ $C00F"},
		{0xC00B, "C00B  6C FF 02  JMP ($02FF) = 1234"},
	}

	for _, tt := range tests {
		if got := c.Disassemble(tt.addr); got != tt.want {
			t.Errorf("Disassemble(%04X) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
