package cpu

import "testing"

// ramBus is a flat 64KiB bus used to exercise the CPU in isolation.
type ramBus struct {
	mem [65536]uint8
}

func (b *ramBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *ramBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU() (*CPU, *ramBus) {
	bus := &ramBus{}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80
	c := New(bus, 0)
	c.PowerOn()
	return c, bus
}

func run(c *CPU, cycles int) {
	for i := 0; i < cycles; i++ {
		c.Tick()
	}
}

func TestLDAImmediate(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xA9
	bus.mem[0x8001] = 0x42
	run(c, 2)
	if c.A != 0x42 {
		t.Fatalf("A = %#x, want 0x42", c.A)
	}
	if c.P&FlagZero != 0 || c.P&FlagNegative != 0 {
		t.Fatalf("flags = %#x, want Z=0 N=0", c.P)
	}
}

func TestLDAZeroSetsZeroFlag(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xA9
	bus.mem[0x8001] = 0x00
	run(c, 2)
	if c.P&FlagZero == 0 {
		t.Fatalf("Z flag not set for zero load")
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x7F
	bus.mem[0x8000] = 0x69 // ADC #$01
	bus.mem[0x8001] = 0x01
	run(c, 2)
	if c.A != 0x80 {
		t.Fatalf("A = %#x, want 0x80", c.A)
	}
	if c.P&FlagOverflow == 0 {
		t.Fatalf("V flag not set on signed overflow")
	}
	if c.P&FlagCarry != 0 {
		t.Fatalf("C flag unexpectedly set")
	}
}

func TestAbsoluteAddressingFourCycles(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xAD // LDA $1234
	bus.mem[0x8001] = 0x34
	bus.mem[0x8002] = 0x12
	bus.mem[0x1234] = 0x55
	run(c, 4)
	if c.A != 0x55 {
		t.Fatalf("A = %#x, want 0x55", c.A)
	}
	if !c.Halted() {
		t.Fatalf("CPU not idle after declared cycle count")
	}
}

func TestAbsoluteXPageCrossExtraCycle(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0xFF
	bus.mem[0x8000] = 0xBD // LDA $1201,X -> crosses into $1300
	bus.mem[0x8001] = 0x01
	bus.mem[0x8002] = 0x12
	bus.mem[0x1300] = 0x77

	run(c, 4)
	if c.A == 0x77 {
		t.Fatalf("result landed before the page-cross cycle elapsed")
	}
	run(c, 1)
	if c.A != 0x77 {
		t.Fatalf("A = %#x, want 0x77 after 5th cycle", c.A)
	}
}

func TestAbsoluteXNoPageCrossFourCycles(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0x01
	bus.mem[0x8000] = 0xBD // LDA $1200,X -> $1201, same page
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x12
	bus.mem[0x1201] = 0x33
	run(c, 4)
	if c.A != 0x33 || !c.Halted() {
		t.Fatalf("A = %#x halted=%v, want 0x33 halted after 4 cycles", c.A, c.Halted())
	}
}

func TestBranchNotTakenTwoCycles(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xF0 // BEQ, Z clear
	bus.mem[0x8001] = 0x10
	run(c, 2)
	if c.PC != 0x8002 || !c.Halted() {
		t.Fatalf("PC = %#x, want 0x8002 after 2 cycles", c.PC)
	}
}

func TestBranchTakenSamePageThreeCycles(t *testing.T) {
	c, bus := newTestCPU()
	c.P |= FlagZero
	bus.mem[0x8000] = 0xF0 // BEQ +$10
	bus.mem[0x8001] = 0x10
	run(c, 3)
	if c.PC != 0x8012 || !c.Halted() {
		t.Fatalf("PC = %#x, want 0x8012 after 3 cycles", c.PC)
	}
}

func TestJSRThenRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x20 // JSR $9000
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x90
	bus.mem[0x9000] = 0x60 // RTS

	run(c, 6) // JSR
	if c.PC != 0x9000 {
		t.Fatalf("PC = %#x after JSR, want 0x9000", c.PC)
	}
	run(c, 6) // RTS
	if c.PC != 0x8003 {
		t.Fatalf("PC = %#x after RTS, want 0x8003", c.PC)
	}
}

func TestStackPushPull(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0xAB
	sp := c.SP
	bus.mem[0x8000] = 0x48 // PHA
	bus.mem[0x8001] = 0xA9 // LDA #$00
	bus.mem[0x8002] = 0x00
	bus.mem[0x8003] = 0x68 // PLA
	run(c, 3)               // PHA
	if c.SP != sp-1 {
		t.Fatalf("SP = %#x after PHA, want %#x", c.SP, sp-1)
	}
	run(c, 2) // LDA #$00
	if c.A != 0 {
		t.Fatalf("A = %#x after LDA #0, want 0", c.A)
	}
	run(c, 4) // PLA
	if c.A != 0xAB || c.SP != sp {
		t.Fatalf("A=%#x SP=%#x after PLA, want A=0xAB SP=%#x", c.A, c.SP, sp)
	}
}

func TestBRKThenRTI(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0xA0 // IRQ/BRK vector -> $A000
	bus.mem[0xA000] = 0x40 // RTI
	bus.mem[0x8000] = 0x00 // BRK

	run(c, 7)
	if c.PC != 0xA000 {
		t.Fatalf("PC = %#x after BRK, want 0xA000", c.PC)
	}
	if c.P&FlagIRQOff == 0 {
		t.Fatalf("I flag not set after BRK")
	}
	run(c, 6)
	if c.PC != 0x8002 {
		t.Fatalf("PC = %#x after RTI, want 0x8002", c.PC)
	}
}

func TestUnofficialSLOAbsolute(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x01
	bus.mem[0x8000] = 0x0F // SLO $1000
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x10
	bus.mem[0x1000] = 0x81 // 1000_0001 << 1 = 0000_0010, carry out set

	run(c, 6)
	if bus.mem[0x1000] != 0x02 {
		t.Fatalf("memory = %#x, want 0x02", bus.mem[0x1000])
	}
	if c.A != 0x03 { // 0x01 | 0x02
		t.Fatalf("A = %#x, want 0x03", c.A)
	}
	if c.P&FlagCarry == 0 {
		t.Fatalf("carry not set from shifted-out bit 7")
	}
}

func TestIRQServicedBetweenInstructions(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0xB0 // IRQ vector -> $B000
	bus.mem[0x8000] = 0xEA // NOP
	c.P &^= FlagIRQOff
	c.SetIRQLine(true)

	run(c, 2) // NOP completes
	run(c, 7) // interrupt sequence begins on the next startInstruction
	if c.PC != 0xB000 {
		t.Fatalf("PC = %#x, want 0xB000 after IRQ dispatch", c.PC)
	}
}

func TestJAMFreezesProgramCounter(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x02 // JAM
	run(c, 1)
	pc := c.PC
	run(c, 10)
	if c.PC != pc {
		t.Fatalf("PC advanced from %#x to %#x while jammed", pc, c.PC)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x6C // JMP ($30FF)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x30
	bus.mem[0x30FF] = 0x34
	bus.mem[0x3000] = 0x12 // hardware re-reads from $3000, not $3100
	bus.mem[0x3100] = 0x99

	run(c, 5)
	if c.PC != 0x1234 {
		t.Fatalf("PC = %#x, want 0x1234 (page-wrap bug)", c.PC)
	}
}
