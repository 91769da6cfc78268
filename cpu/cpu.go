// Package cpu implements the 2A03 (a 6502 core with no decimal mode)
// found in the NES, as a cycle-stepped microcoded machine: every opcode
// decodes into a queue of bus micro-cycles consumed one per Tick call,
// reproducing dummy reads/writes, branch/page-cross cycle counts and
// interrupt polling latency instead of executing an instruction atomically.
// https://www.nesdev.org/obelisk-6502-guide/reference.html
package cpu

import "fmt"

// Processor status flags.
const (
	FlagCarry     = 1 << 0 // C
	FlagZero      = 1 << 1 // Z
	FlagIRQOff    = 1 << 2 // I
	FlagDecimal   = 1 << 3 // D (settable/observable, but ADC/SBC ignore it)
	FlagBreak     = 1 << 4 // B (only meaningful in the byte pushed to the stack)
	FlagUnused    = 1 << 5 // always reads back as 1
	FlagOverflow  = 1 << 6 // V
	FlagNegative  = 1 << 7 // N
)

// Interrupt vectors.
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

const stackPage = 0x0100

// Bus is the memory interface the CPU drives. The bus (not the CPU) owns
// the 8-bit open-bus latch; every Read/Write call here corresponds to
// exactly one real bus cycle, including dummy accesses.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// microOp is one bus cycle's worth of CPU work.
type microOp func(c *CPU)

// CPU holds all 2A03 register and sequencing state.
type CPU struct {
	bus Bus

	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Cycles uint64

	queue []microOp

	// Decode scratch space, reused across instructions.
	opcode  uint8
	addrLo  uint8
	addrHi  uint8
	ptr     uint16
	effAddr uint16
	operand uint8
	pageX   bool // true once an indexed addressing calc is known to cross a page

	nmiLine   bool // edge-detected input, latched high by PPU
	nmiLatch  bool // pending edge not yet serviced
	irqLine   bool // level input, ORed from APU + mapper
	polledIRQ bool
	polledNMI bool

	// dmaStalledLastCycle is consulted by unstable-opcode store logic: a DMA
	// stealing the cycle immediately before the write suppresses the
	// high-byte AND corruption (spec.md 4.2).
	dmaStalledLastCycle bool

	magic uint8 // per-instance constant used by ANE/LXA/SHA-family opcodes
}

// New constructs a CPU wired to bus. Call PowerOn or Reset before Tick.
func New(bus Bus, magicSeed uint8) *CPU {
	return &CPU{bus: bus, magic: magicFromSeed(magicSeed)}
}

// magicFromSeed maps a host-provided seed onto one of the documented
// per-chip "magic" constants unstable opcodes (ANE/LXA/SHA family) use.
func magicFromSeed(seed uint8) uint8 {
	values := [...]uint8{0x00, 0xF5, 0xF9, 0xFA, 0xFF}
	return values[int(seed)%len(values)]
}

// PowerOn sets the deterministic (not zeroed) register state hardware
// exhibits at power-up.
// https://www.nesdev.org/wiki/CPU_power_up_state
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagUnused | FlagIRQOff
	c.Cycles = 0
	c.queue = nil
	c.PC = c.read16(vectorReset)
}

// Reset mimics the reset line: SP drops by 3 without writing memory, I is
// forced on, PC loads from the reset vector.
func (c *CPU) Reset() {
	c.SP -= 3
	c.P |= FlagIRQOff
	c.queue = nil
	c.PC = c.read16(vectorReset)
}

func (c *CPU) read(addr uint16) uint8    { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

// SetNMILine is called by the scheduler once per CPU cycle with the PPU's
// current NMI output (PPUCTRL.bit7 && PPUSTATUS.vblank); a low-to-high transition latches an
// edge the CPU services before its next instruction.
func (c *CPU) SetNMILine(level bool) {
	if level && !c.nmiLine {
		c.nmiLatch = true
	}
	c.nmiLine = level
}

// SetIRQLine sets the level-triggered IRQ input, OR'd from the APU's frame
// counter/DMC IRQs and any mapper IRQ source.
func (c *CPU) SetIRQLine(level bool) {
	c.irqLine = level
}

// NotifyDMAStole tells the CPU a DMA engine owned the bus for the cycle
// that just elapsed, so unstable-opcode store corruption can be suppressed
// when it lands on the following write.
func (c *CPU) NotifyDMAStole(stole bool) {
	c.dmaStalledLastCycle = stole
}

// Halted reports whether the CPU has no queued work and would fetch a new
// instruction (or begin an interrupt sequence) on the next Tick.
func (c *CPU) Halted() bool {
	return len(c.queue) == 0
}

// Tick executes exactly one bus cycle.
func (c *CPU) Tick() {
	c.Cycles++
	if len(c.queue) > 0 {
		op := c.queue[0]
		c.queue = c.queue[1:]
		op(c)
		// The IRQ line is sampled at the end of every queued cycle, so
		// startInstruction acts on what the previous instruction's last
		// cycle saw rather than on the line's level at fetch time.
		c.polledIRQ = c.irqLine && c.P&FlagIRQOff == 0
		return
	}
	c.startInstruction()
}

func (c *CPU) pushQueue(ops ...microOp) {
	c.queue = append(c.queue, ops...)
}

// startInstruction either services a pending interrupt or fetches and
// decodes the next opcode, consuming this cycle itself.
func (c *CPU) startInstruction() {
	if c.nmiLatch {
		c.nmiLatch = false
		c.beginInterrupt(vectorNMI, false)
		return
	}
	if c.polledIRQ && c.P&FlagIRQOff == 0 {
		c.polledIRQ = false
		c.beginInterrupt(vectorIRQ, false)
		return
	}

	c.opcode = c.read(c.PC)
	c.PC++
	c.pushQueue(opcodeTable[c.opcode].build(c)...)
}

// beginInterrupt enqueues the 7-cycle interrupt-acknowledge sequence; the
// opcode-fetch cycle that would normally happen here is replaced by the
// first dummy read of the sequence, and the remaining six cycles are pushed
// into the queue and consumed starting next Tick.
func (c *CPU) beginInterrupt(vector uint16, brk bool) {
	pushB := uint8(0)
	if brk {
		pushB = FlagBreak
	}
	c.read(c.PC) // dummy read of the next opcode byte; consumes this cycle
	c.pushQueue(
		func(c *CPU) { c.read(c.PC) }, // second dummy read
		func(c *CPU) { c.pushStack(uint8(c.PC >> 8)) },
		func(c *CPU) { c.pushStack(uint8(c.PC)) },
		func(c *CPU) { c.pushStack(c.P | pushB | FlagUnused) },
		func(c *CPU) { c.addrLo = c.read(vector) },
		func(c *CPU) {
			c.addrHi = c.read(vector + 1)
			c.P |= FlagIRQOff
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
		},
	)
}

func (c *CPU) pushStack(v uint8) {
	c.write(stackPage+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pullStack() uint8 {
	c.SP++
	return c.read(stackPage + uint16(c.SP))
}

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

func (c *CPU) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X P:%02X PC:%04X", c.A, c.X, c.Y, c.SP, c.P, c.PC)
}

// State is the minimal register snapshot the save-state package persists;
// queue/decode scratch state is never mid-instruction at a save-state
// boundary because snapshots are only taken at frame boundaries.
type State struct {
	A, X, Y, SP, P uint8
	PC             uint16
	Cycles         uint64
	NMILine        bool
	NMILatch       bool
	IRQLine        bool
	Magic          uint8
}

func (c *CPU) Snapshot() State {
	return State{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC,
		Cycles: c.Cycles, NMILine: c.nmiLine, NMILatch: c.nmiLatch,
		IRQLine: c.irqLine, Magic: c.magic,
	}
}

func (c *CPU) Restore(s State) {
	c.A, c.X, c.Y, c.SP, c.P, c.PC = s.A, s.X, s.Y, s.SP, s.P, s.PC
	c.Cycles = s.Cycles
	c.nmiLine, c.nmiLatch, c.irqLine = s.NMILine, s.NMILatch, s.IRQLine
	c.magic = s.Magic
	c.queue = nil
}
