// Package dma implements the two DMA controllers riding the NES CPU bus:
// OAM DMA ($4014, a scheduler-stepped 256-byte copy into sprite memory) and
// DMC DMA (single-byte sample refills stolen for the APU's delta channel).
// Both are modeled as cycle-stepped state machines so the scheduler can halt
// the CPU for exactly as many cycles as real hardware does.
// https://www.nesdev.org/wiki/DMA
package dma

// Bus is the DMA engine's view of CPU address space and PPU OAM.
type Bus interface {
	Read(addr uint16) uint8
	WriteOAMByte(val uint8)
}

// Engine owns both DMA controllers. Only one of them actually transfers data
// in a given cycle; when both want the bus, DMC DMA takes priority and OAM
// DMA's cycle is simply delayed, matching real hardware's "get-put" halt
// extension behavior.
type Engine struct {
	bus Bus

	oamActive   bool
	oamPage     uint16
	oamOffset   uint16
	oamDummy    int // cycles to burn before the first read (1, or 2 if misaligned)
	oamGetDone  bool
	oamLatch    uint8

	dmcStall int
}

func New(bus Bus) *Engine {
	return &Engine{bus: bus}
}

// RequestOAM starts a 256-byte transfer from page*0x100 into OAM. cpuCycle is
// the CPU's total elapsed cycle count at the time of the triggering $4014
// write, used to add the extra alignment cycle when the write lands on an
// odd CPU cycle (513 cycles total on an even cycle, 514 on an odd one).
func (e *Engine) RequestOAM(page uint8, cpuCycle uint64) {
	e.oamActive = true
	e.oamPage = uint16(page) << 8
	e.oamOffset = 0
	e.oamGetDone = false
	e.oamDummy = 1
	if cpuCycle%2 != 0 {
		e.oamDummy = 2
	}
}

// RequestDMC halts the CPU for cycles cycles so the DMC channel can refill
// its sample buffer. Multiple requests accumulate rather than overwrite, in
// case a refill lands while an earlier stall hasn't finished draining.
func (e *Engine) RequestDMC(cycles int) {
	e.dmcStall += cycles
}

// Active reports whether the scheduler should run Tick instead of stepping
// the CPU this cycle.
func (e *Engine) Active() bool {
	return e.oamActive || e.dmcStall > 0
}

// Tick performs one cycle's worth of DMA work. The scheduler calls this in
// place of cpu.Tick whenever Active reports true.
func (e *Engine) Tick() {
	if e.dmcStall > 0 {
		e.dmcStall--
		return
	}
	if !e.oamActive {
		return
	}
	if e.oamDummy > 0 {
		e.oamDummy--
		return
	}
	if !e.oamGetDone {
		e.oamLatch = e.bus.Read(e.oamPage + e.oamOffset)
		e.oamGetDone = true
		return
	}
	e.bus.WriteOAMByte(e.oamLatch)
	e.oamGetDone = false
	e.oamOffset++
	if e.oamOffset == 256 {
		e.oamActive = false
	}
}

// State is the DMA snapshot the savestate package persists.
type State struct {
	OAMActive  bool
	OAMPage    uint16
	OAMOffset  uint16
	OAMDummy   int
	OAMGetDone bool
	OAMLatch   uint8
	DMCStall   int
}

func (e *Engine) Snapshot() State {
	return State{
		OAMActive: e.oamActive, OAMPage: e.oamPage, OAMOffset: e.oamOffset,
		OAMDummy: e.oamDummy, OAMGetDone: e.oamGetDone, OAMLatch: e.oamLatch,
		DMCStall: e.dmcStall,
	}
}

func (e *Engine) Restore(s State) {
	e.oamActive, e.oamPage, e.oamOffset = s.OAMActive, s.OAMPage, s.OAMOffset
	e.oamDummy, e.oamGetDone, e.oamLatch = s.OAMDummy, s.OAMGetDone, s.OAMLatch
	e.dmcStall = s.DMCStall
}
