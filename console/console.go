// Package console assembles the CPU, PPU, APU, DMA engine, cartridge and
// controller ports into one scheduler: it owns the shared open-bus latch,
// the CPU memory map dispatch, and the per-cycle ordering that wires PPU
// NMI and APU/mapper IRQ lines back into the CPU.
// https://www.nesdev.org/wiki/CPU_memory_map
package console

import (
	"github.com/tormodh/nescore/apu"
	"github.com/tormodh/nescore/cartridge"
	"github.com/tormodh/nescore/cpu"
	"github.com/tormodh/nescore/dma"
	"github.com/tormodh/nescore/input"
	"github.com/tormodh/nescore/mappers"
	"github.com/tormodh/nescore/ppu"
	"github.com/tormodh/nescore/savestate"
)

// Option customizes console construction: WithMagicSeed picks the CPU's
// unstable-opcode constant and WithSampleRate the APU output rate.
type Option func(*Console)

// WithMagicSeed selects which documented "magic" constant the CPU's
// unstable opcodes (ANE/LXA/SHA-family) use, letting tests target a
// specific chip revision's behavior instead of the default.
func WithMagicSeed(seed uint8) Option {
	return func(c *Console) { c.magicSeed = seed }
}

// WithSampleRate sets the APU's output sample rate in Hz (default 44100).
func WithSampleRate(rate int) Option {
	return func(c *Console) { c.sampleRate = rate }
}

// Console is the console core's single aggregate: construct with New, then
// PowerOn before driving it with RunFrame.
type Console struct {
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	dma    *dma.Engine
	mapper mappers.Mapper
	cart   *cartridge.Cartridge
	ports  input.Ports

	ram [0x800]uint8

	openBus  uint8
	cpuCycle uint64

	magicSeed  uint8
	sampleRate int
}

// New loads rom and wires up a complete console ready for PowerOn.
func New(rom []byte, opts ...Option) (*Console, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}
	mapper, err := mappers.New(cart)
	if err != nil {
		return nil, err
	}

	c := &Console{cart: cart, mapper: mapper, sampleRate: 44100}
	for _, opt := range opts {
		opt(c)
	}

	c.cpu = cpu.New(c, c.magicSeed)
	c.ppu = ppu.New(c)
	c.apu = apu.New(c, c.sampleRate)
	c.dma = dma.New(c)
	return c, nil
}

// PowerOn resets every component to its documented power-up state.
func (c *Console) PowerOn() {
	c.ram = [0x800]uint8{}
	c.openBus = 0
	c.cpuCycle = 0
	c.ppu.PowerOn()
	c.apu.PowerOn()
	c.cpu.PowerOn()
}

// Reset simulates the reset line: the CPU reloads PC from the reset vector
// with its stack pointer adjusted rather than zeroed, and the APU returns
// to its power-up register state. PPU and cartridge state survive a reset
// exactly as real hardware leaves them untouched.
func (c *Console) Reset() {
	c.cpu.Reset()
	c.apu.PowerOn()
}

// RunFrame advances the console until the PPU completes one frame and
// returns that frame's buffer. The returned pointer is reused on the next
// call; copy it out if the caller needs to retain it across frames.
func (c *Console) RunFrame() *ppu.FrameBuffer {
	for !c.ppu.FrameComplete() {
		c.StepCPUCycle()
	}
	return c.ppu.FrameBuffer()
}

// StepCPUCycle advances the whole machine by exactly one CPU cycle: either
// the CPU or an active DMA transfer consumes the bus, the PPU is ticked
// three dots for every CPU cycle (its clock runs 3x the CPU's), the mapper
// gets its per-dot tick, and the NMI/IRQ lines are resampled for the
// following cycle.
func (c *Console) StepCPUCycle() {
	dmaActive := c.dma.Active()
	if dmaActive {
		c.dma.Tick()
	} else {
		c.cpu.Tick()
	}
	c.cpu.NotifyDMAStole(dmaActive)

	for i := 0; i < 3; i++ {
		c.ppu.TickDot()
		c.mapper.Tick()
	}
	c.apu.Tick()

	c.cpuCycle++
	c.cpu.SetNMILine(c.ppu.NMILine())
	c.cpu.SetIRQLine(c.apu.IRQ() || c.mapper.IRQ())
}

// SetController updates the live button state for port 0 or 1.
func (c *Console) SetController(port int, buttons input.Buttons) {
	if port == 0 {
		c.ports.Port1.SetButtons(buttons)
	} else {
		c.ports.Port2.SetButtons(buttons)
	}
}

// AudioSamples drains and returns all audio samples produced since the
// last call.
func (c *Console) AudioSamples() []float32 {
	return c.apu.Samples()
}

// Read services a CPU bus read across the full $0000-$FFFF memory map.
// $4015 is special-cased: real hardware doesn't drive the CPU open-bus latch
// from the APU status read, so it returns before updating c.openBus.
func (c *Console) Read(addr uint16) uint8 {
	if addr == 0x4015 {
		return c.apu.ReadRegister(addr)
	}

	var v uint8
	switch {
	case addr < 0x2000:
		v = c.ram[addr&0x07FF]
	case addr < 0x4000:
		v = c.ppu.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4016 || addr == 0x4017:
		v = c.ports.ReadRegister(addr) | (c.openBus & 0xFE)
	case addr < 0x4020:
		v = c.openBus // unused/test-mode IO registers: open bus
	default:
		v = c.mapper.CPURead(addr)
	}
	c.openBus = v
	return v
}

// Write services a CPU bus write across the full $0000-$FFFF memory map.
func (c *Console) Write(addr uint16, val uint8) {
	c.openBus = val
	switch {
	case addr < 0x2000:
		c.ram[addr&0x07FF] = val
	case addr < 0x4000:
		c.ppu.WriteRegister(0x2000+addr&0x0007, val)
	case addr == 0x4014:
		c.dma.RequestOAM(val, c.cpuCycle)
	case addr == 0x4016:
		c.ports.WriteRegister(val)
	case addr >= 0x4000 && addr < 0x4018:
		c.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// Unused/test-mode IO registers: writes have no effect.
	default:
		c.mapper.CPUWrite(addr, val)
	}
}

// PPURead/PPUWrite satisfy ppu.Bus by routing pattern-table and CHR access
// to the cartridge's mapper.
func (c *Console) PPURead(addr uint16) uint8     { return c.mapper.PPURead(addr) }
func (c *Console) PPUWrite(addr uint16, val uint8) { c.mapper.PPUWrite(addr, val) }
func (c *Console) Mirroring() int                { return c.mapper.Mirroring() }

// NotifyAddress forwards every PPU-side address change to the mapper's A12
// edge detector, for boards (MMC3) whose IRQ counter watches that line.
func (c *Console) NotifyAddress(addr uint16) {
	if clocker, ok := c.mapper.(interface{ ClockA12(uint16) }); ok {
		clocker.ClockA12(addr)
	}
}

// DMCRead satisfies apu.Bus: DMC sample bytes are read through the full CPU
// bus, same as real hardware's DMA unit.
func (c *Console) DMCRead(addr uint16) uint8 { return c.Read(addr) }

// RequestDMCStall satisfies apu.Bus, handing the cycle-stealing request to
// the DMA engine shared with OAM DMA.
func (c *Console) RequestDMCStall(cycles int) { c.dma.RequestDMC(cycles) }

// WriteOAMByte satisfies dma.Bus, used by the OAM DMA transfer loop.
func (c *Console) WriteOAMByte(val uint8) { c.ppu.WriteOAMByte(val) }

type consoleState struct {
	RAM      [0x800]uint8
	OpenBus  uint8
	CPUCycle uint64
}

// SaveState captures the entire console into a portable byte slice, tagged
// with the cartridge's PRG identity so LoadState can refuse a mismatched
// ROM.
func (c *Console) SaveState() ([]byte, error) {
	w := savestate.NewWriter(c.cart.PRGHash())
	if err := w.WriteRecord("BUS0", consoleState{RAM: c.ram, OpenBus: c.openBus, CPUCycle: c.cpuCycle}); err != nil {
		return nil, err
	}
	if err := w.WriteRecord("CPU0", c.cpu.Snapshot()); err != nil {
		return nil, err
	}
	if err := w.WriteRecord("PPU0", c.ppu.Snapshot()); err != nil {
		return nil, err
	}
	if err := w.WriteRecord("APU0", c.apu.Snapshot()); err != nil {
		return nil, err
	}
	if err := w.WriteRecord("DMA0", c.dma.Snapshot()); err != nil {
		return nil, err
	}
	if err := w.WriteRecord("IN00", c.ports.Snapshot()); err != nil {
		return nil, err
	}
	if statefulMapper, ok := c.mapper.(mappers.Stateful); ok {
		w.WriteBytes("MAP0", statefulMapper.SaveState())
	}
	w.WriteBytes("RAM0", c.cart.PRGRAM)
	return w.Bytes(), nil
}

// LoadState restores a console previously captured by SaveState, refusing
// data captured against a different ROM image or format version.
func (c *Console) LoadState(data []byte) error {
	r, err := savestate.NewReader(data, c.cart.PRGHash())
	if err != nil {
		return err
	}
	for {
		tag, payload, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch tag {
		case "BUS0":
			var s consoleState
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.ram, c.openBus, c.cpuCycle = s.RAM, s.OpenBus, s.CPUCycle
		case "CPU0":
			var s cpu.State
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.cpu.Restore(s)
		case "PPU0":
			var s ppu.State
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.ppu.Restore(s)
		case "APU0":
			var s apu.State
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.apu.Restore(s)
		case "DMA0":
			var s dma.State
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.dma.Restore(s)
		case "IN00":
			var s input.State
			if err := savestate.Decode(payload, &s); err != nil {
				return err
			}
			c.ports.Restore(s)
		case "MAP0":
			if statefulMapper, ok := c.mapper.(mappers.Stateful); ok {
				if err := statefulMapper.LoadState(payload); err != nil {
					return err
				}
			}
		case "RAM0":
			copy(c.cart.PRGRAM, payload)
		}
	}
}
