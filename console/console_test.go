package console

import "testing"

// buildNROM assembles a minimal valid iNES 1.0 image: one 16KiB PRG bank of
// NOPs with a reset vector into it, and one 8KiB CHR bank.
func buildNROM() []byte {
	const prgSize = 16384
	const chrSize = 8192

	rom := make([]byte, 16+prgSize+chrSize)
	copy(rom, []byte{'N', 'E', 'S', 0x1A})
	rom[4] = 1 // 1x16KiB PRG
	rom[5] = 1 // 1x8KiB CHR

	prg := rom[16 : 16+prgSize]
	for i := range prg {
		prg[i] = 0xEA // NOP
	}
	// Reset vector -> $8000 (mirrors to the start of this single bank).
	prg[prgSize-4] = 0x00
	prg[prgSize-3] = 0x80
	// NMI vector -> $8000 as well, harmless for these tests.
	prg[prgSize-6] = 0x00
	prg[prgSize-5] = 0x80

	return rom
}

func TestNewLoadsNROMAndPowersOn(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	if c.cpu == nil || c.ppu == nil || c.apu == nil {
		t.Fatalf("components not wired after New")
	}
}

func TestRunFrameProducesAFullFrame(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()

	fb := c.RunFrame()
	if fb == nil {
		t.Fatalf("RunFrame returned nil frame buffer")
	}
	if len(fb) != 256*240 {
		t.Fatalf("len(fb) = %d, want %d", len(fb), 256*240)
	}
}

func TestRAMMirroringAcrossFourRegions(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	c.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if v := c.Read(mirror); v != 0x42 {
			t.Fatalf("Read(%#x) = %#x, want 0x42", mirror, v)
		}
	}
}

func TestOAMDMATriggerCopiesRAMIntoOAM(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	for i := 0; i < 256; i++ {
		c.ram[i] = uint8(i)
	}
	c.Write(0x4014, 0x00)
	if !c.dma.Active() {
		t.Fatalf("OAM DMA did not start after $4014 write")
	}
	for c.dma.Active() {
		c.StepCPUCycle()
	}
	if c.ppu.FrameBuffer() == nil {
		t.Fatalf("ppu not reachable after DMA drained")
	}
	oam := c.ppu.Snapshot().OAM
	for i := range oam {
		if oam[i] != uint8(i) {
			t.Fatalf("OAM[%d] = %#x, want %#x", i, oam[i], uint8(i))
		}
	}
}

func TestSetControllerFeedsInputPorts(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	c.SetController(0, 0x01) // A button

	c.Write(0x4016, 1)
	c.Write(0x4016, 0)
	if v := c.Read(0x4016) & 0x01; v != 1 {
		t.Fatalf("first $4016 read = %d, want 1 (A pressed)", v)
	}
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	c.RunFrame()
	c.ram[0x10] = 0x99

	data, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	c2, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New (second): %v", err)
	}
	c2.PowerOn()
	if err := c2.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if c2.ram[0x10] != 0x99 {
		t.Fatalf("restored ram[0x10] = %#x, want 0x99", c2.ram[0x10])
	}
	if c2.cpu.Snapshot().PC != c.cpu.Snapshot().PC {
		t.Fatalf("restored PC = %#x, want %#x", c2.cpu.Snapshot().PC, c.cpu.Snapshot().PC)
	}
}

func TestLoadStateRejectsDifferentROM(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	data, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	other := buildNROM()
	other[16] = 0xFF // perturb PRG content so PRGHash differs
	c2, err := New(other)
	if err != nil {
		t.Fatalf("New (other): %v", err)
	}
	c2.PowerOn()
	if err := c2.LoadState(data); err == nil {
		t.Fatalf("LoadState succeeded across mismatched ROMs, want error")
	}
}

func TestStatusReadAt4015DoesNotUpdateOpenBus(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	c.openBus = 0x42

	c.Read(0x4015)
	if c.openBus != 0x42 {
		t.Fatalf("openBus = %#x after $4015 read, want unchanged 0x42", c.openBus)
	}
}

func TestResetReloadsPCWithoutClearingRAM(t *testing.T) {
	c, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.PowerOn()
	c.ram[0] = 0x55
	c.Reset()
	if c.ram[0] != 0x55 {
		t.Fatalf("RAM cleared by Reset, want preserved")
	}
	if c.cpu.Snapshot().PC != 0x8000 {
		t.Fatalf("PC after reset = %#x, want 0x8000", c.cpu.Snapshot().PC)
	}
}
