package ppu

import "testing"

type fakeBus struct {
	chr       [0x2000]uint8
	mirroring int
	notified  []uint16
}

func (b *fakeBus) PPURead(addr uint16) uint8     { return b.chr[addr] }
func (b *fakeBus) PPUWrite(addr uint16, v uint8) { b.chr[addr] = v }
func (b *fakeBus) Mirroring() int                { return b.mirroring }
func (b *fakeBus) NotifyAddress(addr uint16)     { b.notified = append(b.notified, addr) }

func TestPPUADDRTwoWriteLatch(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.dotsSinceReset = resetIgnoreDots // past the post-reset register-write gate

	p.WriteRegister(PPUADDR, 0x23)
	p.WriteRegister(PPUADDR, 0x45)
	if p.v != 0x2345 {
		t.Fatalf("v = %#x, want 0x2345", p.v)
	}
}

func TestPPUDATABufferedReadFromNametable(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.dotsSinceReset = resetIgnoreDots
	p.vram[0] = 0xAB

	p.WriteRegister(PPUADDR, 0x20)
	p.WriteRegister(PPUADDR, 0x00)
	first := p.ReadRegister(PPUDATA)
	if first == 0xAB {
		t.Fatalf("first PPUDATA read returned fresh data, want stale buffer")
	}
	second := p.ReadRegister(PPUDATA)
	if second != 0xAB {
		t.Fatalf("second PPUDATA read = %#x, want 0xAB", second)
	}
}

func TestPPUDATAPaletteReadBypassesBuffer(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.dotsSinceReset = resetIgnoreDots
	p.palette[0] = 0x0F

	p.WriteRegister(PPUADDR, 0x3F)
	p.WriteRegister(PPUADDR, 0x00)
	v := p.ReadRegister(PPUDATA)
	if v != 0x0F {
		t.Fatalf("palette PPUDATA read = %#x, want 0x0F (no buffering)", v)
	}
}

func TestPPUSTATUSReadClearsVBlankAndLatch(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.status |= StatusVBlank
	p.w = 1

	v := p.ReadRegister(PPUSTATUS)
	if v&StatusVBlank == 0 {
		t.Fatalf("read did not report VBlank set")
	}
	if p.status&StatusVBlank != 0 {
		t.Fatalf("VBlank flag not cleared after PPUSTATUS read")
	}
	if p.w != 0 {
		t.Fatalf("write latch not reset after PPUSTATUS read")
	}
}

func TestVBlankSetAtScanline241Dot1(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.ctrl |= CtrlGenerateNMI

	p.scanline, p.dot = 241, 1
	p.TickDot()
	if p.status&StatusVBlank == 0 {
		t.Fatalf("VBlank not set at scanline 241 dot 1")
	}
	if !p.NMILine() {
		t.Fatalf("NMI line not asserted after VBlank with CtrlGenerateNMI set")
	}
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.status = StatusVBlank | StatusSprite0Hit | StatusSpriteOverflow

	p.scanline, p.dot = -1, 1
	p.TickDot()
	if p.status&(StatusVBlank|StatusSprite0Hit|StatusSpriteOverflow) != 0 {
		t.Fatalf("status = %#x, want all three flags clear after pre-render dot 1", p.status)
	}
}

func TestOddFrameDotSkipWhenRenderingEnabled(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.mask = MaskShowBG
	p.oddFrame = true
	p.scanline, p.dot = -1, 0

	p.TickDot()
	if p.dot != 2 {
		t.Fatalf("dot = %d, want 2 (skipped idle dot on odd frame)", p.dot)
	}
}

func TestSpriteEvaluationFindsSpriteZero(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 10, 0x01, 0x00, 20 // sprite 0 at Y=10

	p.scanline = 10
	p.evaluateSprites()
	if p.spriteCount != 1 {
		t.Fatalf("spriteCount = %d, want 1", p.spriteCount)
	}
	if !p.sprites[0].isSpriteZero {
		t.Fatalf("sprite 0 not flagged as sprite zero")
	}
}

func TestPostResetRegisterWritesIgnored(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()

	p.WriteRegister(PPUCTRL, 0x80)
	if p.ctrl != 0 {
		t.Fatalf("ctrl = %#x, want 0 (write ignored inside reset window)", p.ctrl)
	}

	p.dotsSinceReset = resetIgnoreDots
	p.WriteRegister(PPUCTRL, 0x80)
	if p.ctrl != 0x80 {
		t.Fatalf("ctrl = %#x, want 0x80 (write honored after reset window)", p.ctrl)
	}
}

func TestStatusReadNearVBlankSetSuppressesItForTheFrame(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.ctrl |= CtrlGenerateNMI

	p.scanline, p.dot = 241, 0
	p.ReadRegister(PPUSTATUS) // races the VBlank set about to happen at dot 1

	p.TickDot() // dot 0
	p.TickDot() // dot 1: where VBlank/NMI would normally be set
	if p.status&StatusVBlank != 0 {
		t.Fatalf("VBlank set despite suppressing read, want suppressed")
	}
	if p.NMILine() {
		t.Fatalf("NMI asserted despite suppressing read, want suppressed")
	}
	if p.suppressVBlank {
		t.Fatalf("suppression flag not cleared after being honored")
	}
}

func TestPPUDATAWriteDuringRenderingGlitchesIncrementInsteadOfVRAM(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.dotsSinceReset = resetIgnoreDots
	p.mask = MaskShowBG
	p.scanline, p.dot = 10, 5
	p.v = 0x2000

	before := p.vram[0]
	p.WriteRegister(PPUDATA, 0x55)
	if p.vram[0] != before {
		t.Fatalf("VRAM written during active rendering, want untouched")
	}
	if p.v == 0x2000 {
		t.Fatalf("v unchanged after $2007 write during rendering, want glitch increment")
	}
}

func TestOpenBusDecaysToZeroAfterInterval(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	p.setOpenBus(0xAB)
	p.openBusDots = openBusDecayDots - 1

	p.TickDot()
	if p.openBus != 0 {
		t.Fatalf("openBus = %#x, want 0 after decay interval elapsed", p.openBus)
	}
}

func TestSpriteOverflowFlagsAfterNinthSprite(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.PowerOn()
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 5 // all visible on the same target line
	}
	p.scanline = 4
	p.evaluateSprites()
	if p.status&StatusSpriteOverflow == 0 {
		t.Fatalf("sprite overflow flag not set with 9 sprites on one line")
	}
}
