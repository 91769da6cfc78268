package mappers

import (
	"bytes"
	"encoding/binary"

	"github.com/tormodh/nescore/cartridge"
)

// mmc3 implements iNES mapper 4 (MMC3): 8 bank registers selected by an
// even/odd $8000/$8001 pair, a scanline counter clocked by PPU A12 rising
// edges that raises a mapper-owned IRQ, and software-selectable mirroring.
//
// The scanline counter is driven by ClockA12, which receives every PPU
// address the console forwards from the PPU; mmc3 counts rising edges of
// bit 12 of those addresses, without the real chip's A12 low-time filter.
type mmc3 struct {
	cart *cartridge.Cartridge

	prgBanks uint8
	chrIsRAM bool

	bankSelect uint8
	prgMode    uint8
	chrMode    uint8
	regs       [8]uint8

	mirroring int

	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqEnabled    bool
	irqPending    bool
	irqReloadFlag bool

	a12Low bool
}

func newMMC3(c *cartridge.Cartridge) *mmc3 {
	return &mmc3{
		cart:          c,
		prgBanks:      uint8(len(c.PRG) / 8192),
		chrIsRAM:      c.CHRRAM,
		mirroring:     c.Header.Mirroring,
		prgRAMEnabled: true,
	}
}

func (m *mmc3) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && int(addr-0x6000) < len(m.cart.PRGRAM) {
			return m.cart.PRGRAM[addr-0x6000]
		}
		return 0
	case addr < 0xA000:
		return m.readPRG(m.prgBankFor(0x8000), addr-0x8000)
	case addr < 0xC000:
		return m.readPRG(m.regs[7], addr-0xA000)
	case addr < 0xE000:
		return m.readPRG(m.prgBankFor(0xC000), addr-0xC000)
	default:
		return m.readPRG(m.prgBanks-1, addr-0xE000)
	}
}

// prgBankFor resolves the swappable/fixed bank at $8000 or $C000 depending
// on prgMode: mode 0 fixes the $C000 window, mode 1 fixes the $8000 window.
func (m *mmc3) prgBankFor(window uint16) uint8 {
	swappable := m.regs[6]
	fixed := m.prgBanks - 2
	if window == 0x8000 {
		if m.prgMode == 0 {
			return swappable
		}
		return fixed
	}
	if m.prgMode == 0 {
		return fixed
	}
	return swappable
}

func (m *mmc3) readPRG(bank uint8, off uint16) uint8 {
	o := int(bank)*8192 + int(off)
	if o < 0 || o >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[o]
}

func (m *mmc3) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && !m.prgRAMWriteProtect && int(addr-0x6000) < len(m.cart.PRGRAM) {
			m.cart.PRGRAM[addr-0x6000] = val
		}
	case addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = val & 0x07
			m.prgMode = (val >> 6) & 0x01
			m.chrMode = (val >> 7) & 0x01
		} else {
			m.regs[m.bankSelect] = val
		}
	case addr < 0xC000:
		if addr&1 == 0 {
			if val&1 == 0 {
				m.mirroring = cartridge.MirrorVertical
			} else {
				m.mirroring = cartridge.MirrorHorizontal
			}
		} else {
			m.prgRAMWriteProtect = val&0x40 != 0
			m.prgRAMEnabled = val&0x80 != 0
		}
	case addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = val
		} else {
			m.irqCounter = 0
			m.irqReloadFlag = true
		}
	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) PPURead(addr uint16) uint8 {
	return m.cart.CHR[m.chrOffset(addr)]
}

func (m *mmc3) PPUWrite(addr uint16, val uint8) {
	if m.chrIsRAM {
		m.cart.CHR[m.chrOffset(addr)] = val
	}
}

func (m *mmc3) chrOffset(addr uint16) int {
	var bank uint8
	var base uint16
	if m.chrMode == 0 {
		switch {
		case addr < 0x0800:
			bank, base = m.regs[0]&0xFE, addr
		case addr < 0x1000:
			bank, base = m.regs[1]&0xFE, addr-0x0800
		case addr < 0x1400:
			bank, base = m.regs[2], addr-0x1000
		case addr < 0x1800:
			bank, base = m.regs[3], addr-0x1400
		case addr < 0x1C00:
			bank, base = m.regs[4], addr-0x1800
		default:
			bank, base = m.regs[5], addr-0x1C00
		}
	} else {
		switch {
		case addr < 0x0400:
			bank, base = m.regs[2], addr
		case addr < 0x0800:
			bank, base = m.regs[3], addr-0x0400
		case addr < 0x0C00:
			bank, base = m.regs[4], addr-0x0800
		case addr < 0x1000:
			bank, base = m.regs[5], addr-0x0C00
		case addr < 0x1800:
			bank, base = m.regs[0]&0xFE, addr-0x1000
		default:
			bank, base = m.regs[1]&0xFE, addr-0x1800
		}
	}
	o := int(bank)*1024 + int(base)
	if o < 0 || o >= len(m.cart.CHR) {
		return 0
	}
	return o
}

// Tick is a no-op: the scanline counter is clocked by ClockA12 instead.
func (m *mmc3) Tick() {}

// ClockA12 is called through the console's NotifyAddress with each PPU
// address the PPU reports (pattern-table accesses, PPUADDR writes and v
// increments) and clocks the scanline counter on every 0->1 transition of
// bit 12, instead of a fixed per-scanline tick.
func (m *mmc3) ClockA12(addr uint16) {
	high := addr&0x1000 != 0
	if high && m.a12Low {
		m.clockScanlineCounter()
	}
	m.a12Low = !high
}

func (m *mmc3) clockScanlineCounter() {
	if m.irqCounter == 0 || m.irqReloadFlag {
		m.irqCounter = m.irqLatch
		m.irqReloadFlag = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc3) Mirroring() int { return m.mirroring }
func (m *mmc3) IRQ() bool      { return m.irqPending }

func (m *mmc3) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, m.bankSelect)
	binary.Write(&buf, binary.LittleEndian, m.prgMode)
	binary.Write(&buf, binary.LittleEndian, m.chrMode)
	binary.Write(&buf, binary.LittleEndian, m.regs)
	binary.Write(&buf, binary.LittleEndian, int32(m.mirroring))
	binary.Write(&buf, binary.LittleEndian, m.prgRAMEnabled)
	binary.Write(&buf, binary.LittleEndian, m.prgRAMWriteProtect)
	binary.Write(&buf, binary.LittleEndian, m.irqLatch)
	binary.Write(&buf, binary.LittleEndian, m.irqCounter)
	binary.Write(&buf, binary.LittleEndian, m.irqEnabled)
	binary.Write(&buf, binary.LittleEndian, m.irqPending)
	binary.Write(&buf, binary.LittleEndian, m.irqReloadFlag)
	binary.Write(&buf, binary.LittleEndian, m.a12Low)
	return buf.Bytes()
}

func (m *mmc3) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	var mirroring int32
	for _, field := range []interface{}{
		&m.bankSelect, &m.prgMode, &m.chrMode, &m.regs, &mirroring,
		&m.prgRAMEnabled, &m.prgRAMWriteProtect, &m.irqLatch, &m.irqCounter,
		&m.irqEnabled, &m.irqPending, &m.irqReloadFlag, &m.a12Low,
	} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	m.mirroring = int(mirroring)
	return nil
}
