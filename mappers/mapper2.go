package mappers

import (
	"bytes"
	"encoding/binary"

	"github.com/tormodh/nescore/cartridge"
)

// unrom implements iNES mapper 2 (UNROM/UOROM): a single 16KiB switchable
// bank at $8000-$BFFF and the last 16KiB bank fixed at $C000-$FFFF. CHR is
// always RAM (8KiB, not banked).
type unrom struct {
	cart     *cartridge.Cartridge
	prgBank  uint8
	prgBanks uint8
}

func newUNROM(c *cartridge.Cartridge) *unrom {
	return &unrom{cart: c, prgBanks: uint8(len(c.PRG) / 16384)}
}

func (m *unrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if int(addr-0x6000) < len(m.cart.PRGRAM) {
			return m.cart.PRGRAM[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xC000:
		off := int(m.prgBank)*16384 + int(addr-0x8000)
		return m.cart.PRG[off]
	case addr >= 0xC000:
		lastBank := int(m.prgBanks) - 1
		off := lastBank*16384 + int(addr-0xC000)
		return m.cart.PRG[off]
	}
	return 0
}

func (m *unrom) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if int(addr-0x6000) < len(m.cart.PRGRAM) {
			m.cart.PRGRAM[addr-0x6000] = val
		}
	case addr >= 0x8000:
		// Bus conflict aside, only the low bits select the bank; most
		// UNROM boards decode 3-4 bits depending on PRG size.
		m.prgBank = val & (m.prgBanks - 1)
	}
}

func (m *unrom) PPURead(addr uint16) uint8 {
	return m.cart.CHR[addr]
}

func (m *unrom) PPUWrite(addr uint16, val uint8) {
	if m.cart.CHRRAM {
		m.cart.CHR[addr] = val
	}
}

func (m *unrom) Mirroring() int { return m.cart.Header.Mirroring }
func (m *unrom) Tick()          {}
func (m *unrom) IRQ() bool      { return false }

func (m *unrom) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, m.prgBank)
	return buf.Bytes()
}

func (m *unrom) LoadState(data []byte) error {
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, &m.prgBank)
}
