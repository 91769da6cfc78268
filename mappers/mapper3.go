package mappers

import (
	"bytes"
	"encoding/binary"

	"github.com/tormodh/nescore/cartridge"
)

// cnrom implements iNES mapper 3 (CNROM): fixed PRG-ROM (16 or 32KiB,
// mirrored as NROM does) and a single switchable 8KiB CHR-ROM bank.
type cnrom struct {
	cart     *cartridge.Cartridge
	chrBank  uint8
	chrBanks uint8
}

func newCNROM(c *cartridge.Cartridge) *cnrom {
	banks := uint8(len(c.CHR) / 8192)
	if banks == 0 {
		banks = 1
	}
	return &cnrom{cart: c, chrBanks: banks}
}

func (m *cnrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		if addr >= 0x6000 && int(addr-0x6000) < len(m.cart.PRGRAM) {
			return m.cart.PRGRAM[addr-0x6000]
		}
		return 0
	}
	off := int(addr-0x8000) % len(m.cart.PRG)
	return m.cart.PRG[off]
}

func (m *cnrom) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if int(addr-0x6000) < len(m.cart.PRGRAM) {
			m.cart.PRGRAM[addr-0x6000] = val
		}
	case addr >= 0x8000:
		// CNROM boards only decode 2 bits; bus conflicts with the PRG
		// value are real hardware but not observable without knowing
		// the exact board revision, so we take the written value as-is.
		m.chrBank = val & (m.chrBanks - 1)
	}
}

func (m *cnrom) PPURead(addr uint16) uint8 {
	return m.cart.CHR[int(m.chrBank)*8192+int(addr)]
}

func (m *cnrom) PPUWrite(addr uint16, val uint8) {
	if m.cart.CHRRAM {
		m.cart.CHR[int(m.chrBank)*8192+int(addr)] = val
	}
}

func (m *cnrom) Mirroring() int { return m.cart.Header.Mirroring }
func (m *cnrom) Tick()          {}
func (m *cnrom) IRQ() bool      { return false }

func (m *cnrom) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, m.chrBank)
	return buf.Bytes()
}

func (m *cnrom) LoadState(data []byte) error {
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, &m.chrBank)
}
