package mappers

import "github.com/tormodh/nescore/cartridge"

// nrom implements iNES mapper 0: no bank switching. PRG-ROM is either one
// 16KiB bank mirrored across $8000-$FFFF, or two banks filling it exactly.
type nrom struct {
	cart *cartridge.Cartridge
}

func newNROM(c *cartridge.Cartridge) *nrom {
	return &nrom{cart: c}
}

func (m *nrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.readSRAM(addr)
	}
	off := int(addr-0x8000) % len(m.cart.PRG)
	return m.cart.PRG[off]
}

func (m *nrom) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.cart.PRGRAM) > 0 {
		m.cart.PRGRAM[addr-0x6000] = val
	}
	// Writes to $8000-$FFFF have no effect; NROM carries no registers.
}

func (m *nrom) readSRAM(addr uint16) uint8 {
	if addr >= 0x6000 && int(addr-0x6000) < len(m.cart.PRGRAM) {
		return m.cart.PRGRAM[addr-0x6000]
	}
	return 0
}

func (m *nrom) PPURead(addr uint16) uint8 {
	return m.cart.CHR[addr%uint16(len(m.cart.CHR))]
}

func (m *nrom) PPUWrite(addr uint16, val uint8) {
	if m.cart.CHRRAM {
		m.cart.CHR[addr%uint16(len(m.cart.CHR))] = val
	}
}

func (m *nrom) Mirroring() int { return m.cart.Header.Mirroring }
func (m *nrom) Tick()          {}
func (m *nrom) IRQ() bool      { return false }
