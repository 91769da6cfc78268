package mappers

import (
	"bytes"
	"encoding/binary"

	"github.com/tormodh/nescore/cartridge"
)

// mmc1 implements iNES mapper 1 (MMC1): a 5-bit serial shift register feeds
// one of four internal registers every fifth consecutive write, selecting
// PRG mode, CHR mode, mirroring and bank numbers.
type mmc1 struct {
	cart *cartridge.Cartridge

	shift      uint8
	shiftCount uint8

	control  uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgBanks uint8
	chrBanks uint8

	prgRAMEnabled bool
}

func newMMC1(c *cartridge.Cartridge) *mmc1 {
	chrBanks := uint8(len(c.CHR) / 4096)
	if chrBanks == 0 {
		chrBanks = 2
	}
	return &mmc1{
		cart:          c,
		shift:         0x10,
		control:       0x0C, // power-on: PRG mode 3 (fix last bank at $C000)
		prgBanks:      uint8(len(c.PRG) / 16384),
		chrBanks:      chrBanks,
		prgRAMEnabled: true,
	}
}

func (m *mmc1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && int(addr-0x6000) < len(m.cart.PRGRAM) {
			return m.cart.PRGRAM[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xC000:
		var bank uint8
		switch m.prgMode() {
		case 0, 1:
			bank = m.prgBank &^ 1
		case 2:
			bank = 0
		default:
			bank = m.prgBank
		}
		return m.readPRGBank(bank, addr-0x8000)
	default: // addr >= 0xC000
		var bank uint8
		switch m.prgMode() {
		case 0, 1:
			bank = (m.prgBank &^ 1) | 1
		case 2:
			bank = m.prgBank
		default:
			bank = m.prgBanks - 1
		}
		return m.readPRGBank(bank, addr-0xC000)
	}
}

func (m *mmc1) readPRGBank(bank uint8, off uint16) uint8 {
	o := int(bank)*16384 + int(off)
	if o < 0 || o >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[o]
}

func (m *mmc1) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMEnabled && int(addr-0x6000) < len(m.cart.PRGRAM) {
			m.cart.PRGRAM[addr-0x6000] = val
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	if val&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.control |= 0x0C // reset to PRG mode 3
		return
	}

	m.shift = (m.shift >> 1) | (val&1)<<4
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	switch {
	case addr < 0xA000:
		m.control = m.shift & 0x1F
	case addr < 0xC000:
		m.chrBank0 = m.shift & 0x1F
	case addr < 0xE000:
		m.chrBank1 = m.shift & 0x1F
	default:
		m.prgBank = m.shift & 0x0F
		m.prgRAMEnabled = m.shift&0x10 == 0
	}
	m.shift = 0x10
	m.shiftCount = 0
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	return m.cart.CHR[m.chrOffset(addr)]
}

func (m *mmc1) PPUWrite(addr uint16, val uint8) {
	if m.cart.CHRRAM {
		m.cart.CHR[m.chrOffset(addr)] = val
	}
}

func (m *mmc1) chrOffset(addr uint16) int {
	var bank uint8
	var off uint16
	if m.chrMode() == 0 {
		bank = m.chrBank0 &^ 1
		if addr >= 0x1000 {
			bank |= 1
		}
		off = addr & 0x0FFF
	} else if addr < 0x1000 {
		bank, off = m.chrBank0, addr
	} else {
		bank, off = m.chrBank1, addr-0x1000
	}
	o := int(bank)*4096 + int(off)
	if o < 0 || o >= len(m.cart.CHR) {
		return 0
	}
	return o
}

func (m *mmc1) Mirroring() int {
	switch m.control & 0x03 {
	case 0:
		return cartridge.MirrorSingleLower
	case 1:
		return cartridge.MirrorSingleUpper
	case 2:
		return cartridge.MirrorVertical
	default:
		return cartridge.MirrorHorizontal
	}
}

func (m *mmc1) Tick()     {}
func (m *mmc1) IRQ() bool { return false }

// SaveState/LoadState persist the serial shift register and bank selection,
// the only state not already captured by the cartridge's PRG-RAM/CHR-RAM.
func (m *mmc1) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, m.shift)
	binary.Write(&buf, binary.LittleEndian, m.shiftCount)
	binary.Write(&buf, binary.LittleEndian, m.control)
	binary.Write(&buf, binary.LittleEndian, m.chrBank0)
	binary.Write(&buf, binary.LittleEndian, m.chrBank1)
	binary.Write(&buf, binary.LittleEndian, m.prgBank)
	binary.Write(&buf, binary.LittleEndian, m.prgRAMEnabled)
	return buf.Bytes()
}

func (m *mmc1) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	for _, field := range []interface{}{
		&m.shift, &m.shiftCount, &m.control, &m.chrBank0, &m.chrBank1, &m.prgBank, &m.prgRAMEnabled,
	} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	return nil
}
