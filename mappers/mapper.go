// Package mappers implements the NES cartridge mapper contract and the
// concrete bank-switching chips used by AccuracyCoin and common commercial
// boards: NROM, MMC1, UNROM, CNROM and MMC3.
package mappers

import (
	"fmt"

	"github.com/tormodh/nescore/cartridge"
)

// Mapper is the contract a bank-switching chip implements. The bus and PPU
// talk to cartridge memory exclusively through this interface; nothing
// upstream needs to know which chip is installed.
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)

	// Mirroring reports the current nametable mirroring mode. Mappers
	// that expose four-screen VRAM or let software select mirroring
	// (MMC1) return a value that can change over the cartridge's
	// lifetime.
	Mirroring() int

	// Tick is driven once per PPU dot by the console scheduler. Every
	// mapper here leaves it a no-op; MMC3 counts A12 rising edges through
	// ClockA12, which the console calls from its NotifyAddress.
	Tick()

	// IRQ reports whether the mapper's IRQ line is currently asserted.
	// It is OR'd onto the CPU IRQ line alongside the APU's frame/DMC
	// IRQs.
	IRQ() bool
}

// Stateful is implemented by mappers carrying internal registers beyond
// what's already in the Cartridge (PRG-RAM, CHR-RAM): bank selects, serial
// shift registers, IRQ counters. NROM implements no registers at all and so
// doesn't satisfy this; the console's SaveState treats its absence as "no
// extra mapper state to persist".
type Stateful interface {
	SaveState() []byte
	LoadState(data []byte) error
}

// New constructs the mapper named by the cartridge header, or
// ErrUnsupportedMapper if this module doesn't implement it.
func New(c *cartridge.Cartridge) (Mapper, error) {
	switch c.Header.Mapper {
	case 0:
		return newNROM(c), nil
	case 1:
		return newMMC1(c), nil
	case 2:
		return newUNROM(c), nil
	case 3:
		return newCNROM(c), nil
	case 4:
		return newMMC3(c), nil
	default:
		return nil, fmt.Errorf("%w: mapper %d", ErrUnsupportedMapper, c.Header.Mapper)
	}
}
