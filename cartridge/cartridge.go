package cartridge

import "fmt"

// Cartridge holds the raw PRG/CHR images and header metadata extracted from
// a ROM image. It has no banking logic of its own; a mappers.Mapper wraps a
// Cartridge to implement bank switching.
type Cartridge struct {
	Header Header

	PRG []uint8 // PRG-ROM, as stored on the cartridge
	CHR []uint8 // CHR-ROM, or the CHR-RAM buffer when the header declares no CHR-ROM
	CHRRAM bool
	PRGRAM  []uint8
	Trainer []uint8 // 512 bytes if present

	SRAMBattery bool
}

// Load parses an iNES/NES 2.0 image and slices out the PRG/CHR banks.
func Load(raw []byte) (*Cartridge, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	off := headerSize
	c := &Cartridge{Header: h, SRAMBattery: h.Battery}

	if h.Trainer {
		if len(raw) < off+trainerSize {
			return nil, fmt.Errorf("%w: truncated trainer", ErrHeaderInvalid)
		}
		c.Trainer = append([]uint8(nil), raw[off:off+trainerSize]...)
		off += trainerSize
	}

	prgLen := int(h.PRGBlocks) * prgBlockSize
	if len(raw) < off+prgLen {
		return nil, fmt.Errorf("%w: truncated PRG-ROM (want %d, have %d)", ErrHeaderInvalid, prgLen, len(raw)-off)
	}
	c.PRG = append([]uint8(nil), raw[off:off+prgLen]...)
	off += prgLen

	chrLen := int(h.CHRBlocks) * chrBlockSize
	if chrLen == 0 {
		c.CHRRAM = true
		ramSize := h.CHRRAM
		if ramSize == 0 {
			ramSize = chrBlockSize
		}
		c.CHR = make([]uint8, ramSize)
	} else {
		if len(raw) < off+chrLen {
			return nil, fmt.Errorf("%w: truncated CHR-ROM (want %d, have %d)", ErrHeaderInvalid, chrLen, len(raw)-off)
		}
		c.CHR = append([]uint8(nil), raw[off:off+chrLen]...)
	}

	ramSize := h.PRGRAM
	if ramSize == 0 {
		ramSize = 8192
	}
	c.PRGRAM = make([]uint8, ramSize)

	return c, nil
}

// PRGHash is a cheap, deterministic identity check used by save states to
// refuse loading a snapshot captured against a different ROM image.
func (c *Cartridge) PRGHash() uint32 {
	var h uint32 = 2166136261
	for _, b := range c.PRG {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}
