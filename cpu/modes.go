package cpu

// access describes how an instruction touches its effective address, which
// determines the dummy-read/dummy-write cycles surrounding the real one.
type access int

const (
	accRead access = iota
	accWrite
	accRMW
)

// buildRead returns the micro-op sequence for a read-class instruction in
// the given addressing mode; do receives the fetched byte.
func buildRead(mode string, do func(c *CPU, v uint8)) []microOp {
	return buildAddr(mode, accRead, func(c *CPU) { do(c, c.operand) }, nil)
}

// buildWrite returns the micro-op sequence for a store-class instruction;
// do returns the byte to write.
func buildWrite(mode string, do func(c *CPU) uint8) []microOp {
	return buildAddr(mode, accWrite, nil, do)
}

// buildRMW returns the micro-op sequence for a read-modify-write
// instruction; do receives the old value and returns the new one.
func buildRMW(mode string, do func(c *CPU, v uint8) uint8) []microOp {
	var result uint8
	read := func(c *CPU) { result = do(c, c.operand) }
	write := func(c *CPU) uint8 { return result }
	return buildAddr(mode, accRMW, read, write)
}

// buildAddr is the generic cycle-queue builder shared by read/write/RMW
// instructions, parameterized by addressing mode and access class. onRead
// runs during the instruction's real read cycle (if any); onWrite supplies
// the byte for its real write cycle (if any).
func buildAddr(mode string, acc access, onRead func(c *CPU), onWrite func(c *CPU) uint8) []microOp {
	switch mode {
	case "imp":
		return []microOp{func(c *CPU) { c.read(c.PC); onRead(c) }}

	case "acc":
		return []microOp{func(c *CPU) { c.read(c.PC); onRead(c) }}

	case "imm":
		return []microOp{func(c *CPU) {
			c.operand = c.read(c.PC)
			c.PC++
			onRead(c)
		}}

	case "zp":
		ops := []microOp{
			func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		}
		return append(ops, finishDirect(func(c *CPU) uint16 { return uint16(c.addrLo) }, acc, onRead, onWrite)...)

	case "zpx", "zpy":
		idx := func(c *CPU) uint8 {
			if mode == "zpx" {
				return c.X
			}
			return c.Y
		}
		ops := []microOp{
			func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.read(uint16(c.addrLo)); c.addrLo += idx(c) },
		}
		return append(ops, finishDirect(func(c *CPU) uint16 { return uint16(c.addrLo) }, acc, onRead, onWrite)...)

	case "abs":
		ops := []microOp{
			func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.addrHi = c.read(c.PC); c.PC++ },
		}
		return append(ops, finishDirect(func(c *CPU) uint16 { return uint16(c.addrHi)<<8 | uint16(c.addrLo) }, acc, onRead, onWrite)...)

	case "absx", "absy":
		return buildIndexedAbs(mode, acc, onRead, onWrite)

	case "indx":
		ops := []microOp{
			func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.read(uint16(c.addrLo)); c.addrLo += c.X },
			func(c *CPU) { c.ptr = uint16(c.read(uint16(c.addrLo))) },
			func(c *CPU) { c.ptr |= uint16(c.read(uint16(c.addrLo+1))) << 8 },
		}
		return append(ops, finishDirect(func(c *CPU) uint16 { return c.ptr }, acc, onRead, onWrite)...)

	case "indy":
		return buildIndirectY(acc, onRead, onWrite)

	default:
		return []microOp{func(c *CPU) {}}
	}
}

// finishDirect builds the final 1 (read), 1 (write) or 3 (RMW) cycles once
// the effective address is already known with certainty (no possible page
// cross to fix up), used by zp/zp,x/zp,y/abs/(ind,x).
func finishDirect(addr func(c *CPU) uint16, acc access, onRead func(c *CPU), onWrite func(c *CPU) uint8) []microOp {
	switch acc {
	case accRead:
		return []microOp{func(c *CPU) { c.operand = c.read(addr(c)); onRead(c) }}
	case accWrite:
		return []microOp{func(c *CPU) { a := addr(c); c.effAddr = a; c.write(a, onWrite(c)) }}
	default: // accRMW
		return []microOp{
			func(c *CPU) { c.operand = c.read(addr(c)) },
			func(c *CPU) { c.write(addr(c), c.operand) },
			func(c *CPU) { c.write(addr(c), onWrite2(c, onRead, onWrite)) },
		}
	}
}

// onWrite2 runs the RMW transform (stashed in onRead via the closures built
// by buildRMW) and returns the modified byte for the final write cycle.
func onWrite2(c *CPU, onRead func(c *CPU), onWrite func(c *CPU) uint8) uint8 {
	onRead(c)
	return onWrite(c)
}

func buildIndexedAbs(mode string, acc access, onRead func(c *CPU), onWrite func(c *CPU) uint8) []microOp {
	idx := func(c *CPU) uint8 {
		if mode == "absx" {
			return c.X
		}
		return c.Y
	}
	base := []microOp{
		func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		func(c *CPU) { c.addrHi = c.read(c.PC); c.PC++ },
	}
	effective := func(c *CPU) uint16 {
		return uint16(c.addrHi)<<8 | uint16(c.addrLo)
	}
	unfixed := func(c *CPU) uint16 {
		lo := c.addrLo + idx(c)
		return uint16(c.addrHi)<<8 | uint16(lo)
	}
	crosses := func(c *CPU) bool {
		return int(c.addrLo)+int(idx(c)) > 0xFF
	}

	switch acc {
	case accRead:
		return append(base, func(c *CPU) {
			if !crosses(c) {
				c.operand = c.read(effective(c) + uint16(idx(c)))
				onRead(c)
				return
			}
			c.read(unfixed(c))
			c.pushQueue(func(c *CPU) {
				c.operand = c.read(effective(c) + uint16(idx(c)))
				onRead(c)
			})
		})
	case accWrite:
		return append(base,
			func(c *CPU) { c.read(unfixed(c)) },
			func(c *CPU) { a := effective(c) + uint16(idx(c)); c.effAddr = a; c.write(a, onWrite(c)) },
		)
	default: // accRMW
		return append(base,
			func(c *CPU) { c.read(unfixed(c)) },
			func(c *CPU) { c.operand = c.read(effective(c) + uint16(idx(c))) },
			func(c *CPU) { c.write(effective(c)+uint16(idx(c)), c.operand) },
			func(c *CPU) { c.write(effective(c)+uint16(idx(c)), onWrite2(c, onRead, onWrite)) },
		)
	}
}

func buildIndirectY(acc access, onRead func(c *CPU), onWrite func(c *CPU) uint8) []microOp {
	base := []microOp{
		func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		func(c *CPU) { c.ptr = uint16(c.read(uint16(c.addrLo))) },
		func(c *CPU) { c.ptr |= uint16(c.read(uint16(c.addrLo+1))) << 8 },
	}
	effective := func(c *CPU) uint16 { return c.ptr + uint16(c.Y) }
	unfixed := func(c *CPU) uint16 {
		lo := uint8(c.ptr) + c.Y
		return uint16(c.ptr>>8)<<8 | uint16(lo)
	}
	crosses := func(c *CPU) bool { return int(uint8(c.ptr))+int(c.Y) > 0xFF }

	switch acc {
	case accRead:
		return append(base, func(c *CPU) {
			if !crosses(c) {
				c.operand = c.read(effective(c))
				onRead(c)
				return
			}
			c.read(unfixed(c))
			c.pushQueue(func(c *CPU) {
				c.operand = c.read(effective(c))
				onRead(c)
			})
		})
	case accWrite:
		return append(base,
			func(c *CPU) { c.read(unfixed(c)) },
			func(c *CPU) { a := effective(c); c.effAddr = a; c.write(a, onWrite(c)) },
		)
	default: // accRMW
		return append(base,
			func(c *CPU) { c.read(unfixed(c)) },
			func(c *CPU) { c.operand = c.read(effective(c)) },
			func(c *CPU) { c.write(effective(c), c.operand) },
			func(c *CPU) { c.write(effective(c), onWrite2(c, onRead, onWrite)) },
		)
	}
}
