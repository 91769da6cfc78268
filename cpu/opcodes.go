package cpu

// opEntry is one row of the 256-entry opcode table: a name (for
// disassembly/debugging) and a builder that produces the micro-op queue for
// one execution of the instruction, evaluated fresh every time so operand
// scratch state never leaks between instructions.
type opEntry struct {
	name  string
	build func(c *CPU) []microOp
}

var opcodeTable [256]opEntry

func set(op uint8, name string, build func(c *CPU) []microOp) {
	opcodeTable[op] = opEntry{name: name, build: build}
}

func readOp(mode string, fn func(c *CPU, v uint8)) func(c *CPU) []microOp {
	return func(c *CPU) []microOp { return buildRead(mode, fn) }
}

func writeOp(mode string, fn func(c *CPU) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp { return buildWrite(mode, fn) }
}

func rmwOp(mode string, fn func(c *CPU, v uint8) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp { return buildRMW(mode, fn) }
}

func impliedOp(fn func(c *CPU)) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return buildAddr("imp", accRead, func(c *CPU) { fn(c) }, nil)
	}
}

func accOp(fn func(c *CPU, v uint8) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{func(c *CPU) { c.read(c.PC); c.A = fn(c, c.A) }}
	}
}

func branchOp(cond func(c *CPU) bool) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return []microOp{func(c *CPU) {
			offset := c.read(c.PC)
			c.PC++
			if !cond(c) {
				return
			}
			c.pushQueue(func(c *CPU) {
				oldPC := c.PC
				c.read(c.PC)
				newPC := uint16(int32(oldPC) + int32(int8(offset)))
				c.PC = newPC
				if newPC&0xFF00 == oldPC&0xFF00 {
					return
				}
				c.pushQueue(func(c *CPU) { c.read(c.PC) })
			})
		}}
	}
}

func jmpAbs(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		func(c *CPU) {
			c.addrHi = c.read(c.PC)
			c.PC++
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
		},
	}
}

func jmpInd(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		func(c *CPU) { c.addrHi = c.read(c.PC); c.PC++ },
		func(c *CPU) {
			c.ptr = uint16(c.addrHi)<<8 | uint16(c.addrLo)
			c.operand = c.read(c.ptr)
		},
		func(c *CPU) {
			hiAddr := c.ptr&0xFF00 | uint16(uint8(c.ptr)+1) // the famous page-wrap bug
			hi := c.read(hiAddr)
			c.PC = uint16(hi)<<8 | uint16(c.operand)
		},
	}
}

func jsr(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.addrLo = c.read(c.PC); c.PC++ },
		func(c *CPU) { c.read(stackPage + uint16(c.SP)) },
		func(c *CPU) { c.pushStack(uint8(c.PC >> 8)) },
		func(c *CPU) { c.pushStack(uint8(c.PC)) },
		func(c *CPU) {
			c.addrHi = c.read(c.PC)
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
		},
	}
}

func rts(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.read(stackPage + uint16(c.SP)) },
		func(c *CPU) { c.addrLo = c.pullStack() },
		func(c *CPU) { c.addrHi = c.pullStack() },
		func(c *CPU) {
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
			c.read(c.PC)
			c.PC++
		},
	}
}

func rti(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.read(stackPage + uint16(c.SP)) },
		func(c *CPU) { c.P = c.pullStack()&^FlagBreak | FlagUnused },
		func(c *CPU) { c.addrLo = c.pullStack() },
		func(c *CPU) {
			c.addrHi = c.pullStack()
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
		},
	}
}

func brk(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC); c.PC++ },
		func(c *CPU) { c.pushStack(uint8(c.PC >> 8)) },
		func(c *CPU) { c.pushStack(uint8(c.PC)) },
		func(c *CPU) { c.pushStack(c.P | FlagBreak | FlagUnused) },
		func(c *CPU) { c.addrLo = c.read(vectorIRQ) },
		func(c *CPU) {
			c.addrHi = c.read(vectorIRQ + 1)
			c.P |= FlagIRQOff
			c.PC = uint16(c.addrHi)<<8 | uint16(c.addrLo)
		},
	}
}

func pha(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.pushStack(c.A) },
	}
}

func php(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.pushStack(c.P | FlagBreak | FlagUnused) },
	}
}

func pla(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.read(stackPage + uint16(c.SP)) },
		func(c *CPU) { c.A = c.pullStack(); c.setZN(c.A) },
	}
}

func plp(c *CPU) []microOp {
	return []microOp{
		func(c *CPU) { c.read(c.PC) },
		func(c *CPU) { c.read(stackPage + uint16(c.SP)) },
		func(c *CPU) { c.P = c.pullStack()&^FlagBreak | FlagUnused },
	}
}

// jam freezes the CPU the way the undocumented KIL/JAM opcodes lock up real
// hardware: the program counter never advances again.
func jam(c *CPU) []microOp {
	c.PC--
	var loop microOp
	loop = func(c *CPU) { c.pushQueue(loop) }
	return []microOp{loop}
}

func unstableStore(mode string, fn func(c *CPU) uint8) func(c *CPU) []microOp {
	return func(c *CPU) []microOp {
		return buildWrite(mode, func(c *CPU) uint8 {
			if c.dmaStalledLastCycle {
				return fn(c)
			}
			hi := uint8(c.effAddr>>8) + 1
			return fn(c) & hi
		})
	}
}

func init() {
	for i := range opcodeTable {
		set(uint8(i), "NOP", impliedOp(func(c *CPU) {}))
	}

	set(0x69, "ADC", readOp("imm", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x65, "ADC", readOp("zp", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x75, "ADC", readOp("zpx", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x6D, "ADC", readOp("abs", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x7D, "ADC", readOp("absx", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x79, "ADC", readOp("absy", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x61, "ADC", readOp("indx", func(c *CPU, v uint8) { c.adc(v) }))
	set(0x71, "ADC", readOp("indy", func(c *CPU, v uint8) { c.adc(v) }))

	set(0x29, "AND", readOp("imm", func(c *CPU, v uint8) { c.and(v) }))
	set(0x25, "AND", readOp("zp", func(c *CPU, v uint8) { c.and(v) }))
	set(0x35, "AND", readOp("zpx", func(c *CPU, v uint8) { c.and(v) }))
	set(0x2D, "AND", readOp("abs", func(c *CPU, v uint8) { c.and(v) }))
	set(0x3D, "AND", readOp("absx", func(c *CPU, v uint8) { c.and(v) }))
	set(0x39, "AND", readOp("absy", func(c *CPU, v uint8) { c.and(v) }))
	set(0x21, "AND", readOp("indx", func(c *CPU, v uint8) { c.and(v) }))
	set(0x31, "AND", readOp("indy", func(c *CPU, v uint8) { c.and(v) }))

	set(0x0A, "ASL", accOp(func(c *CPU, v uint8) uint8 { return c.asl(v) }))
	set(0x06, "ASL", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.asl(v) }))
	set(0x16, "ASL", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.asl(v) }))
	set(0x0E, "ASL", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.asl(v) }))
	set(0x1E, "ASL", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.asl(v) }))

	set(0x90, "BCC", branchOp(func(c *CPU) bool { return c.P&FlagCarry == 0 }))
	set(0xB0, "BCS", branchOp(func(c *CPU) bool { return c.P&FlagCarry != 0 }))
	set(0xF0, "BEQ", branchOp(func(c *CPU) bool { return c.P&FlagZero != 0 }))
	set(0x30, "BMI", branchOp(func(c *CPU) bool { return c.P&FlagNegative != 0 }))
	set(0xD0, "BNE", branchOp(func(c *CPU) bool { return c.P&FlagZero == 0 }))
	set(0x10, "BPL", branchOp(func(c *CPU) bool { return c.P&FlagNegative == 0 }))
	set(0x50, "BVC", branchOp(func(c *CPU) bool { return c.P&FlagOverflow == 0 }))
	set(0x70, "BVS", branchOp(func(c *CPU) bool { return c.P&FlagOverflow != 0 }))

	set(0x24, "BIT", readOp("zp", func(c *CPU, v uint8) { c.bit(v) }))
	set(0x2C, "BIT", readOp("abs", func(c *CPU, v uint8) { c.bit(v) }))

	set(0x00, "BRK", brk)

	set(0x18, "CLC", impliedOp((*CPU).clc))
	set(0xD8, "CLD", impliedOp((*CPU).cld))
	set(0x58, "CLI", impliedOp((*CPU).cli))
	set(0xB8, "CLV", impliedOp((*CPU).clv))
	set(0x38, "SEC", impliedOp((*CPU).sec))
	set(0xF8, "SED", impliedOp((*CPU).sed))
	set(0x78, "SEI", impliedOp((*CPU).sei))

	set(0xC9, "CMP", readOp("imm", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xC5, "CMP", readOp("zp", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xD5, "CMP", readOp("zpx", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xCD, "CMP", readOp("abs", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xDD, "CMP", readOp("absx", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xD9, "CMP", readOp("absy", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xC1, "CMP", readOp("indx", func(c *CPU, v uint8) { c.cmp(c.A, v) }))
	set(0xD1, "CMP", readOp("indy", func(c *CPU, v uint8) { c.cmp(c.A, v) }))

	set(0xE0, "CPX", readOp("imm", func(c *CPU, v uint8) { c.cmp(c.X, v) }))
	set(0xE4, "CPX", readOp("zp", func(c *CPU, v uint8) { c.cmp(c.X, v) }))
	set(0xEC, "CPX", readOp("abs", func(c *CPU, v uint8) { c.cmp(c.X, v) }))

	set(0xC0, "CPY", readOp("imm", func(c *CPU, v uint8) { c.cmp(c.Y, v) }))
	set(0xC4, "CPY", readOp("zp", func(c *CPU, v uint8) { c.cmp(c.Y, v) }))
	set(0xCC, "CPY", readOp("abs", func(c *CPU, v uint8) { c.cmp(c.Y, v) }))

	set(0xC6, "DEC", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.dec(v) }))
	set(0xD6, "DEC", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.dec(v) }))
	set(0xCE, "DEC", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.dec(v) }))
	set(0xDE, "DEC", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.dec(v) }))

	set(0xCA, "DEX", impliedOp((*CPU).dex))
	set(0x88, "DEY", impliedOp((*CPU).dey))
	set(0xE8, "INX", impliedOp((*CPU).inx))
	set(0xC8, "INY", impliedOp((*CPU).iny))

	set(0x49, "EOR", readOp("imm", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x45, "EOR", readOp("zp", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x55, "EOR", readOp("zpx", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x4D, "EOR", readOp("abs", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x5D, "EOR", readOp("absx", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x59, "EOR", readOp("absy", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x41, "EOR", readOp("indx", func(c *CPU, v uint8) { c.eor(v) }))
	set(0x51, "EOR", readOp("indy", func(c *CPU, v uint8) { c.eor(v) }))

	set(0xE6, "INC", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.inc(v) }))
	set(0xF6, "INC", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.inc(v) }))
	set(0xEE, "INC", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.inc(v) }))
	set(0xFE, "INC", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.inc(v) }))

	set(0x4C, "JMP", jmpAbs)
	set(0x6C, "JMP", jmpInd)
	set(0x20, "JSR", jsr)

	set(0xA9, "LDA", readOp("imm", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xA5, "LDA", readOp("zp", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xB5, "LDA", readOp("zpx", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xAD, "LDA", readOp("abs", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xBD, "LDA", readOp("absx", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xB9, "LDA", readOp("absy", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xA1, "LDA", readOp("indx", func(c *CPU, v uint8) { c.lda(v) }))
	set(0xB1, "LDA", readOp("indy", func(c *CPU, v uint8) { c.lda(v) }))

	set(0xA2, "LDX", readOp("imm", func(c *CPU, v uint8) { c.ldx(v) }))
	set(0xA6, "LDX", readOp("zp", func(c *CPU, v uint8) { c.ldx(v) }))
	set(0xB6, "LDX", readOp("zpy", func(c *CPU, v uint8) { c.ldx(v) }))
	set(0xAE, "LDX", readOp("abs", func(c *CPU, v uint8) { c.ldx(v) }))
	set(0xBE, "LDX", readOp("absy", func(c *CPU, v uint8) { c.ldx(v) }))

	set(0xA0, "LDY", readOp("imm", func(c *CPU, v uint8) { c.ldy(v) }))
	set(0xA4, "LDY", readOp("zp", func(c *CPU, v uint8) { c.ldy(v) }))
	set(0xB4, "LDY", readOp("zpx", func(c *CPU, v uint8) { c.ldy(v) }))
	set(0xAC, "LDY", readOp("abs", func(c *CPU, v uint8) { c.ldy(v) }))
	set(0xBC, "LDY", readOp("absx", func(c *CPU, v uint8) { c.ldy(v) }))

	set(0x4A, "LSR", accOp(func(c *CPU, v uint8) uint8 { return c.lsr(v) }))
	set(0x46, "LSR", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.lsr(v) }))
	set(0x56, "LSR", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.lsr(v) }))
	set(0x4E, "LSR", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.lsr(v) }))
	set(0x5E, "LSR", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.lsr(v) }))

	set(0xEA, "NOP", impliedOp(func(c *CPU) {}))

	set(0x09, "ORA", readOp("imm", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x05, "ORA", readOp("zp", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x15, "ORA", readOp("zpx", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x0D, "ORA", readOp("abs", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x1D, "ORA", readOp("absx", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x19, "ORA", readOp("absy", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x01, "ORA", readOp("indx", func(c *CPU, v uint8) { c.ora(v) }))
	set(0x11, "ORA", readOp("indy", func(c *CPU, v uint8) { c.ora(v) }))

	set(0x48, "PHA", pha)
	set(0x08, "PHP", php)
	set(0x68, "PLA", pla)
	set(0x28, "PLP", plp)

	set(0x2A, "ROL", accOp(func(c *CPU, v uint8) uint8 { return c.rol(v) }))
	set(0x26, "ROL", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.rol(v) }))
	set(0x36, "ROL", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.rol(v) }))
	set(0x2E, "ROL", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.rol(v) }))
	set(0x3E, "ROL", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.rol(v) }))

	set(0x6A, "ROR", accOp(func(c *CPU, v uint8) uint8 { return c.ror(v) }))
	set(0x66, "ROR", rmwOp("zp", func(c *CPU, v uint8) uint8 { return c.ror(v) }))
	set(0x76, "ROR", rmwOp("zpx", func(c *CPU, v uint8) uint8 { return c.ror(v) }))
	set(0x6E, "ROR", rmwOp("abs", func(c *CPU, v uint8) uint8 { return c.ror(v) }))
	set(0x7E, "ROR", rmwOp("absx", func(c *CPU, v uint8) uint8 { return c.ror(v) }))

	set(0x40, "RTI", rti)
	set(0x60, "RTS", rts)

	set(0xE9, "SBC", readOp("imm", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xE5, "SBC", readOp("zp", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xF5, "SBC", readOp("zpx", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xED, "SBC", readOp("abs", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xFD, "SBC", readOp("absx", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xF9, "SBC", readOp("absy", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xE1, "SBC", readOp("indx", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xF1, "SBC", readOp("indy", func(c *CPU, v uint8) { c.sbc(v) }))
	set(0xEB, "SBC", readOp("imm", func(c *CPU, v uint8) { c.sbc(v) })) // unofficial duplicate

	set(0x85, "STA", writeOp("zp", func(c *CPU) uint8 { return c.A }))
	set(0x95, "STA", writeOp("zpx", func(c *CPU) uint8 { return c.A }))
	set(0x8D, "STA", writeOp("abs", func(c *CPU) uint8 { return c.A }))
	set(0x9D, "STA", writeOp("absx", func(c *CPU) uint8 { return c.A }))
	set(0x99, "STA", writeOp("absy", func(c *CPU) uint8 { return c.A }))
	set(0x81, "STA", writeOp("indx", func(c *CPU) uint8 { return c.A }))
	set(0x91, "STA", writeOp("indy", func(c *CPU) uint8 { return c.A }))

	set(0x86, "STX", writeOp("zp", func(c *CPU) uint8 { return c.X }))
	set(0x96, "STX", writeOp("zpy", func(c *CPU) uint8 { return c.X }))
	set(0x8E, "STX", writeOp("abs", func(c *CPU) uint8 { return c.X }))

	set(0x84, "STY", writeOp("zp", func(c *CPU) uint8 { return c.Y }))
	set(0x94, "STY", writeOp("zpx", func(c *CPU) uint8 { return c.Y }))
	set(0x8C, "STY", writeOp("abs", func(c *CPU) uint8 { return c.Y }))

	set(0xAA, "TAX", impliedOp((*CPU).tax))
	set(0xA8, "TAY", impliedOp((*CPU).tay))
	set(0xBA, "TSX", impliedOp((*CPU).tsx))
	set(0x8A, "TXA", impliedOp((*CPU).txa))
	set(0x9A, "TXS", impliedOp((*CPU).txs))
	set(0x98, "TYA", impliedOp((*CPU).tya))

	// Unofficial read-modify-write combos.
	for _, e := range []struct {
		base uint8
		name string
		fn   func(c *CPU, v uint8) uint8
	}{
		{0x03, "SLO", (*CPU).slo}, {0x23, "RLA", (*CPU).rla},
		{0x43, "SRE", (*CPU).sre}, {0x63, "RRA", (*CPU).rra},
		{0xC3, "DCP", (*CPU).dcp}, {0xE3, "ISC", (*CPU).isc},
	} {
		fn := e.fn
		set(e.base, e.name, rmwOp("indx", fn))
		set(e.base+0x04, e.name, rmwOp("zp", fn))
		set(e.base+0x0C, e.name, rmwOp("abs", fn))
		set(e.base+0x10, e.name, rmwOp("indy", fn))
		set(e.base+0x14, e.name, rmwOp("zpx", fn))
		set(e.base+0x18, e.name, rmwOp("absy", fn))
		set(e.base+0x1C, e.name, rmwOp("absx", fn))
	}

	set(0x83, "SAX", writeOp("indx", (*CPU).sax))
	set(0x87, "SAX", writeOp("zp", (*CPU).sax))
	set(0x8F, "SAX", writeOp("abs", (*CPU).sax))
	set(0x97, "SAX", writeOp("zpy", (*CPU).sax))

	set(0xA3, "LAX", readOp("indx", func(c *CPU, v uint8) { c.lax(v) }))
	set(0xA7, "LAX", readOp("zp", func(c *CPU, v uint8) { c.lax(v) }))
	set(0xAF, "LAX", readOp("abs", func(c *CPU, v uint8) { c.lax(v) }))
	set(0xB3, "LAX", readOp("indy", func(c *CPU, v uint8) { c.lax(v) }))
	set(0xB7, "LAX", readOp("zpy", func(c *CPU, v uint8) { c.lax(v) }))
	set(0xBF, "LAX", readOp("absy", func(c *CPU, v uint8) { c.lax(v) }))

	set(0x0B, "ANC", readOp("imm", func(c *CPU, v uint8) { c.anc(v) }))
	set(0x2B, "ANC", readOp("imm", func(c *CPU, v uint8) { c.anc(v) }))
	set(0x4B, "ALR", readOp("imm", func(c *CPU, v uint8) { c.alr(v) }))
	set(0x6B, "ARR", readOp("imm", func(c *CPU, v uint8) { c.arr(v) }))
	set(0x8B, "ANE", readOp("imm", func(c *CPU, v uint8) { c.ane(v) }))
	set(0xAB, "LXA", readOp("imm", func(c *CPU, v uint8) { c.lxa(v) }))
	set(0xCB, "AXS", readOp("imm", func(c *CPU, v uint8) { c.axs(v) }))
	set(0xBB, "LAS", readOp("absy", func(c *CPU, v uint8) { c.las(v) }))

	set(0x93, "SHA", unstableStore("indy", func(c *CPU) uint8 { return c.A & c.X }))
	set(0x9F, "SHA", unstableStore("absy", func(c *CPU) uint8 { return c.A & c.X }))
	set(0x9E, "SHX", unstableStore("absy", func(c *CPU) uint8 { return c.X }))
	set(0x9C, "SHY", unstableStore("absx", func(c *CPU) uint8 { return c.Y }))
	set(0x9B, "SHS", unstableStore("absy", func(c *CPU) uint8 { c.SP = c.A & c.X; return c.SP }))

	// Undocumented NOPs across every addressing mode real CPUs expose.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", impliedOp(func(c *CPU) {}))
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", readOp("imm", func(c *CPU, v uint8) {}))
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", readOp("zp", func(c *CPU, v uint8) {}))
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", readOp("zpx", func(c *CPU, v uint8) {}))
	}
	set(0x0C, "NOP", readOp("abs", func(c *CPU, v uint8) {}))
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", readOp("absx", func(c *CPU, v uint8) {}))
	}

	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		set(op, "JAM", jam)
	}
}
