package cpu

// aluNames are the mnemonics of the 8 accumulator operations, in
// encoding order.
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}

// alu applies the accumulator operation encoded by op to A and n.
func (c *CPU) alu(op uint8, n uint8) {
	switch op {
	case 0:
		c.add(n, false)
	case 1:
		c.add(n, true)
	case 2:
		c.AF.High = c.sub(n, false)
	case 3:
		c.AF.High = c.sub(n, true)
	case 4:
		c.and(n)
	case 5:
		c.xor(n)
	case 6:
		c.or(n)
	case 7:
		c.sub(n, false)
	}
}

// add adds n, and the carry flag if useCarry is set, to A.
//
//	ADD A, n
//	ADC A, n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8, useCarry bool) {
	var cin uint8
	if useCarry {
		cin = c.carry()
	}
	a := c.AF.High
	result := uint16(a) + uint16(n) + uint16(cin)
	c.AF.High = uint8(result)
	c.setFlags(uint8(result) == 0, false, a&0x0F+n&0x0F+cin > 0x0F, result > 0xFF)
}

// sub subtracts n, and the carry flag if useCarry is set, from A
// and returns the result. CP uses it without storing the result.
//
//	SUB n
//	SBC A, n
//	CP n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub(n uint8, useCarry bool) uint8 {
	var cin int16
	if useCarry {
		cin = int16(c.carry())
	}
	a := c.AF.High
	result := int16(a) - int16(n) - cin
	c.setFlags(uint8(result) == 0, true, int16(a&0x0F)-int16(n&0x0F)-cin < 0, result < 0)
	return uint8(result)
}

// and performs a bitwise AND of A and n.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and(n uint8) {
	c.AF.High &= n
	c.setFlags(c.AF.High == 0, false, true, false)
}

// xor performs a bitwise XOR of A and n. Flags are as for or.
func (c *CPU) xor(n uint8) {
	c.AF.High ^= n
	c.setFlags(c.AF.High == 0, false, false, false)
}

// or performs a bitwise OR of A and n.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or(n uint8) {
	c.AF.High |= n
	c.setFlags(c.AF.High == 0, false, false, false)
}

// increment returns n+1.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	result := n + 1
	c.shouldZeroFlag(result)
	c.clearFlag(FlagSubtract)
	c.putFlag(FlagHalfCarry, n&0x0F == 0x0F)
	return result
}

// decrement returns n-1.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	result := n - 1
	c.shouldZeroFlag(result)
	c.setFlag(FlagSubtract)
	c.putFlag(FlagHalfCarry, n&0x0F == 0)
	return result
}

// addHL adds n to HL.
//
//	ADD HL, nn
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHL(n uint16) {
	hl := c.HL.Uint16()
	result := uint32(hl) + uint32(n)
	c.clearFlag(FlagSubtract)
	c.putFlag(FlagHalfCarry, hl&0x0FFF+n&0x0FFF > 0x0FFF)
	c.putFlag(FlagCarry, result > 0xFFFF)
	c.HL.SetUint16(uint16(result))
}

// addSPSigned returns SP plus the signed offset e. The flags are
// computed from the unsigned addition of the low byte of SP and e.
//
//	ADD SP, e
//	LD HL, SP+e
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addSPSigned(e uint8) uint16 {
	sp := c.SP.Uint16()
	result := uint16(int32(sp) + int32(int8(e)))
	c.setFlags(false, false, sp&0x0F+uint16(e&0x0F) > 0x0F, sp&0xFF+uint16(e) > 0xFF)
	return result
}
