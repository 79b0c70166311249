package cpu

func init() {
	// the accumulator rotates always clear the zero flag
	DefineInstruction(0x07, "RLCA", func(c *CPU) {
		c.AF.High = c.rotateLeft(c.AF.High)
		c.clearFlag(FlagZero)
	})
	DefineInstruction(0x0F, "RRCA", func(c *CPU) {
		c.AF.High = c.rotateRight(c.AF.High)
		c.clearFlag(FlagZero)
	})
	DefineInstruction(0x17, "RLA", func(c *CPU) {
		c.AF.High = c.rotateLeftThroughCarry(c.AF.High)
		c.clearFlag(FlagZero)
	})
	DefineInstruction(0x1F, "RRA", func(c *CPU) {
		c.AF.High = c.rotateRightThroughCarry(c.AF.High)
		c.clearFlag(FlagZero)
	})
}

// rotateLeft rotates n left by 1 bit, with bit 7 moving to both bit
// 0 and the carry flag.
//
//	RLC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func (c *CPU) rotateLeft(n uint8) uint8 {
	carry := n >> 7
	result := n<<1 | carry
	c.setFlags(result == 0, false, false, carry == 1)
	return result
}

// rotateRight rotates n right by 1 bit, with bit 0 moving to both
// bit 7 and the carry flag.
//
//	RRC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 0 data.
func (c *CPU) rotateRight(n uint8) uint8 {
	carry := n & 1
	result := n>>1 | carry<<7
	c.setFlags(result == 0, false, false, carry == 1)
	return result
}

// rotateLeftThroughCarry rotates n left by 1 bit through the carry
// flag.
//
//	RL n
func (c *CPU) rotateLeftThroughCarry(n uint8) uint8 {
	result := n<<1 | c.carry()
	c.setFlags(result == 0, false, false, n&0x80 != 0)
	return result
}

// rotateRightThroughCarry rotates n right by 1 bit through the carry
// flag.
//
//	RR n
func (c *CPU) rotateRightThroughCarry(n uint8) uint8 {
	result := n>>1 | c.carry()<<7
	c.setFlags(result == 0, false, false, n&1 != 0)
	return result
}
