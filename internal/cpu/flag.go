package cpu

import "github.com/thelolagemann/coreboy/pkg/bits"

// Flag is one of the 4 possible flags used in the flag register (low
// part of AF).
type Flag = uint8

const (
	// FlagZero is set when the result of an operation is 0.
	FlagZero Flag = 7
	// FlagSubtract is set when the last operation was a subtraction.
	FlagSubtract Flag = 6
	// FlagHalfCarry is set when there was a carry out of bit 3.
	FlagHalfCarry Flag = 5
	// FlagCarry is set when there was a carry out of bit 7, or a
	// borrow.
	FlagCarry Flag = 4
)

// setFlag sets the given flag.
func (c *CPU) setFlag(flag Flag) {
	c.AF.Low = bits.Set(c.AF.Low, flag)
}

// clearFlag clears the given flag.
func (c *CPU) clearFlag(flag Flag) {
	c.AF.Low = bits.Reset(c.AF.Low, flag)
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return bits.Test(c.AF.Low, flag)
}

// putFlag sets the flag when v is true, and clears it otherwise.
func (c *CPU) putFlag(flag Flag, v bool) {
	c.AF.Low = bits.Put(c.AF.Low, flag, v)
}

// shouldZeroFlag sets the zero flag if the value is 0,
// clearing it otherwise.
func (c *CPU) shouldZeroFlag(value uint8) {
	c.putFlag(FlagZero, value == 0)
}

// setFlags writes all four flags at once. The low nibble of F
// always reads 0.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.AF.Low = 0
	c.putFlag(FlagZero, zero)
	c.putFlag(FlagSubtract, subtract)
	c.putFlag(FlagHalfCarry, halfCarry)
	c.putFlag(FlagCarry, carry)
}

// carry returns the carry flag as 0 or 1.
func (c *CPU) carry() uint8 {
	return bits.Val(c.AF.Low, FlagCarry)
}
