package cpu

import "github.com/thelolagemann/coreboy/pkg/bits"

// testBit tests bit b of n.
//
//	BIT b, n
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(b uint8, n uint8) {
	c.putFlag(FlagZero, !bits.Test(n, b))
	c.clearFlag(FlagSubtract)
	c.setFlag(FlagHalfCarry)
}
