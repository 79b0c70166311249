package cpu

import (
	"fmt"

	"github.com/thelolagemann/coreboy/pkg/bits"
)

// InstructionSetCB holds the instructions prefixed by 0xCB.
var InstructionSetCB [256]Instruction

// DefineInstructionCB defines an instruction in the 0xCB prefixed set.
func DefineInstructionCB(opcode uint8, name string, fn func(cpu *CPU)) {
	InstructionSetCB[opcode] = Instruction{name: name, fn: fn}
}

var shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func (c *CPU) shiftOp(op uint8, n uint8) uint8 {
	switch op {
	case 0:
		return c.rotateLeft(n)
	case 1:
		return c.rotateRight(n)
	case 2:
		return c.rotateLeftThroughCarry(n)
	case 3:
		return c.rotateRightThroughCarry(n)
	case 4:
		return c.shiftLeftArithmetic(n)
	case 5:
		return c.shiftRightArithmetic(n)
	case 6:
		return c.swap(n)
	}
	return c.shiftRightLogical(n)
}

func init() {
	for r := uint8(0); r < 8; r++ {
		// 0x00 - 0x3F: rotates, shifts and swap
		for op := uint8(0); op < 8; op++ {
			r, op := r, op
			DefineInstructionCB(op<<3|r, fmt.Sprintf("%s %s", shiftNames[op], registerNames[r]), func(c *CPU) {
				c.writeRegister(r, c.shiftOp(op, c.readRegister(r)))
			})
		}

		// 0x40 - 0xFF: BIT, RES and SET
		for b := uint8(0); b < 8; b++ {
			r, b := r, b
			DefineInstructionCB(0x40|b<<3|r, fmt.Sprintf("BIT %d, %s", b, registerNames[r]), func(c *CPU) {
				c.testBit(b, c.readRegister(r))
			})
			DefineInstructionCB(0x80|b<<3|r, fmt.Sprintf("RES %d, %s", b, registerNames[r]), func(c *CPU) {
				c.writeRegister(r, bits.Reset(c.readRegister(r), b))
			})
			DefineInstructionCB(0xC0|b<<3|r, fmt.Sprintf("SET %d, %s", b, registerNames[r]), func(c *CPU) {
				c.writeRegister(r, bits.Set(c.readRegister(r), b))
			})
		}
	}
}
