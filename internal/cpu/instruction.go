package cpu

import "github.com/thelolagemann/coreboy/internal/types"

// Instruction represents a single CPU instruction.
type Instruction struct {
	name string
	fn   func(cpu *CPU)
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

// Defined reports whether the instruction exists.
func (i Instruction) Defined() bool {
	return i.fn != nil
}

// InstructionSet holds the unprefixed instruction set.
var InstructionSet [256]Instruction

// DefineInstruction defines an instruction in the unprefixed set.
func DefineInstruction(opcode uint8, name string, fn func(cpu *CPU)) {
	InstructionSet[opcode] = Instruction{name: name, fn: fn}
}

// registerNames are the operand names of the 3-bit register
// encoding used throughout the instruction set. Index 6 addresses
// memory at HL.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// pairNames are the names of the 2-bit register pair encoding.
var pairNames = [4]string{"BC", "DE", "HL", "SP"}

// reg returns a pointer to the 8-bit register encoded by index.
// Index 6 is not a register, and must be handled by the caller.
func (c *CPU) reg(index uint8) *uint8 {
	switch index {
	case 0:
		return &c.BC.High
	case 1:
		return &c.BC.Low
	case 2:
		return &c.DE.High
	case 3:
		return &c.DE.Low
	case 4:
		return &c.HL.High
	case 5:
		return &c.HL.Low
	case 7:
		return &c.AF.High
	}
	panic("cpu: register index out of range")
}

// readRegister reads the 8-bit operand encoded by index, reading
// memory at HL for index 6.
func (c *CPU) readRegister(index uint8) uint8 {
	if index == 6 {
		return c.readByte(c.HL.Uint16())
	}
	return *c.reg(index)
}

// writeRegister writes the 8-bit operand encoded by index.
func (c *CPU) writeRegister(index uint8, value uint8) {
	if index == 6 {
		c.writeByte(c.HL.Uint16(), value)
		return
	}
	*c.reg(index) = value
}

// pair returns the register pair encoded by index, where 3 is SP.
func (c *CPU) pair(index uint8) *types.Word {
	switch index {
	case 0:
		return &c.BC
	case 1:
		return &c.DE
	case 2:
		return &c.HL
	}
	return &c.SP
}

// stackPair returns the register pair encoded by index for PUSH
// and POP, where 3 is AF.
func (c *CPU) stackPair(index uint8) *types.Word {
	if index == 3 {
		return &c.AF
	}
	return c.pair(index)
}

// conditionNames are the names of the 2-bit condition encoding.
var conditionNames = [4]string{"NZ", "Z", "NC", "C"}

// condition evaluates the condition encoded by cc.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.isFlagSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return !c.isFlagSet(FlagCarry)
	}
	return c.isFlagSet(FlagCarry)
}

func init() {
	DefineInstruction(0x00, "NOP", func(c *CPU) {})
	DefineInstruction(0x10, "STOP", func(c *CPU) {
		// the padding byte is skipped without a bus access
		c.PC.Inc()
		c.stopped = true
	})
	DefineInstruction(0x76, "HALT", func(c *CPU) {
		if !c.ime && c.irq.HasInterrupts() {
			c.haltBug = true
			return
		}
		c.halted = true
	})
	DefineInstruction(0xF3, "DI", func(c *CPU) {
		c.ime = false
		c.imePending = false
	})
	DefineInstruction(0xFB, "EI", func(c *CPU) {
		if !c.ime {
			c.imePending = true
		}
	})
	DefineInstruction(0x27, "DAA", func(c *CPU) {
		c.decimalAdjust()
	})
	DefineInstruction(0x2F, "CPL", func(c *CPU) {
		c.AF.High = ^c.AF.High
		c.setFlag(FlagSubtract)
		c.setFlag(FlagHalfCarry)
	})
	DefineInstruction(0x37, "SCF", func(c *CPU) {
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
		c.setFlag(FlagCarry)
	})
	DefineInstruction(0x3F, "CCF", func(c *CPU) {
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
		c.putFlag(FlagCarry, !c.isFlagSet(FlagCarry))
	})
	InstructionSet[0xCB] = Instruction{name: "PREFIX CB"}
}

// decimalAdjust adjusts the accumulator to a binary coded decimal
// result, after an addition or subtraction of two BCD values.
//
//	DAA
//	A = BCD(A)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set or reset according to operation.
func (c *CPU) decimalAdjust() {
	a := c.AF.High
	carry := c.isFlagSet(FlagCarry)
	if !c.isFlagSet(FlagSubtract) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.isFlagSet(FlagHalfCarry) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.isFlagSet(FlagHalfCarry) {
			a -= 0x06
		}
	}
	c.AF.High = a
	c.shouldZeroFlag(a)
	c.clearFlag(FlagHalfCarry)
	c.putFlag(FlagCarry, carry)
}
