package cpu

import "fmt"

func init() {
	DefineInstruction(0xC3, "JP nn", func(c *CPU) {
		c.jumpAbsolute(c.readOperand16())
	})
	DefineInstruction(0xE9, "JP HL", func(c *CPU) {
		c.PC.SetUint16(c.HL.Uint16())
	})
	DefineInstruction(0x18, "JR e", func(c *CPU) {
		c.jumpRelative(c.readOperand())
	})
	DefineInstruction(0xCD, "CALL nn", func(c *CPU) {
		c.call(c.readOperand16())
	})
	DefineInstruction(0xC9, "RET", func(c *CPU) {
		c.ret()
	})
	DefineInstruction(0xD9, "RETI", func(c *CPU) {
		c.ret()
		c.ime = true
		c.imePending = false
	})

	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		DefineInstruction(0xC2|cc<<3, fmt.Sprintf("JP %s, nn", conditionNames[cc]), func(c *CPU) {
			address := c.readOperand16()
			if c.condition(cc) {
				c.jumpAbsolute(address)
			}
		})
		DefineInstruction(0x20|cc<<3, fmt.Sprintf("JR %s, e", conditionNames[cc]), func(c *CPU) {
			offset := c.readOperand()
			if c.condition(cc) {
				c.jumpRelative(offset)
			}
		})
		DefineInstruction(0xC4|cc<<3, fmt.Sprintf("CALL %s, nn", conditionNames[cc]), func(c *CPU) {
			address := c.readOperand16()
			if c.condition(cc) {
				c.call(address)
			}
		})
		DefineInstruction(0xC0|cc<<3, fmt.Sprintf("RET %s", conditionNames[cc]), func(c *CPU) {
			c.tickCycle()
			if c.condition(cc) {
				c.ret()
			}
		})
	}

	for i := uint8(0); i < 8; i++ {
		vector := uint16(i) * 8
		DefineInstruction(0xC7|i<<3, fmt.Sprintf("RST %02XH", vector), func(c *CPU) {
			c.push(c.PC.High, c.PC.Low)
			c.PC.SetUint16(vector)
		})
	}
}

// jumpAbsolute sets PC to address. It takes 1 M-cycle.
func (c *CPU) jumpAbsolute(address uint16) {
	c.PC.SetUint16(address)
	c.tickCycle()
}

// jumpRelative adds the signed offset to PC. It takes 1 M-cycle.
func (c *CPU) jumpRelative(offset uint8) {
	c.PC.SetUint16(uint16(int32(c.PC.Uint16()) + int32(int8(offset))))
	c.tickCycle()
}

// call pushes PC and jumps to address. It takes 3 M-cycles.
func (c *CPU) call(address uint16) {
	c.push(c.PC.High, c.PC.Low)
	c.PC.SetUint16(address)
}

// ret pops PC from the stack. It takes 3 M-cycles.
func (c *CPU) ret() {
	high, low := c.pop()
	c.PC.High, c.PC.Low = high, low
	c.tickCycle()
}
