package cpu

import "fmt"

func init() {
	// 0x80 - 0xBF: ALU A, r
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			op, src := op, src
			DefineInstruction(0x80|op<<3|src, fmt.Sprintf("%s %s", aluNames[op], registerNames[src]), func(c *CPU) {
				c.alu(op, c.readRegister(src))
			})
		}
		op := op
		DefineInstruction(0xC6|op<<3, fmt.Sprintf("%s n", aluNames[op]), func(c *CPU) {
			c.alu(op, c.readOperand())
		})
	}

	// INC r, DEC r
	for r := uint8(0); r < 8; r++ {
		r := r
		DefineInstruction(0x04|r<<3, fmt.Sprintf("INC %s", registerNames[r]), func(c *CPU) {
			c.writeRegister(r, c.increment(c.readRegister(r)))
		})
		DefineInstruction(0x05|r<<3, fmt.Sprintf("DEC %s", registerNames[r]), func(c *CPU) {
			c.writeRegister(r, c.decrement(c.readRegister(r)))
		})
	}

	// INC rr, DEC rr, ADD HL, rr
	for p := uint8(0); p < 4; p++ {
		p := p
		DefineInstruction(0x03|p<<4, fmt.Sprintf("INC %s", pairNames[p]), func(c *CPU) {
			c.pair(p).Inc()
			c.tickCycle()
		})
		DefineInstruction(0x0B|p<<4, fmt.Sprintf("DEC %s", pairNames[p]), func(c *CPU) {
			c.pair(p).Dec()
			c.tickCycle()
		})
		DefineInstruction(0x09|p<<4, fmt.Sprintf("ADD HL, %s", pairNames[p]), func(c *CPU) {
			c.addHL(c.pair(p).Uint16())
			c.tickCycle()
		})
	}

	DefineInstruction(0xE8, "ADD SP, e", func(c *CPU) {
		result := c.addSPSigned(c.readOperand())
		c.tickCycle()
		c.tickCycle()
		c.SP.SetUint16(result)
	})
}
