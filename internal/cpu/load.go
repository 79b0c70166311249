package cpu

import "fmt"

func init() {
	// 0x40 - 0x7F: LD r, r' (0x76 is HALT)
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 && src == 6 {
				continue
			}
			dst, src := dst, src
			DefineInstruction(0x40|dst<<3|src, fmt.Sprintf("LD %s, %s", registerNames[dst], registerNames[src]), func(c *CPU) {
				c.writeRegister(dst, c.readRegister(src))
			})
		}

		r := dst
		DefineInstruction(0x06|r<<3, fmt.Sprintf("LD %s, n", registerNames[r]), func(c *CPU) {
			c.writeRegister(r, c.readOperand())
		})
	}

	for p := uint8(0); p < 4; p++ {
		p := p
		DefineInstruction(0x01|p<<4, fmt.Sprintf("LD %s, nn", pairNames[p]), func(c *CPU) {
			c.pair(p).SetUint16(c.readOperand16())
		})
		DefineInstruction(0xC1|p<<4, fmt.Sprintf("POP %s", stackNames[p]), func(c *CPU) {
			high, low := c.pop()
			w := c.stackPair(p)
			w.High, w.Low = high, low
			if p == 3 {
				// the low nibble of F is always 0
				c.AF.Low &= 0xF0
			}
		})
		DefineInstruction(0xC5|p<<4, fmt.Sprintf("PUSH %s", stackNames[p]), func(c *CPU) {
			w := c.stackPair(p)
			c.push(w.High, w.Low)
		})
	}

	// indirect loads through BC, DE and HL
	DefineInstruction(0x02, "LD (BC), A", func(c *CPU) {
		c.writeByte(c.BC.Uint16(), c.AF.High)
	})
	DefineInstruction(0x12, "LD (DE), A", func(c *CPU) {
		c.writeByte(c.DE.Uint16(), c.AF.High)
	})
	DefineInstruction(0x22, "LD (HL+), A", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.AF.High)
		c.HL.Inc()
	})
	DefineInstruction(0x32, "LD (HL-), A", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.AF.High)
		c.HL.Dec()
	})
	DefineInstruction(0x0A, "LD A, (BC)", func(c *CPU) {
		c.AF.High = c.readByte(c.BC.Uint16())
	})
	DefineInstruction(0x1A, "LD A, (DE)", func(c *CPU) {
		c.AF.High = c.readByte(c.DE.Uint16())
	})
	DefineInstruction(0x2A, "LD A, (HL+)", func(c *CPU) {
		c.AF.High = c.readByte(c.HL.Uint16())
		c.HL.Inc()
	})
	DefineInstruction(0x3A, "LD A, (HL-)", func(c *CPU) {
		c.AF.High = c.readByte(c.HL.Uint16())
		c.HL.Dec()
	})

	DefineInstruction(0x08, "LD (nn), SP", func(c *CPU) {
		address := c.readOperand16()
		c.writeByte(address, c.SP.Low)
		c.writeByte(address+1, c.SP.High)
	})

	// high page loads
	DefineInstruction(0xE0, "LDH (n), A", func(c *CPU) {
		c.writeByte(0xFF00+uint16(c.readOperand()), c.AF.High)
	})
	DefineInstruction(0xF0, "LDH A, (n)", func(c *CPU) {
		c.AF.High = c.readByte(0xFF00 + uint16(c.readOperand()))
	})
	DefineInstruction(0xE2, "LD (C), A", func(c *CPU) {
		c.writeByte(0xFF00+uint16(c.BC.Low), c.AF.High)
	})
	DefineInstruction(0xF2, "LD A, (C)", func(c *CPU) {
		c.AF.High = c.readByte(0xFF00 + uint16(c.BC.Low))
	})
	DefineInstruction(0xEA, "LD (nn), A", func(c *CPU) {
		c.writeByte(c.readOperand16(), c.AF.High)
	})
	DefineInstruction(0xFA, "LD A, (nn)", func(c *CPU) {
		c.AF.High = c.readByte(c.readOperand16())
	})

	DefineInstruction(0xF8, "LD HL, SP+e", func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned(c.readOperand()))
		c.tickCycle()
	})
	DefineInstruction(0xF9, "LD SP, HL", func(c *CPU) {
		c.SP.SetUint16(c.HL.Uint16())
		c.tickCycle()
	})
}

var stackNames = [4]string{"BC", "DE", "HL", "AF"}
