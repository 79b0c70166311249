package cpu

import (
	"fmt"
	"testing"
)

// referenceCB computes the result and flags of the CB prefixed
// operation opcode on v.
func referenceCB(opcode, v, f uint8) (uint8, uint8) {
	y := (opcode >> 3) & 7
	carry := (f >> FlagCarry) & 1
	switch opcode >> 6 {
	case 0:
		var r, out uint8
		switch y {
		case 0: // RLC
			r, out = v<<1|v>>7, v>>7
		case 1: // RRC
			r, out = v>>1|v<<7, v&1
		case 2: // RL
			r, out = v<<1|carry, v>>7
		case 3: // RR
			r, out = v>>1|carry<<7, v&1
		case 4: // SLA
			r, out = v<<1, v>>7
		case 5: // SRA
			r, out = v>>1|v&0x80, v&1
		case 6: // SWAP
			r = v<<4 | v>>4
		case 7: // SRL
			r, out = v>>1, v&1
		}
		return r, packFlags(r == 0, false, false, out == 1)
	case 1:
		return v, packFlags(v&(1<<y) == 0, false, true, carry == 1)
	case 2:
		return v &^ (1 << y), f
	}
	return v | 1<<y, f
}

func TestInstructionCB_Sweep(t *testing.T) {
	for i := 0; i < 256; i++ {
		opcode := uint8(i)
		z := opcode & 7
		t.Run(fmt.Sprintf("CB %02X %s", opcode, InstructionSetCB[opcode].Name()), func(t *testing.T) {
			for _, v := range sweepValues {
				for _, f := range sweepFlags {
					vals := sweepBase
					vals[z] = v
					want := vals
					var wantF uint8
					want[z], wantF = referenceCB(opcode, v, f)

					c, bus, address := runVector(t, []uint8{0xCB, opcode}, vals, f)
					if !checkVector(t, fmt.Sprintf("v=%02X F=%02X", v, f), c, bus, address, want, wantF, 0xC002) {
						return
					}
				}
			}
		})
	}
}
