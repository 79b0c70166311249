package cpu

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode matches every *UnknownOpcodeError with errors.Is.
var ErrUnknownOpcode = errors.New("cpu: unknown opcode")

// UnknownOpcodeError is returned by Step when the fetched opcode has
// no instruction. Address is the address the opcode was fetched from.
type UnknownOpcodeError struct {
	Opcode   uint8
	Address  uint16
	Prefixed bool
}

func (e *UnknownOpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("cpu: unknown opcode CB %02X at %04X", e.Opcode, e.Address)
	}
	return fmt.Sprintf("cpu: unknown opcode %02X at %04X", e.Opcode, e.Address)
}

// Is reports whether target is ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
