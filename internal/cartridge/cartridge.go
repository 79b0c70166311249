// Package cartridge provides the cartridges supported by the
// emulator. A cartridge holds the game ROM and any external RAM,
// and maps the CPU visible addresses 0x0000 - 0x7FFF and
// 0xA000 - 0xBFFF onto them.
//
// The set of cartridges is closed: New selects either a ROMOnly
// or an MBC1 from the declared controller type, and the variant
// does not change for the lifetime of the cartridge.
package cartridge

import (
	"fmt"

	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// Kind identifies the variant of a Cartridge.
type Kind uint8

const (
	KindROMOnly Kind = iota
	KindMBC1
)

func (k Kind) String() string {
	switch k {
	case KindROMOnly:
		return "ROM ONLY"
	case KindMBC1:
		return "MBC1"
	}
	return "unknown"
}

// Cartridge represents a game cartridge. Reads and writes
// outside the cartridge's mapped regions, or to regions the
// cartridge rejects, are logged and resolved to 0xFF or a no-op.
type Cartridge interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	Header() *Header
	Kind() Kind

	types.Stater

	// cartridge seals the interface to the variants in this package.
	cartridge()
}

// New parses and validates the header of rom, and returns the
// cartridge variant for the declared controller type.
func New(rom []byte, l log.Logger) (Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	if err := header.Validate(rom); err != nil {
		return nil, err
	}

	switch header.CartridgeType {
	case ROM:
		return NewROMOnly(rom, header, l), nil
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return NewMBC1(rom, header, l), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupported, header.CartridgeType)
}
