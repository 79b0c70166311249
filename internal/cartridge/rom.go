package cartridge

import (
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// ROMOnly represents a ROM cartridge. This cartridge type is the
// simplest cartridge type and has no external RAM or MBC, the
// whole 32kB image is mapped to 0x0000 - 0x7FFF.
type ROMOnly struct {
	rom    []byte
	header *Header
	log    log.Logger
}

// NewROMOnly returns a new ROM only cartridge.
func NewROMOnly(rom []byte, header *Header, l log.Logger) *ROMOnly {
	return &ROMOnly{
		rom:    rom,
		header: header,
		log:    l,
	}
}

// Read returns the value at the given address.
func (r *ROMOnly) Read(address uint16) uint8 {
	if address < 0x8000 && int(address) < len(r.rom) {
		return r.rom[address]
	}
	r.log.Warnf("cartridge: read from unmapped address %04X", address)
	return 0xFF
}

// Write is rejected, as the cartridge has no registers or RAM.
func (r *ROMOnly) Write(address uint16, value uint8) {
	r.log.Warnf("cartridge: write to read-only address %04X (%02X)", address, value)
}

// Header returns the parsed header of the cartridge.
func (r *ROMOnly) Header() *Header {
	return r.header
}

// Kind returns KindROMOnly.
func (r *ROMOnly) Kind() Kind {
	return KindROMOnly
}

func (r *ROMOnly) cartridge() {}

// Load does nothing as ROM is read-only.
func (r *ROMOnly) Load(s *types.State) {}

// Save does nothing as ROM is read-only.
func (r *ROMOnly) Save(s *types.State) {}
