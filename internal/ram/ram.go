// Package ram provides a basic RAM implementation.
package ram

import (
	"math/rand"

	"github.com/thelolagemann/coreboy/internal/types"
)

// RAM represents a fixed size block of RAM. Addresses are
// relative to the start of the block, and wrap around its size.
type RAM struct {
	data []uint8
}

// NewRAM returns a new zeroed RAM of the given size.
func NewRAM(size uint32) *RAM {
	return &RAM{
		data: make([]uint8, size),
	}
}

// Read returns the value at the given address.
func (r *RAM) Read(address uint16) uint8 {
	return r.data[int(address)%len(r.data)]
}

// Write writes the value to the given address.
func (r *RAM) Write(address uint16, value uint8) {
	r.data[int(address)%len(r.data)] = value
}

// Size returns the size of the RAM in bytes.
func (r *RAM) Size() int {
	return len(r.data)
}

// Randomize fills the RAM with random values, modelling the
// undefined contents of RAM at power on.
func (r *RAM) Randomize() {
	for i := range r.data {
		r.data[i] = uint8(rand.Intn(0x100))
	}
}

var _ types.Stater = (*RAM)(nil)

// Load implements the types.Stater interface.
func (r *RAM) Load(s *types.State) {
	s.ReadData(r.data)
}

// Save implements the types.Stater interface.
func (r *RAM) Save(s *types.State) {
	s.WriteData(r.data)
}
