package types

import (
	"errors"
)

// ErrStateTruncated is returned when a State is read past its end.
var ErrStateTruncated = errors.New("state: truncated")

// Resettable is an interface that allows an object to be reset.
type Resettable interface {
	Reset() // Reset the state of the object
}

// State represents the Game Boy state. This is used to
// save and load states between runs.
//
// Values are written little endian, in the order they are
// saved, and must be loaded in the same order. Reading past
// the end of the state yields zero values and records
// ErrStateTruncated, which is reported by Err.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position
	err          error
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new state.
func NewState() *State {
	return &State{
		raw: make([]byte, 0),
	}
}

// StateFromBytes creates a new state from the given bytes.
func StateFromBytes(raw []byte) *State {
	return &State{
		raw: raw,
	}
}

// ResetPosition resets the read position, allowing the state
// to be read from the beginning.
func (s *State) ResetPosition() {
	s.readPosition = 0
	s.err = nil
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) Write32(value uint32) {
	s.raw = append(s.raw, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}

func (s *State) Write64(value uint64) {
	s.Write32(uint32(value))
	s.Write32(uint32(value >> 32))
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

// next returns the next n bytes of the state, or nil if fewer
// than n bytes remain.
func (s *State) next(n int) []byte {
	if s.readPosition+n > len(s.raw) {
		s.err = ErrStateTruncated
		s.readPosition = len(s.raw)
		return nil
	}
	b := s.raw[s.readPosition : s.readPosition+n]
	s.readPosition += n
	return b
}

func (s *State) Read8() uint8 {
	b := s.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (s *State) Read16() uint16 {
	b := s.next(2)
	if b == nil {
		return 0
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (s *State) Read32() uint32 {
	b := s.next(4)
	if b == nil {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (s *State) Read64() uint64 {
	return uint64(s.Read32()) | uint64(s.Read32())<<32
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

// ReadData fills p with the next len(p) bytes of the state.
func (s *State) ReadData(p []byte) {
	b := s.next(len(p))
	if b == nil {
		return
	}
	copy(p, b)
}

// Err returns ErrStateTruncated if any read ran past the end
// of the state.
func (s *State) Err() error {
	return s.err
}

// Bytes returns the raw state data.
func (s *State) Bytes() []byte {
	return s.raw
}
