package types

// Word is a 16-bit register that can be addressed as a whole,
// or as two independent 8-bit halves. It is used for all six
// of the CPU's register pairs (AF, BC, DE, HL, SP and PC).
type Word struct {
	High uint8
	Low  uint8
}

// Uint16 returns the value of the Word as an uint16.
func (w *Word) Uint16() uint16 {
	return uint16(w.High)<<8 | uint16(w.Low)
}

// SetUint16 sets the value of the Word to the given value.
func (w *Word) SetUint16(value uint16) {
	w.High = uint8(value >> 8)
	w.Low = uint8(value)
}

// Inc increments the Word by 1, wrapping on overflow.
func (w *Word) Inc() {
	w.SetUint16(w.Uint16() + 1)
}

// Dec decrements the Word by 1, wrapping on underflow.
func (w *Word) Dec() {
	w.SetUint16(w.Uint16() - 1)
}

// Load implements the Stater interface.
func (w *Word) Load(s *State) {
	w.SetUint16(s.Read16())
}

// Save implements the Stater interface.
func (w *Word) Save(s *State) {
	s.Write16(w.Uint16())
}
