// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"github.com/thelolagemann/coreboy/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

// Input is a snapshot of the eight buttons, true meaning pressed.
// It is a plain value, and is copied whenever it crosses from a
// frontend to the emulator.
type Input struct {
	Up, Down, Left, Right bool
	A, B, Start, Select   bool
}

// Press returns a copy of the snapshot with b pressed.
func (in Input) Press(b Button) Input {
	in.set(b, true)
	return in
}

// Release returns a copy of the snapshot with b released.
func (in Input) Release(b Button) Input {
	in.set(b, false)
	return in
}

func (in *Input) set(b Button, v bool) {
	switch b {
	case ButtonA:
		in.A = v
	case ButtonB:
		in.B = v
	case ButtonSelect:
		in.Select = v
	case ButtonStart:
		in.Start = v
	case ButtonRight:
		in.Right = v
	case ButtonLeft:
		in.Left = v
	case ButtonUp:
		in.Up = v
	case ButtonDown:
		in.Down = v
	}
}

// State represents the P1 register. Select either action or
// direction buttons by writing to the register, and then read
// out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
//
// When both groups are selected, a line reads low if either of
// its buttons is pressed.
type State struct {
	selection uint8 // bits 4-5 as last written
	input     Input
}

// New returns a new joypad state with neither group selected.
func New() *State {
	return &State{selection: types.Bit4 | types.Bit5}
}

// Value returns the value of the P1 register.
func (s *State) Value() uint8 {
	directions := s.selection&types.Bit4 == 0
	actions := s.selection&types.Bit5 == 0

	lines := uint8(0)
	if directions && s.input.Right || actions && s.input.A {
		lines |= types.Bit0
	}
	if directions && s.input.Left || actions && s.input.B {
		lines |= types.Bit1
	}
	if directions && s.input.Up || actions && s.input.Select {
		lines |= types.Bit2
	}
	if directions && s.input.Down || actions && s.input.Start {
		lines |= types.Bit3
	}

	return 0xC0 | s.selection | 0x0F&^lines
}

// Set selects the button groups from bits 4-5 of v. The other
// bits are read only.
func (s *State) Set(v uint8) {
	s.selection = v & (types.Bit4 | types.Bit5)
}

// Update replaces the button snapshot, and reports whether any of
// the input lines 0-3 went from high to low as a result.
func (s *State) Update(in Input) bool {
	before := s.Value()
	s.input = in
	after := s.Value()
	return before&^after&0x0F != 0
}

// Input returns the current button snapshot.
func (s *State) Input() Input {
	return s.input
}

var _ types.Stater = (*State)(nil)

// Load loads the group selection. The button snapshot is not part
// of the state, as the frontend supplies it.
func (s *State) Load(st *types.State) {
	s.selection = st.Read8() & (types.Bit4 | types.Bit5)
}

// Save saves the group selection.
func (s *State) Save(st *types.State) {
	st.Write8(s.selection)
}
