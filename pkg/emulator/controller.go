package emulator

import (
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/ppu"
)

// Controller defines the interface contract for an Emulator to
// implement in order for a frontend to be able to control it.
type Controller interface {
	Pause()
	Resume()
	Paused() bool
	Status() Status

	Press(joypad.Button)
	Release(joypad.Button)

	// Frames delivers the latest frame. Frames the reader has not
	// picked up in time are dropped.
	Frames() <-chan *ppu.Frame
}

var _ Controller = (*Emulator)(nil)
