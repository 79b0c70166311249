package gameboy

import (
	"io"

	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// Debug logs every instruction executed by the CPU.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.config.debug = true
	}
}

// WithLogger sets the logger used by every component.
func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithBootROM sets the boot ROM for the emulator. The emulator will
// start at 0x0000 with every register cleared, and leave the boot
// ROM once it disables itself.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.config.bootROM = rom
	}
}

// WithState restores a save state produced by SaveState.
func WithState(b []byte) Opt {
	return func(gb *GameBoy) {
		gb.config.state = b
	}
}

// WithSerialOutput writes every byte sent over the serial port to w.
func WithSerialOutput(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.config.serial = w
	}
}

// WithFrameHandler calls fn on the emulation goroutine with every
// completed frame.
func WithFrameHandler(fn func(frame *ppu.Frame)) Opt {
	return func(gb *GameBoy) {
		gb.frameHandler = fn
	}
}

// WithPalette sets the colours the four shades are drawn with.
func WithPalette(p palette.Palette) Opt {
	return func(gb *GameBoy) {
		gb.config.palette = &p
	}
}
