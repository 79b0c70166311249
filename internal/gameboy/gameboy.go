// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// A GameBoy wires the CPU, the MMU and the PPU together and runs
// them on the calling goroutine. The only values that may cross
// goroutines are the input snapshot handed to SetInput, the frame
// returned by LatestFrame and the stop flag set by PowerOff.
package gameboy

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/thelolagemann/coreboy/internal/boot"
	"github.com/thelolagemann/coreboy/internal/cartridge"
	"github.com/thelolagemann/coreboy/internal/cpu"
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/mmu"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
	"github.com/thelolagemann/coreboy/internal/serial"
	"github.com/thelolagemann/coreboy/internal/timer"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = ppu.CyclesPerFrame // 70224
)

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU *cpu.CPU
	MMU *mmu.MMU
	PPU *ppu.PPU

	Cartridge  cartridge.Cartridge
	Interrupts *interrupts.Service
	Joypad     *joypad.State
	Timer      *timer.Controller
	Serial     *serial.Controller

	log.Logger

	bootROM      *boot.ROM
	frameHandler func(frame *ppu.Frame)

	latest atomic.Pointer[ppu.Frame]
	input  atomic.Pointer[joypad.Input]
	stop   atomic.Bool

	config config
}

// config holds the settings collected from the options, applied
// once every component exists.
type config struct {
	bootROM []byte
	state   []byte
	serial  io.Writer
	palette *palette.Palette
	debug   bool
}

// NewGameBoy returns a new GameBoy running the given ROM. Without a
// boot ROM the GameBoy starts at the cartridge entry point, with
// the registers left as the boot ROM would leave them.
func NewGameBoy(rom []byte, opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		Logger:     log.NewNullLogger(),
		Interrupts: interrupts.NewService(),
		Joypad:     joypad.New(),
	}
	for _, opt := range opts {
		opt(g)
	}

	cart, err := cartridge.New(rom, g.Logger)
	if err != nil {
		return nil, err
	}
	g.Cartridge = cart
	g.Timer = timer.NewController(g.Interrupts)
	g.Serial = serial.NewController(g.Interrupts)
	g.PPU = ppu.New(g.Interrupts, g.Logger)
	g.MMU = mmu.NewMMU(cart, g.PPU, g.Interrupts, g.Joypad, g.Timer, g.Serial, g.Logger)
	g.CPU = cpu.NewCPU(g.MMU, g.Interrupts, g.Logger)

	if err := g.configure(); err != nil {
		return nil, err
	}

	g.Infof("gameboy: loaded %s (%s)", cart.Header().Title, cart.Kind())
	return g, nil
}

func (g *GameBoy) configure() error {
	c := g.config
	if c.bootROM != nil {
		rom, err := boot.LoadBootROM(c.bootROM)
		if err != nil {
			return err
		}
		g.bootROM = rom
		g.MMU.SetBootROM(rom)
		g.CPU.Reset()
		g.Infof("gameboy: using %s boot ROM", rom.Model())
	} else {
		g.skipBoot()
	}

	if c.serial != nil {
		g.Serial.Attach(serial.NewWriter(c.serial))
	}
	if c.palette != nil {
		g.PPU.Palette = *c.palette
	}
	g.CPU.Debug = c.debug

	if c.state != nil {
		if err := g.LoadState(c.state); err != nil {
			return err
		}
	}
	return nil
}

// skipBoot puts the system in the state left by the boot ROM.
func (g *GameBoy) skipBoot() {
	g.CPU.SkipBoot()
	g.MMU.Write(types.LCDC, 0x91)
	g.MMU.Write(types.BGP, 0xFC)
}

// Reset returns every component to its power on state, and clears
// a previous PowerOff. With a boot ROM the CPU starts executing it
// from 0x0000.
func (g *GameBoy) Reset() {
	g.stop.Store(false)
	g.PPU.Reset()
	g.MMU.Reset()
	if g.bootROM != nil {
		g.CPU.Reset()
	} else {
		g.skipBoot()
	}
	g.latest.Store(nil)
}

// Step executes a single CPU step and returns the number of clock
// cycles it took. A pending input snapshot is applied first, and a
// frame completed during the step is handed off.
func (g *GameBoy) Step() (uint8, error) {
	if in := g.input.Swap(nil); in != nil {
		g.MMU.SetInput(*in)
	}

	cycles, err := g.CPU.Step()

	if g.PPU.HasFrame() {
		g.PPU.ClearFrame()
		frame := g.PPU.Frame()
		g.latest.Store(&frame)
		if g.frameHandler != nil {
			g.frameHandler(&frame)
		}
	}

	return cycles, err
}

// Frame steps the emulation until the PPU has finished the current
// frame, and returns it. With the LCD off no frame is produced, so
// Frame gives up after CyclesPerFrame cycles and returns the last
// picture shown. Frame returns early when the GameBoy is powered
// off.
func (g *GameBoy) Frame() (ppu.Frame, error) {
	frames := g.PPU.Frames()
	for cycles := 0; cycles < CyclesPerFrame; {
		if g.stop.Load() {
			break
		}
		n, err := g.Step()
		if err != nil {
			return g.PPU.Frame(), err
		}
		cycles += int(n)
		if g.PPU.Frames() != frames {
			break
		}
	}
	return g.PPU.Frame(), nil
}

// Run runs the emulation until PowerOff is called, the context is
// cancelled, or the CPU fails. It returns nil after PowerOff, the
// context error after cancellation, and the CPU error otherwise.
func (g *GameBoy) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if g.stop.Load() {
			g.Infof("gameboy: powered off after %d frames", g.PPU.Frames())
			return nil
		}
		if _, err := g.Frame(); err != nil {
			g.Errorf("gameboy: %v", err)
			return err
		}
	}
}

// PowerOff asks a running GameBoy to stop. The flag is polled
// between CPU steps, and stays set until Reset. It is safe to call
// from any goroutine.
func (g *GameBoy) PowerOff() {
	g.stop.Store(true)
}

// SetInput hands over a new button snapshot, applied before the
// next CPU step. It is safe to call from any goroutine; a snapshot
// that has not been applied yet is replaced.
func (g *GameBoy) SetInput(in joypad.Input) {
	g.input.Store(&in)
}

// LatestFrame returns a copy of the most recently completed frame.
// ok is false if no frame has completed yet. It is safe to call
// from any goroutine.
func (g *GameBoy) LatestFrame() (frame ppu.Frame, ok bool) {
	if f := g.latest.Load(); f != nil {
		return *f, true
	}
	return frame, false
}
