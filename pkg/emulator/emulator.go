// Package emulator runs a GameBoy on its own goroutine, and lets
// frontends drive it through command packets.
//
// The GameBoy itself is only ever touched by the emulation
// goroutine. Frontends talk to it through Send, which hands over a
// CommandPacket and waits for the matching ResponsePacket, and
// through the input and frame methods of the Controller interface.
package emulator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thelolagemann/coreboy/internal/gameboy"
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// ErrClosed is returned for commands sent after the emulator has
// shut down.
var ErrClosed = errors.New("emulator: closed")

// FrameTime is the time the real hardware takes to draw a frame.
const FrameTime = time.Second * gameboy.CyclesPerFrame / gameboy.ClockSpeed

// Emulator runs a GameBoy.
type Emulator struct {
	gb  *gameboy.GameBoy
	log log.Logger

	commands chan CommandPacket
	frames   chan *ppu.Frame
	done     chan struct{}
	status   atomic.Int32

	mu    sync.Mutex
	input joypad.Input

	speed uint8
	err   error
}

// Opt configures an Emulator.
type Opt func(e *Emulator)

// WithLogger sets the logger used by the emulator.
func WithLogger(l log.Logger) Opt {
	return func(e *Emulator) {
		e.log = l
	}
}

// WithSpeed sets the initial speed, as a multiple of the real
// hardware. 0 runs unpaced.
func WithSpeed(speed uint8) Opt {
	return func(e *Emulator) {
		e.speed = speed
	}
}

// StartPaused starts the emulator in the Paused state.
func StartPaused() Opt {
	return func(e *Emulator) {
		e.setStatus(Paused)
	}
}

// New returns an Emulator for gb. The emulation does not begin
// until Start is called.
func New(gb *gameboy.GameBoy, opts ...Opt) *Emulator {
	e := &Emulator{
		gb:       gb,
		log:      gb.Logger,
		commands: make(chan CommandPacket),
		frames:   make(chan *ppu.Frame, 1),
		done:     make(chan struct{}),
		speed:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start starts the emulation goroutine. It stops when ctx is
// cancelled or a CommandClose is received.
func (e *Emulator) Start(ctx context.Context) {
	go e.run(ctx)
}

// Wait blocks until the emulator has closed, and returns the last
// error the CPU encountered, if any.
func (e *Emulator) Wait() error {
	<-e.done
	return e.err
}

// Done is closed once the emulator has shut down.
func (e *Emulator) Done() <-chan struct{} {
	return e.done
}

// Send hands cmd over to the emulation goroutine, and waits for
// its response.
func (e *Emulator) Send(cmd Command, data []byte) ResponsePacket {
	p := CommandPacket{Command: cmd, Data: data, reply: make(chan ResponsePacket, 1)}
	select {
	case e.commands <- p:
	case <-e.done:
		return ResponsePacket{Command: cmd, Error: ErrClosed}
	}
	return <-p.reply
}

// Pause pauses the emulation.
func (e *Emulator) Pause() {
	e.Send(CommandPause, nil)
}

// Resume resumes a paused emulation.
func (e *Emulator) Resume() {
	e.Send(CommandResume, nil)
}

// Paused reports whether the emulation is paused.
func (e *Emulator) Paused() bool {
	return e.Status().IsPaused()
}

// Status returns the current status of the emulator.
func (e *Emulator) Status() Status {
	return Status(e.status.Load())
}

func (e *Emulator) setStatus(s Status) {
	e.status.Store(int32(s))
}

// Press presses b.
func (e *Emulator) Press(b joypad.Button) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = e.input.Press(b)
	e.gb.SetInput(e.input)
}

// Release releases b.
func (e *Emulator) Release(b joypad.Button) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = e.input.Release(b)
	e.gb.SetInput(e.input)
}

// SetInput replaces the whole button snapshot.
func (e *Emulator) SetInput(in joypad.Input) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = in
	e.gb.SetInput(in)
}

// Input returns the current button snapshot.
func (e *Emulator) Input() joypad.Input {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

// Frames returns the channel the latest frame is delivered on.
func (e *Emulator) Frames() <-chan *ppu.Frame {
	return e.frames
}

// Title returns the title of the cartridge being emulated.
func (e *Emulator) Title() string {
	return e.gb.Cartridge.Header().Title
}

func (e *Emulator) run(ctx context.Context) {
	defer close(e.done)
	defer e.setStatus(Closed)
	defer e.gb.PowerOff()

	next := time.Now()
	for {
		if !e.Status().IsRunning() {
			select {
			case <-ctx.Done():
				return
			case p := <-e.commands:
				if e.handle(p) {
					return
				}
				next = time.Now()
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case p := <-e.commands:
			if e.handle(p) {
				return
			}
			continue
		default:
		}

		e.frame()
		next = e.pace(next)
	}
}

// frame runs a single frame and publishes it.
func (e *Emulator) frame() {
	frame, err := e.gb.Frame()
	if err != nil {
		e.err = err
		e.setStatus(Errored)
		e.log.Errorf("emulator: %v", err)
		return
	}

	// the channel holds a single frame, replace a stale one
	select {
	case <-e.frames:
	default:
	}
	e.frames <- &frame
}

// pace sleeps until the frame started at next should have ended,
// and returns the start of the following frame.
func (e *Emulator) pace(next time.Time) time.Time {
	if e.speed == 0 {
		return next
	}
	next = next.Add(FrameTime / time.Duration(e.speed))
	wait := time.Until(next)
	if wait > 0 {
		time.Sleep(wait)
		return next
	}
	if wait < -FrameTime {
		// too far behind, drop the debt rather than racing
		return time.Now()
	}
	return next
}

// handle executes p and replies to it. It reports whether the
// emulator should shut down.
func (e *Emulator) handle(p CommandPacket) (closing bool) {
	resp := ResponsePacket{Command: p.Command}
	switch p.Command {
	case CommandPause:
		if e.Status().IsRunning() {
			e.setStatus(Paused)
		}
	case CommandResume:
		if e.Status().IsPaused() {
			e.setStatus(Running)
		}
	case CommandReset:
		e.gb.Reset()
		e.err = nil
		e.setStatus(Running)
	case CommandClose:
		closing = true
	case CommandSaveState:
		resp.Data, resp.Error = e.gb.SaveState()
	case CommandLoadState:
		resp.Error = e.gb.LoadState(p.Data)
	case CommandStepFrame:
		if e.Status().IsErrored() {
			resp.Error = e.err
			break
		}
		e.frame()
		resp.Error = e.err
	case CommandSetSpeed:
		if len(p.Data) != 1 {
			resp.Error = errors.New("emulator: speed must be a single byte")
			break
		}
		e.speed = p.Data[0]
	default:
		resp.Error = ErrUnknownCommand
	}

	if resp.Error != nil {
		e.log.Warnf("emulator: %s: %v", p.Command, resp.Error)
	} else {
		e.log.Debugf("emulator: %s", p.Command)
	}
	p.reply <- resp
	return closing
}
