// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TAC register.
package timer

import (
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/types"
)

// bits selects the system counter bit watched for each TAC
// clock select value.
//
//	00 = 4096   Hz (bit 9)
//	01 = 262144 Hz (bit 3)
//	10 = 65536  Hz (bit 5)
//	11 = 16384  Hz (bit 7)
var bits = [4]uint16{512, 8, 32, 128}

// reloadDelay is the number of cycles TIMA reads 0 after an
// overflow, before it is reloaded from TMA.
const reloadDelay = 4

// Controller is a timer controller. It is used to generate
// interrupts at a specific frequency. The frequency can be
// configured using the types.TAC register.
//
// The controller is driven by bus time through Advance. DIV is
// the upper byte of a 16-bit system counter, and TIMA counts the
// falling edges of the selected counter bit, ANDed with the
// timer enable bit.
type Controller struct {
	counter uint16

	tima *types.Cell
	tma  *types.Cell
	tac  *types.Cell

	lastBit   bool
	reloading uint8 // cycles until TIMA is reloaded, 0 if idle

	irq *interrupts.Service
}

// NewController returns a new timer controller.
func NewController(irq *interrupts.Service) *Controller {
	c := &Controller{
		irq:  irq,
		tima: types.NewCell(0),
		tma:  types.NewCell(0),
		tac:  types.NewCell(0),
	}
	c.tac.LockRange(3, 5, true)
	return c
}

// Reset returns the controller to its power on state.
func (c *Controller) Reset() {
	c.counter = 0
	c.tima.Set(0)
	c.tma.Set(0)
	c.tac.Set(0)
	c.lastBit = false
	c.reloading = 0
}

// Register returns the bus register for one of DIV, TIMA, TMA
// or TAC, or nil for any other address.
func (c *Controller) Register(address types.HardwareAddress) types.Register {
	switch address {
	case types.DIV:
		return divider{c}
	case types.TIMA:
		return counter{c}
	case types.TMA:
		return modulo{c}
	case types.TAC:
		return control{c}
	}
	return nil
}

// Counter returns the 16-bit system counter.
func (c *Controller) Counter() uint16 {
	return c.counter
}

// Advance runs the timer for the given number of cycles.
func (c *Controller) Advance(cycles int) {
	for i := 0; i < cycles; i++ {
		if c.reloading > 0 {
			c.reloading--
			if c.reloading == 0 {
				c.tima.Set(c.tma.Value())
				c.irq.Request(interrupts.TimerFlag)
			}
		}

		c.counter++
		c.detectEdge()
	}
}

// signal is the current input to the TIMA edge detector.
func (c *Controller) signal() bool {
	return c.tac.Bit(2) && c.counter&bits[c.tac.Value()&0b11] != 0
}

// detectEdge increments TIMA when the edge detector input has
// fallen since the last check. Writes to DIV and TAC go through
// here too, which reproduces the extra increment hardware shows
// when either write pulls the selected bit low.
func (c *Controller) detectEdge() {
	bit := c.signal()
	if c.lastBit && !bit {
		c.increment()
	}
	c.lastBit = bit
}

func (c *Controller) increment() {
	v := c.tima.Value() + 1
	c.tima.Set(v)
	if v == 0 {
		c.reloading = reloadDelay
	}
}

// divider reads as the upper byte of the system counter, and any
// write clears the counter.
type divider struct{ c *Controller }

func (d divider) Value() uint8 { return uint8(d.c.counter >> 8) }

func (d divider) Set(uint8) {
	d.c.counter = 0
	d.c.detectEdge()
}

// counter is TIMA. A write during the reload delay cancels the
// pending reload and interrupt.
type counter struct{ c *Controller }

func (t counter) Value() uint8 { return t.c.tima.Value() }

func (t counter) Set(v uint8) {
	t.c.reloading = 0
	t.c.tima.Set(v)
}

type modulo struct{ c *Controller }

func (m modulo) Value() uint8 { return m.c.tma.Value() }

func (m modulo) Set(v uint8) { m.c.tma.Set(v) }

type control struct{ c *Controller }

func (t control) Value() uint8 { return t.c.tac.Value() }

func (t control) Set(v uint8) {
	t.c.tac.Set(v)
	t.c.detectEdge()
}

var _ types.Stater = (*Controller)(nil)

// Load loads the state of the controller.
func (c *Controller) Load(s *types.State) {
	c.counter = s.Read16()
	c.tima.Load(s)
	c.tma.Load(s)
	c.tac.Load(s)
	c.lastBit = s.ReadBool()
	c.reloading = s.Read8()
}

// Save saves the state of the controller.
func (c *Controller) Save(s *types.State) {
	s.Write16(c.counter)
	c.tima.Save(s)
	c.tma.Save(s)
	c.tac.Save(s)
	s.WriteBool(c.lastBit)
	s.Write8(c.reloading)
}
