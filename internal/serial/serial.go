// Package serial provides the Game Boy serial port.
package serial

import (
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/types"
)

const (
	// CyclesPerBit is the number of cycles taken to shift
	// one bit with the internal clock (8192 Hz).
	CyclesPerBit = 512
)

// Controller is the serial controller. It is responsible for sending and
// receiving data to and from devices.
// Before a transfer, data holds the next byte to be sent. AKA types.SB
// During a transfer, it has a mix of the incoming data and the outgoing data.
// each cycle, the leftmost bit of data is sent to the attached device, and
// shifted out of data, and the incoming bit is shifted into data.
//
// example:
//
//	Before : data = o7 o6 o5 o4 o3 o2 o1 o0
//	Cycle 1: data = o6 o5 o4 o3 o2 o1 o0 i0
//	Cycle 2: data = o5 o4 o3 o2 o1 o0 i0 i1
//	...
//	Cycle 8: data = i0 i1 i2 i3 i4 i5 i6 i7
//
// Where o0-o7 are the outgoing bits, and i0-i7 are the incoming bits.
// Only the internal clock is driven; with the external clock selected
// a transfer waits forever, as there is no link partner.
type Controller struct {
	data    *types.Cell // SB
	control *types.Cell // SC

	count   uint8 // the number of bits that have been transferred.
	elapsed int   // cycles since the last bit

	AttachedDevice Device // the device that is attached to this controller.

	irq *interrupts.Service
}

// NewController creates a new Controller. By default, the Controller is
// attached to a nullDevice, which acts as if there is no device attached.
// If you want to attach a device, use the Controller.Attach method.
func NewController(irq *interrupts.Service) *Controller {
	c := &Controller{
		data:           types.NewCell(0),
		control:        types.NewCell(0),
		AttachedDevice: nullDevice{},
		irq:            irq,
	}
	c.control.LockRange(1, 6, true) // bits 1-6 are unused
	return c
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	if d == nil {
		d = nullDevice{}
	}
	c.AttachedDevice = d
}

// Reset clears both registers and abandons any transfer.
func (c *Controller) Reset() {
	c.data.Set(0)
	c.control.Set(0)
	c.count, c.elapsed = 0, 0
}

// Register returns the bus register for SB or SC, or nil for any
// other address.
func (c *Controller) Register(address types.HardwareAddress) types.Register {
	switch address {
	case types.SB:
		return c.data
	case types.SC:
		return transferControl{c}
	}
	return nil
}

// Transferring reports whether an internally clocked transfer
// is in progress.
func (c *Controller) Transferring() bool {
	return c.control.Bit(7) && c.control.Bit(0)
}

// Advance runs the serial clock for the given number of cycles.
func (c *Controller) Advance(cycles int) {
	if !c.Transferring() {
		return
	}
	for c.elapsed += cycles; c.elapsed >= CyclesPerBit && c.Transferring(); c.elapsed -= CyclesPerBit {
		c.shift()
	}
}

func (c *Controller) shift() {
	out := c.data.Bit(7)
	in := c.AttachedDevice.Send()
	c.AttachedDevice.Receive(out)

	v := c.data.Value() << 1
	if in {
		v |= 1
	}
	c.data.Set(v)

	if c.count++; c.count == 8 {
		c.count = 0
		c.control.SetBit(7, false)
		c.irq.Request(interrupts.SerialFlag)
	}
}

// transferControl is SC. Setting bit 7 starts a transfer from
// the first bit.
type transferControl struct{ c *Controller }

func (t transferControl) Value() uint8 { return t.c.control.Value() }

func (t transferControl) Set(v uint8) {
	t.c.control.Set(v)
	if v&types.Bit7 != 0 {
		t.c.count, t.c.elapsed = 0, 0
	}
}

var _ types.Stater = (*Controller)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - data (cell)
//   - control (cell)
//   - count (uint8)
//   - elapsed (uint32)
func (c *Controller) Load(s *types.State) {
	c.data.Load(s)
	c.control.Load(s)
	c.count = s.Read8()
	c.elapsed = int(s.Read32())
}

// Save implements the types.Stater interface.
func (c *Controller) Save(s *types.State) {
	c.data.Save(s)
	c.control.Save(s)
	s.Write8(c.count)
	s.Write32(uint32(c.elapsed))
}
