package serial

import "io"

// Device is a device that can be attached to the Controller.
// Bits are exchanged most significant first, one per serial
// clock.
type Device interface {
	Receive(bool)
	Send() bool
}

// nullDevice is an implementation of Device that
// simply returns true on Send and does nothing on
// Receive. This is most commonly used for when no
// device is attached to the Controller.
type nullDevice struct{}

// Receive does nothing.
func (n nullDevice) Receive(bool) {}

// Send always returns true.
func (n nullDevice) Send() bool { return true }

// Writer is a Device that assembles the bits it receives into
// bytes and writes every completed byte to an io.Writer. On the
// line it behaves like an unplugged port, sending back 1s. Test
// ROMs commonly report their results this way.
type Writer struct {
	w     io.Writer
	value uint8
	count uint8
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Receive shifts in a bit, writing out the byte once 8 bits
// have arrived. Write errors are dropped, as the port has
// nowhere to report them.
func (d *Writer) Receive(bit bool) {
	d.value <<= 1
	if bit {
		d.value |= 1
	}
	if d.count++; d.count == 8 {
		_, _ = d.w.Write([]byte{d.value})
		d.value, d.count = 0, 0
	}
}

// Send always returns true.
func (d *Writer) Send() bool { return true }
