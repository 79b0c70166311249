// Package interrupts provides the interrupt request and enable
// registers of the Game Boy. Peripherals request interrupts by
// setting bits in the Flag register; the CPU polls the Service
// between instructions to decide what to service.
package interrupts

import (
	"github.com/thelolagemann/coreboy/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the PPU enters
	// VBlank mode.
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when the timer overflows.
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when any of types.P1 bits 0-3
	// go from high to low.
	JoypadFlag = types.Bit4
)

// Vector addresses, in priority order.
const (
	VBlankVector uint16 = 0x0040
	LCDVector    uint16 = 0x0048
	TimerVector  uint16 = 0x0050
	SerialVector uint16 = 0x0058
	JoypadVector uint16 = 0x0060
)

// Service holds the interrupt Flag (types.IF) and Enable
// (types.IE) registers. The unused upper 3 bits of Flag are
// locked high, Enable is a full 8-bit register.
//
// Requests latch: a bit set in Flag stays set until it is
// serviced or cleared by software, regardless of IME.
type Service struct {
	Flag   *types.Cell // interrupt Flag (types.IF)
	Enable *types.Cell // interrupt Enable (types.IE)
}

// NewService returns a new Service with both registers cleared.
func NewService() *Service {
	s := &Service{
		Flag:   types.NewCell(0),
		Enable: types.NewCell(0),
	}
	s.Flag.LockRange(5, 3, true)
	return s
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag.Set(s.Flag.Value() | flag)
}

// Requested reports whether the given interrupt is requested.
func (s *Service) Requested(flag uint8) bool {
	return s.Flag.Value()&flag != 0
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) HasInterrupts() bool {
	return s.Flag.Value()&s.Enable.Value()&0x1F != 0
}

// Next returns the highest priority interrupt that is both
// requested and enabled, clearing its request bit. ok is false
// if there is none.
func (s *Service) Next() (vector uint16, ok bool) {
	pending := s.Flag.Value() & s.Enable.Value()
	for i := uint8(0); i < 5; i++ {
		flag := uint8(1 << i)
		if pending&flag != 0 {
			s.Flag.Set(s.Flag.Value() &^ flag)
			return VBlankVector + uint16(i)*8, true
		}
	}
	return 0, false
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (cell)
//   - Enable (cell)
func (s *Service) Load(st *types.State) {
	s.Flag.Load(st)
	s.Enable.Load(st)
}

// Save implements the types.Stater interface.
func (s *Service) Save(st *types.State) {
	s.Flag.Save(st)
	s.Enable.Save(st)
}
