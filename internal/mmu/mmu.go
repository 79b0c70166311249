// Package mmu provides a memory management unit for the Game Boy. The
// MMU routes every address of the 16-bit address space to the component
// backing it, and drives the components that follow bus time.
package mmu

import (
	"github.com/thelolagemann/coreboy/internal/boot"
	"github.com/thelolagemann/coreboy/internal/cartridge"
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/ram"
	"github.com/thelolagemann/coreboy/internal/serial"
	"github.com/thelolagemann/coreboy/internal/timer"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// Video is the interface the MMU uses to reach the video
// controller. It enforces its own access restrictions for video
// RAM and OAM.
type Video interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	WriteOAM(index uint8, value uint8)
	Advance(cycles int)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory, and
// delegates to the other components.
type MMU struct {
	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM *boot.ROM

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	// 0xFF40 - 0xFF4B - LCD registers
	Video Video

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *ram.RAM

	// 0xFF00 - 0xFF7F - I/O Registers
	// (0xFFFF) - interrupt enable register
	registers [ioRegisters]types.Register
	boot      *types.Cell

	// 0xFF80 - 0xFFFF - Zero Page RAM (128B)
	zRAM *ram.RAM

	Joypad *joypad.State
	Timer  *timer.Controller
	Serial *serial.Controller
	irq    *interrupts.Service
	dma    *DMA

	log log.Logger
}

// NewMMU returns a new MMU, reset to its power on state.
func NewMMU(cart cartridge.Cartridge, video Video, irq *interrupts.Service, pad *joypad.State, timerCtl *timer.Controller, serialCtl *serial.Controller, l log.Logger) *MMU {
	m := &MMU{
		Cart:   cart,
		Video:  video,
		wRAM:   ram.NewRAM(0x2000), // 8 KiB
		zRAM:   ram.NewRAM(0x80),   // 128 bytes
		Joypad: pad,
		Timer:  timerCtl,
		Serial: serialCtl,
		irq:    irq,
		dma:    &DMA{},
		log:    l,
	}
	m.Reset()
	return m
}

// SetBootROM maps a boot ROM over the start of the address space,
// and resets the MMU so that the overlay is enabled. A nil boot ROM
// removes the overlay.
func (m *MMU) SetBootROM(rom *boot.ROM) {
	m.bootROM = rom
	m.Reset()
}

// Reset returns the MMU and the components it owns to their power
// on state. Work RAM and zero page RAM are randomized, as on real
// hardware. Without a boot ROM the overlay starts disabled.
func (m *MMU) Reset() {
	m.wRAM.Randomize()
	m.zRAM.Randomize()

	m.irq.Flag.Set(0)
	m.irq.Enable.Set(0)
	m.Joypad.Set(0xFF)
	m.Timer.Reset()
	m.Serial.Reset()
	*m.dma = DMA{}

	m.initRegisters()
	m.log.Infof("mmu: reset (boot overlay %v)", m.BootEnabled())
}

// BootEnabled reports whether the boot ROM is mapped over the
// cartridge.
func (m *MMU) BootEnabled() bool {
	return m.bootROM != nil && !m.boot.Bit(0)
}

// Read returns the value at the given address. It handles all the memory
// banks, mirroring, I/O, etc.
func (m *MMU) Read(address uint16) uint8 {
	if address >= 0xFE00 && address < 0xFEA0 && m.dma.IsTransferring() {
		return 0xFF
	}
	return m.read(address)
}

func (m *MMU) read(address uint16) uint8 {
	switch {
	case address < 0x0100 && m.BootEnabled():
		return m.bootROM.Read(address)
	case address < 0x8000:
		return m.Cart.Read(address)
	case address < 0xA000:
		return m.Video.Read(address)
	case address < 0xC000:
		return m.Cart.Read(address)
	case address < 0xFE00:
		return m.wRAM.Read(address & 0x1FFF)
	case address < 0xFEA0:
		return m.Video.Read(address)
	case address < 0xFF00:
		m.log.Warnf("unusable read at %04X", address)
		return 0xFF
	case address < 0xFF80:
		return m.readIO(address)
	case address == types.IE:
		return m.irq.Enable.Value()
	default:
		return m.zRAM.Read(address - 0xFF80)
	}
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		m.Cart.Write(address, value)
	case address < 0xA000:
		m.Video.Write(address, value)
	case address < 0xC000:
		m.Cart.Write(address, value)
	case address < 0xFE00:
		m.wRAM.Write(address&0x1FFF, value)
	case address < 0xFEA0:
		if m.dma.IsTransferring() {
			return
		}
		m.Video.Write(address, value)
	case address < 0xFF00:
		m.log.Warnf("unusable write at %04X", address)
	case address < 0xFF80:
		m.writeIO(address, value)
	default:
		if address == types.IE {
			m.irq.Enable.Set(value)
		}
		m.zRAM.Write(address-0xFF80, value)
	}
}

// Advance moves bus time forward, running the timer, the serial
// port, OAM DMA and the video controller for the given number of
// cycles.
func (m *MMU) Advance(cycles int) {
	m.Timer.Advance(cycles)
	m.Serial.Advance(cycles)
	m.tickDMA(cycles)
	m.Video.Advance(cycles)
}

// SetInput hands a new button snapshot to the joypad, requesting the
// joypad interrupt if any selected line went low.
func (m *MMU) SetInput(in joypad.Input) {
	if m.Joypad.Update(in) {
		m.irq.Request(interrupts.JoypadFlag)
	}
}

var _ types.Stater = (*MMU)(nil)

// Load loads the state of the MMU and the joypad and interrupt
// registers it holds. The timer and serial port are loaded by their
// owner.
func (m *MMU) Load(s *types.State) {
	m.boot.Load(s)
	m.irq.Load(s)
	m.Joypad.Load(s)

	m.dma.enabled = s.ReadBool()
	m.dma.timer = s.Read32()
	m.dma.source = s.Read16()
	m.dma.index = s.Read8()

	m.wRAM.Load(s)
	m.zRAM.Load(s)
}

// Save saves the state of the MMU.
func (m *MMU) Save(s *types.State) {
	m.boot.Save(s)
	m.irq.Save(s)
	m.Joypad.Save(s)

	s.WriteBool(m.dma.enabled)
	s.Write32(m.dma.timer)
	s.Write16(m.dma.source)
	s.Write8(m.dma.index)

	m.wRAM.Save(s)
	m.zRAM.Save(s)
}
