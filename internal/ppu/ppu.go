// Package ppu implements the Game Boy's video controller: the
// scanline timing state machine, the LCD registers, video RAM
// and OAM, and the rasterizer producing the 160x144 frame.
package ppu

import (
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/ppu/lcd"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144

	// Lines is the number of lines per frame, visible and blank.
	Lines = 154
	// CyclesPerFrame is the number of cycles taken by a full frame.
	CyclesPerFrame = Lines * lcd.LineCycles
)

const (
	vramStart = 0x8000
	vramEnd   = 0xA000
	oamStart  = 0xFE00
	oamEnd    = 0xFEA0

	// OAMSize is the size of the object attribute memory.
	OAMSize = oamEnd - oamStart
)

// Frame is a completed picture, stored row major as RGBA with 4
// bytes per pixel.
type Frame [ScreenWidth * ScreenHeight * 4]uint8

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
//
// The PPU is driven entirely by Advance. It walks the four modes
// of every visible line, AccessingOAM (80 cycles), TransferringData
// (172 cycles) and HBlank (204 cycles), then spends 10 lines of
// 456 cycles in VBlank. A scanline is rendered when TransferringData
// ends, and the finished frame is handed off on entry to VBlank.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
type PPU struct {
	lcdc *types.Cell // 0xFF40
	stat *types.Cell // 0xFF41
	scy  *types.Cell // 0xFF42
	scx  *types.Cell // 0xFF43
	ly   *types.Cell // 0xFF44
	lyc  *types.Cell // 0xFF45
	dma  *types.Cell // 0xFF46
	bgp  *types.Cell // 0xFF47
	obp0 *types.Cell // 0xFF48
	obp1 *types.Cell // 0xFF49
	wy   *types.Cell // 0xFF4A
	wx   *types.Cell // 0xFF4B

	vRAM [vramEnd - vramStart]uint8
	oam  [OAMSize]uint8

	clock      uint32 // cycles spent in the current mode
	mode       lcd.Mode
	lycSignal  bool
	windowLine uint8 // window rows drawn this frame

	back     Frame
	front    Frame
	hasFrame bool
	frames   uint64

	// Palette maps shades to the colours written into the frame.
	Palette palette.Palette

	irq *interrupts.Service
	log log.Logger
}

// New returns a new PPU, reset to its power on state.
func New(irq *interrupts.Service, l log.Logger) *PPU {
	p := &PPU{
		lcdc:    types.NewCell(0),
		stat:    types.NewCell(0),
		scy:     types.NewCell(0),
		scx:     types.NewCell(0),
		ly:      types.NewCell(0),
		lyc:     types.NewCell(0),
		dma:     types.NewCell(0),
		bgp:     types.NewCell(0),
		obp0:    types.NewCell(0),
		obp1:    types.NewCell(0),
		wy:      types.NewCell(0),
		wx:      types.NewCell(0),
		Palette: palette.Greyscale,
		irq:     irq,
		log:     l,
	}
	p.Reset()
	return p
}

// Reset returns the PPU to its power on state, with video RAM and
// OAM cleared.
func (p *PPU) Reset() {
	for _, c := range p.registers() {
		c.Set(0)
	}
	p.stat.Lock(7, true)
	p.setModeBits(lcd.HBlank)

	p.vRAM = [vramEnd - vramStart]uint8{}
	p.oam = [OAMSize]uint8{}

	p.clock = 0
	p.windowLine = 0
	p.back = Frame{}
	p.front = Frame{}
	p.hasFrame = false
	p.frames = 0

	p.lycSignal = false
	p.compareLine()
}

func (p *PPU) registers() [12]*types.Cell {
	return [12]*types.Cell{
		p.lcdc, p.stat, p.scy, p.scx, p.ly, p.lyc,
		p.dma, p.bgp, p.obp0, p.obp1, p.wy, p.wx,
	}
}

// Enabled reports whether the LCD is powered on (LCDC bit 7).
func (p *PPU) Enabled() bool {
	return p.lcdc.Bit(7)
}

// Mode returns the current mode.
func (p *PPU) Mode() lcd.Mode {
	return p.mode
}

// Line returns the current line (LY).
func (p *PPU) Line() uint8 {
	return p.ly.Value()
}

// Frames returns the number of frames completed since reset.
func (p *PPU) Frames() uint64 {
	return p.frames
}

// vramBlocked reports whether the CPU is locked out of video RAM.
func (p *PPU) vramBlocked() bool {
	return p.Enabled() && p.mode == lcd.TransferringData
}

// oamBlocked reports whether the CPU is locked out of OAM.
func (p *PPU) oamBlocked() bool {
	return p.Enabled() && p.mode >= lcd.AccessingOAM
}

// Read returns the value at the given address, which must lie in
// video RAM, OAM or the LCD register block.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= vramStart && address < vramEnd:
		if p.vramBlocked() {
			p.log.Warnf("blocked read from VRAM at %04X during %s", address, p.mode)
			return 0xFF
		}
		return p.vRAM[address-vramStart]
	case address >= oamStart && address < oamEnd:
		if p.oamBlocked() {
			p.log.Warnf("blocked read from OAM at %04X during %s", address, p.mode)
			return 0xFF
		}
		return p.oam[address-oamStart]
	case address >= types.LCDC && address <= types.WX:
		return p.registers()[address-types.LCDC].Value()
	}

	p.log.Errorf("ppu: read from unmapped address %04X", address)
	return 0x00
}

// Write writes the value to the given address, which must lie in
// video RAM, OAM or the LCD register block.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= vramStart && address < vramEnd:
		if p.vramBlocked() {
			p.log.Warnf("blocked write to VRAM at %04X during %s", address, p.mode)
			return
		}
		p.vRAM[address-vramStart] = value
	case address >= oamStart && address < oamEnd:
		if p.oamBlocked() {
			p.log.Warnf("blocked write to OAM at %04X during %s", address, p.mode)
			return
		}
		p.oam[address-oamStart] = value
	case address == types.LCDC:
		p.writeControl(value)
	case address == types.LY:
		// read only
	case address == types.LYC:
		p.lyc.Set(value)
		p.compareLine()
	case address >= types.LCDC && address <= types.WX:
		p.registers()[address-types.LCDC].Set(value)
	default:
		p.log.Errorf("ppu: write to unmapped address %04X", address)
	}
}

// WriteOAM writes directly into OAM, bypassing the mode lock. It
// is used by OAM DMA.
func (p *PPU) WriteOAM(index uint8, value uint8) {
	if int(index) < OAMSize {
		p.oam[index] = value
	}
}

// writeControl handles writes to LCDC, powering the LCD on or off.
func (p *PPU) writeControl(value uint8) {
	wasEnabled := p.Enabled()
	p.lcdc.Set(value)

	switch {
	case wasEnabled && !p.Enabled():
		p.ly.Set(0)
		p.clock = 0
		p.setModeBits(lcd.HBlank)
		p.log.Debugf("lcd off")
	case !wasEnabled && p.Enabled():
		p.clock = 0
		p.windowLine = 0
		p.setModeBits(lcd.AccessingOAM)
		p.compareLine()
		p.log.Debugf("lcd on")
	}
}

// Advance runs the PPU for the given number of cycles. Nothing
// happens while the LCD is off.
func (p *PPU) Advance(cycles int) {
	if !p.Enabled() {
		return
	}

	p.clock += uint32(cycles)
	for p.step() {
	}
	p.compareLine()
}

// step performs at most one mode transition, reporting whether
// one took place. Leftover cycles carry into the next mode.
func (p *PPU) step() bool {
	switch p.mode {
	case lcd.AccessingOAM:
		if p.clock < lcd.OAMCycles {
			return false
		}
		p.clock -= lcd.OAMCycles
		p.setMode(lcd.TransferringData)
	case lcd.TransferringData:
		if p.clock < lcd.TransferCycles {
			return false
		}
		p.clock -= lcd.TransferCycles
		p.renderScanline()
		p.setMode(lcd.HBlank)
	case lcd.HBlank:
		if p.clock < lcd.HBlankCycles {
			return false
		}
		p.clock -= lcd.HBlankCycles
		p.ly.Set(p.ly.Value() + 1)
		p.compareLine()
		if p.ly.Value() == ScreenHeight {
			p.setMode(lcd.VBlank)
		} else {
			p.setMode(lcd.AccessingOAM)
		}
	case lcd.VBlank:
		if p.clock < lcd.LineCycles {
			return false
		}
		p.clock -= lcd.LineCycles
		if line := p.ly.Value() + 1; line < Lines {
			p.ly.Set(line)
			p.compareLine()
		} else {
			p.ly.Set(0)
			p.windowLine = 0
			p.compareLine()
			p.setMode(lcd.AccessingOAM)
		}
	}
	return true
}

// setModeBits updates the current mode and its STAT bits, without
// raising any interrupt.
func (p *PPU) setModeBits(m lcd.Mode) {
	p.mode = m
	p.stat.LockMask(0x03&^uint8(m), false)
	p.stat.LockMask(uint8(m), true)
}

// setMode enters a mode, raising the interrupts tied to it.
func (p *PPU) setMode(m lcd.Mode) {
	p.setModeBits(m)

	if m == lcd.VBlank {
		p.front = p.back
		p.hasFrame = true
		p.frames++
		p.irq.Request(interrupts.VBlankFlag)
	}
	if bit, ok := lcd.InterruptBit(m); ok && p.stat.Bit(bit) {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// compareLine updates the coincidence flag, requesting the STAT
// interrupt on a rising edge of LY == LYC when it is enabled.
func (p *PPU) compareLine() {
	signal := p.ly.Value() == p.lyc.Value()
	p.stat.Lock(lcd.StatusCoincidence, signal)

	if signal && !p.lycSignal && p.stat.Bit(lcd.StatusCoincidenceInterrupt) {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.lycSignal = signal
}

// HasFrame reports whether a frame has completed since the last
// call to ClearFrame.
func (p *PPU) HasFrame() bool {
	return p.hasFrame
}

// ClearFrame acknowledges the completed frame.
func (p *PPU) ClearFrame() {
	p.hasFrame = false
}

// Frame returns a copy of the last completed frame.
func (p *PPU) Frame() Frame {
	return p.front
}

var _ types.Stater = (*PPU)(nil)

// Load loads the state of the PPU.
func (p *PPU) Load(s *types.State) {
	for _, c := range p.registers() {
		c.Load(s)
	}
	s.ReadData(p.vRAM[:])
	s.ReadData(p.oam[:])
	p.clock = s.Read32()
	p.mode = lcd.Mode(s.Read8())
	p.lycSignal = s.ReadBool()
	p.windowLine = s.Read8()
	p.frames = s.Read64()
	s.ReadData(p.back[:])
	p.front = p.back
	p.hasFrame = false
}

// Save saves the state of the PPU.
func (p *PPU) Save(s *types.State) {
	for _, c := range p.registers() {
		c.Save(s)
	}
	s.WriteData(p.vRAM[:])
	s.WriteData(p.oam[:])
	s.Write32(p.clock)
	s.Write8(uint8(p.mode))
	s.WriteBool(p.lycSignal)
	s.Write8(p.windowLine)
	s.Write64(p.frames)
	s.WriteData(p.back[:])
}
