package mmu

import "github.com/thelolagemann/coreboy/internal/types"

// ioRegisters is the number of I/O register slots: 0xFF00-0xFF7F
// plus IE, stored at index 0x80.
const ioRegisters = 0x81

// undefined is an I/O register with no hardware behind it. It
// reads as 0xFF and ignores writes.
type undefined struct{}

func (undefined) Value() uint8 { return 0xFF }
func (undefined) Set(uint8)    {}

// initRegisters maps every I/O slot to its register, leaving the
// slots without hardware undefined. The video and audio blocks are
// dispatched before the slots are consulted.
func (m *MMU) initRegisters() {
	for i := range m.registers {
		m.registers[i] = undefined{}
	}

	m.boot = types.NewCell(0)
	m.boot.LockRange(1, 7, true)
	if m.bootROM == nil {
		m.boot.Lock(0, true)
	}

	m.registers[types.IOIndex(types.P1)] = m.Joypad
	m.registers[types.IOIndex(types.SB)] = m.Serial.Register(types.SB)
	m.registers[types.IOIndex(types.SC)] = m.Serial.Register(types.SC)
	for _, address := range []types.HardwareAddress{types.DIV, types.TIMA, types.TMA, types.TAC} {
		m.registers[types.IOIndex(address)] = m.Timer.Register(address)
	}
	m.registers[types.IOIndex(types.IF)] = m.irq.Flag
	m.registers[types.IOIndex(types.BOOT)] = m.boot
	m.registers[types.IOIndex(types.IE)] = m.irq.Enable
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address >= types.LCDC && address <= types.WX:
		return m.Video.Read(address)
	case address >= types.AudioStart && address <= types.AudioEnd:
		m.log.Errorf("read from unimplemented audio register %04X", address)
		return 0xFF
	}
	return m.registers[types.IOIndex(address)].Value()
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address >= types.LCDC && address <= types.WX:
		m.Video.Write(address, value)
		if address == types.DMA {
			m.dma.Start(value)
		}
	case address >= types.AudioStart && address <= types.AudioEnd:
		m.log.Errorf("write to unimplemented audio register %04X", address)
	case address == types.BOOT:
		// disabling the boot ROM is one way
		if value&types.Bit0 != 0 && !m.boot.Bit(0) {
			m.boot.Lock(0, true)
			m.log.Debugf("boot ROM disabled")
		}
		m.boot.Set(value)
	default:
		m.registers[types.IOIndex(address)].Set(value)
	}
}
