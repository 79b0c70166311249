package cartridge

import (
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// MemoryBankedCartridge1 represents a cartridge with an MBC1
// controller. Up to 2MB of ROM and 32kB of RAM are banked through
// four registers, selected by writing to the ROM address space:
//
//	0x0000-0x1FFF - RAM enable (0x0A in the lower nibble enables)
//	0x2000-0x3FFF - ROM bank number, lower 5 bits
//	0x4000-0x5FFF - RAM bank number, or upper 2 bits of the ROM bank
//	0x6000-0x7FFF - banking mode select
//
// Each register is a types.Cell, with the bits the controller
// does not decode locked to 0.
type MemoryBankedCartridge1 struct {
	rom []byte
	ram []byte

	ramEnable  *types.Cell
	romBank    *types.Cell
	ramBank    *types.Cell
	modeSelect *types.Cell

	banks  int
	large  bool // 1MB or more, the upper bits address ROM
	header *Header
	log    log.Logger
}

// NewMBC1 returns a new MBC1 cartridge.
func NewMBC1(rom []byte, header *Header, l log.Logger) *MemoryBankedCartridge1 {
	m := &MemoryBankedCartridge1{
		rom:        rom,
		ram:        make([]byte, header.RAMSize),
		ramEnable:  types.NewCell(0),
		romBank:    types.NewCell(1),
		ramBank:    types.NewCell(0),
		modeSelect: types.NewCell(0),
		banks:      header.ROMBanks(),
		header:     header,
		log:        l,
	}
	m.large = m.banks > 32
	m.ramEnable.LockRange(4, 4, false)
	m.romBank.LockRange(5, 3, false)
	m.ramBank.LockRange(2, 6, false)
	m.modeSelect.LockRange(1, 7, false)
	return m
}

// lowerBank returns the bank mapped to 0x0000 - 0x3FFF.
func (m *MemoryBankedCartridge1) lowerBank() int {
	if m.modeSelect.Value() == 1 && m.large {
		return int(m.ramBank.Value()<<5) % m.banks
	}
	return 0
}

// upperBank returns the bank mapped to 0x4000 - 0x7FFF. A zero in
// the lower 5 bits selects the next bank instead, so banks 0x00,
// 0x20, 0x40 and 0x60 are never mapped here.
func (m *MemoryBankedCartridge1) upperBank() int {
	bank := int(m.romBank.Value())
	if bank == 0 {
		bank = 1
	}
	if m.large {
		bank |= int(m.ramBank.Value()) << 5
	}
	return bank % m.banks
}

// ramOffset returns the offset into RAM for the given address,
// and whether the access is permitted.
func (m *MemoryBankedCartridge1) ramOffset(address uint16) (int, bool) {
	if m.ramEnable.Value() != 0x0A || len(m.ram) == 0 {
		return 0, false
	}
	bank := 0
	if m.modeSelect.Value() == 1 && !m.large {
		bank = int(m.ramBank.Value())
	}
	offset := bank*RAMBankSize + int(address-0xA000)
	if offset >= len(m.ram) {
		return 0, false
	}
	return offset, true
}

// Read returns the value from the cartridges ROM or RAM, depending on the bank
// selected.
func (m *MemoryBankedCartridge1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[m.lowerBank()*ROMBankSize+int(address)]
	case address < 0x8000:
		return m.rom[m.upperBank()*ROMBankSize+int(address-0x4000)]
	case address >= 0xA000 && address < 0xC000:
		if offset, ok := m.ramOffset(address); ok {
			return m.ram[offset]
		}
		m.log.Warnf("mbc1: read from disabled or out of range RAM %04X", address)
		return 0xFF
	}

	m.log.Warnf("mbc1: read from unmapped address %04X", address)
	return 0xFF
}

// Write either updates one of the banking registers, or writes
// to the selected RAM bank.
func (m *MemoryBankedCartridge1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnable.Set(value)
	case address < 0x4000:
		m.romBank.Set(value)
	case address < 0x6000:
		m.ramBank.Set(value)
	case address < 0x8000:
		m.modeSelect.Set(value)
	case address >= 0xA000 && address < 0xC000:
		if offset, ok := m.ramOffset(address); ok {
			m.ram[offset] = value
			return
		}
		m.log.Warnf("mbc1: write to disabled or out of range RAM %04X (%02X)", address, value)
	default:
		m.log.Warnf("mbc1: write to unmapped address %04X (%02X)", address, value)
	}
}

// Header returns the parsed header of the cartridge.
func (m *MemoryBankedCartridge1) Header() *Header {
	return m.header
}

// Kind returns KindMBC1.
func (m *MemoryBankedCartridge1) Kind() Kind {
	return KindMBC1
}

// RAM returns the external RAM of the cartridge.
func (m *MemoryBankedCartridge1) RAM() []byte {
	return m.ram
}

func (m *MemoryBankedCartridge1) cartridge() {}

var _ types.Stater = (*MemoryBankedCartridge1)(nil)

// Load loads the banking registers and RAM of the cartridge.
func (m *MemoryBankedCartridge1) Load(s *types.State) {
	m.ramEnable.Load(s)
	m.romBank.Load(s)
	m.ramBank.Load(s)
	m.modeSelect.Load(s)
	s.ReadData(m.ram)
}

// Save saves the banking registers and RAM of the cartridge.
func (m *MemoryBankedCartridge1) Save(s *types.State) {
	m.ramEnable.Save(s)
	m.romBank.Save(s)
	m.ramBank.Save(s)
	m.modeSelect.Save(s)
	s.WriteData(m.ram)
}
