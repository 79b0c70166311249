package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrROMSize is returned when the length of a ROM image does not
	// match the size declared in its header.
	ErrROMSize = errors.New("cartridge: image length does not match declared ROM size")
	// ErrChecksum is returned when the header checksum does not match
	// the checksum calculated over 0x0134 - 0x014C.
	ErrChecksum = errors.New("cartridge: header checksum mismatch")
	// ErrUnsupported is returned for controller types that have no
	// implementation.
	ErrUnsupported = errors.New("cartridge: unsupported controller type")
	// ErrTruncated is returned when an image is too small to hold a header.
	ErrTruncated = errors.New("cartridge: image too small to contain a header")
)

const (
	headerStart = 0x0134
	headerEnd   = 0x0150

	// checksumStart and checksumEnd bound the bytes covered by
	// the header checksum.
	checksumStart = 0x0134
	checksumEnd   = 0x014C

	// noHandler is the opcode (RETI) found at the interrupt
	// vectors of cartridges that do not handle the interrupt.
	noHandler = 0xD9

	// ROMBankSize is the size of a single switchable ROM bank.
	ROMBankSize = 0x4000
	// RAMBankSize is the size of a single switchable RAM bank.
	RAMBankSize = 0x2000
)

// Flag is the CGB support flag found at 0x0143.
type Flag uint8

const (
	FlagOnlyDMG Flag = iota
	FlagSupportsCGB
	FlagOnlyCGB
)

// Type is the controller type declared at 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBATT      Type = 0x0D
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	POCKETCAMERA      Type = 0x1F
	BANDAITAMA5       Type = 0xFD
	HUDSONHUC3        Type = 0xFE
	HUDSONHUC1        Type = 0xFF
)

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM ONLY"
	case MBC1:
		return "MBC1"
	case MBC1RAM:
		return "MBC1+RAM"
	case MBC1RAMBATT:
		return "MBC1+RAM+BATTERY"
	case MBC2, MBC2BATT:
		return "MBC2"
	case MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATT:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return "MBC5"
	}
	return fmt.Sprintf("unknown (0x%02X)", uint8(t))
}

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header represents the header of a cartridge, located at the
// address space 0x0134 - 0x014F. The header contains information
// about the cartridge itself, and the hardware it expects to run on.
type Header struct {
	// 0x0134-0x0142 - Title of the game, trailed by zeroes.
	Title string

	// 0x013F-0x0142 - ManufacturerCode of the game, on newer cartridges.
	ManufacturerCode string

	// 0x0143 - CartridgeGBMode of the game. In older cartridges this byte was part
	// of the title, but the Colour Game Boy and later models interpret this byte
	// to determine if the cartridge is compatible with the Colour Game Boy.
	CartridgeGBMode Flag

	// 0x0144-0x0145 - NewLicenseeCode, used when OldLicenseeCode is 0x33.
	NewLicenseeCode string
	// 0x0146 - SGBFlag is set if the game supports Super Game Boy functions.
	SGBFlag bool
	// 0x0147 - CartridgeType declares the memory bank controller.
	CartridgeType Type
	// 0x0148 - ROMSizeCode and its decoded size in bytes.
	ROMSizeCode uint8
	ROMSize     int
	// 0x0149 - RAMSizeCode and its decoded size in bytes.
	RAMSizeCode uint8
	RAMSize     int
	// 0x014A - Destination is set for cartridges sold outside Japan.
	Destination     uint8
	OldLicenseeCode uint8
	MaskROMVersion  uint8
	// 0x014D - HeaderChecksum as declared by the cartridge.
	HeaderChecksum uint8
	// 0x014E-0x014F - GlobalChecksum, big endian. Not verified by hardware.
	GlobalChecksum uint16

	// Interrupt handler presence, probed at the interrupt vectors.
	NoVBlankHandler bool
	NoLCDHandler    bool
	NoTimerHandler  bool
	NoSerialHandler bool
	NoJoypadHandler bool

	calculatedChecksum uint8
}

// ParseHeader parses the header of the given ROM image. It only
// fails if the image is too small to contain a header; use
// Header.Validate to check the header against the image.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(rom))
	}
	h := &Header{}

	// parse the mode of the cartridge
	switch rom[0x0143] {
	case 0x80:
		h.CartridgeGBMode = FlagSupportsCGB
	case 0xC0:
		h.CartridgeGBMode = FlagOnlyCGB
	default:
		h.CartridgeGBMode = FlagOnlyDMG
	}

	// parse the title, it ends at the first zero byte
	title := rom[0x0134:0x0143]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	h.Title = string(title)
	h.ManufacturerCode = strings.TrimRight(string(rom[0x013F:0x0143]), "\x00")

	h.NewLicenseeCode = string(rom[0x0144:0x0146])
	h.SGBFlag = rom[0x0146] == 0x03
	h.CartridgeType = Type(rom[0x0147])

	h.ROMSizeCode = rom[0x0148]
	h.ROMSize = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeCode = rom[0x0149]
	h.RAMSize = ramSizes[h.RAMSizeCode]

	h.Destination = rom[0x014A]
	h.OldLicenseeCode = rom[0x014B]
	h.MaskROMVersion = rom[0x014C]
	h.HeaderChecksum = rom[0x014D]
	h.GlobalChecksum = uint16(rom[0x014E])<<8 | uint16(rom[0x014F])
	h.calculatedChecksum = HeaderChecksum(rom)

	h.NoVBlankHandler = rom[0x0040] == noHandler
	h.NoLCDHandler = rom[0x0048] == noHandler
	h.NoTimerHandler = rom[0x0050] == noHandler
	h.NoSerialHandler = rom[0x0058] == noHandler
	h.NoJoypadHandler = rom[0x0060] == noHandler

	return h, nil
}

// decodeROMSize returns the size in bytes declared by the given
// ROM size code, or 0 if the code is unknown.
func decodeROMSize(code uint8) int {
	switch code {
	case 0x52:
		return 72 * ROMBankSize
	case 0x53:
		return 80 * ROMBankSize
	case 0x54:
		return 96 * ROMBankSize
	}
	if code > 0x08 {
		return 0
	}
	// 32kB x (1 << n)
	return (32 * 1024) << code
}

// HeaderChecksum calculates the header checksum of the given image.
func HeaderChecksum(rom []byte) uint8 {
	var x uint8
	for i := checksumStart; i <= checksumEnd; i++ {
		x = x - rom[i] - 1
	}
	return x
}

// Validate checks the header against the image it was parsed from.
// Both a length mismatch and a checksum mismatch are reported, each
// wrapping ErrROMSize or ErrChecksum respectively.
func (h *Header) Validate(rom []byte) error {
	var result *multierror.Error
	if h.ROMSize == 0 || len(rom) != h.ROMSize {
		result = multierror.Append(result, fmt.Errorf("%w: declared %d bytes (code 0x%02X), got %d", ErrROMSize, h.ROMSize, h.ROMSizeCode, len(rom)))
	}
	if h.calculatedChecksum != h.HeaderChecksum {
		result = multierror.Append(result, fmt.Errorf("%w: declared 0x%02X, calculated 0x%02X", ErrChecksum, h.HeaderChecksum, h.calculatedChecksum))
	}
	return result.ErrorOrNil()
}

// ROMBanks returns the number of 16kB ROM banks.
func (h *Header) ROMBanks() int {
	return h.ROMSize / ROMBankSize
}

// GameboyColor reports whether the cartridge supports the CGB.
func (h *Header) GameboyColor() bool {
	return h.CartridgeGBMode == FlagOnlyCGB || h.CartridgeGBMode == FlagSupportsCGB
}

// Hardware returns the hardware the cartridge expects to run on.
func (h *Header) Hardware() string {
	switch h.CartridgeGBMode {
	case FlagOnlyDMG:
		return "DMG"
	case FlagSupportsCGB, FlagOnlyCGB:
		return "CGB"
	default:
		return "Unknown"
	}
}

func (h *Header) String() string {
	return fmt.Sprintf("%s | %s | Mode: %s | ROM Size: %dkB | RAM Size: %dkB", h.Title, h.CartridgeType, h.Hardware(), h.ROMSize/1024, h.RAMSize/1024)
}
