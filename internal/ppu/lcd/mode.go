package lcd

// Mode represents a mode of the LCD, as reported in bits 0-1 of
// the STAT register.
type Mode uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// AccessingOAM is the OAM scan at the start of each visible line. The CPU can access
	// the display RAM but not OAM.
	AccessingOAM
	// TransferringData is the pixel transfer. The CPU can access neither the display RAM
	// nor OAM.
	TransferringData
)

// Mode durations in cycles. A visible line takes OAMCycles +
// TransferCycles + HBlankCycles, which equals LineCycles.
const (
	OAMCycles      = 80
	TransferCycles = 172
	HBlankCycles   = 204
	LineCycles     = 456
)

// String implements the fmt.Stringer interface.
func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case AccessingOAM:
		return "AccessingOAM"
	case TransferringData:
		return "TransferringData"
	}
	return "Unknown"
}
