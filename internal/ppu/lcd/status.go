package lcd

// Bits of the LCD status register (STAT, 0xFF41):
//
//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable) (Read/Write)
//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 2 - Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
//	Bit 1-0 - Mode Flag       (Mode 0-3)            (Read Only)
const (
	StatusCoincidence          uint8 = 2
	StatusHBlankInterrupt      uint8 = 3
	StatusVBlankInterrupt      uint8 = 4
	StatusOAMInterrupt         uint8 = 5
	StatusCoincidenceInterrupt uint8 = 6
)

// InterruptBit returns the STAT bit enabling the interrupt raised
// on entry to m. TransferringData has no such interrupt.
func InterruptBit(m Mode) (uint8, bool) {
	switch m {
	case HBlank:
		return StatusHBlankInterrupt, true
	case VBlank:
		return StatusVBlankInterrupt, true
	case AccessingOAM:
		return StatusOAMInterrupt, true
	}
	return 0, false
}
