package types

// HardwareAddress represents the address of a hardware register
// of the Game Boy. The hardware registers are mapped to memory
// addresses 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// P1 selects the input keys to be read by the CPU, and
	// reports the state of the joypad.
	P1 HardwareAddress = 0xFF00
	// SB holds the byte to transfer over the serial port.
	SB HardwareAddress = 0xFF01
	// SC controls the serial port.
	//
	//  Bit 7: Transfer Start Flag (0=No transfer, 1=Start)
	//  Bit 0: Shift Clock         (0=External, 1=Internal)
	SC HardwareAddress = 0xFF02
	// DIV is the upper 8 bits of the 16-bit system counter. Any
	// write resets the whole counter to 0.
	DIV HardwareAddress = 0xFF04
	// TIMA is incremented at the rate selected by TAC. When TIMA
	// overflows it is reloaded from TMA and a timer interrupt is
	// requested.
	TIMA HardwareAddress = 0xFF05
	// TMA is loaded into TIMA when it overflows.
	TMA HardwareAddress = 0xFF06
	// TAC controls the timer.
	//
	//  Bit 2  : Timer Enable
	//  Bit 1-0: Input Clock Select (00=4096Hz, 01=262144Hz, 10=65536Hz, 11=16384Hz)
	TAC HardwareAddress = 0xFF07
	// IF is used to request interrupts.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F

	// AudioStart and AudioEnd bound the sound registers and wave
	// pattern RAM.
	AudioStart HardwareAddress = 0xFF10
	AudioEnd   HardwareAddress = 0xFF3F

	// LCDC controls the LCD.
	//
	//  Bit 7: LCD Enable                     (0=Off, 1=On)
	//  Bit 6: Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
	//  Bit 5: Window Display Enable          (0=Off, 1=On)
	//  Bit 4: BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
	//  Bit 3: BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
	//  Bit 2: OBJ (Sprite) Size              (0=8x8, 1=8x16)
	//  Bit 1: OBJ (Sprite) Display Enable    (0=Off, 1=On)
	//  Bit 0: BG Display                     (0=Off, 1=On)
	LCDC HardwareAddress = 0xFF40
	// STAT reports the mode the LCD is in, and selects the
	// conditions that request an LCD interrupt.
	//
	//  Bit 6: LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
	//  Bit 5: mode 2 OAM Interrupt         (1=Enable) (Read/Write)
	//  Bit 4: mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
	//  Bit 3: mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
	//  Bit 2: Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
	//  Bit 1-0: mode Flag                             (Read Only)
	STAT HardwareAddress = 0xFF41
	// SCY is the vertical scroll position of the background.
	SCY HardwareAddress = 0xFF42
	// SCX is the horizontal scroll position of the background.
	SCX HardwareAddress = 0xFF43
	// LY is the scanline currently being drawn (0-153).
	LY HardwareAddress = 0xFF44
	// LYC is compared against LY.
	LYC HardwareAddress = 0xFF45
	// DMA starts a 160 byte transfer from (value << 8) to OAM.
	DMA HardwareAddress = 0xFF46
	// BGP is the background palette.
	//
	//  Bit 7-6 - Shade for Color Number 3
	//  Bit 5-4 - Shade for Color Number 2
	//  Bit 3-2 - Shade for Color Number 1
	//  Bit 1-0 - Shade for Color Number 0
	BGP HardwareAddress = 0xFF47
	// OBP0 is sprite palette 0. Bits 1-0 are ignored, as color
	// number 0 is always transparent for sprites.
	OBP0 HardwareAddress = 0xFF48
	// OBP1 is sprite palette 1.
	OBP1 HardwareAddress = 0xFF49
	// WY is the Y position of the window.
	WY HardwareAddress = 0xFF4A
	// WX is the X position of the window, plus 7.
	WX HardwareAddress = 0xFF4B
	// BOOT disables the boot ROM overlay.
	//
	//  Bit 0 - Disable boot ROM (0=Enable, 1=Disable)
	BOOT HardwareAddress = 0xFF50
	// IE enables interrupts, using the same layout as IF.
	IE HardwareAddress = 0xFFFF
)

// IOIndex returns the index of the given hardware register in
// the I/O block. IE, which lives outside the block at 0xFFFF,
// is stored at index 0x80.
func IOIndex(address HardwareAddress) uint8 {
	if address == IE {
		return 0x80
	}
	return uint8(address)
}
