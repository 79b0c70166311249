package cartridge

// logo is the bitmap found at 0x0104 - 0x0133 of every licensed
// cartridge, which the boot ROM compares before unmapping itself.
var logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// NewImage returns a blank cartridge image of the size declared
// by romCode, with a complete header and a valid header checksum.
// The entry point at 0x0100 jumps to 0x0150, where program is
// placed.
func NewImage(t Type, romCode, ramCode uint8, title string, program ...byte) []byte {
	size := decodeROMSize(romCode)
	if size == 0 {
		size = 32 * 1024
	}
	rom := make([]byte, size)

	// JP 0x0150
	copy(rom[0x0100:], []byte{0x00, 0xC3, 0x50, 0x01})
	copy(rom[0x0104:], logo[:])
	copy(rom[0x0134:0x0143], title)
	rom[0x0147] = uint8(t)
	rom[0x0148] = romCode
	rom[0x0149] = ramCode
	rom[0x014A] = 0x01
	rom[0x014B] = 0x33
	copy(rom[0x0150:], program)

	FixChecksum(rom)
	return rom
}

// FixChecksum recalculates the header checksum of rom in place.
func FixChecksum(rom []byte) {
	rom[0x014D] = HeaderChecksum(rom)
}
