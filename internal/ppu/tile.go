package ppu

// tileRow is one 8 pixel row of a tile. Each tile has a size of 8x8
// pixels and a colour depth of 4 colours, stored as two bitplanes per
// row: the first byte holds bit 0 of every pixel, the second bit 1.
// The leftmost pixel is in bit 7.
type tileRow struct {
	low, high uint8
}

// pixel returns the colour index (0-3) of column x, 0 being the
// leftmost pixel.
func (r tileRow) pixel(x uint8) uint8 {
	shift := 7 - x&7
	return r.low>>shift&1 | (r.high>>shift&1)<<1
}

// tileRow returns row y of the tile starting at the given address.
func (p *PPU) tileRow(address uint16, y uint8) tileRow {
	offset := address - vramStart + uint16(y&7)*2
	return tileRow{low: p.vRAM[offset], high: p.vRAM[offset+1]}
}

// tileMapEntry returns the tile index stored at column x, row y
// of the 32x32 tile map starting at the given address.
func (p *PPU) tileMapEntry(address uint16, x, y uint8) uint8 {
	return p.vRAM[address-vramStart+uint16(y/8)*32+uint16(x/8)]
}
