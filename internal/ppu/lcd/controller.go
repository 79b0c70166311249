// Package lcd decodes the LCD control and status registers.
package lcd

import (
	"github.com/thelolagemann/coreboy/pkg/bits"
)

// Controller is a decoded view of the LCD Control Register
// (LCDC, 0xFF40). Its value is laid out as follows:
//
//	Bit 7 - LCD Enable             (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display/Priority     (0=Off, 1=On)
type Controller struct {
	// Enabled is the LCD Enable bit. When set, the LCD is enabled.
	Enabled bool
	// WindowTileMapAddress is the start address of the window tile map.
	WindowTileMapAddress uint16
	// WindowEnabled is the Window Display Enable bit.
	WindowEnabled bool
	// TileDataAddress is the start address of the tile data, 0x8000
	// for unsigned tile indices and 0x8800 for signed ones.
	TileDataAddress uint16
	// BackgroundTileMapAddress is the start address of the background
	// tile map.
	BackgroundTileMapAddress uint16
	// SpriteSize is the height of a sprite, 8 or 16.
	SpriteSize uint8
	// SpriteEnabled is the OBJ (Sprite) Display Enable bit.
	SpriteEnabled bool
	// BackgroundEnabled is the BG/Window Display/Priority bit.
	BackgroundEnabled bool
}

// Decode returns the Controller described by an LCDC value.
func Decode(value uint8) Controller {
	c := Controller{
		Enabled:                  bits.Test(value, 7),
		WindowTileMapAddress:     0x9800,
		WindowEnabled:            bits.Test(value, 5),
		TileDataAddress:          0x8800,
		BackgroundTileMapAddress: 0x9800,
		SpriteSize:               8 + bits.Val(value, 2)*8,
		SpriteEnabled:            bits.Test(value, 1),
		BackgroundEnabled:        bits.Test(value, 0),
	}
	if bits.Test(value, 6) {
		c.WindowTileMapAddress = 0x9C00
	}
	if bits.Test(value, 4) {
		c.TileDataAddress = 0x8000
	}
	if bits.Test(value, 3) {
		c.BackgroundTileMapAddress = 0x9C00
	}
	return c
}

// UsingSignedTileData returns true if the LCD controller is using signed tile
// data.
func (c Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x8800
}

// TileAddress returns the address of the first byte of the tile
// with the given index, as used by the background and window layers.
// In signed mode the index is offset by 128, so that index 0 lands
// on 0x9000.
func (c Controller) TileAddress(index uint8) uint16 {
	if c.UsingSignedTileData() {
		return c.TileDataAddress + uint16(int16(int8(index))+128)*16
	}
	return c.TileDataAddress + uint16(index)*16
}
