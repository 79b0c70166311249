package ppu

// Sprite is one of the 40 entries of OAM.
type Sprite struct {
	Y      uint8 // screen Y + 16
	X      uint8 // screen X + 8
	TileID uint8
	index  uint8 // position in OAM
	spriteAttributes
}

// spriteAttributes represents the attributes of a sprite.
type spriteAttributes struct {
	// Bit 7 - OBJ-to-BG priority (0=OBJ Above BG, 1=OBJ Behind BG color 1-3)
	// (Used for both BG and Window. BG color 0 is always behind OBJ)
	behind bool
	// Bit 6 - Y flip          (0=Normal, 1=Vertically mirrored)
	flipY bool
	// Bit 5 - X flip          (0=Normal, 1=Horizontally mirrored)
	flipX bool
	// Bit 4 - Palette number  (0=OBP0, 1=OBP1)
	useSecondPalette bool
}

// newSprite decodes the OAM entry at index.
func newSprite(oam *[OAMSize]uint8, index uint8) Sprite {
	b := oam[int(index)*4 : int(index)*4+4]
	return Sprite{
		Y:      b[0],
		X:      b[1],
		TileID: b[2],
		index:  index,
		spriteAttributes: spriteAttributes{
			behind:           b[3]&0x80 != 0,
			flipY:            b[3]&0x40 != 0,
			flipX:            b[3]&0x20 != 0,
			useSecondPalette: b[3]&0x10 != 0,
		},
	}
}

// row returns the row of the sprite covering the given line, or
// false if the sprite does not cover it.
func (s Sprite) row(line, height uint8) (uint8, bool) {
	top := int(s.Y) - 16
	y := int(line) - top
	if y < 0 || y >= int(height) {
		return 0, false
	}
	if s.flipY {
		y = int(height) - 1 - y
	}
	return uint8(y), true
}
