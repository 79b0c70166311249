package ppu

import "sort"

const (
	// spritesPerLine is the maximum number of sprites drawn on one line.
	spritesPerLine = 10
	spriteCount    = OAMSize / 4
)

// scanOAM returns the sprites covering the given line, in drawing
// priority order. The first 10 matches in OAM order are selected,
// then ordered by X so that the leftmost sprite wins, ties going to
// the lower OAM index.
func (p *PPU) scanOAM(line, height uint8) []Sprite {
	sprites := make([]Sprite, 0, spritesPerLine)
	for i := uint8(0); i < spriteCount && len(sprites) < spritesPerLine; i++ {
		s := newSprite(&p.oam, i)
		if _, ok := s.row(line, height); ok {
			sprites = append(sprites, s)
		}
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].X < sprites[j].X
	})
	return sprites
}
