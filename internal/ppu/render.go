package ppu

import (
	"github.com/thelolagemann/coreboy/internal/ppu/lcd"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
)

// renderScanline draws the current line into the back buffer.
func (p *PPU) renderScanline() {
	line := p.ly.Value()
	if line >= ScreenHeight {
		return
	}
	control := lcd.Decode(p.lcdc.Value())

	// colour indices of the background and window, before the
	// palette, used to resolve sprite priority
	var indices [ScreenWidth]uint8

	if control.BackgroundEnabled {
		p.renderBackground(control, line, &indices)
		if control.WindowEnabled {
			p.renderWindow(control, line, &indices)
		}
	} else {
		for x := uint8(0); x < ScreenWidth; x++ {
			p.setPixel(x, line, 0)
		}
	}

	if control.SpriteEnabled {
		p.renderSprites(control, line, &indices)
	}
}

func (p *PPU) renderBackground(control lcd.Controller, line uint8, indices *[ScreenWidth]uint8) {
	y := line + p.scy.Value()
	bgp := p.bgp.Value()

	for x := uint8(0); x < ScreenWidth; x++ {
		mapX := x + p.scx.Value()
		tile := p.tileMapEntry(control.BackgroundTileMapAddress, mapX, y)
		index := p.tileRow(control.TileAddress(tile), y).pixel(mapX)

		indices[x] = index
		p.setPixel(x, line, palette.Shade(bgp, index))
	}
}

// renderWindow draws the window over the background. The window
// keeps its own line counter, which only advances on lines where
// the window is visible.
func (p *PPU) renderWindow(control lcd.Controller, line uint8, indices *[ScreenWidth]uint8) {
	wy, wx := p.wy.Value(), p.wx.Value()
	if line < wy || wx > ScreenWidth+6 {
		return
	}

	y := p.windowLine
	bgp := p.bgp.Value()
	for screenX := int(wx) - 7; screenX < ScreenWidth; screenX++ {
		if screenX < 0 {
			continue
		}
		x := uint8(screenX - (int(wx) - 7))
		tile := p.tileMapEntry(control.WindowTileMapAddress, x, y)
		index := p.tileRow(control.TileAddress(tile), y).pixel(x)

		indices[screenX] = index
		p.setPixel(uint8(screenX), line, palette.Shade(bgp, index))
	}
	p.windowLine++
}

// renderSprites draws the sprites covering the line. Colour index 0
// is transparent. On each pixel the highest priority sprite with an
// opaque pixel decides, even when it is hidden behind the background.
func (p *PPU) renderSprites(control lcd.Controller, line uint8, indices *[ScreenWidth]uint8) {
	height := control.SpriteSize
	var taken [ScreenWidth]bool

	for _, s := range p.scanOAM(line, height) {
		y, _ := s.row(line, height)
		tile := s.TileID
		if height == 16 {
			tile &= 0xFE
		}
		row := p.tileRow(0x8000+uint16(tile)*16+uint16(y/8)*16, y)

		obp := p.obp0.Value()
		if s.useSecondPalette {
			obp = p.obp1.Value()
		}

		for col := uint8(0); col < 8; col++ {
			screenX := int(s.X) - 8 + int(col)
			if screenX < 0 || screenX >= ScreenWidth || taken[screenX] {
				continue
			}

			x := col
			if s.flipX {
				x = 7 - col
			}
			index := row.pixel(x)
			if index == 0 {
				continue
			}

			taken[screenX] = true
			if s.behind && indices[screenX] != 0 {
				continue
			}
			p.setPixel(uint8(screenX), line, palette.Shade(obp, index))
		}
	}
}

// setPixel writes a shade into the back buffer.
func (p *PPU) setPixel(x, y uint8, shade uint8) {
	c := p.Palette.Colour(shade)
	i := (int(y)*ScreenWidth + int(x)) * 4
	p.back[i] = c[0]
	p.back[i+1] = c[1]
	p.back[i+2] = c[2]
	p.back[i+3] = 0xFF
}
