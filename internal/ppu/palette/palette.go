// Package palette maps the four DMG shades to display colours.
package palette

import "strings"

// Palette represents a palette. A palette is an array of 4 RGB values,
// indexed by shade, 0 being the lightest.
type Palette [4][3]uint8

var (
	// Greyscale is the default greyscale palette.
	Greyscale = Palette{
		{0xFF, 0xFF, 0xFF},
		{0xAA, 0xAA, 0xAA},
		{0x55, 0x55, 0x55},
		{0x00, 0x00, 0x00},
	}
	// Green is the green palette which attempts to emulate
	// the original colour palette as it would have appeared
	// on the original Game Boy.
	Green = Palette{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	}
	// Red is a red palette.
	Red = Palette{
		{0xFF, 0x00, 0x00},
		{0xCC, 0x00, 0x00},
		{0x77, 0x00, 0x00},
		{0x00, 0x00, 0x00},
	}
	// Yellow is a yellow palette.
	Yellow = Palette{
		{0xFF, 0xFF, 0x00},
		{0xCC, 0xCC, 0x00},
		{0x77, 0x77, 0x00},
		{0x00, 0x00, 0x00},
	}
)

// Palettes is a list of all available palettes, by name.
var Palettes = map[string]Palette{
	"greyscale": Greyscale,
	"green":     Green,
	"red":       Red,
	"yellow":    Yellow,
}

// ByName returns the palette with the given name, ignoring case.
func ByName(name string) (Palette, bool) {
	p, ok := Palettes[strings.ToLower(name)]
	return p, ok
}

// Shade returns the shade a palette register (BGP, OBP0, OBP1)
// assigns to a 2-bit colour index.
//
//	Bit 7-6 - Shade for Color Number 3
//	Bit 5-4 - Shade for Color Number 2
//	Bit 3-2 - Shade for Color Number 1
//	Bit 1-0 - Shade for Color Number 0
func Shade(register, index uint8) uint8 {
	return register >> (index * 2) & 0x03
}

// Colour returns the RGB value of the given shade.
func (p Palette) Colour(shade uint8) [3]uint8 {
	return p[shade&0x03]
}
