package utils

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thelolagemann/coreboy/internal/ppu"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// MaxScale is the largest factor accepted by Scale.
const MaxScale = 16

// ErrFormat is returned for an image format that can not be encoded.
var ErrFormat = errors.New("utils: unsupported image format")

// FrameToImage returns the frame as an image.
func FrameToImage(frame *ppu.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	copy(img.Pix, frame[:])
	return img
}

// Scale returns img enlarged by factor with nearest neighbour
// sampling, keeping the pixels sharp. The factor is clamped to
// 1 - MaxScale.
func Scale(img image.Image, factor int) image.Image {
	factor = Clamp(1, factor, MaxScale)
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeImage writes img to w in the given format, "png" or "bmp".
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

// SaveImage writes img to filename, choosing the format from the
// file extension.
func SaveImage(filename string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		os.Remove(filename)
		return err
	}
	return file.Close()
}
