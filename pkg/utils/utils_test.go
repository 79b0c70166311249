package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/ulikunitz/xz"
	"golang.org/x/image/bmp"
)

var payload = bytes.Repeat([]byte("coreboy"), 1024)

func compress(t *testing.T, ext string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch ext {
	case ".gz":
		w := gzip.NewWriter(&buf)
		_, err := w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case ".xz":
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case ".zst":
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case ".zip":
		w := zip.NewWriter(&buf)
		f, err := w.Create("game.gb")
		require.NoError(t, err)
		_, err = f.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	for _, ext := range []string{".gz", ".xz", ".zst", ".zip"} {
		t.Run(ext, func(t *testing.T) {
			out, err := Decompress(ext, compress(t, ext))
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}

	t.Run("uncompressed", func(t *testing.T) {
		out, err := Decompress(".gb", payload)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("corrupt", func(t *testing.T) {
		for _, ext := range []string{".gz", ".xz", ".zip", ".7z"} {
			_, err := Decompress(ext, []byte("definitely not an archive"))
			assert.Error(t, err, ext)
		}
	})

	t.Run("empty zip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, zip.NewWriter(&buf).Close())
		_, err := Decompress(".zip", buf.Bytes())
		assert.ErrorIs(t, err, ErrEmptyArchive)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "game.gb.GZ")
	require.NoError(t, os.WriteFile(name, compress(t, ".gz"), 0o644))

	out, err := LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	_, err = LoadFile(filepath.Join(dir, "missing.gb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFrameToImage(t *testing.T) {
	var frame ppu.Frame
	// pixel (1, 2)
	i := (2*ppu.ScreenWidth + 1) * 4
	copy(frame[i:], []uint8{0x10, 0x20, 0x30, 0xFF})

	img := FrameToImage(&frame)
	assert.Equal(t, image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight), img.Bounds())
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, img.RGBAAt(1, 2))
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 0, color.RGBA{R: 0xFF, A: 0xFF})

	dst := Scale(src, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 6), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, dst.At(5, 2))
	assert.Equal(t, color.RGBA{}, dst.At(2, 2))

	assert.Equal(t, src, Scale(src, 0), "factor is clamped to 1")
	assert.Equal(t, image.Rect(0, 0, 2*MaxScale, 2*MaxScale), Scale(src, 100).Bounds())
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, img, "PNG"))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)

	buf.Reset()
	require.NoError(t, EncodeImage(&buf, img, "bmp"))
	_, err = bmp.Decode(&buf)
	assert.NoError(t, err)

	assert.ErrorIs(t, EncodeImage(&buf, img, "gif"), ErrFormat)
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	require.NoError(t, SaveImage(filepath.Join(dir, "shot.png"), img))

	bad := filepath.Join(dir, "shot.tiff")
	assert.ErrorIs(t, SaveImage(bad, img), ErrFormat)
	_, err := os.Stat(bad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(1, -5, 3))
	assert.Equal(t, 3, Clamp(1, 5, 3))
	assert.Equal(t, 2.5, Clamp(1.0, 2.5, 3.0))
}
