// Package utils provides the file and image helpers shared by the
// frontends: loading (possibly compressed) ROM, boot ROM and state
// files, and turning frames into images.
package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrEmptyArchive is returned when an archive holds no files.
var ErrEmptyArchive = errors.New("utils: archive is empty")

// LoadFile loads the given file and performs decompression if necessary.
// The compression is chosen from the file extension: .gz, .zip, .7z,
// .xz and .zst are understood, anything else is returned as is. For
// archives, the first file is returned.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Decompress(filepath.Ext(filename), data)
}

// Decompress decompresses data according to the file extension ext.
func Decompress(ext string, data []byte) ([]byte, error) {
	var (
		decoder io.Reader
		err     error
	)

	switch strings.ToLower(ext) {
	case ".gz":
		decoder, err = gzip.NewReader(bytes.NewReader(data))
	case ".xz":
		decoder, err = xz.NewReader(bytes.NewReader(data))
	case ".zst":
		var d *zstd.Decoder
		if d, err = zstd.NewReader(bytes.NewReader(data)); err == nil {
			defer d.Close()
			decoder = d
		}
	case ".zip":
		var r *zip.Reader
		if r, err = zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			break
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("%w: zip", ErrEmptyArchive)
		}
		// read the first file in the zip file
		var rc io.ReadCloser
		if rc, err = r.File[0].Open(); err == nil {
			defer rc.Close()
			decoder = rc
		}
	case ".7z":
		var r *sevenzip.Reader
		if r, err = sevenzip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			break
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("%w: 7z", ErrEmptyArchive)
		}
		// read the first file in the archive
		var rc io.ReadCloser
		if rc, err = r.File[0].Open(); err == nil {
			defer rc.Close()
			decoder = rc
		}
	default:
		return data, nil
	}

	if err != nil {
		return nil, fmt.Errorf("utils: opening %s: %w", ext, err)
	}

	out, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("utils: decompressing %s: %w", ext, err)
	}
	return out, nil
}
