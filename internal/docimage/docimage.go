// Package docimage loads proof pages into RGBA buffers and writes exports.
package docimage

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when the input is not a known raster
// format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode reads a PNG, JPEG, GIF, TIFF or BMP image and returns a copy with
// zero-based bounds. The name of the detected format is returned with it.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	src, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("decode %s: %w", format, err)
	}
	return ToRGBA(src), format, nil
}

// ToRGBA copies src into a new RGBA image whose bounds start at the origin.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// Load opens and decodes the page at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
	}()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path and returns the absolute path written.
func SavePNG(path string, img image.Image) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", path, err)
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	return saved, nil
}
