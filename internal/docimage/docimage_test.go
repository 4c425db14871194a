package docimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(5, 7, 9, 10))
	img.Set(5, 7, color.NRGBA{R: 255, A: 255})
	img.Set(8, 9, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeFormats(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) },
		"tiff": func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) },
		"bmp":  func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) },
	}
	for name, enc := range encoders {
		var buf bytes.Buffer
		if err := enc(&buf, sample()); err != nil {
			t.Fatalf("%s encode: %v", name, err)
		}
		img, format, err := Decode(&buf)
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if format != name {
			t.Errorf("format = %q, want %q", format, name)
		}
		if got := img.Bounds(); got != image.Rect(0, 0, 4, 3) {
			t.Errorf("%s bounds = %v", name, got)
		}
		if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("%s top-left = %v", name, got)
		}
		if got := img.RGBAAt(3, 2); got != (color.RGBA{B: 255, A: 255}) {
			t.Errorf("%s bottom-right = %v", name, got)
		}
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	img, format, err := Decode(&buf)
	if err != nil || format != "jpeg" || img.Bounds().Dx() != 8 {
		t.Fatalf("Decode = %v %q %v", img.Bounds(), format, err)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode(strings.NewReader("%PDF-1.7 not a raster"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	saved, err := SavePNG(path, sample())
	if err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if !filepath.IsAbs(saved) {
		t.Errorf("saved path %q not absolute", saved)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("round trip pixel = %v", got)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
