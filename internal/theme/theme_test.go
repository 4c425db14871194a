package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `
# comment
Name: Paper
selection: #112233
CropDim: #00000040
HandleBorder: white
Unknown: #FFFFFF
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Paper" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Selection != (color.RGBA{0x11, 0x22, 0x33, 0xff}) {
		t.Errorf("Selection = %v", th.Selection)
	}
	if th.CropDim.A != 0x40 {
		t.Errorf("CropDim = %v", th.CropDim)
	}
	if th.HandleBorder != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("HandleBorder = %v", th.HandleBorder)
	}
	if th.CheckerDark != Default().CheckerDark {
		t.Errorf("unset field lost its default: %v", th.CheckerDark)
	}
	if ov := th.Overlay(); ov.Selection != th.Selection || ov.CropDim != th.CropDim {
		t.Errorf("Overlay = %+v", ov)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Selection: #zzz\n")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadEmbeddedAndFile(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	dark, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load(dark): %v", err)
	}
	if dark.Name != "Dark" {
		t.Errorf("Name = %q", dark.Name)
	}

	if err := os.WriteFile(filepath.Join(l.ConfigDir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mine, err := l.Load("mine")
	if err != nil || mine.Name != "Mine" {
		t.Fatalf("Load(mine) = %v, %v", mine, err)
	}

	l.Inline = map[string]*Theme{"dark": {Name: "Inline"}}
	if got, _ := l.Load("dark"); got.Name != "Inline" {
		t.Errorf("inline theme not preferred: %q", got.Name)
	}

	if _, err := l.Load("missing"); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestColorsRoundTrip(t *testing.T) {
	d := Default()
	c := Default()
	c.Selection = color.RGBA{}
	for _, nc := range d.Colors() {
		if err := c.Set(strings.ToLower(nc.Key), hex(nc.Color)); err != nil {
			t.Fatalf("Set(%s): %v", nc.Key, err)
		}
	}
	if *c != *d {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", c, d)
	}
}

func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#'}
	for _, v := range []uint8{c.R, c.G, c.B, c.A} {
		b = append(b, digits[v>>4], digits[v&0xf])
	}
	return string(b)
}
