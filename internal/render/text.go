package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/example/proofmark/internal/annotation"
	"github.com/golang/geo/r2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	lineHeightFactor = 1.2
	charHeightFactor = 1.1
	colWidthFactor   = 1.2
	haloWidthFactor  = 0.1
	minHaloWidth     = 2
)

// FontMeasurer measures and draws annotation text in Go Bold. It implements
// annotation.Measurer. Faces are cached per size and guarded by a mutex since
// opentype faces are not safe for concurrent use.
type FontMeasurer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[fixed.Int26_6]font.Face
}

var _ annotation.Measurer = (*FontMeasurer)(nil)

// NewFontMeasurer parses the embedded font.
func NewFontMeasurer() (*FontMeasurer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FontMeasurer{font: f, faces: map[fixed.Int26_6]font.Face{}}, nil
}

// face must be called with mu held.
func (m *FontMeasurer) face(size float64) (font.Face, error) {
	key := fixed.Int26_6(math.Round(size * 64))
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{Size: float64(key) / 64, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	m.faces[key] = face
	return face, nil
}

// Measure returns the advance width of line at fontSize. It falls back to
// annotation.Estimate if a face cannot be built.
func (m *FontMeasurer) Measure(line string, fontSize float64) float64 {
	if fontSize <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(fontSize)
	if err != nil {
		return annotation.Estimate.Measure(line, fontSize)
	}
	return fix(font.MeasureString(face, line))
}

func fix(v fixed.Int26_6) float64 { return float64(v) / 64 }

func toFixed(p r2.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(p.X * 64)), Y: fixed.Int26_6(math.Round(p.Y * 64))}
}

// drawText paints t with a white halo. Horizontal text is left aligned at X
// with the first baseline at Y. Vertical text runs top to bottom in columns
// centred on X, moving right to left for each new line.
func (m *FontMeasurer) drawText(dst *image.RGBA, t annotation.TextBlock, col color.Color, p projection, box annotation.Bounds) {
	px := t.FontSize * p.scale
	if t.Content == "" || px < 1 {
		return
	}
	haloPx := math.Max(minHaloWidth, t.FontSize*haloWidthFactor) * p.scale
	radius := int(math.Ceil(haloPx / 2))
	area := p.rect(box).Inset(-int(math.Ceil(px)) - radius).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	m.mu.Lock()
	face, err := m.face(px)
	if err != nil {
		m.mu.Unlock()
		return
	}
	glyphs := image.NewAlpha(area)
	d := &font.Drawer{Dst: glyphs, Src: image.Opaque, Face: face}
	if t.Vertical {
		for ci, column := range strings.Split(t.Content, "\n") {
			k := 0
			for _, r := range column {
				s := string(r)
				centre := p.toPixel(r2.Point{
					X: t.X - float64(ci)*t.FontSize*colWidthFactor,
					Y: t.Y + float64(k)*t.FontSize*charHeightFactor,
				})
				dot := toFixed(centre)
				dot.X -= font.MeasureString(face, s) / 2
				d.Dot = dot
				d.DrawString(s)
				k++
			}
		}
	} else {
		for i, line := range strings.Split(t.Content, "\n") {
			d.Dot = toFixed(p.toPixel(r2.Point{X: t.X, Y: t.Y + float64(i)*t.FontSize*lineHeightFactor}))
			d.DrawString(line)
		}
	}
	m.mu.Unlock()

	halo := haloMask(glyphs, radius)
	draw.DrawMask(dst, area, image.White, image.Point{}, halo, area.Min, draw.Over)
	draw.DrawMask(dst, area, image.NewUniform(col), image.Point{}, glyphs, area.Min, draw.Over)
}
