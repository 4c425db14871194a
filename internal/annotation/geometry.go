package annotation

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/golang/geo/r2"
)

const (
	lineHeightFactor   = 1.2
	charHeightFactor   = 1.1
	columnWidthFactor  = 1.2
	estimateWidthRatio = 0.6
)

// Measurer reports the advance width of a single line of text.
type Measurer interface {
	Measure(line string, fontSize float64) float64
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(line string, fontSize float64) float64

// Measure calls f.
func (f MeasureFunc) Measure(line string, fontSize float64) float64 { return f(line, fontSize) }

// Estimate is the fallback used when no font metrics are available.
var Estimate Measurer = MeasureFunc(func(line string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(line)) * fontSize * estimateWidthRatio
})

// Geometry computes bounds, hit tests and transforms. The zero value measures
// text with Estimate.
type Geometry struct {
	Measurer Measurer
}

// NewGeometry returns a Geometry using m, or Estimate when m is nil.
func NewGeometry(m Measurer) Geometry {
	return Geometry{Measurer: m}
}

func (g Geometry) measure(line string, fontSize float64) float64 {
	if g.Measurer == nil {
		return Estimate.Measure(line, fontSize)
	}
	return g.Measurer.Measure(line, fontSize)
}

// BoundsOf returns the smallest box containing every part of a. It returns
// false for annotations missing their geometry, such as a pen with no points.
func (g Geometry) BoundsOf(a Annotation) (Bounds, bool) {
	switch s := a.Shape.(type) {
	case Rect:
		if s.Leader == nil && s.Label == nil {
			return s.Box.Normalize(), true
		}
		r := s.Box.rect()
		if s.Leader != nil {
			r = r.AddPoint(s.Leader.Start()).AddPoint(s.Leader.End())
		}
		if s.Label != nil {
			r = r.AddRect(g.TextBounds(*s.Label).rect())
		}
		return boundsOfRect(r), true
	case Pen:
		if len(s.Points) == 0 {
			return Bounds{}, false
		}
		return boundsOfRect(r2.RectFromPoints(s.Points...)), true
	case Text:
		return g.TextBounds(s.Block), true
	}
	return Bounds{}, false
}

// TextBounds lays out a text block or label. Empty content yields a
// FontSize square so the block stays selectable.
func (g Geometry) TextBounds(t TextBlock) Bounds {
	if t.Content == "" {
		x := t.X
		if t.Vertical {
			x = t.X - t.FontSize + t.FontSize*columnWidthFactor/2
		}
		return Bounds{X: x, Y: t.Y - t.FontSize, Width: t.FontSize, Height: t.FontSize}
	}
	if t.Vertical {
		columns := strings.Split(t.Content, "\n")
		colWidth := t.FontSize * columnWidthFactor
		width := float64(len(columns)) * colWidth
		height := float64(maxRunes(columns)) * t.FontSize * charHeightFactor
		if width == 0 {
			width = t.FontSize
		}
		if height == 0 {
			height = t.FontSize
		}
		return Bounds{
			X:      t.X - width + colWidth/2,
			Y:      t.Y - t.FontSize,
			Width:  width,
			Height: height,
		}
	}
	lines := strings.Split(t.Content, "\n")
	var width float64
	for _, line := range lines {
		width = math.Max(width, g.measure(line, t.FontSize))
	}
	height := float64(len(lines)) * t.FontSize * lineHeightFactor
	if width == 0 {
		width = t.FontSize
	}
	if height == 0 {
		height = t.FontSize
	}
	return Bounds{X: t.X, Y: t.Y - t.FontSize, Width: width, Height: height}
}

func maxRunes(columns []string) int {
	n := 0
	for _, c := range columns {
		if l := utf8.RuneCountInString(c); l > n {
			n = l
		}
	}
	return n
}

// EdgeAnchors returns the midpoints of the top, bottom, left and right edges
// of b in that order.
func EdgeAnchors(b Bounds) [4]r2.Point {
	n := b.Normalize()
	c := n.Center()
	return [4]r2.Point{
		{X: c.X, Y: n.Y},
		{X: c.X, Y: n.Y + n.Height},
		{X: n.X, Y: c.Y},
		{X: n.X + n.Width, Y: c.Y},
	}
}

// NearestAnchor returns the edge anchor of b closest to p. Ties go to the
// earlier anchor in EdgeAnchors order.
func NearestAnchor(b Bounds, p r2.Point) r2.Point {
	anchors := EdgeAnchors(b)
	best := anchors[0]
	bestDist := math.Inf(1)
	for _, a := range anchors {
		d := a.Sub(p)
		if dist := d.Dot(d); dist < bestDist {
			bestDist = dist
			best = a
		}
	}
	return best
}

// OnPerimeter reports whether p lies on the boundary of b within eps.
func OnPerimeter(b Bounds, p r2.Point, eps float64) bool {
	n := b.Normalize()
	inX := p.X >= n.X-eps && p.X <= n.X+n.Width+eps
	inY := p.Y >= n.Y-eps && p.Y <= n.Y+n.Height+eps
	if !inX || !inY {
		return false
	}
	return math.Abs(p.X-n.X) <= eps || math.Abs(p.X-(n.X+n.Width)) <= eps ||
		math.Abs(p.Y-n.Y) <= eps || math.Abs(p.Y-(n.Y+n.Height)) <= eps
}

// Reanchor recomputes both leader endpoints of a compound rectangle from its
// current rect and label. Rectangles without a leader are returned unchanged.
func (g Geometry) Reanchor(r Rect) Rect {
	if r.Leader == nil {
		return r
	}
	out := r.clone()
	if out.Label == nil {
		start := NearestAnchor(out.Box, out.Leader.End())
		out.Leader.StartX, out.Leader.StartY = start.X, start.Y
		return out
	}
	label := g.TextBounds(*out.Label)
	start := NearestAnchor(out.Box, label.Center())
	end := NearestAnchor(label, out.Box.Center())
	out.Leader = &LeaderLine{StartX: start.X, StartY: start.Y, EndX: end.X, EndY: end.Y}
	return out
}
