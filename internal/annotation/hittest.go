package annotation

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	// DefaultTolerance is the slack, in document units, applied by HitTest.
	DefaultTolerance = 5
	// PartTolerance is the slack used when deciding which part of a compound
	// annotation was clicked.
	PartTolerance = 10
	// CornerHitSize and EdgeHitSize are handle grab sizes in screen pixels.
	CornerHitSize = 8
	EdgeHitSize   = 6
)

// Handle identifies one of the eight resize handles of a box.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleTop
	HandleBottom
	HandleLeft
	HandleRight
)

var handleNames = map[Handle]string{
	HandleNone:        "none",
	HandleTopLeft:     "tl",
	HandleTopRight:    "tr",
	HandleBottomLeft:  "bl",
	HandleBottomRight: "br",
	HandleTop:         "t",
	HandleBottom:      "b",
	HandleLeft:        "l",
	HandleRight:       "r",
}

func (h Handle) String() string {
	if s, ok := handleNames[h]; ok {
		return s
	}
	return "unknown"
}

// Corner reports whether h scales both axes.
func (h Handle) Corner() bool {
	return h >= HandleTopLeft && h <= HandleBottomRight
}

// Part selects which portion of an annotation a move or resize applies to.
type Part int

const (
	PartWhole Part = iota
	PartRect
	PartLabel
)

func (p Part) String() string {
	switch p {
	case PartRect:
		return "rect"
	case PartLabel:
		return "label"
	default:
		return "whole"
	}
}

// PointInBounds is an inclusive containment test with b grown by tolerance on
// every side.
func PointInBounds(p r2.Point, b Bounds, tolerance float64) bool {
	return b.rect().ExpandedByMargin(tolerance).ContainsPoint(p)
}

// HitTest returns the topmost annotation whose bounds contain p. Later
// entries in anns are drawn above earlier ones.
func (g Geometry) HitTest(p r2.Point, anns []Annotation) (Annotation, bool) {
	for i := len(anns) - 1; i >= 0; i-- {
		b, ok := g.BoundsOf(anns[i])
		if !ok {
			continue
		}
		if PointInBounds(p, b, DefaultTolerance) {
			return anns[i], true
		}
	}
	return Annotation{}, false
}

// ResizeHandleAt returns the handle of b under p. Grab sizes are given in
// screen pixels and divided by viewScale. Corners win over edge midpoints.
func ResizeHandleAt(p r2.Point, b Bounds, viewScale float64) Handle {
	if viewScale <= 0 {
		viewScale = 1
	}
	corner := CornerHitSize / viewScale
	edge := EdgeHitSize / viewScale
	left, top := b.X, b.Y
	right, bottom := b.X+b.Width, b.Y+b.Height
	c := r2.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}

	near := func(x, y, size float64) bool {
		return math.Abs(p.X-x) < size && math.Abs(p.Y-y) < size
	}
	switch {
	case near(left, top, corner):
		return HandleTopLeft
	case near(right, top, corner):
		return HandleTopRight
	case near(left, bottom, corner):
		return HandleBottomLeft
	case near(right, bottom, corner):
		return HandleBottomRight
	case near(c.X, top, edge):
		return HandleTop
	case near(c.X, bottom, edge):
		return HandleBottom
	case near(left, c.Y, edge):
		return HandleLeft
	case near(right, c.Y, edge):
		return HandleRight
	}
	return HandleNone
}

// ClickedPart reports which part of a compound annotation is under p. The
// label is tested first so it wins where it overlaps the rectangle.
func (g Geometry) ClickedPart(p r2.Point, a Annotation) (Part, bool) {
	r, ok := a.AsRect()
	if !ok || !r.Compound() {
		return PartWhole, false
	}
	if r.Label != nil && PointInBounds(p, g.TextBounds(*r.Label), PartTolerance) {
		return PartLabel, true
	}
	if PointInBounds(p, r.Box.Normalize(), PartTolerance) {
		return PartRect, true
	}
	return PartWhole, false
}

// PartBounds returns the box a handle drag on part operates against: the
// normalized rectangle, the label box, or the whole annotation.
func (g Geometry) PartBounds(a Annotation, part Part) (Bounds, bool) {
	r, ok := a.AsRect()
	if ok && r.Compound() {
		switch part {
		case PartRect:
			return r.Box.Normalize(), true
		case PartLabel:
			if r.Label == nil {
				return Bounds{}, false
			}
			return g.TextBounds(*r.Label), true
		}
	}
	return g.BoundsOf(a)
}
