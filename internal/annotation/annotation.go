package annotation

import (
	"github.com/golang/geo/r2"
)

// Bounds is an axis-aligned box in document space. Width and Height may be
// negative while a rectangle is being drawn; the sign records the drag
// direction.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// Normalize flips the origin of a box with negative extent so that Width and
// Height are non-negative.
func (b Bounds) Normalize() Bounds {
	if b.Width < 0 {
		b.X += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Y += b.Height
		b.Height = -b.Height
	}
	return b
}

// Center returns the centroid of the normalized box.
func (b Bounds) Center() r2.Point {
	return b.rect().Center()
}

// Translate returns b shifted by d.
func (b Bounds) Translate(d r2.Point) Bounds {
	b.X += d.X
	b.Y += d.Y
	return b
}

func (b Bounds) rect() r2.Rect {
	n := b.Normalize()
	return r2.RectFromPoints(r2.Point{X: n.X, Y: n.Y}, r2.Point{X: n.X + n.Width, Y: n.Y + n.Height})
}

func boundsOfRect(r r2.Rect) Bounds {
	lo := r.Lo()
	size := r.Size()
	return Bounds{X: lo.X, Y: lo.Y, Width: size.X, Height: size.Y}
}

// LeaderLine connects a rectangle's perimeter to its label's perimeter.
type LeaderLine struct {
	StartX, StartY float64
	EndX, EndY     float64
}

// Start returns the rectangle-side endpoint.
func (l LeaderLine) Start() r2.Point { return r2.Point{X: l.StartX, Y: l.StartY} }

// End returns the label-side endpoint.
func (l LeaderLine) End() r2.Point { return r2.Point{X: l.EndX, Y: l.EndY} }

// Length returns the euclidean distance between both endpoints.
func (l LeaderLine) Length() float64 { return l.End().Sub(l.Start()).Norm() }

func (l LeaderLine) translate(d r2.Point) LeaderLine {
	return LeaderLine{StartX: l.StartX + d.X, StartY: l.StartY + d.Y, EndX: l.EndX + d.X, EndY: l.EndY + d.Y}
}

// TextBlock is an anchored run of text. Y is the baseline of the first line
// for horizontal layout; for vertical layout X is the centre of the first
// (rightmost) column.
type TextBlock struct {
	X, Y     float64
	Content  string
	FontSize float64
	Vertical bool
}

func (t TextBlock) translate(d r2.Point) TextBlock {
	t.X += d.X
	t.Y += d.Y
	return t
}

// Shape is the geometry carried by an annotation. It is implemented only by
// Rect, Pen and Text.
type Shape interface {
	isShape()
}

// Rect is a rectangle, optionally turned into a compound callout by a leader
// line and a label.
type Rect struct {
	Box    Bounds
	Leader *LeaderLine
	Label  *TextBlock
}

// Pen is a freehand polyline.
type Pen struct {
	Points []r2.Point
}

// Text is a free-standing text block.
type Text struct {
	Block TextBlock
}

func (Rect) isShape() {}
func (Pen) isShape()  {}
func (Text) isShape() {}

// Compound reports whether the rectangle carries a leader line.
func (r Rect) Compound() bool { return r.Leader != nil }

// clone returns a copy that shares no pointers with r.
func (r Rect) clone() Rect {
	out := Rect{Box: r.Box}
	if r.Leader != nil {
		l := *r.Leader
		out.Leader = &l
	}
	if r.Label != nil {
		t := *r.Label
		out.Label = &t
	}
	return out
}

func (p Pen) clone() Pen {
	pts := make([]r2.Point, len(p.Points))
	copy(pts, p.Points)
	return Pen{Points: pts}
}

// Annotation is one mark on the page.
type Annotation struct {
	ID    string
	Color string
	// LineWidth is stored divided by the base display scale so the stroke
	// keeps a constant visual weight.
	LineWidth float64
	Shape     Shape
}

// Clone returns a deep copy of a.
func (a Annotation) Clone() Annotation {
	switch s := a.Shape.(type) {
	case Rect:
		a.Shape = s.clone()
	case Pen:
		a.Shape = s.clone()
	}
	return a
}

// AsRect returns the rectangle shape if a is a rectangle.
func (a Annotation) AsRect() (Rect, bool) {
	r, ok := a.Shape.(Rect)
	return r, ok
}

// IsCompound reports whether a is a rectangle with a leader line.
func (a Annotation) IsCompound() bool {
	r, ok := a.AsRect()
	return ok && r.Compound()
}
