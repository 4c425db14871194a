// Package viewport maps between screen pixels and document coordinates for a
// cropped, fitted, zoomed and scrolled view of a page.
package viewport

import (
	"math"

	"github.com/example/proofmark/internal/annotation"
	"github.com/golang/geo/r2"
)

const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 700

	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// Viewport holds the display region and the view transform applied to it.
type Viewport struct {
	maxW, maxH float64
	page       annotation.Bounds
	region     annotation.Bounds
	baseScale  float64
	zoom       float64

	// Origin is where the region's top-left lands on screen before scrolling.
	Origin r2.Point
	// Scroll is the pan offset in screen pixels.
	Scroll r2.Point

	panning   bool
	panStart  r2.Point
	panScroll r2.Point
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithMaxDisplay sets the box the display region is fitted into.
func WithMaxDisplay(w, h float64) Option {
	return func(v *Viewport) {
		if w > 0 {
			v.maxW = w
		}
		if h > 0 {
			v.maxH = h
		}
	}
}

// WithOrigin places the canvas at p in screen space.
func WithOrigin(p r2.Point) Option { return func(v *Viewport) { v.Origin = p } }

// New returns a viewport showing the whole page of the given size.
func New(pageW, pageH float64, opts ...Option) *Viewport {
	v := &Viewport{
		maxW: DefaultMaxWidth,
		maxH: DefaultMaxHeight,
		page: annotation.Bounds{Width: pageW, Height: pageH},
	}
	for _, o := range opts {
		o(v)
	}
	v.SetRegion(v.page)
	return v
}

// Page returns the full page bounds.
func (v *Viewport) Page() annotation.Bounds { return v.page }

// Region returns the display region in document space.
func (v *Viewport) Region() annotation.Bounds { return v.region }

// SetRegion changes the display region, refits the base scale and resets
// zoom and scroll.
func (v *Viewport) SetRegion(b annotation.Bounds) {
	v.region = b.Normalize()
	v.baseScale = FitScale(v.region.Width, v.region.Height, v.maxW, v.maxH)
	v.zoom = 1
	v.Scroll = r2.Point{}
}

// FitScale returns the scale that fits w×h inside maxW×maxH, never above 1.
func FitScale(w, h, maxW, maxH float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return math.Min(math.Min(maxW/w, maxH/h), 1)
}

// BaseScale returns the fit-to-view scale of the current region.
func (v *Viewport) BaseScale() float64 { return v.baseScale }

// Zoom returns the user zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// ViewScale converts document units into screen pixels.
func (v *Viewport) ViewScale() float64 { return v.baseScale * v.zoom }

// ZoomPercent returns the zoom for display, rounded to a whole percent.
func (v *Viewport) ZoomPercent() int { return int(math.Round(v.zoom * 100)) }

// SetZoom clamps z to the allowed range.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
}

func (v *Viewport) ZoomIn()    { v.SetZoom(v.zoom + ZoomStep) }
func (v *Viewport) ZoomOut()   { v.SetZoom(v.zoom - ZoomStep) }
func (v *Viewport) ResetZoom() { v.zoom = 1 }

// CanvasSize returns the on-screen size of the display region.
func (v *Viewport) CanvasSize() r2.Point {
	s := v.ViewScale()
	return r2.Point{X: v.region.Width * s, Y: v.region.Height * s}
}

// ScreenToDocument converts a pointer position to absolute document
// coordinates.
func (v *Viewport) ScreenToDocument(p r2.Point) r2.Point {
	local := p.Sub(v.Origin).Add(v.Scroll).Mul(1 / v.ViewScale())
	return local.Add(r2.Point{X: v.region.X, Y: v.region.Y})
}

// DocumentToScreen is the inverse of ScreenToDocument.
func (v *Viewport) DocumentToScreen(p r2.Point) r2.Point {
	local := p.Sub(r2.Point{X: v.region.X, Y: v.region.Y}).Mul(v.ViewScale())
	return local.Sub(v.Scroll).Add(v.Origin)
}

// AdjustSize divides a UI stroke width or font size by the base scale so it
// keeps the same on-screen size regardless of page resolution.
func (v *Viewport) AdjustSize(ui float64) float64 {
	if v.baseScale == 0 {
		return ui
	}
	return ui / v.baseScale
}

// StartPan begins a pan gesture at screen position p.
func (v *Viewport) StartPan(p r2.Point) {
	v.panning = true
	v.panStart = p
	v.panScroll = v.Scroll
}

// PanTo moves the scroll offset by the raw screen delta since StartPan.
func (v *Viewport) PanTo(p r2.Point) {
	if !v.panning {
		return
	}
	v.Scroll = v.panScroll.Sub(p.Sub(v.panStart))
}

// EndPan finishes a pan gesture.
func (v *Viewport) EndPan() { v.panning = false }

// Panning reports whether a pan gesture is active.
func (v *Viewport) Panning() bool { return v.panning }

// ClampScroll keeps the scroll offset within the canvas for a view of the
// given screen size, the way a scroll container would.
func (v *Viewport) ClampScroll(view r2.Point) {
	c := v.CanvasSize()
	maxX := math.Max(0, c.X-view.X)
	maxY := math.Max(0, c.Y-view.Y)
	v.Scroll.X = math.Max(0, math.Min(maxX, v.Scroll.X))
	v.Scroll.Y = math.Max(0, math.Min(maxY, v.Scroll.Y))
}
