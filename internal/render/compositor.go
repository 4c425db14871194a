// Package render flattens annotations over a page image, either for export or
// as an on-screen preview with selection and crop overlays.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/viewport"
	"github.com/golang/geo/r2"
	xdraw "golang.org/x/image/draw"
)

// Overlay sizes in screen pixels.
const (
	handleSize       = 12
	handleBorder     = 2
	selectionWidth   = 2
	selectionDash    = 6
	selectionGap     = 4
	cropOutlineWidth = 2
	cropDash         = 5
)

// OverlayColors styles the preview-only decorations.
type OverlayColors struct {
	Selection    color.RGBA
	Label        color.RGBA
	HandleBorder color.RGBA
	CropBorder   color.RGBA
	CropDim      color.RGBA
}

// DefaultOverlayColors returns the stock overlay palette.
func DefaultOverlayColors() OverlayColors {
	return OverlayColors{
		Selection:    color.RGBA{0x00, 0xbf, 0xff, 0xff},
		Label:        color.RGBA{0x00, 0xff, 0x88, 0xff},
		HandleBorder: color.RGBA{0xff, 0xff, 0xff, 0xff},
		CropBorder:   color.RGBA{0x00, 0xff, 0x00, 0xff},
		CropDim:      color.RGBA{0, 0, 0, 0x80},
	}
}

// Overlay lists what the preview draws on top of the committed annotations.
type Overlay struct {
	// Draft is an annotation still being drawn.
	Draft *annotation.Annotation
	// Selected gets a dashed box and resize handles.
	Selected *annotation.Annotation
	// Crop is a crop rectangle being dragged; everything outside is dimmed.
	Crop   *annotation.Bounds
	Colors OverlayColors
}

// projection maps document coordinates to pixels of the target buffer.
type projection struct {
	toPixel func(r2.Point) r2.Point
	scale   float64
}

func (p projection) pt(q r2.Point) image.Point {
	v := p.toPixel(q)
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

func (p projection) rect(b annotation.Bounds) image.Rectangle {
	b = b.Normalize()
	return image.Rectangle{
		Min: p.pt(r2.Point{X: b.X, Y: b.Y}),
		Max: p.pt(r2.Point{X: b.X + b.Width, Y: b.Y + b.Height}),
	}
}

// width converts a document stroke width to whole pixels, at least one.
func (p projection) width(w float64) int {
	return max(1, int(math.Round(w*p.scale)))
}

// Compositor renders annotations with the given text measurer.
type Compositor struct {
	fonts *FontMeasurer
	geom  annotation.Geometry
}

// New returns a compositor drawing text with fonts. The same measurer should
// back the editor so on-screen boxes match the drawn glyphs.
func New(fonts *FontMeasurer) *Compositor {
	return &Compositor{fonts: fonts, geom: annotation.NewGeometry(fonts)}
}

// Export returns the region of src with anns drawn over it. The result is the
// size of the region and carries no selection or crop decorations.
func (c *Compositor) Export(src image.Image, anns []annotation.Annotation, region annotation.Bounds) *image.RGBA {
	region = region.Normalize()
	w := int(math.Round(region.Width))
	h := int(math.Round(region.Height))
	out := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	origin := src.Bounds().Min.Add(image.Pt(int(math.Round(region.X)), int(math.Round(region.Y))))
	draw.Draw(out, out.Bounds(), src, origin, draw.Src)

	offset := r2.Point{X: region.X, Y: region.Y}
	p := projection{toPixel: func(q r2.Point) r2.Point { return q.Sub(offset) }, scale: 1}
	for _, a := range anns {
		c.drawAnnotation(out, a, p)
	}
	return out
}

// Preview draws the visible region of src, anns and the overlay into dst
// using the view transform. Pixels of dst outside the canvas are untouched.
func (c *Compositor) Preview(dst *image.RGBA, src image.Image, anns []annotation.Annotation, view *viewport.Viewport, ov Overlay) {
	region := view.Region()
	p := projection{toPixel: view.DocumentToScreen, scale: view.ViewScale()}
	canvas := p.rect(region)

	sb := src.Bounds()
	srcRect := image.Rect(
		int(math.Round(region.X)), int(math.Round(region.Y)),
		int(math.Round(region.X+region.Width)), int(math.Round(region.Y+region.Height)),
	).Add(sb.Min)
	xdraw.ApproxBiLinear.Scale(dst, canvas, src, srcRect, draw.Src, nil)

	for _, a := range anns {
		c.drawAnnotation(dst, a, p)
	}
	if ov.Draft != nil {
		c.drawAnnotation(dst, *ov.Draft, p)
	}
	if ov.Crop != nil {
		sel := p.rect(*ov.Crop)
		dimOutside(dst, canvas, sel, ov.Colors.CropDim)
		drawDashedRect(dst, sel, cropDash, cropDash, cropOutlineWidth, ov.Colors.CropBorder)
	}
	if ov.Selected != nil {
		c.drawSelection(dst, *ov.Selected, p, ov.Colors)
	}
}

func (c *Compositor) drawAnnotation(dst *image.RGBA, a annotation.Annotation, p projection) {
	col := strokeColor(a.Color)
	thick := p.width(a.LineWidth)
	switch s := a.Shape.(type) {
	case annotation.Rect:
		drawRect(dst, p.rect(s.Box), col, thick)
		if s.Leader != nil {
			drawLine(dst, p.pt(s.Leader.Start()), p.pt(s.Leader.End()), col, thick)
			if s.Label != nil {
				c.fonts.drawText(dst, *s.Label, col, p, c.geom.TextBounds(*s.Label))
			}
		}
	case annotation.Pen:
		if len(s.Points) < 2 {
			return
		}
		pts := make([]image.Point, len(s.Points))
		for i, q := range s.Points {
			pts[i] = p.pt(q)
		}
		drawPolyline(dst, pts, col, thick)
	case annotation.Text:
		c.fonts.drawText(dst, s.Block, col, p, c.geom.TextBounds(s.Block))
	}
}

// drawSelection outlines a selected annotation. Callouts get separate boxes
// for the rectangle and the label, each with corner handles; anything else
// gets one box with corner and edge handles.
func (c *Compositor) drawSelection(dst *image.RGBA, a annotation.Annotation, p projection, colors OverlayColors) {
	if r, ok := a.AsRect(); ok && r.Compound() {
		box := p.rect(r.Box)
		drawDashedRect(dst, box, selectionDash, selectionGap, selectionWidth, colors.Selection)
		for _, h := range corners(box) {
			drawHandle(dst, h, handleSize, handleBorder, colors.Selection, colors.HandleBorder)
		}
		if r.Label != nil {
			lb := p.rect(c.geom.TextBounds(*r.Label))
			drawDashedRect(dst, lb, selectionDash, selectionGap, selectionWidth, colors.Label)
			for _, h := range corners(lb) {
				drawHandle(dst, h, handleSize, handleBorder, colors.Label, colors.HandleBorder)
			}
		}
		return
	}
	b, ok := c.geom.BoundsOf(a)
	if !ok {
		return
	}
	box := p.rect(b)
	drawDashedRect(dst, box, selectionDash, selectionGap, selectionWidth, colors.Selection)
	mid := image.Pt((box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2)
	handles := append(corners(box),
		image.Pt(mid.X, box.Min.Y),
		image.Pt(mid.X, box.Max.Y),
		image.Pt(box.Min.X, mid.Y),
		image.Pt(box.Max.X, mid.Y),
	)
	for _, h := range handles {
		drawHandle(dst, h, handleSize, handleBorder, colors.Selection, colors.HandleBorder)
	}
}

func corners(r image.Rectangle) []image.Point {
	return []image.Point{r.Min, image.Pt(r.Max.X, r.Min.Y), image.Pt(r.Min.X, r.Max.Y), r.Max}
}
