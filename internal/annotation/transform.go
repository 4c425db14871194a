package annotation

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// MinResize is the smallest width and height a resize can produce.
const MinResize = 10

// Move translates a by the drag delta. For compound rectangles a part other
// than PartWhole moves only that part and re-anchors the leader line.
func (g Geometry) Move(a Annotation, start, current r2.Point, part Part) Annotation {
	d := current.Sub(start)
	out := a.Clone()
	switch s := out.Shape.(type) {
	case Pen:
		for i := range s.Points {
			s.Points[i] = s.Points[i].Add(d)
		}
		out.Shape = s
	case Text:
		s.Block = s.Block.translate(d)
		out.Shape = s
	case Rect:
		if !s.Compound() || part == PartWhole {
			s.Box = s.Box.Translate(d)
			if s.Leader != nil {
				l := s.Leader.translate(d)
				s.Leader = &l
			}
			if s.Label != nil {
				t := s.Label.translate(d)
				s.Label = &t
			}
			out.Shape = s
			break
		}
		switch part {
		case PartRect:
			s.Box = s.Box.Normalize().Translate(d)
		case PartLabel:
			if s.Label == nil {
				return out
			}
			t := s.Label.translate(d)
			s.Label = &t
		}
		out.Shape = g.Reanchor(s)
	}
	return out
}

// ResizeBox applies a handle drag to orig. The moving edge is clamped so
// neither dimension drops below MinResize; the opposite edge stays put.
func ResizeBox(orig Bounds, h Handle, start, current r2.Point) (Bounds, bool) {
	d := current.Sub(start)
	left, top := orig.X, orig.Y
	right, bottom := orig.X+orig.Width, orig.Y+orig.Height
	switch h {
	case HandleTopLeft:
		left, top = left+d.X, top+d.Y
	case HandleTopRight:
		right, top = right+d.X, top+d.Y
	case HandleBottomLeft:
		left, bottom = left+d.X, bottom+d.Y
	case HandleBottomRight:
		right, bottom = right+d.X, bottom+d.Y
	case HandleTop:
		top += d.Y
	case HandleBottom:
		bottom += d.Y
	case HandleLeft:
		left += d.X
	case HandleRight:
		right += d.X
	default:
		return orig, false
	}
	if right-left < MinResize {
		if movesLeft(h) {
			left = right - MinResize
		} else {
			right = left + MinResize
		}
	}
	if bottom-top < MinResize {
		if movesTop(h) {
			top = bottom - MinResize
		} else {
			bottom = top + MinResize
		}
	}
	return Bounds{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

func movesLeft(h Handle) bool {
	return h == HandleTopLeft || h == HandleBottomLeft || h == HandleLeft
}

func movesTop(h Handle) bool {
	return h == HandleTopLeft || h == HandleTopRight || h == HandleTop
}

// Resize applies a handle drag to a. orig is the box the handle belongs to,
// as returned by PartBounds when the drag started. The input is not
// modified; an unknown handle returns an unchanged copy.
func (g Geometry) Resize(a Annotation, h Handle, start, current r2.Point, orig Bounds, part Part) Annotation {
	out := a.Clone()
	nb, ok := ResizeBox(orig, h, start, current)
	if !ok {
		return out
	}
	switch s := out.Shape.(type) {
	case Pen:
		sx, sy := ratio(nb.Width, orig.Width), ratio(nb.Height, orig.Height)
		for i, p := range s.Points {
			s.Points[i] = r2.Point{
				X: nb.X + (p.X-orig.X)*sx,
				Y: nb.Y + (p.Y-orig.Y)*sy,
			}
		}
		out.Shape = s
		out.LineWidth *= math.Min(sx, sy)
	case Text:
		s.Block = resizeText(s.Block, nb)
		out.Shape = s
	case Rect:
		if !s.Compound() {
			s.Box = nb
			out.Shape = s
			break
		}
		switch part {
		case PartWhole, PartRect:
			s.Box = nb
		case PartLabel:
			if s.Label == nil {
				return out
			}
			t := g.resizeLabel(*s.Label, nb, ratio(nb.Height, orig.Height))
			s.Label = &t
		}
		out.Shape = g.Reanchor(s)
	}
	return out
}

func ratio(n, o float64) float64 {
	if o == 0 {
		return 1
	}
	return n / o
}

// resizeText fits a free-standing text block into nb by deriving a new font
// size from the box height.
func resizeText(t TextBlock, nb Bounds) TextBlock {
	if t.Vertical {
		columns := strings.Split(t.Content, "\n")
		if n := maxRunes(columns); n > 0 {
			t.FontSize = nb.Height / (float64(n) * charHeightFactor)
		}
		t.X = nb.X + nb.Width - t.FontSize*columnWidthFactor/2
		t.Y = nb.Y + t.FontSize
		return t
	}
	lines := strings.Split(t.Content, "\n")
	t.FontSize = nb.Height / (float64(len(lines)) * lineHeightFactor)
	t.X = nb.X
	t.Y = nb.Y + t.FontSize
	return t
}

// resizeLabel scales a label's font by scale and moves its box to the
// top-left of nb.
func (g Geometry) resizeLabel(t TextBlock, nb Bounds, scale float64) TextBlock {
	t.FontSize *= scale
	t.Y = nb.Y + t.FontSize
	if t.Vertical {
		b := g.TextBounds(TextBlock{Content: t.Content, FontSize: t.FontSize, Vertical: true})
		colWidth := t.FontSize * columnWidthFactor
		t.X = nb.X + b.Width - colWidth/2
		return t
	}
	t.X = nb.X
	return t
}
