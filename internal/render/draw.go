package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// drawLine draws a Bresenham line with a square brush of the given width.
func drawLine(img *image.RGBA, p0, p1 image.Point, col color.Color, thick int) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawPolyline(img *image.RGBA, pts []image.Point, col color.Color, thick int) {
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], col, thick)
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	tl := rect.Min
	tr := image.Pt(rect.Max.X, rect.Min.Y)
	br := rect.Max
	bl := image.Pt(rect.Min.X, rect.Max.Y)
	drawPolyline(img, []image.Point{tl, tr, br, bl, tl}, col, thick)
}

// drawDashedLine draws an axis-aligned dashed line, alternating dash pixels of
// col with gap pixels left untouched.
func drawDashedLine(img *image.RGBA, p0, p1 image.Point, dash, gap, thickness int, col color.Color) {
	horiz := p0.Y == p1.Y
	length := p1.X - p0.X
	if !horiz {
		length = p1.Y - p0.Y
	}
	dir := 1
	if length < 0 {
		length = -length
		dir = -1
	}
	period := dash + gap
	if period <= 0 {
		period, dash = 1, 1
	}
	for i := 0; i <= length; i++ {
		if i%period >= dash {
			continue
		}
		for t := 0; t < thickness; t++ {
			var p image.Point
			if horiz {
				p = image.Pt(p0.X+dir*i, p0.Y+t)
			} else {
				p = image.Pt(p0.X+t, p0.Y+dir*i)
			}
			if p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, gap, thickness int, col color.Color) {
	drawDashedLine(img, rect.Min, image.Pt(rect.Max.X, rect.Min.Y), dash, gap, thickness, col)
	drawDashedLine(img, image.Pt(rect.Max.X, rect.Min.Y), rect.Max, dash, gap, thickness, col)
	drawDashedLine(img, rect.Max, image.Pt(rect.Min.X, rect.Max.Y), dash, gap, thickness, col)
	drawDashedLine(img, image.Pt(rect.Min.X, rect.Max.Y), rect.Min, dash, gap, thickness, col)
}

// fillRect blends col over rect.
func fillRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// drawHandle draws a square grab handle centred on c with a border.
func drawHandle(img *image.RGBA, c image.Point, size, border int, fill, edge color.Color) {
	h := size / 2
	inner := image.Rect(c.X-h, c.Y-h, c.X-h+size, c.Y-h+size)
	fillRect(img, inner.Inset(-border), edge)
	fillRect(img, inner, fill)
}

// dimOutside darkens the part of area that lies outside keep.
func dimOutside(img *image.RGBA, area, keep image.Rectangle, col color.Color) {
	keep = keep.Intersect(area)
	if keep.Empty() {
		fillRect(img, area, col)
		return
	}
	fillRect(img, image.Rect(area.Min.X, area.Min.Y, area.Max.X, keep.Min.Y), col)
	fillRect(img, image.Rect(area.Min.X, keep.Min.Y, keep.Min.X, keep.Max.Y), col)
	fillRect(img, image.Rect(keep.Max.X, keep.Min.Y, area.Max.X, keep.Max.Y), col)
	fillRect(img, image.Rect(area.Min.X, keep.Max.Y, area.Max.X, area.Max.Y), col)
}

// DrawCheckerboard fills rect of dst with a checkerboard of the given colours.
func DrawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
