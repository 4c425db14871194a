package render

import (
	"image"
)

// haloGain hardens the blurred mask so the halo reads as a solid outline
// rather than a soft glow.
const haloGain = 4

// haloMask spreads the coverage of glyphs by radius pixels. The result has the
// same bounds as glyphs.
func haloMask(glyphs *image.Alpha, radius int) *image.Alpha {
	out := blurAlpha(glyphs, radius)
	for i, a := range out.Pix {
		v := int(a) * haloGain
		if v > 255 {
			v = 255
		}
		out.Pix[i] = uint8(v)
	}
	return out
}

// blurAlpha applies a separable box blur of the given radius.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	bounds := src.Bounds()
	if radius <= 0 {
		out := image.NewAlpha(bounds)
		copy(out.Pix, src.Pix)
		return out
	}
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewAlpha(bounds)
	dst := image.NewAlpha(bounds)

	prefix := make([]int, w+1)
	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp.Pix[tmpStart+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	prefix = make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
