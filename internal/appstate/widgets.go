package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
// It delegates all interface methods to the wrapped Button while
// caching the result of Draw for each state.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// labelButton is a flat button with a text label, styled by the theme.
type labelButton struct {
	label  string
	rect   image.Rectangle
	theme  *theme.Theme
	action func()
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	c := b.theme.ButtonBackground
	switch state {
	case StateHover:
		c = b.theme.ButtonBackgroundHover
	case StatePressed:
		c = b.theme.ButtonBackgroundPress
	}
	draw.Draw(dst, b.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	outline(dst, b.rect, b.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(b.theme.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+10)/2)}
	d.DrawString(b.label)
}

func (b *labelButton) Rect() image.Rectangle { return b.rect }

func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *labelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// ToolButton selects an editor tool.
type ToolButton struct {
	labelButton
	tool editor.Tool
}

// Shortcut is a clickable hint in the status bar.
type Shortcut struct {
	labelButton
}

var toolLabels = []struct {
	label string
	tool  editor.Tool
	key   rune
}{
	{"V:Select", editor.ToolSelect, 'v'},
	{"R:Rect", editor.ToolRect, 'r'},
	{"P:Pen", editor.ToolPen, 'p'},
	{"T:Text", editor.ToolText, 't'},
	{"C:Crop", editor.ToolCrop, 'c'},
	{"H:Hand", editor.ToolHand, 'h'},
}

// toolForRune maps an unmodified key press to a tool.
func toolForRune(r rune) (editor.Tool, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for _, tl := range toolLabels {
		if tl.key == r {
			return tl.tool, true
		}
	}
	return 0, false
}

func textWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func drawLabel(dst *image.RGBA, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func outline(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
