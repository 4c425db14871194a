package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/render"
	"github.com/example/proofmark/internal/theme"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestSession(t *testing.T) (*session, *clock) {
	t.Helper()
	fonts, err := render.NewFontMeasurer()
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}
	page := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(page, page.Bounds(), &image.Uniform{color.RGBA{10, 20, 30, 255}}, image.Point{}, draw.Src)
	n := 0
	ed := editor.New(200, 100,
		editor.WithMeasurer(fonts),
		editor.WithIDGenerator(func() string { n++; return fmt.Sprintf("id%d", n) }),
	)
	s := newSession(ed, page, render.New(fonts), theme.Default())
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = c.now
	return s, c
}

// canvasPt returns the window position of document point (x, y).
func canvasPt(s *session, x, y float64) (float32, float32) {
	o := s.ed.Viewport().Origin
	return float32(o.X + x), float32(o.Y + y)
}

func mouseAt(s *session, x, y float64, dir mouse.Direction) mouse.Event {
	px, py := canvasPt(s, x, y)
	return mouse.Event{X: px, Y: py, Button: mouse.ButtonLeft, Direction: dir}
}

func click(s *session, r image.Rectangle) {
	c := r.Min.Add(r.Size().Div(2))
	s.handleMouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	s.handleMouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func keyPress(code key.Code, r rune, mods key.Modifiers) key.Event {
	return key.Event{Code: code, Rune: r, Modifiers: mods, Direction: key.DirPress}
}

func TestLayoutFitsPage(t *testing.T) {
	s, _ := newTestSession(t)
	if s.width != s.toolbarWidth+2*canvasMargin+200 || s.height != bottomHeight+2*canvasMargin+100 {
		t.Fatalf("window %dx%d for toolbar %d", s.width, s.height, s.toolbarWidth)
	}
	for _, cb := range s.tools {
		if cb.Rect().Max.X > s.toolbarWidth {
			t.Errorf("tool button %v wider than toolbar", cb.Rect())
		}
	}
	if len(s.paletteRects) != len(editor.Colors) || len(s.widthRects) != len(editor.LineWidths) {
		t.Fatalf("palette %d widths %d", len(s.paletteRects), len(s.widthRects))
	}
}

func TestToolbarControlsEditor(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, s.tools[1].Rect())
	if s.ed.Tool() != editor.ToolRect {
		t.Errorf("tool = %v, want rect", s.ed.Tool())
	}
	click(s, s.paletteRects[2])
	if s.ed.Color() != editor.Colors[2] {
		t.Errorf("color = %q", s.ed.Color())
	}
	click(s, s.widthRects[1])
	if s.ed.LineWidth() != editor.LineWidths[1] {
		t.Errorf("line width = %v", s.ed.LineWidth())
	}
	click(s, s.toggles[0].Rect())
	if !s.ed.LeaderMode() {
		t.Error("leader toggle did not switch leader mode on")
	}
}

func TestMouseDrawsRect(t *testing.T) {
	s, _ := newTestSession(t)
	s.ed.SetTool(editor.ToolRect)
	s.handleMouse(mouseAt(s, 10, 10, mouse.DirPress))
	s.handleMouse(mouseAt(s, 60, 50, mouse.DirNone))
	s.handleMouse(mouseAt(s, 60, 50, mouse.DirRelease))

	anns := s.ed.Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	r, ok := anns[0].Shape.(annotation.Rect)
	if !ok {
		t.Fatalf("shape = %T", anns[0].Shape)
	}
	if want := (annotation.Bounds{X: 10, Y: 10, Width: 50, Height: 40}); r.Box != want {
		t.Errorf("box = %+v, want %+v", r.Box, want)
	}
}

func TestHoverWithoutButtonDoesNotDraw(t *testing.T) {
	s, _ := newTestSession(t)
	s.ed.SetTool(editor.ToolPen)
	s.handleMouse(mouseAt(s, 10, 10, mouse.DirNone))
	s.handleMouse(mouseAt(s, 40, 40, mouse.DirNone))
	if s.ed.Phase() != editor.PhaseIdle || s.ed.HistoryLen() != 0 {
		t.Fatalf("phase %v history %d after hover", s.ed.Phase(), s.ed.HistoryLen())
	}
}

func TestTypingAndDoubleClick(t *testing.T) {
	s, c := newTestSession(t)
	s.handleKey(keyPress(key.CodeT, 't', 0))
	s.handleMouse(mouseAt(s, 20, 20, mouse.DirPress))
	s.handleMouse(mouseAt(s, 20, 20, mouse.DirRelease))
	if _, ok := s.ed.Prompt(); !ok {
		t.Fatal("text tool did not open a prompt")
	}
	// Tool letters go to the prompt while it is open.
	for _, r := range "rv" {
		s.handleKey(keyPress(key.CodeUnknown, r, 0))
	}
	s.handleKey(keyPress(key.CodeReturnEnter, -1, 0))
	anns := s.ed.Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	if got := anns[0].Shape.(annotation.Text).Block.Content; got != "rv" {
		t.Errorf("content = %q", got)
	}

	s.handleKey(keyPress(key.CodeV, 'v', 0))
	b, _ := s.ed.Geometry().BoundsOf(anns[0])
	cx, cy := b.X+b.Width/2, b.Y+b.Height/2
	for i := 0; i < 2; i++ {
		s.handleMouse(mouseAt(s, cx, cy, mouse.DirPress))
		s.handleMouse(mouseAt(s, cx, cy, mouse.DirRelease))
		c.t = c.t.Add(100 * time.Millisecond)
	}
	p, ok := s.ed.Prompt()
	if !ok || p.Kind != editor.PromptEditText || p.Text != "rv" {
		t.Fatalf("prompt after double click = %+v, %v", p, ok)
	}
}

func TestSlowClicksAreNotDoubleClick(t *testing.T) {
	s, c := newTestSession(t)
	s.ed.SetTool(editor.ToolSelect)
	for i := 0; i < 2; i++ {
		s.handleMouse(mouseAt(s, 50, 50, mouse.DirPress))
		s.handleMouse(mouseAt(s, 50, 50, mouse.DirRelease))
		c.t = c.t.Add(time.Second)
	}
	if s.double {
		t.Fatal("clicks a second apart treated as a double click")
	}
}

func TestKeyShortcuts(t *testing.T) {
	s, _ := newTestSession(t)
	if repaint, _ := s.handleKey(keyPress(key.CodeP, 'P', 0)); !repaint || s.ed.Tool() != editor.ToolPen {
		t.Errorf("P selected %v", s.ed.Tool())
	}
	s.handleKey(keyPress(key.CodeRightSquareBracket, ']', 0))
	if s.ed.LineWidth() != editor.LineWidths[1] {
		t.Errorf("] gave line width %v", s.ed.LineWidth())
	}
	s.handleKey(keyPress(key.CodeEqualSign, '=', key.ModControl))
	if s.ed.ZoomPercent() != 125 {
		t.Errorf("zoom = %d%%", s.ed.ZoomPercent())
	}
	if _, quit := s.handleKey(keyPress(key.CodeEscape, -1, 0)); !quit {
		t.Error("Escape did not close the window")
	}
}

func TestWheel(t *testing.T) {
	s, _ := newTestSession(t)
	ev := mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep, Modifiers: key.ModControl}
	if !s.handleMouse(ev) || s.ed.ZoomPercent() != 125 {
		t.Fatalf("ctrl+wheel zoom = %d%%", s.ed.ZoomPercent())
	}
	// The window was sized for zoom 100%, so the zoomed canvas can scroll.
	s.handleMouse(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if got := s.ed.Viewport().Scroll.Y; got != 25 {
		t.Errorf("scroll = %v, want clamp at 25", got)
	}
}

func TestSaveWritesExport(t *testing.T) {
	s, _ := newTestSession(t)
	s.output = filepath.Join(t.TempDir(), "proof.png")
	s.ed.SetTool(editor.ToolCrop)
	s.handleMouse(mouseAt(s, 0, 0, mouse.DirPress))
	s.handleMouse(mouseAt(s, 40, 30, mouse.DirNone))
	s.handleMouse(mouseAt(s, 40, 30, mouse.DirRelease))

	s.handleKey(keyPress(key.CodeS, 's', key.ModControl))
	f, err := os.Open(s.output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("exported %dx%d, want the 40x30 crop", cfg.Width, cfg.Height)
	}
	if s.message == "" {
		t.Error("no status message after save")
	}
}

func TestPaintFrame(t *testing.T) {
	s, _ := newTestSession(t)
	s.ed.SetTool(editor.ToolRect)
	frame := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.paint(frame)

	if got := frame.RGBAAt(s.width-2, s.height-2); got != s.theme.StatusBackground {
		t.Errorf("status bar pixel = %v", got)
	}
	px, py := canvasPt(s, 150, 80)
	if got := frame.RGBAAt(int(px), int(py)); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("canvas pixel = %v", got)
	}
	r := s.tools[1].Rect()
	if got := frame.RGBAAt(r.Min.X+1, r.Min.Y+1); got != s.theme.ButtonBackgroundPress {
		t.Errorf("active tool button = %v", got)
	}
	if len(s.shortcuts) == 0 {
		t.Error("no status bar shortcuts laid out")
	}
}
