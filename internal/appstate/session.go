package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"
	"time"

	"github.com/example/proofmark/internal/clipboard"
	"github.com/example/proofmark/internal/docimage"
	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/notify"
	"github.com/example/proofmark/internal/render"
	"github.com/example/proofmark/internal/theme"
	"github.com/golang/geo/r2"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

const (
	bottomHeight  = 24
	canvasMargin  = 8
	buttonHeight  = 24
	swatchSize    = 16
	widthRowH     = 16
	checkerSize   = 8
	messageTime   = 2 * time.Second
	doubleClick   = 400 * time.Millisecond
	doubleClickPx = 4
	wheelStep     = 40
)

// session owns one editor window's state. It is driven by window events and
// paints complete frames; it never touches the screen itself.
type session struct {
	ed       *editor.Editor
	src      *image.RGBA
	comp     *render.Compositor
	theme    *theme.Theme
	output   string
	notifier *notify.Notifier
	now      func() time.Time

	width, height int
	toolbarWidth  int

	tools        []*CacheButton
	toggles      []*CacheButton
	shortcuts    []*Shortcut
	paletteRects []image.Rectangle
	widthRects   []image.Rectangle
	hover        image.Point

	pressed     bool
	lastPress   time.Time
	lastPressAt image.Point
	double      bool

	message      string
	messageUntil time.Time
}

func newSession(ed *editor.Editor, src *image.RGBA, comp *render.Compositor, th *theme.Theme) *session {
	s := &session{ed: ed, src: src, comp: comp, theme: th, now: time.Now, hover: image.Pt(-1, -1)}
	s.toolbarWidth = textWidth("Vertical") + 16
	for _, tl := range toolLabels {
		if w := textWidth(tl.label) + 8; w > s.toolbarWidth {
			s.toolbarWidth = w
		}
	}
	for _, tl := range toolLabels {
		tool := tl.tool
		tb := &ToolButton{labelButton: labelButton{label: tl.label, theme: th}, tool: tool}
		tb.action = func() { s.ed.SetTool(tool) }
		s.tools = append(s.tools, &CacheButton{Button: tb})
	}
	s.toggles = []*CacheButton{
		{Button: &labelButton{label: "Leader", theme: th, action: func() { s.ed.SetLeaderMode(!s.ed.LeaderMode()) }}},
		{Button: &labelButton{label: "Vertical", theme: th, action: func() { s.ed.SetVertical(!s.ed.Vertical()) }}},
	}
	ed.Viewport().Origin = r2.Point{X: float64(s.toolbarWidth + canvasMargin), Y: canvasMargin}
	size := ed.Viewport().CanvasSize()
	s.resize(s.toolbarWidth+2*canvasMargin+int(size.X), bottomHeight+2*canvasMargin+int(size.Y))
	return s
}

// resize lays the chrome out for a window of the given size.
func (s *session) resize(w, h int) {
	s.width, s.height = w, h
	y := 0
	for _, cb := range s.tools {
		cb.SetRect(image.Rect(0, y, s.toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}

	y += 4
	x := 4
	s.paletteRects = s.paletteRects[:0]
	for range editor.Colors {
		s.paletteRects = append(s.paletteRects, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 2
		if x+swatchSize > s.toolbarWidth {
			x = 4
			y += swatchSize + 2
		}
	}
	if x != 4 {
		y += swatchSize + 2
	}

	y += 4
	s.widthRects = s.widthRects[:0]
	for range editor.LineWidths {
		s.widthRects = append(s.widthRects, image.Rect(0, y, s.toolbarWidth, y+widthRowH))
		y += widthRowH
	}

	y += 4
	for _, cb := range s.toggles {
		cb.SetRect(image.Rect(0, y, s.toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
	s.ed.Viewport().ClampScroll(s.viewSize())
}

func (s *session) viewSize() r2.Point {
	return r2.Point{
		X: float64(s.width - s.toolbarWidth - 2*canvasMargin),
		Y: float64(s.height - bottomHeight - 2*canvasMargin),
	}
}

func (s *session) inCanvas(p image.Point) bool {
	return p.X >= s.toolbarWidth && p.Y < s.height-bottomHeight
}

func (s *session) flash(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	log.Print(s.message)
	s.messageUntil = s.now().Add(messageTime)
}

// export renders the annotated region without overlays.
func (s *session) export() *image.RGBA {
	return s.comp.Export(s.src, s.ed.Annotations(), s.ed.Region())
}

func (s *session) save() {
	if s.output == "" {
		s.flash("save: no output file configured")
		return
	}
	path, err := docimage.SavePNG(s.output, s.export())
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	s.flash("saved %s", path)
	s.notifier.Export(path)
}

func (s *session) copy() {
	img := s.export()
	if err := clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	s.flash("image copied to clipboard")
	s.notifier.Copy("", img)
}

// handleMouse applies a pointer event and reports whether a repaint is needed.
func (s *session) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	sp := r2.Point{X: float64(e.X), Y: float64(e.Y)}

	if e.Direction == mouse.DirStep {
		return s.wheel(e)
	}
	if e.Direction == mouse.DirNone {
		if s.pressed || s.ed.Phase() == editor.PhaseLeaderPending {
			s.ed.PointerMove(sp)
			s.ed.Viewport().ClampScroll(s.viewSize())
			return true
		}
		changed := p != s.hover
		s.hover = p
		return changed
	}
	if e.Button != mouse.ButtonLeft {
		return false
	}

	switch e.Direction {
	case mouse.DirPress:
		if !s.inCanvas(p) {
			return s.activateChrome(p)
		}
		now := s.now()
		s.double = now.Sub(s.lastPress) < doubleClick &&
			abs(p.X-s.lastPressAt.X) <= doubleClickPx && abs(p.Y-s.lastPressAt.Y) <= doubleClickPx
		s.lastPress, s.lastPressAt = now, p
		s.pressed = true
		s.ed.PointerDown(sp)
	case mouse.DirRelease:
		if !s.pressed {
			return false
		}
		s.pressed = false
		s.ed.PointerUp(sp)
		if s.double {
			s.double = false
			s.lastPress = time.Time{}
			s.ed.DoubleClick(sp)
		}
		s.ed.Viewport().ClampScroll(s.viewSize())
	}
	return true
}

func (s *session) wheel(e mouse.Event) bool {
	v := s.ed.Viewport()
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	switch {
	case ctrl && e.Button == mouse.ButtonWheelUp:
		v.ZoomIn()
	case ctrl && e.Button == mouse.ButtonWheelDown:
		v.ZoomOut()
	case e.Button == mouse.ButtonWheelUp:
		v.Scroll.Y -= wheelStep
	case e.Button == mouse.ButtonWheelDown:
		v.Scroll.Y += wheelStep
	case e.Button == mouse.ButtonWheelLeft:
		v.Scroll.X -= wheelStep
	case e.Button == mouse.ButtonWheelRight:
		v.Scroll.X += wheelStep
	default:
		return false
	}
	v.ClampScroll(s.viewSize())
	return true
}

func (s *session) activateChrome(p image.Point) bool {
	for _, group := range [][]*CacheButton{s.tools, s.toggles} {
		for _, cb := range group {
			if p.In(cb.Rect()) {
				cb.Activate()
				return true
			}
		}
	}
	for i, r := range s.paletteRects {
		if p.In(r) {
			s.ed.SetColor(editor.Colors[i])
			return true
		}
	}
	for i, r := range s.widthRects {
		if p.In(r) {
			s.ed.SetLineWidth(editor.LineWidths[i])
			return true
		}
	}
	for _, sc := range s.shortcuts {
		if p.In(sc.Rect()) {
			sc.Activate()
			return true
		}
	}
	return false
}

// handleKey applies a key event. It reports whether a repaint is needed and
// whether the window should close.
func (s *session) handleKey(e key.Event) (repaint, quit bool) {
	_, prompting := s.ed.Prompt()
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	if !prompting && ctrl && e.Direction != key.DirRelease {
		switch e.Code {
		case key.CodeS:
			s.save()
			return true, false
		case key.CodeC:
			s.copy()
			return true, false
		}
	}

	if s.ed.HandleKey(e) {
		s.ed.Viewport().ClampScroll(s.viewSize())
		return true, s.ed.Closed()
	}
	if prompting || ctrl || e.Direction == key.DirRelease {
		return false, false
	}
	switch e.Rune {
	case '[':
		s.ed.StepLineWidth(-1)
		return true, false
	case ']':
		s.ed.StepLineWidth(1)
		return true, false
	case 'l', 'L':
		s.ed.SetLeaderMode(!s.ed.LeaderMode())
		return true, false
	}
	if t, ok := toolForRune(e.Rune); ok {
		s.ed.SetTool(t)
		return true, false
	}
	return false, false
}

// paint draws a complete frame into dst.
func (s *session) paint(dst *image.RGBA) {
	th := s.theme
	b := dst.Bounds()
	draw.Draw(dst, b, &image.Uniform{th.Background}, image.Point{}, draw.Src)

	v := s.ed.Viewport()
	size := v.CanvasSize()
	tl := v.Origin.Sub(v.Scroll)
	canvas := image.Rect(int(tl.X), int(tl.Y), int(tl.X+size.X), int(tl.Y+size.Y))
	render.DrawCheckerboard(dst, canvas.Intersect(b), checkerSize, th.CheckerLight, th.CheckerDark)

	ov := render.Overlay{Colors: th.Overlay()}
	if d, ok := s.ed.Draft(); ok {
		ov.Draft = &d
	}
	if sel, ok := s.ed.Selected(); ok {
		ov.Selected = &sel
	}
	if c, ok := s.ed.CropSelection(); ok {
		ov.Crop = &c
	}
	s.comp.Preview(dst, s.src, s.ed.Annotations(), v, ov)
	s.drawPrompt(dst)

	s.drawToolbar(dst)
	s.drawStatus(dst)
	s.drawMessage(dst)
}

func (s *session) drawPrompt(dst *image.RGBA) {
	p, ok := s.ed.Prompt()
	if !ok {
		return
	}
	at := s.ed.Viewport().DocumentToScreen(p.At)
	lines := strings.Split(p.Text+"|", "\n")
	w := 0
	for _, l := range lines {
		w = max(w, textWidth(l))
	}
	x, y := int(at.X), int(at.Y)
	box := image.Rect(x-4, y-4, x+w+4, y+len(lines)*15+4)
	draw.Draw(dst, box, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	outline(dst, box, s.theme.Selection)
	for i, l := range lines {
		drawLabel(dst, x, y+11+i*15, l, color.Black)
	}
}

func (s *session) drawToolbar(dst *image.RGBA) {
	th := s.theme
	draw.Draw(dst, image.Rect(0, 0, s.toolbarWidth, s.height-bottomHeight),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)

	for _, cb := range s.tools {
		state := s.stateOf(cb.Rect(), cb.Button.(*ToolButton).tool == s.ed.Tool())
		cb.Draw(dst, state)
	}
	for i, r := range s.paletteRects {
		col, err := render.ParseColor(editor.Colors[i])
		if err != nil {
			continue
		}
		draw.Draw(dst, r, &image.Uniform{col}, image.Point{}, draw.Src)
		if editor.Colors[i] == s.ed.Color() {
			outline(dst, r.Inset(-1), th.ButtonText)
		} else if s.hover.In(r) {
			draw.Draw(dst, r, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
	}
	stroke, err := render.ParseColor(s.ed.Color())
	if err != nil {
		stroke = th.ButtonText
	}
	for i, r := range s.widthRects {
		w := editor.LineWidths[i]
		c := th.ButtonBackground
		if w == s.ed.LineWidth() {
			c = th.ButtonBackgroundPress
		} else if s.hover.In(r) {
			c = th.ButtonBackgroundHover
		}
		draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
		drawLabel(dst, r.Min.X+4, r.Min.Y+12, fmt.Sprintf("%g", w), th.ButtonText)
		mid := r.Min.Y + r.Dy()/2
		line := image.Rect(r.Min.X+24, mid-int(w)/2, r.Max.X-4, mid-int(w)/2+int(w))
		draw.Draw(dst, line.Intersect(r), &image.Uniform{stroke}, image.Point{}, draw.Src)
	}
	on := []bool{s.ed.LeaderMode(), s.ed.Vertical()}
	for i, cb := range s.toggles {
		cb.Draw(dst, s.stateOf(cb.Rect(), on[i]))
	}
}

func (s *session) stateOf(r image.Rectangle, active bool) ButtonState {
	switch {
	case active:
		return StatePressed
	case s.hover.In(r):
		return StateHover
	}
	return StateDefault
}

func (s *session) drawStatus(dst *image.RGBA) {
	th := s.theme
	bar := image.Rect(0, s.height-bottomHeight, s.width, s.height)
	draw.Draw(dst, bar, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)

	var hints []*Shortcut
	add := func(label string, fn func()) {
		hints = append(hints, &Shortcut{labelButton{label: label, theme: th, action: fn}})
	}
	if _, ok := s.ed.Prompt(); ok {
		add("Enter:place", s.ed.ConfirmPrompt)
		add("Esc:cancel", s.ed.CancelPrompt)
	} else {
		add("^Z:undo", func() { s.ed.Undo() })
		add("Del:delete", func() { s.ed.DeleteSelected() })
		add(fmt.Sprintf("+/-:zoom (%d%%)", s.ed.ZoomPercent()), s.ed.Viewport().ResetZoom)
		add("^C:copy", s.copy)
		add("^S:save", s.save)
	}

	x := s.toolbarWidth + 4
	y := s.height - bottomHeight + 3
	for _, sc := range hints {
		sc.SetRect(image.Rect(x, y, x+textWidth(sc.label)+8, y+bottomHeight-6))
		sc.Draw(dst, s.stateOf(sc.Rect(), false))
		x = sc.Rect().Max.X + 6
	}
	s.shortcuts = hints

	status := fmt.Sprintf("%s  history %d", s.ed.Tool(), s.ed.HistoryLen())
	if id := s.ed.SelectedID(); id != "" {
		status += "  selected " + shortID(id)
	}
	drawLabel(dst, max(x+8, s.width-textWidth(status)-8), s.height-8, status, th.Foreground)
}

func (s *session) drawMessage(dst *image.RGBA) {
	if s.message == "" || !s.now().Before(s.messageUntil) {
		return
	}
	w := textWidth(s.message)
	px := (s.width - w) / 2
	py := s.height / 2
	rect := image.Rect(px-8, py-18, px+w+8, py+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	outline(dst, rect, color.Black)
	drawLabel(dst, px, py, s.message, color.Black)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
