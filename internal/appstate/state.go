// Package appstate hosts an editing session in a desktop window.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/notify"
	"github.com/example/proofmark/internal/render"
	"github.com/example/proofmark/internal/theme"
	"github.com/example/proofmark/internal/viewport"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// AppState holds application configuration for the UI.
type AppState struct {
	Image    *image.RGBA
	Output   string
	Theme    *theme.Theme
	Notifier *notify.Notifier

	editorOpts   []editor.Option
	viewportOpts []viewport.Option

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the page being annotated.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the output file path used when saving annotations.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the window and overlay colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets where export and copy notifications go.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithEditorOptions passes session defaults through to the editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(a *AppState) { a.editorOpts = append(a.editorOpts, opts...) }
}

// WithViewportOptions configures the display fit of the page.
func WithViewportOptions(opts ...viewport.Option) Option {
	return func(a *AppState) { a.viewportOpts = append(a.viewportOpts, opts...) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{Theme: theme.Default()}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// newSession builds the editor and compositor for the configured page.
func (a *AppState) newSession() (*session, error) {
	fonts, err := render.NewFontMeasurer()
	if err != nil {
		return nil, err
	}
	b := a.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	view := viewport.New(w, h, a.viewportOpts...)
	opts := append([]editor.Option{editor.WithViewport(view), editor.WithMeasurer(fonts)}, a.editorOpts...)
	ed := editor.New(w, h, opts...)

	s := newSession(ed, a.Image, render.New(fonts), a.Theme)
	s.output = a.Output
	s.notifier = a.Notifier
	return s, nil
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	sess, err := a.newSession()
	if err != nil {
		log.Printf("editor: %v", err)
		return
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: sess.width, Height: sess.height, Title: "Proofmark"})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	// Frames are painted off the event loop. A newer frame cancels one
	// still in progress.
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	paintCh := make(chan *image.RGBA, 1)
	go func() {
		for frame := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			publish(ctx, s, w, frame)
			paintMu.Lock()
			paintCancel = nil
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	requestPaint := func() {
		frame := image.NewRGBA(image.Rect(0, 0, sess.width, sess.height))
		sess.paint(frame)
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
		select {
		case <-paintCh:
		default:
		}
		paintCh <- frame
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			if e.WidthPx > 0 && e.HeightPx > 0 {
				sess.resize(e.WidthPx, e.HeightPx)
			}
		case paint.Event:
			requestPaint()
		case mouse.Event:
			if sess.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			repaint, quit := sess.handleKey(e)
			if quit {
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func publish(ctx context.Context, s screen.Screen, w screen.Window, frame *image.RGBA) {
	b, err := s.NewBuffer(frame.Bounds().Size())
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	if ctx.Err() != nil {
		return
	}
	copy(b.RGBA().Pix, frame.Pix)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
