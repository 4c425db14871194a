// Package editor sequences pointer and keyboard input into edits on a single
// page's annotations. An Editor owns the history, the selection, the current
// tool and the viewport for one session.
package editor

import (
	"fmt"
	"strings"

	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/history"
	"github.com/example/proofmark/internal/viewport"
	"github.com/golang/geo/r2"
	"github.com/google/uuid"
)

// Tool selects what a pointer-down does.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolPen
	ToolText
	ToolCrop
	ToolHand
)

var toolNames = []string{"select", "rect", "pen", "text", "crop", "hand"}

func (t Tool) String() string {
	if int(t) < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool resolves a tool by name.
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if strings.EqualFold(n, name) {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", name)
}

// Phase is the state of the current gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
	PhaseLeaderPending
	PhaseMoving
	PhaseResizing
	PhasePanning
)

func (p Phase) String() string {
	switch p {
	case PhaseDrawing:
		return "drawing"
	case PhaseLeaderPending:
		return "leader"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	case PhasePanning:
		return "panning"
	}
	return "idle"
}

// Stroke width presets offered by the host.
var LineWidths = []float64{4, 6, 8}

// Colors is the default palette.
var Colors = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff", "#ffffff", "#000000"}

const (
	DefaultFontSize = 24
	// LeaderThreshold is the length a leader line must exceed to get a label.
	LeaderThreshold = 10
	labelGapFactor  = 1.2
)

// Editor is one editing session.
type Editor struct {
	geom  annotation.Geometry
	hist  *history.History
	view  *viewport.Viewport
	newID func() string

	tool       Tool
	color      string
	lineWidth  float64
	fontSize   float64
	leaderMode bool
	vertical   bool

	selected string
	phase    Phase
	closed   bool
	space    bool

	// drawing
	draft     *annotation.Annotation
	cropDraft *annotation.Bounds

	// leader capture
	pendingRect *annotation.Annotation

	// move and resize
	dragStart  r2.Point
	original   annotation.Annotation
	origBounds annotation.Bounds
	handle     annotation.Handle
	part       annotation.Part

	prompt *Prompt
}

// Option configures an Editor.
type Option func(*Editor)

// WithMeasurer sets the text measurement used for label and text bounds.
func WithMeasurer(m annotation.Measurer) Option {
	return func(e *Editor) { e.geom = annotation.NewGeometry(m) }
}

// WithIDGenerator replaces the random annotation id source.
func WithIDGenerator(fn func() string) Option { return func(e *Editor) { e.newID = fn } }

// WithViewport supplies a preconfigured viewport.
func WithViewport(v *viewport.Viewport) Option { return func(e *Editor) { e.view = v } }

// WithColor sets the initial stroke colour.
func WithColor(c string) Option { return func(e *Editor) { e.color = c } }

// WithLineWidth sets the initial UI stroke width.
func WithLineWidth(w float64) Option { return func(e *Editor) { e.lineWidth = w } }

// WithFontSize sets the UI font size for new text and labels.
func WithFontSize(s float64) Option { return func(e *Editor) { e.fontSize = s } }

// WithLeaderMode enables callout drawing for the rectangle tool.
func WithLeaderMode(on bool) Option { return func(e *Editor) { e.leaderMode = on } }

// WithVertical makes new text use vertical layout.
func WithVertical(on bool) Option { return func(e *Editor) { e.vertical = on } }

// New starts a session on a page of the given size.
func New(pageW, pageH float64, opts ...Option) *Editor {
	e := &Editor{
		hist:      history.New(),
		newID:     uuid.NewString,
		color:     Colors[0],
		lineWidth: LineWidths[0],
		fontSize:  DefaultFontSize,
	}
	for _, o := range opts {
		o(e)
	}
	if e.view == nil {
		e.view = viewport.New(pageW, pageH)
	}
	if e.lineWidth <= 0 {
		e.lineWidth = LineWidths[0]
	}
	if e.fontSize <= 0 {
		e.fontSize = DefaultFontSize
	}
	return e
}

// Geometry returns the geometry helper the editor measures with.
func (e *Editor) Geometry() annotation.Geometry { return e.geom }

// Viewport returns the editor's coordinate mapper.
func (e *Editor) Viewport() *viewport.Viewport { return e.view }

// History returns the editor's log.
func (e *Editor) History() *history.History { return e.hist }

func (e *Editor) Tool() Tool         { return e.tool }
func (e *Editor) Phase() Phase       { return e.phase }
func (e *Editor) Color() string      { return e.color }
func (e *Editor) LineWidth() float64 { return e.lineWidth }
func (e *Editor) LeaderMode() bool   { return e.leaderMode }
func (e *Editor) Vertical() bool     { return e.vertical }

// Closed reports whether the user asked to leave the editor.
func (e *Editor) Closed() bool { return e.closed }

// SelectedID returns the id of the selected annotation or "".
func (e *Editor) SelectedID() string { return e.selected }

// Selected returns the live value of the selected annotation.
func (e *Editor) Selected() (annotation.Annotation, bool) {
	if e.selected == "" {
		return annotation.Annotation{}, false
	}
	return e.hist.Find(e.selected)
}

// HistoryLen returns the number of undoable steps.
func (e *Editor) HistoryLen() int { return e.hist.Len() }

// ZoomPercent returns the user zoom for display.
func (e *Editor) ZoomPercent() int { return e.view.ZoomPercent() }

// Annotations returns the current annotation set in draw order.
func (e *Editor) Annotations() []annotation.Annotation { return e.hist.Annotations() }

// ActiveCrop returns the most recent crop.
func (e *Editor) ActiveCrop() (annotation.Bounds, bool) { return e.hist.ActiveCrop() }

// Region returns the part of the page being displayed and exported.
func (e *Editor) Region() annotation.Bounds { return e.view.Region() }

// Draft returns the annotation being drawn, including a rectangle waiting for
// its leader line.
func (e *Editor) Draft() (annotation.Annotation, bool) {
	switch {
	case e.draft != nil:
		return *e.draft, true
	case e.pendingRect != nil:
		return *e.pendingRect, true
	case e.prompt != nil && e.prompt.Kind == PromptLabel:
		return e.prompt.target, true
	}
	return annotation.Annotation{}, false
}

// CropSelection returns the crop rectangle being dragged.
func (e *Editor) CropSelection() (annotation.Bounds, bool) {
	if e.cropDraft == nil {
		return annotation.Bounds{}, false
	}
	return e.cropDraft.Normalize(), true
}

// SetTool switches tools. Any unfinished drawing is dropped and choosing the
// select tool clears the selection.
func (e *Editor) SetTool(t Tool) {
	e.finishGesture()
	e.tool = t
	if t == ToolSelect {
		e.selected = ""
	}
}

func (e *Editor) SetColor(c string) { e.color = c }

// SetLineWidth sets the UI stroke width used for new shapes.
func (e *Editor) SetLineWidth(w float64) {
	if w > 0 {
		e.lineWidth = w
	}
}

// StepLineWidth moves to the next larger (dir > 0) or smaller preset.
func (e *Editor) StepLineWidth(dir int) {
	idx := -1
	for i, w := range LineWidths {
		if w == e.lineWidth {
			idx = i
		}
	}
	if idx < 0 {
		e.lineWidth = LineWidths[0]
		return
	}
	idx += dir
	if idx >= 0 && idx < len(LineWidths) {
		e.lineWidth = LineWidths[idx]
	}
}

func (e *Editor) SetLeaderMode(on bool) { e.leaderMode = on }

// SetVertical sets the layout for new text and for an open prompt.
func (e *Editor) SetVertical(on bool) {
	e.vertical = on
	if e.prompt != nil {
		e.prompt.Vertical = on
	}
}

// Undo drops the last history entry.
func (e *Editor) Undo() bool {
	e.finishGesture()
	if !e.hist.Undo() {
		return false
	}
	if _, ok := e.hist.Find(e.selected); !ok {
		e.selected = ""
	}
	e.syncRegion()
	return true
}

// DeleteSelected removes the selected annotation.
func (e *Editor) DeleteSelected() bool {
	if e.selected == "" || e.prompt != nil {
		return false
	}
	ok := e.hist.RemoveByID(e.selected)
	e.selected = ""
	return ok
}

// Close marks the session finished.
func (e *Editor) Close() { e.closed = true }

// syncRegion points the viewport at the active crop, or the whole page.
func (e *Editor) syncRegion() {
	region := e.view.Page()
	if crop, ok := e.hist.ActiveCrop(); ok {
		region = crop
	}
	if region != e.view.Region() {
		e.view.SetRegion(region)
	}
}

func (e *Editor) strokeWidth() float64 { return e.view.AdjustSize(e.lineWidth) }
func (e *Editor) textSize() float64    { return e.view.AdjustSize(e.fontSize) }
