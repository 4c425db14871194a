package editor

import (
	"strings"

	"github.com/example/proofmark/internal/annotation"
	"github.com/golang/geo/r2"
)

// PromptKind says what confirming a prompt will do.
type PromptKind int

const (
	// PromptText creates a free-standing text annotation.
	PromptText PromptKind = iota
	// PromptEditText rewrites an existing text annotation.
	PromptEditText
	// PromptLabel attaches a label to a rectangle and leader just drawn.
	PromptLabel
	// PromptEditLabel rewrites the label of a callout.
	PromptEditLabel
)

// Prompt is an open inline text entry.
type Prompt struct {
	Kind PromptKind
	// At is the document position the prompt is shown at.
	At       r2.Point
	Text     string
	Vertical bool
	TargetID string

	target annotation.Annotation
}

// Prompt returns the open prompt, if any.
func (e *Editor) Prompt() (Prompt, bool) {
	if e.prompt == nil {
		return Prompt{}, false
	}
	return *e.prompt, true
}

// SetPromptText replaces the prompt's content.
func (e *Editor) SetPromptText(s string) {
	if e.prompt != nil {
		e.prompt.Text = s
	}
}

func (e *Editor) openPrompt(p *Prompt) {
	e.finishGesture()
	e.prompt = p
}

// ConfirmPrompt applies the prompt. Blank text leaves existing annotations
// unchanged and creates nothing, except that a new callout is still kept
// without its label.
func (e *Editor) ConfirmPrompt() {
	p := e.prompt
	if p == nil {
		return
	}
	e.prompt = nil
	content := strings.TrimSpace(p.Text)

	switch p.Kind {
	case PromptText:
		if content == "" {
			return
		}
		e.commitNew(annotation.Annotation{
			ID:        e.newID(),
			Color:     e.color,
			LineWidth: e.strokeWidth(),
			Shape: annotation.Text{Block: annotation.TextBlock{
				X:        p.At.X,
				Y:        p.At.Y,
				Content:  content,
				FontSize: e.textSize(),
				Vertical: p.Vertical,
			}},
		})
	case PromptEditText:
		if content == "" {
			return
		}
		cur, ok := e.hist.Find(p.TargetID)
		if !ok {
			return
		}
		t, ok := cur.Shape.(annotation.Text)
		if !ok {
			return
		}
		t.Block.Content = content
		t.Block.Vertical = p.Vertical
		cur.Shape = t
		if e.hist.Replace(p.TargetID, cur) {
			e.selected = p.TargetID
		}
	case PromptLabel:
		a := p.target
		r, ok := a.AsRect()
		if !ok || r.Leader == nil {
			return
		}
		if content != "" {
			fs := e.textSize()
			r.Label = &annotation.TextBlock{
				X:        r.Leader.EndX,
				Y:        r.Leader.EndY + fs*labelGapFactor,
				Content:  content,
				FontSize: fs,
				Vertical: p.Vertical,
			}
		}
		a.Shape = e.geom.Reanchor(r)
		e.commitNew(a)
	case PromptEditLabel:
		if content == "" {
			return
		}
		cur, ok := e.hist.Find(p.TargetID)
		if !ok {
			return
		}
		r, ok := cur.AsRect()
		if !ok || r.Label == nil {
			return
		}
		label := *r.Label
		label.Content = content
		label.Vertical = p.Vertical
		r.Label = &label
		cur.Shape = e.geom.Reanchor(r)
		if e.hist.Replace(p.TargetID, cur) {
			e.selected = p.TargetID
		}
	}
}

// CancelPrompt closes the prompt. A new callout is kept without a label.
func (e *Editor) CancelPrompt() {
	p := e.prompt
	if p == nil {
		return
	}
	e.prompt = nil
	if p.Kind == PromptLabel {
		if r, ok := p.target.AsRect(); ok {
			a := p.target
			a.Shape = e.geom.Reanchor(r)
			e.commitNew(a)
		}
	}
}

func (e *Editor) commitNew(a annotation.Annotation) {
	if e.hist.AddAnnotation(a) {
		e.selected = a.ID
	}
}
