package editor

import (
	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/history"
	"github.com/golang/geo/r2"
)

// PointerDown starts a gesture at screen position p. Pointer input is ignored
// while a prompt is open.
func (e *Editor) PointerDown(p r2.Point) {
	if e.closed || e.prompt != nil || e.phase != PhaseIdle && e.phase != PhaseLeaderPending {
		return
	}
	if e.phase == PhaseLeaderPending {
		e.dragLeader(e.view.ScreenToDocument(p))
		return
	}
	if e.tool == ToolHand || e.space {
		e.view.StartPan(p)
		e.phase = PhasePanning
		return
	}
	doc := e.view.ScreenToDocument(p)
	switch e.tool {
	case ToolSelect:
		e.pickAt(doc)
	case ToolText:
		e.openPrompt(&Prompt{Kind: PromptText, At: doc, Vertical: e.vertical})
	case ToolRect:
		e.draft = &annotation.Annotation{
			ID:        e.newID(),
			Color:     e.color,
			LineWidth: e.strokeWidth(),
			Shape:     annotation.Rect{Box: annotation.Bounds{X: doc.X, Y: doc.Y}},
		}
		e.phase = PhaseDrawing
	case ToolPen:
		e.draft = &annotation.Annotation{
			ID:        e.newID(),
			Color:     e.color,
			LineWidth: e.strokeWidth(),
			Shape:     annotation.Pen{Points: []r2.Point{doc}},
		}
		e.phase = PhaseDrawing
	case ToolCrop:
		e.cropDraft = &annotation.Bounds{X: doc.X, Y: doc.Y}
		e.phase = PhaseDrawing
	}
}

// PointerMove updates the active gesture. While a leader line is being
// captured the pointer drives it without a button held.
func (e *Editor) PointerMove(p r2.Point) {
	if e.phase == PhasePanning {
		e.view.PanTo(p)
		return
	}
	e.drag(e.view.ScreenToDocument(p))
}

func (e *Editor) drag(doc r2.Point) {
	switch e.phase {
	case PhaseResizing:
		c := e.geom.Resize(e.original, e.handle, e.dragStart, doc, e.origBounds, e.part)
		e.hist.ReplaceLive(e.original.ID, c)
	case PhaseMoving:
		c := e.geom.Move(e.original, e.dragStart, doc, e.part)
		e.hist.ReplaceLive(e.original.ID, c)
	case PhaseLeaderPending:
		e.dragLeader(doc)
	case PhaseDrawing:
		e.dragDraft(doc)
	}
}

func (e *Editor) dragDraft(doc r2.Point) {
	if e.cropDraft != nil {
		e.cropDraft.Width = doc.X - e.cropDraft.X
		e.cropDraft.Height = doc.Y - e.cropDraft.Y
		return
	}
	if e.draft == nil {
		return
	}
	switch s := e.draft.Shape.(type) {
	case annotation.Rect:
		s.Box.Width = doc.X - s.Box.X
		s.Box.Height = doc.Y - s.Box.Y
		e.draft.Shape = s
	case annotation.Pen:
		if n := len(s.Points); n > 0 && s.Points[n-1] == doc {
			return
		}
		s.Points = append(s.Points, doc)
		e.draft.Shape = s
	}
}

// dragLeader starts the leader at the rectangle anchor nearest the pointer
// and ends it at the pointer.
func (e *Editor) dragLeader(doc r2.Point) {
	r, ok := e.pendingRect.AsRect()
	if !ok {
		return
	}
	start := annotation.NearestAnchor(r.Box, doc)
	r.Leader = &annotation.LeaderLine{StartX: start.X, StartY: start.Y, EndX: doc.X, EndY: doc.Y}
	e.pendingRect.Shape = r
}

// PointerUp ends the gesture at p, committing whatever is valid.
func (e *Editor) PointerUp(p r2.Point) {
	switch e.phase {
	case PhasePanning:
		e.view.PanTo(p)
		e.view.EndPan()
		e.phase = PhaseIdle
		return
	case PhaseIdle:
		return
	}
	doc := e.view.ScreenToDocument(p)
	e.drag(doc)

	switch e.phase {
	case PhaseMoving, PhaseResizing:
		e.hist.Commit()
		e.phase = PhaseIdle
	case PhaseLeaderPending:
		e.endLeader()
	case PhaseDrawing:
		e.endDraw()
	}
}

func (e *Editor) endDraw() {
	e.phase = PhaseIdle
	if crop := e.cropDraft; crop != nil {
		e.cropDraft = nil
		if e.hist.AddCrop(*crop) {
			e.syncRegion()
		}
		return
	}
	draft := e.draft
	e.draft = nil
	if draft == nil {
		return
	}
	r, isRect := draft.AsRect()
	if isRect && e.leaderMode && history.Acceptable(*draft) {
		box := r.Box.Normalize()
		corner := r2.Point{X: box.X + box.Width, Y: box.Y + box.Height}
		r.Box = box
		r.Leader = &annotation.LeaderLine{StartX: corner.X, StartY: corner.Y, EndX: corner.X, EndY: corner.Y}
		draft.Shape = r
		e.pendingRect = draft
		e.phase = PhaseLeaderPending
		return
	}
	e.commitNew(*draft)
}

// endLeader opens the label prompt when the leader is long enough and
// otherwise keeps the plain rectangle.
func (e *Editor) endLeader() {
	pending := *e.pendingRect
	e.pendingRect = nil
	e.phase = PhaseIdle
	r, _ := pending.AsRect()
	if r.Leader != nil && r.Leader.Length() > LeaderThreshold {
		e.openPrompt(&Prompt{
			Kind:     PromptLabel,
			At:       r.Leader.End(),
			Vertical: e.vertical,
			target:   pending,
		})
		return
	}
	r.Leader = nil
	pending.Shape = r
	e.commitNew(pending)
}

// DoubleClick opens an edit prompt for text or a callout label under p.
func (e *Editor) DoubleClick(p r2.Point) {
	if e.tool != ToolSelect || e.prompt != nil || e.closed {
		return
	}
	e.finishGesture()
	doc := e.view.ScreenToDocument(p)
	hit, ok := e.geom.HitTest(doc, e.hist.Annotations())
	if !ok {
		return
	}
	switch s := hit.Shape.(type) {
	case annotation.Text:
		e.selected = hit.ID
		e.openPrompt(&Prompt{
			Kind:     PromptEditText,
			At:       r2.Point{X: s.Block.X, Y: s.Block.Y},
			Text:     s.Block.Content,
			Vertical: s.Block.Vertical,
			TargetID: hit.ID,
			target:   hit,
		})
	case annotation.Rect:
		if s.Leader == nil || s.Label == nil {
			return
		}
		e.selected = hit.ID
		e.openPrompt(&Prompt{
			Kind:     PromptEditLabel,
			At:       r2.Point{X: s.Label.X, Y: s.Label.Y},
			Text:     s.Label.Content,
			Vertical: s.Label.Vertical,
			TargetID: hit.ID,
			target:   hit,
		})
	}
}

// pickAt handles a select-tool press: grab the current selection's handles
// or body, otherwise select the topmost hit and grab it.
func (e *Editor) pickAt(doc r2.Point) {
	if sel, ok := e.Selected(); ok && e.grab(sel, doc) {
		return
	}
	hit, ok := e.geom.HitTest(doc, e.hist.Annotations())
	if !ok {
		e.selected = ""
		return
	}
	e.selected = hit.ID
	e.grab(hit, doc)
}

func (e *Editor) grab(a annotation.Annotation, doc r2.Point) bool {
	vs := e.view.ViewScale()
	if r, ok := a.AsRect(); ok && r.Compound() {
		box := r.Box.Normalize()
		if h := annotation.ResizeHandleAt(doc, box, vs); h != annotation.HandleNone {
			e.startResize(a, h, annotation.PartRect, box, doc)
			return true
		}
		if r.Label != nil {
			lb := e.geom.TextBounds(*r.Label)
			if h := annotation.ResizeHandleAt(doc, lb, vs); h != annotation.HandleNone {
				e.startResize(a, h, annotation.PartLabel, lb, doc)
				return true
			}
		}
		whole, ok := e.geom.BoundsOf(a)
		if ok && annotation.PointInBounds(doc, whole, annotation.DefaultTolerance) {
			part, _ := e.geom.ClickedPart(doc, a)
			e.startMove(a, part, doc)
			return true
		}
		return false
	}
	b, ok := e.geom.BoundsOf(a)
	if !ok {
		return false
	}
	if h := annotation.ResizeHandleAt(doc, b, vs); h != annotation.HandleNone {
		e.startResize(a, h, annotation.PartWhole, b, doc)
		return true
	}
	if annotation.PointInBounds(doc, b, annotation.DefaultTolerance) {
		e.startMove(a, annotation.PartWhole, doc)
		return true
	}
	return false
}

func (e *Editor) startResize(a annotation.Annotation, h annotation.Handle, part annotation.Part, b annotation.Bounds, doc r2.Point) {
	e.original = a
	e.handle = h
	e.part = part
	e.origBounds = b
	e.dragStart = doc
	e.phase = PhaseResizing
}

func (e *Editor) startMove(a annotation.Annotation, part annotation.Part, doc r2.Point) {
	e.original = a
	e.part = part
	e.dragStart = doc
	e.phase = PhaseMoving
}

// finishGesture settles any gesture in progress: live edits are committed,
// drafts are dropped and a rectangle waiting for its leader is kept plain.
func (e *Editor) finishGesture() {
	switch e.phase {
	case PhaseMoving, PhaseResizing:
		e.hist.Commit()
	case PhasePanning:
		e.view.EndPan()
	case PhaseLeaderPending:
		if e.pendingRect != nil {
			pending := *e.pendingRect
			if r, ok := pending.AsRect(); ok {
				r.Leader = nil
				pending.Shape = r
			}
			e.commitNew(pending)
		}
	}
	e.draft = nil
	e.cropDraft = nil
	e.pendingRect = nil
	e.phase = PhaseIdle
}
