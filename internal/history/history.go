// Package history keeps the append-only edit log of an editing session.
// Annotations and the active crop are derived from the log on every read.
package history

import (
	"math"

	"github.com/example/proofmark/internal/annotation"
)

// Minimum footprints for newly added shapes.
const (
	MinRectSide   = 5
	MinPenPoints  = 3
	MinCropExtent = 20
)

// Kind tags a log entry.
type Kind int

const (
	KindAnnotation Kind = iota
	KindCrop
)

func (k Kind) String() string {
	if k == KindCrop {
		return "crop"
	}
	return "annotation"
}

// Entry is one step in the log. Annotation is set for KindAnnotation and
// Crop for KindCrop.
type Entry struct {
	Kind       Kind
	Annotation annotation.Annotation
	Crop       annotation.Bounds
}

// AnnotationEntry wraps a as a log entry.
func AnnotationEntry(a annotation.Annotation) Entry {
	return Entry{Kind: KindAnnotation, Annotation: a}
}

// CropEntry wraps a crop region as a log entry.
func CropEntry(b annotation.Bounds) Entry {
	return Entry{Kind: KindCrop, Crop: b}
}

type pending struct {
	id        string
	candidate annotation.Annotation
}

// History is the committed log plus at most one live candidate that replaces
// an annotation while a move or resize gesture is in progress.
type History struct {
	entries []Entry
	live    *pending
}

// New returns an empty history.
func New() *History { return &History{} }

// Len returns the number of committed entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the committed log.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Append pushes e onto the log.
func (h *History) Append(e Entry) {
	h.entries = append(h.entries, e)
}

// AddAnnotation appends a new annotation if it meets the minimum footprint
// for its shape. It reports whether the annotation was kept.
func (h *History) AddAnnotation(a annotation.Annotation) bool {
	if !Acceptable(a) {
		return false
	}
	h.Append(AnnotationEntry(a))
	return true
}

// AddCrop normalizes b and appends it if both sides exceed MinCropExtent.
func (h *History) AddCrop(b annotation.Bounds) bool {
	b = b.Normalize()
	if b.Width <= MinCropExtent || b.Height <= MinCropExtent {
		return false
	}
	h.Append(CropEntry(b))
	return true
}

// Acceptable reports whether a newly drawn annotation is large enough to
// commit. Text is always accepted.
func Acceptable(a annotation.Annotation) bool {
	switch s := a.Shape.(type) {
	case annotation.Rect:
		return math.Abs(s.Box.Width) > MinRectSide && math.Abs(s.Box.Height) > MinRectSide
	case annotation.Pen:
		return len(s.Points) >= MinPenPoints
	case annotation.Text:
		return true
	}
	return false
}

// Annotations folds the log into the current annotation set in draw order.
// A live candidate stands in for the entry it replaces.
func (h *History) Annotations() []annotation.Annotation {
	var out []annotation.Annotation
	for _, e := range h.entries {
		if e.Kind != KindAnnotation {
			continue
		}
		if h.live != nil && e.Annotation.ID == h.live.id {
			out = append(out, h.live.candidate)
			continue
		}
		out = append(out, e.Annotation)
	}
	return out
}

// ActiveCrop returns the region of the most recent crop entry.
func (h *History) ActiveCrop() (annotation.Bounds, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Kind == KindCrop {
			return h.entries[i].Crop, true
		}
	}
	return annotation.Bounds{}, false
}

// Find returns the live view of the annotation with the given id.
func (h *History) Find(id string) (annotation.Annotation, bool) {
	if h.live != nil && h.live.id == id {
		return h.live.candidate, true
	}
	if i := h.index(id); i >= 0 {
		return h.entries[i].Annotation, true
	}
	return annotation.Annotation{}, false
}

func (h *History) index(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range h.entries {
		if e.Kind == KindAnnotation && e.Annotation.ID == id {
			return i
		}
	}
	return -1
}

// Undo discards any live candidate and drops the last committed entry. It
// reports false when the log is empty.
func (h *History) Undo() bool {
	h.live = nil
	if len(h.entries) == 0 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1:len(h.entries)-1]
	return true
}

// RemoveByID deletes the annotation entry with the given id wherever it sits
// in the log.
func (h *History) RemoveByID(id string) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	if h.live != nil && h.live.id == id {
		h.live = nil
	}
	out := make([]Entry, 0, len(h.entries)-1)
	out = append(out, h.entries[:i]...)
	out = append(out, h.entries[i+1:]...)
	h.entries = out
	return true
}

// ReplaceLive stages a as the candidate for id without touching the log.
// Unknown ids are ignored.
func (h *History) ReplaceLive(id string, a annotation.Annotation) bool {
	if h.index(id) < 0 {
		return false
	}
	a.ID = id
	h.live = &pending{id: id, candidate: a}
	return true
}

// Live returns the staged candidate, if any.
func (h *History) Live() (annotation.Annotation, bool) {
	if h.live == nil {
		return annotation.Annotation{}, false
	}
	return h.live.candidate, true
}

// Commit writes the staged candidate over its entry. The log slice is copied
// so earlier snapshots returned by Entries stay intact.
func (h *History) Commit() bool {
	if h.live == nil {
		return false
	}
	p := h.live
	h.live = nil
	return h.Replace(p.id, p.candidate)
}

// Discard drops the staged candidate.
func (h *History) Discard() { h.live = nil }

// Replace overwrites the entry for id in place without adding an undo step.
func (h *History) Replace(id string, a annotation.Annotation) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	a.ID = id
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	out[i] = AnnotationEntry(a)
	h.entries = out
	return true
}
