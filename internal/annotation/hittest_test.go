package annotation

import (
	"testing"

	"github.com/golang/geo/r2"
)

func TestPointInBounds(t *testing.T) {
	b := Bounds{X: 10, Y: 10, Width: 20, Height: 20}
	tests := []struct {
		p    r2.Point
		tol  float64
		want bool
	}{
		{r2.Point{X: 10, Y: 10}, 0, true},
		{r2.Point{X: 30, Y: 30}, 0, true},
		{r2.Point{X: 5, Y: 20}, 5, true},
		{r2.Point{X: 4.9, Y: 20}, 5, false},
		{r2.Point{X: 20, Y: 36}, 5, false},
	}
	for _, tt := range tests {
		if got := PointInBounds(tt.p, b, tt.tol); got != tt.want {
			t.Errorf("PointInBounds(%v, tol=%v) = %v, want %v", tt.p, tt.tol, got, tt.want)
		}
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	var g Geometry
	anns := []Annotation{
		{ID: "a", Shape: Rect{Box: Bounds{X: 0, Y: 0, Width: 50, Height: 50}}},
		{ID: "b", Shape: Rect{Box: Bounds{X: 20, Y: 20, Width: 50, Height: 50}}},
		{ID: "empty", Shape: Pen{}},
	}
	got, ok := g.HitTest(r2.Point{X: 30, Y: 30}, anns)
	if !ok || got.ID != "b" {
		t.Fatalf("HitTest = %q, %v; want b", got.ID, ok)
	}
	got, ok = g.HitTest(r2.Point{X: 5, Y: 5}, anns)
	if !ok || got.ID != "a" {
		t.Fatalf("HitTest = %q, %v; want a", got.ID, ok)
	}
	if _, ok := g.HitTest(r2.Point{X: 200, Y: 200}, anns); ok {
		t.Fatal("expected miss")
	}
}

func TestResizeHandleAt(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		name  string
		p     r2.Point
		scale float64
		want  Handle
	}{
		{"top left", r2.Point{X: 1, Y: 1}, 1, HandleTopLeft},
		{"top right", r2.Point{X: 99, Y: -2}, 1, HandleTopRight},
		{"bottom left", r2.Point{X: 3, Y: 48}, 1, HandleBottomLeft},
		{"bottom right", r2.Point{X: 99, Y: 49}, 1, HandleBottomRight},
		{"top", r2.Point{X: 52, Y: 1}, 1, HandleTop},
		{"bottom", r2.Point{X: 48, Y: 50}, 1, HandleBottom},
		{"left", r2.Point{X: 0, Y: 25}, 1, HandleLeft},
		{"right", r2.Point{X: 101, Y: 24}, 1, HandleRight},
		{"centre", r2.Point{X: 50, Y: 25}, 1, HandleNone},
		{"corner grows when zoomed out", r2.Point{X: 12, Y: 12}, 0.5, HandleTopLeft},
		{"corner shrinks when zoomed in", r2.Point{X: 5, Y: 0}, 2, HandleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResizeHandleAt(tt.p, b, tt.scale); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResizeHandleAtCornerPriority(t *testing.T) {
	// Small box: the top-left corner and top edge grab areas overlap.
	b := Bounds{X: 0, Y: 0, Width: 10, Height: 10}
	if got := ResizeHandleAt(r2.Point{X: 4, Y: 0}, b, 1); got != HandleTopLeft {
		t.Fatalf("got %v, want tl", got)
	}
}

func TestClickedPart(t *testing.T) {
	var g Geometry
	a := Annotation{Shape: Rect{
		Box:    Bounds{X: 0, Y: 0, Width: 40, Height: 40},
		Leader: &LeaderLine{StartX: 40, StartY: 20, EndX: 30, EndY: 30},
		Label:  &TextBlock{X: 30, Y: 40, Content: "abcd", FontSize: 10},
	}}
	tests := []struct {
		p    r2.Point
		want Part
		ok   bool
	}{
		{r2.Point{X: 35, Y: 35}, PartLabel, true},
		{r2.Point{X: 5, Y: 5}, PartRect, true},
		{r2.Point{X: 200, Y: 200}, PartWhole, false},
	}
	for _, tt := range tests {
		got, ok := g.ClickedPart(tt.p, a)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ClickedPart(%v) = %v, %v; want %v, %v", tt.p, got, ok, tt.want, tt.ok)
		}
	}
	simple := Annotation{Shape: Rect{Box: Bounds{Width: 10, Height: 10}}}
	if _, ok := g.ClickedPart(r2.Point{X: 5, Y: 5}, simple); ok {
		t.Error("simple rectangles have no parts")
	}
}
