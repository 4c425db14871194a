package viewport

import (
	"math"
	"testing"

	"github.com/example/proofmark/internal/annotation"
	"github.com/golang/geo/r2"
)

func near(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{2400, 700, 0.5},
		{1200, 1400, 0.5},
		{600, 300, 1},
		{0, 300, 1},
	}
	for _, tt := range tests {
		if got := FitScale(tt.w, tt.h, DefaultMaxWidth, DefaultMaxHeight); got != tt.want {
			t.Errorf("FitScale(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestZoomClampAndStep(t *testing.T) {
	v := New(100, 100)
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != MaxZoom {
		t.Fatalf("zoom = %v, want %v", v.Zoom(), MaxZoom)
	}
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != MinZoom {
		t.Fatalf("zoom = %v, want %v", v.Zoom(), MinZoom)
	}
	v.ZoomIn()
	if v.ZoomPercent() != 75 {
		t.Fatalf("ZoomPercent = %d, want 75", v.ZoomPercent())
	}
	v.ResetZoom()
	if v.ZoomPercent() != 100 {
		t.Fatalf("ZoomPercent = %d, want 100", v.ZoomPercent())
	}
}

func TestScreenToDocument(t *testing.T) {
	v := New(2400, 1400, WithOrigin(r2.Point{X: 10, Y: 20}))
	if v.BaseScale() != 0.5 {
		t.Fatalf("base scale = %v, want 0.5", v.BaseScale())
	}
	got := v.ScreenToDocument(r2.Point{X: 110, Y: 70})
	if want := (r2.Point{X: 200, Y: 100}); !near(got, want) {
		t.Fatalf("ScreenToDocument = %v, want %v", got, want)
	}

	v.SetRegion(annotation.Bounds{X: 100, Y: 50, Width: 600, Height: 350})
	if v.BaseScale() != 1 {
		t.Fatalf("base scale after crop = %v, want 1", v.BaseScale())
	}
	v.ZoomIn()
	v.ZoomIn()
	v.Scroll = r2.Point{X: 30, Y: 0}
	got = v.ScreenToDocument(r2.Point{X: 10, Y: 20})
	if want := (r2.Point{X: 120, Y: 50}); !near(got, want) {
		t.Fatalf("ScreenToDocument = %v, want %v", got, want)
	}
	for _, p := range []r2.Point{{X: 0, Y: 0}, {X: 333, Y: 71}, {X: -5, Y: 900}} {
		if back := v.DocumentToScreen(v.ScreenToDocument(p)); !near(back, p) {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}

func TestSetRegionResetsZoom(t *testing.T) {
	v := New(1000, 1000)
	v.ZoomIn()
	v.Scroll = r2.Point{X: 5, Y: 5}
	v.SetRegion(annotation.Bounds{X: 10, Y: 10, Width: -100, Height: 100})
	if v.Zoom() != 1 || v.Scroll != (r2.Point{}) {
		t.Fatalf("zoom %v scroll %v not reset", v.Zoom(), v.Scroll)
	}
	if r := v.Region(); r.X != -90 || r.Width != 100 {
		t.Fatalf("region not normalized: %+v", r)
	}
}

func TestAdjustSize(t *testing.T) {
	v := New(2400, 700)
	if got := v.AdjustSize(4); got != 8 {
		t.Fatalf("AdjustSize(4) = %v, want 8", got)
	}
	v.ZoomIn()
	if got := v.AdjustSize(4); got != 8 {
		t.Fatalf("zoom changed the adjusted size: %v", got)
	}
}

func TestPanUsesRawScreenDelta(t *testing.T) {
	v := New(1000, 600)
	v.SetZoom(2)
	v.Scroll = r2.Point{X: 100, Y: 100}
	v.StartPan(r2.Point{X: 50, Y: 50})
	v.PanTo(r2.Point{X: 80, Y: 40})
	if want := (r2.Point{X: 70, Y: 110}); v.Scroll != want {
		t.Fatalf("scroll = %v, want %v", v.Scroll, want)
	}
	v.EndPan()
	v.PanTo(r2.Point{X: 0, Y: 0})
	if want := (r2.Point{X: 70, Y: 110}); v.Scroll != want {
		t.Fatalf("scroll moved after EndPan: %v", v.Scroll)
	}
}

func TestClampScroll(t *testing.T) {
	v := New(1000, 600)
	v.SetZoom(2)
	v.Scroll = r2.Point{X: -10, Y: 5000}
	v.ClampScroll(r2.Point{X: 800, Y: 600})
	if want := (r2.Point{X: 0, Y: 600}); v.Scroll != want {
		t.Fatalf("scroll = %v, want %v", v.Scroll, want)
	}
}
