package main

import (
	"errors"
	"flag"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/config"
	"github.com/example/proofmark/internal/docimage"
	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
)

func testRoot() *root {
	r := &root{fs: flag.NewFlagSet("proofmark", flag.ContinueOnError), program: "proofmark", config: config.New()}
	r.fs.StringVar(&r.themeName, "theme", "", "theme")
	return r
}

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestRootUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}} {
		err := testRoot().Run(args)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("Run(%v) = %v, want UsageError", args, err)
		}
		if !strings.Contains(uerr.Error(), "Usage: proofmark") {
			t.Errorf("help text = %q", uerr.Error())
		}
	}
}

func TestSubcommandUsage(t *testing.T) {
	tests := [][]string{
		{"edit"},
		{"annotate", "-file", "page.png"},
		{"config"},
	}
	for _, args := range tests {
		err := testRoot().Run(args)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("Run(%v) = %v, want UsageError", args, err)
		}
		if want := "Usage: proofmark " + args[0]; !strings.Contains(uerr.Error(), want) {
			t.Errorf("%v help missing %q:\n%s", args, want, uerr.Error())
		}
	}
}

func TestSplitAnnotateArgs(t *testing.T) {
	flags, pos, err := splitAnnotateArgs([]string{
		"rect", "-5", "10", "20", "20", "--width", "6", "--", "-to-clip", "text", "1", "2", "hi", "-color=blue",
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"-width", "6", "-to-clip", "-color=blue"}, flags); diff != "" {
		t.Errorf("flags (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rect", "-5", "10", "20", "20", "--", "text", "1", "2", "hi"}, pos); diff != "" {
		t.Errorf("positionals (-want +got):\n%s", diff)
	}
	if _, _, err := splitAnnotateArgs([]string{"-output"}); err == nil {
		t.Error("missing flag value accepted")
	}
}

func TestParseShapes(t *testing.T) {
	got, err := parseShapes(strings.Fields(`rect 1 2 30 40 -- leader 0 0 10 10 50 60 see here -- pen 0 0 5 5 9 2 -- text 3 4 two\nlines`))
	if err != nil {
		t.Fatal(err)
	}
	want := []shape{
		{kind: "rect", box: annotation.Bounds{X: 1, Y: 2, Width: 30, Height: 40}},
		{kind: "leader", box: annotation.Bounds{Width: 10, Height: 10}, end: r2.Point{X: 50, Y: 60}, text: "see here"},
		{kind: "pen", points: []r2.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9, Y: 2}}},
		{kind: "text", box: annotation.Bounds{X: 3, Y: 4}, text: "two\nlines"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(shape{})); diff != "" {
		t.Errorf("shapes (-want +got):\n%s", diff)
	}

	bad := []string{
		"rect 1 2 3",
		"leader 0 0 10 10 50 60",
		"pen 0 0 5 5",
		"text 1 2",
		"circle 1 2 3",
		"rect a b c d",
	}
	for _, in := range bad {
		if _, err := parseShapes(strings.Fields(in)); err == nil {
			t.Errorf("parseShapes(%q) succeeded", in)
		}
	}
}

func TestParseCrop(t *testing.T) {
	b, err := parseCrop("10, 20,30,40")
	if err != nil || b != (annotation.Bounds{X: 10, Y: 20, Width: 30, Height: 40}) {
		t.Fatalf("parseCrop = %+v, %v", b, err)
	}
	for _, in := range []string{"1,2,3", "1,2,0,4", "a,b,c,d"} {
		if _, err := parseCrop(in); err == nil {
			t.Errorf("parseCrop(%q) succeeded", in)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct{ page, dir, want string }{
		{"/scans/p1.tif", "", "/scans/p1-proof.png"},
		{"/scans/p1.tif", "/out", "/out/p1-proof.png"},
		{"", "", "proof.png"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.page, tt.dir); got != filepath.FromSlash(tt.want) {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.page, tt.dir, got, tt.want)
		}
	}
}

func TestAnnotateMarkup(t *testing.T) {
	r := testRoot()
	a, err := parseAnnotateCmd(strings.Fields(
		"-file page.png -crop 0,0,150,80 -color red -width 4 rect 10 10 50 40 -- pen 70 10 90 30 110 10 -- text 20 60 ok -- leader 100 40 20 20 140 70 note",
	), r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := a.markup(whitePage(200, 100))
	if err != nil {
		t.Fatalf("markup: %v", err)
	}
	if got := out.Bounds(); got != image.Rect(0, 0, 150, 80) {
		t.Fatalf("export bounds = %v, want the crop", got)
	}
	red := color.RGBA{255, 0, 0, 255}
	if got := out.RGBAAt(10, 30); got != red {
		t.Errorf("rect edge pixel = %v", got)
	}
	if got := out.RGBAAt(35, 30); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("rect interior pixel = %v", got)
	}
}

func TestAnnotateRejectsTinyShape(t *testing.T) {
	a, err := parseAnnotateCmd(strings.Fields("-file page.png rect 10 10 2 2"), testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.markup(whitePage(50, 50)); err == nil || !strings.Contains(err.Error(), "too small") {
		t.Fatalf("markup err = %v", err)
	}
}

func TestAnnotateRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.png")
	if _, err := docimage.SavePNG(page, whitePage(60, 40)); err != nil {
		t.Fatal(err)
	}
	a, err := parseAnnotateCmd([]string{"-file", page, "rect", "5", "5", "20", "20"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, err := docimage.Load(filepath.Join(dir, "page-proof.png"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(60, 40) {
		t.Errorf("output size = %v", got)
	}
}

func TestAnnotateBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-file", "p.png", "-color", "nope", "rect", "1", "1", "20", "20"},
		{"-file", "p.png", "-width", "0", "rect", "1", "1", "20", "20"},
		{"-file", "p.png", "-crop", "1,1", "rect", "1", "1", "20", "20"},
	} {
		if _, err := parseAnnotateCmd(args, testRoot()); err == nil {
			t.Errorf("parseAnnotateCmd(%v) succeeded", args)
		}
	}
}
