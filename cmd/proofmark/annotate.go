package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/proofmark/internal/annotation"
	"github.com/example/proofmark/internal/clipboard"
	"github.com/example/proofmark/internal/docimage"
	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/history"
	"github.com/example/proofmark/internal/render"
	"github.com/example/proofmark/internal/viewport"
	"github.com/golang/geo/r2"
)

// shape is one markup instruction given on the command line. Coordinates
// are page pixels.
type shape struct {
	kind   string
	box    annotation.Bounds
	end    r2.Point
	points []r2.Point
	text   string
}

// annotateCmd applies markup to a page without opening a window.
type annotateCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	cropSpec      string
	colorSpec     string
	width         float64
	fontSize      float64
	vertical      bool
	crop          *annotation.Bounds
	shapes        []shape
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) Program() string        { return a.root.program + " annotate" }
func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

var annotateFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"crop":           {},
	"color":          {},
	"width":          {},
	"font-size":      {},
	"vertical":       {},
}

var annotateBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"vertical":       {},
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "page image to annotate")
	fs.StringVar(&a.output, "output", "", "output PNG path (default PAGE-proof.png)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "read the page from the clipboard")
	fs.BoolVar(&a.fromClipboard, "from-clip", false, "read the page from the clipboard (alias)")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&a.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&a.cropSpec, "crop", "", "export only the region x,y,w,h")
	fs.StringVar(&a.colorSpec, "color", r.config.Editor.Color, "stroke colour name or hex value")
	fs.Float64Var(&a.width, "width", r.config.Editor.LineWidth, "stroke width in pixels")
	fs.Float64Var(&a.fontSize, "font-size", r.config.Editor.FontSize, "text and label size in pixels")
	fs.BoolVar(&a.vertical, "vertical", r.config.Editor.VerticalText, "lay text out in vertical columns")

	flagArgs, positionals, err := splitAnnotateArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if a.file == "" && !a.fromClipboard {
		return nil, &UsageError{of: a}
	}
	if a.output == "" {
		switch {
		case a.file != "":
			a.output = defaultOutput(a.file, r.config.SaveDir)
		case !a.toClipboard:
			return nil, fmt.Errorf("output file is required when reading from the clipboard")
		}
	}
	if _, err := render.ParseColor(a.colorSpec); err != nil {
		return nil, err
	}
	if a.width <= 0 {
		return nil, fmt.Errorf("width must be positive")
	}
	if a.fontSize <= 0 {
		return nil, fmt.Errorf("font-size must be positive")
	}
	if a.cropSpec != "" {
		b, err := parseCrop(a.cropSpec)
		if err != nil {
			return nil, err
		}
		a.crop = &b
	}
	a.shapes, err = parseShapes(positionals)
	if err != nil {
		return nil, err
	}
	if len(a.shapes) == 0 && a.crop == nil {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

// splitAnnotateArgs separates known flags from shape arguments. Shape
// arguments may contain leading dashes (negative numbers) and "--".
func splitAnnotateArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := annotateFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := annotateBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

func parseCrop(spec string) (annotation.Bounds, error) {
	parts := strings.Split(spec, ",")
	vals, err := expectFloats(parts, 4, "crop")
	if err != nil {
		return annotation.Bounds{}, err
	}
	b := annotation.Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if b.Width <= 0 || b.Height <= 0 {
		return annotation.Bounds{}, fmt.Errorf("crop needs a positive width and height")
	}
	return b, nil
}

// parseShapes splits positionals on "--" and parses each group.
func parseShapes(args []string) ([]shape, error) {
	var shapes []shape
	var group []string
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		s, err := parseShape(group)
		if err != nil {
			return err
		}
		shapes = append(shapes, s)
		group = nil
		return nil
	}
	for _, arg := range args {
		if arg == "--" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		group = append(group, arg)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return shapes, nil
}

func parseShape(args []string) (shape, error) {
	s := shape{kind: strings.ToLower(args[0])}
	rest := args[1:]
	switch s.kind {
	case "rect":
		v, err := expectFloats(rest, 4, s.kind)
		if err != nil {
			return s, err
		}
		s.box = annotation.Bounds{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	case "leader":
		if len(rest) < 7 {
			return s, fmt.Errorf("leader requires x y w h endx endy and label text")
		}
		v, err := expectFloats(rest[:6], 6, s.kind)
		if err != nil {
			return s, err
		}
		s.box = annotation.Bounds{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
		s.end = r2.Point{X: v[4], Y: v[5]}
		s.text = unescape(strings.Join(rest[6:], " "))
	case "pen":
		if len(rest) < 2*history.MinPenPoints || len(rest)%2 != 0 {
			return s, fmt.Errorf("pen requires at least %d x y pairs", history.MinPenPoints)
		}
		v, err := expectFloats(rest, len(rest), s.kind)
		if err != nil {
			return s, err
		}
		for i := 0; i < len(v); i += 2 {
			s.points = append(s.points, r2.Point{X: v[i], Y: v[i+1]})
		}
	case "text":
		if len(rest) < 3 {
			return s, fmt.Errorf("text requires x y and content")
		}
		v, err := expectFloats(rest[:2], 2, s.kind)
		if err != nil {
			return s, err
		}
		s.box = annotation.Bounds{X: v[0], Y: v[1]}
		s.text = unescape(strings.Join(rest[2:], " "))
		if strings.TrimSpace(s.text) == "" {
			return s, fmt.Errorf("text content cannot be empty")
		}
	default:
		return s, fmt.Errorf("unsupported shape %q", s.kind)
	}
	return s, nil
}

func unescape(s string) string { return strings.ReplaceAll(s, `\n`, "\n") }

func expectFloats(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// markup runs the crop and shapes through an editing session as pointer
// gestures and returns the export.
func (a *annotateCmd) markup(page *image.RGBA) (*image.RGBA, error) {
	fonts, err := render.NewFontMeasurer()
	if err != nil {
		return nil, err
	}
	w, h := float64(page.Bounds().Dx()), float64(page.Bounds().Dy())
	// Fitting the page to its own size keeps one screen pixel per page pixel.
	view := viewport.New(w, h, viewport.WithMaxDisplay(w, h))
	ed := editor.New(w, h,
		editor.WithViewport(view),
		editor.WithMeasurer(fonts),
		editor.WithColor(a.colorSpec),
		editor.WithLineWidth(a.width),
		editor.WithFontSize(a.fontSize),
		editor.WithVertical(a.vertical),
	)
	g := gestures{ed: ed}

	if a.crop != nil {
		ed.SetTool(editor.ToolCrop)
		g.drag(r2.Point{X: a.crop.X, Y: a.crop.Y}, r2.Point{X: a.crop.X + a.crop.Width, Y: a.crop.Y + a.crop.Height})
		if _, ok := ed.ActiveCrop(); !ok {
			return nil, fmt.Errorf("crop %s is too small", a.cropSpec)
		}
	}
	for i, s := range a.shapes {
		before := ed.HistoryLen()
		g.apply(s)
		if ed.HistoryLen() == before {
			return nil, fmt.Errorf("shape %d (%s) was rejected as too small", i+1, s.kind)
		}
	}
	return render.New(fonts).Export(page, ed.Annotations(), ed.Region()), nil
}

func (a *annotateCmd) Run() error {
	page, err := loadPage(a.file, a.fromClipboard)
	if err != nil {
		return err
	}
	out, err := a.markup(page)
	if err != nil {
		return err
	}
	if a.output != "" {
		saved, err := docimage.SavePNG(a.output, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saved)
		a.root.notifyExport(saved)
	}
	if a.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(a.output)
		if a.output == "" {
			detail = "image"
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		a.root.notifyCopy(detail, out)
	}
	return nil
}

// gestures replays page-space shapes as screen-space pointer input.
type gestures struct {
	ed *editor.Editor
}

func (g gestures) screen(p r2.Point) r2.Point { return g.ed.Viewport().DocumentToScreen(p) }

func (g gestures) drag(from, to r2.Point) {
	g.ed.PointerDown(g.screen(from))
	g.ed.PointerMove(g.screen(to))
	g.ed.PointerUp(g.screen(to))
}

func (g gestures) apply(s shape) {
	ed := g.ed
	switch s.kind {
	case "rect", "leader":
		ed.SetTool(editor.ToolRect)
		ed.SetLeaderMode(s.kind == "leader")
		g.drag(r2.Point{X: s.box.X, Y: s.box.Y}, r2.Point{X: s.box.X + s.box.Width, Y: s.box.Y + s.box.Height})
		if ed.Phase() != editor.PhaseLeaderPending {
			return
		}
		end := g.screen(s.end)
		ed.PointerMove(end)
		ed.PointerDown(end)
		ed.PointerUp(end)
		if _, ok := ed.Prompt(); ok {
			ed.SetPromptText(s.text)
			ed.ConfirmPrompt()
		}
	case "pen":
		ed.SetTool(editor.ToolPen)
		ed.PointerDown(g.screen(s.points[0]))
		for _, p := range s.points[1:] {
			ed.PointerMove(g.screen(p))
		}
		ed.PointerUp(g.screen(s.points[len(s.points)-1]))
	case "text":
		ed.SetTool(editor.ToolText)
		ed.PointerDown(g.screen(r2.Point{X: s.box.X, Y: s.box.Y}))
		ed.SetPromptText(s.text)
		ed.ConfirmPrompt()
	}
}
