package main

import (
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/proofmark/internal/appstate"
	"github.com/example/proofmark/internal/clipboard"
	"github.com/example/proofmark/internal/docimage"
)

// editCmd opens a page in the interactive editor window.
type editCmd struct {
	file          string
	output        string
	fromClipboard bool
	*root
	fs *flag.FlagSet
}

func (e *editCmd) Program() string        { return e.root.program + " edit" }
func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "page image to annotate (PNG, TIFF, BMP, JPEG, GIF)")
	fs.StringVar(&e.output, "output", "", "where Ctrl+S writes the export (default PAGE-proof.png)")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "load the page from the clipboard")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "load the page from the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && !e.fromClipboard {
		return nil, &UsageError{of: e}
	}
	if e.output == "" {
		e.output = defaultOutput(e.file, r.config.SaveDir)
	}
	return e, nil
}

// defaultOutput derives the export path from the page path and the
// configured save directory.
func defaultOutput(page, saveDir string) string {
	name := "proof.png"
	if page != "" {
		base := filepath.Base(page)
		name = strings.TrimSuffix(base, filepath.Ext(base)) + "-proof.png"
	}
	if saveDir != "" {
		return filepath.Join(saveDir, name)
	}
	if page != "" {
		return filepath.Join(filepath.Dir(page), name)
	}
	return name
}

func loadPage(file string, fromClipboard bool) (*image.RGBA, error) {
	if fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return docimage.ToRGBA(img), nil
	}
	return docimage.Load(file)
}

func (e *editCmd) Run() error {
	page, err := loadPage(e.file, e.fromClipboard)
	if err != nil {
		return err
	}
	st := appstate.New(
		appstate.WithImage(page),
		appstate.WithOutput(e.output),
		appstate.WithTheme(e.activeTheme),
		appstate.WithNotifier(e.notifier),
		appstate.WithEditorOptions(e.config.EditorOptions()...),
		appstate.WithViewportOptions(e.config.ViewportOptions()...),
	)
	st.Run()
	return nil
}
