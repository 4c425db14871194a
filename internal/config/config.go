package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/proofmark/internal/editor"
	"github.com/example/proofmark/internal/theme"
	"github.com/example/proofmark/internal/viewport"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Editor holds the defaults a new editing session starts with.
type Editor struct {
	Color            string
	LineWidth        float64
	FontSize         float64
	LeaderMode       bool
	VerticalText     bool
	MaxDisplayWidth  float64
	MaxDisplayHeight float64
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Editor  Editor
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Editor: Editor{
			Color:            editor.Colors[0],
			LineWidth:        editor.LineWidths[0],
			FontSize:         editor.DefaultFontSize,
			MaxDisplayWidth:  viewport.DefaultMaxWidth,
			MaxDisplayHeight: viewport.DefaultMaxHeight,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// EditorOptions converts the editor section into session options.
func (c *Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithColor(c.Editor.Color),
		editor.WithLineWidth(c.Editor.LineWidth),
		editor.WithFontSize(c.Editor.FontSize),
		editor.WithLeaderMode(c.Editor.LeaderMode),
		editor.WithVertical(c.Editor.VerticalText),
	}
}

// ViewportOptions returns the display limits for the session viewport.
func (c *Config) ViewportOptions() []viewport.Option {
	return []viewport.Option{viewport.WithMaxDisplay(c.Editor.MaxDisplayWidth, c.Editor.MaxDisplayHeight)}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Editor.Color)
	fmt.Fprintf(&sb, "line_width = %s\n", formatFloat(c.Editor.LineWidth))
	fmt.Fprintf(&sb, "font_size = %s\n", formatFloat(c.Editor.FontSize))
	fmt.Fprintf(&sb, "leader_mode = %v\n", c.Editor.LeaderMode)
	fmt.Fprintf(&sb, "vertical_text = %v\n", c.Editor.VerticalText)
	fmt.Fprintf(&sb, "max_display_width = %s\n", formatFloat(c.Editor.MaxDisplayWidth))
	fmt.Fprintf(&sb, "max_display_height = %s\n", formatFloat(c.Editor.MaxDisplayHeight))
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, nc := range t.Colors() {
			fmt.Fprintf(&sb, "%s: %s\n", nc.Key, toHex(nc.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
