package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/proofs

[editor]
color = "#00ff00"
line_width = 6
font_size = 18.5
leader_mode = true
max_display_width = 900

[notify]
export = true
copy = false

[theme.my_custom_theme]
Background = #111111
Selection = #FF8800
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/proofs" {
		t.Errorf("Expected save_dir '/tmp/proofs', got '%s'", cfg.SaveDir)
	}

	want := Editor{
		Color:            "#00ff00",
		LineWidth:        6,
		FontSize:         18.5,
		LeaderMode:       true,
		MaxDisplayWidth:  900,
		MaxDisplayHeight: 700,
	}
	if diff := cmp.Diff(want, cfg.Editor); diff != "" {
		t.Errorf("editor section mismatch (-want +got):\n%s", diff)
	}

	if !cfg.Notify.Export {
		t.Error("Expected notify.export to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if theme.Selection.R != 0xFF || theme.Selection.G != 0x88 {
		t.Errorf("Unexpected Selection color: %+v", theme.Selection)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad bool", "[notify]\nexport = maybe\n"},
		{"bad width", "[editor]\nline_width = wide\n"},
		{"zero font", "[editor]\nfont_size = 0\n"},
		{"bad colour", "[editor]\ncolor = #12\n"},
		{"bad theme colour", "[theme.x]\nSelection = nope\n"},
	}
	for _, tt := range tests {
		if _, err := Parse(strings.NewReader(tt.input)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestEditorOptions(t *testing.T) {
	cfg := New()
	if got := len(cfg.EditorOptions()); got != 5 {
		t.Fatalf("EditorOptions returned %d options", got)
	}
	if got := len(cfg.ViewportOptions()); got != 1 {
		t.Fatalf("ViewportOptions returned %d options", got)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/proofs

[editor]
color = blue
line_width = 8
vertical_text = true

[notify]
export = true
copy = true

[theme.custom]
Name = custom
Background = #000000
CropDim = #00000060
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}
