package theme

import (
	"image/color"
	"reflect"
	"strings"

	"github.com/example/proofmark/internal/render"
)

// Theme defines the colours of the editor window and its overlays.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Status text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA
	StatusBackground      color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlays
	Selection      color.RGBA // Selection box and handles
	LabelSelection color.RGBA // Callout label box and handles
	HandleBorder   color.RGBA
	CropBorder     color.RGBA
	CropDim        color.RGBA // Drawn over the page outside a crop selection
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	overlay := render.DefaultOverlayColors()
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{64, 64, 64, 255},
		Foreground:            color.RGBA{235, 235, 235, 255},
		ToolbarBackground:     color.RGBA{38, 38, 38, 255},
		ButtonBackground:      color.RGBA{64, 64, 64, 255},
		ButtonBackgroundHover: color.RGBA{82, 82, 82, 255},
		ButtonBackgroundPress: color.RGBA{37, 99, 235, 255},
		ButtonText:            color.RGBA{235, 235, 235, 255},
		ButtonBorder:          color.RGBA{115, 115, 115, 255},
		StatusBackground:      color.RGBA{23, 23, 23, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		Selection:             overlay.Selection,
		LabelSelection:        overlay.Label,
		HandleBorder:          overlay.HandleBorder,
		CropBorder:            overlay.CropBorder,
		CropDim:               overlay.CropDim,
	}
}

// Overlay returns the colours the compositor uses for preview decorations.
func (t *Theme) Overlay() render.OverlayColors {
	return render.OverlayColors{
		Selection:    t.Selection,
		Label:        t.LabelSelection,
		HandleBorder: t.HandleBorder,
		CropBorder:   t.CropBorder,
		CropDim:      t.CropDim,
	}
}

// NamedColor is one colour field of a Theme.
type NamedColor struct {
	Key   string
	Color color.RGBA
}

// Colors lists the theme's colour fields in declaration order.
func (t *Theme) Colors() []NamedColor {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []NamedColor
	for i := 0; i < typ.NumField(); i++ {
		if c, ok := val.Field(i).Interface().(color.RGBA); ok {
			out = append(out, NamedColor{Key: typ.Field(i).Name, Color: c})
		}
	}
	return out
}

// Set assigns the colour field named key, ignoring case. Unknown keys are
// ignored for forward compatibility.
func (t *Theme) Set(key, value string) error {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != reflect.TypeOf(color.RGBA{}) {
			continue
		}
		col, err := render.ParseColor(value)
		if err != nil {
			return err
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}
