package charts

import (
	"fmt"
	"strings"
)

// Font is a Chart.js font spec.
type Font struct {
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

// Theme holds the styling shared by every chart a Builder produces. A nil
// color or zero font leaves the rendering library's default in place.
type Theme struct {
	Name       string
	TextColor  *RGBA
	GridColor  *RGBA
	TitleFont  Font
	TickFont   Font
	LegendFont Font
}

// DarkTheme is white text over translucent white grid lines, for the
// dashboard's dark background.
func DarkTheme() Theme {
	text := White
	grid := White.WithAlpha(0.2)
	return Theme{
		Name:       "dark",
		TextColor:  &text,
		GridColor:  &grid,
		TitleFont:  Font{Size: 16, Weight: "bold"},
		TickFont:   Font{Size: 14},
		LegendFont: Font{Size: 14},
	}
}

// PlainTheme applies no styling.
func PlainTheme() Theme {
	return Theme{Name: "plain"}
}

// ThemeByName resolves "dark" or "plain".
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return DarkTheme(), nil
	case "plain", "light", "default":
		return PlainTheme(), nil
	default:
		return Theme{}, fmt.Errorf("%w: unknown theme %q", ErrInvalidInput, name)
	}
}

// IsDark reports whether the theme sets a text color.
func (t Theme) IsDark() bool {
	return t.TextColor != nil
}

func fontPtr(f Font) *Font {
	if f == (Font{}) {
		return nil
	}
	return &f
}

func (t Theme) axisTitle(text string) *ScaleTitle {
	return &ScaleTitle{
		Display: true,
		Text:    text,
		Color:   t.TextColor,
		Font:    fontPtr(t.TitleFont),
	}
}

func (t Theme) ticks() *Ticks {
	if t.TextColor == nil && t.TickFont == (Font{}) {
		return nil
	}
	return &Ticks{Color: t.TextColor, Font: fontPtr(t.TickFont)}
}

func (t Theme) grid() *Grid {
	if t.GridColor == nil {
		return nil
	}
	return &Grid{Color: t.GridColor}
}

func (t Theme) legendLabels() *LegendLabels {
	if t.TextColor == nil && t.LegendFont == (Font{}) {
		return nil
	}
	return &LegendLabels{Color: t.TextColor, Font: fontPtr(t.LegendFont)}
}
