package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RGBA is a CSS color with a fractional alpha channel.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Tailwind hues used by the dashboard.
var (
	Red400    = RGBA{R: 248, G: 113, B: 113, A: 1}
	Red500    = RGBA{R: 239, G: 68, B: 68, A: 1}
	Yellow500 = RGBA{R: 234, G: 179, B: 8, A: 1}
	Green500  = RGBA{R: 34, G: 197, B: 94, A: 1}
	Blue500   = RGBA{R: 59, G: 130, B: 246, A: 1}
	Purple500 = RGBA{R: 168, G: 85, B: 247, A: 1}
	White     = RGBA{R: 255, G: 255, B: 255, A: 1}
)

// String renders the color as rgba(r,g,b,a), the form Chart.js expects.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Opaque returns c with alpha raised to 1.
func (c RGBA) Opaque() RGBA {
	return c.WithAlpha(1)
}

// WithAlpha returns c with alpha clamped to [0, 1].
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = math.Max(0, math.Min(1, a))
	return c
}

// Hex returns RRGGBB without a leading '#'.
func (c RGBA) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Drawing converts c for go-chart.
func (c RGBA) Drawing() drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

func (c RGBA) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *RGBA) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts rgba(r,g,b,a), rgb(r,g,b), #rgb and #rrggbb.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseComponents(s, s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseComponents(s, s[len("rgb("):len(s)-1], 3)
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		d := drawing.ColorFromHex(hex)
		return RGBA{R: d.R, G: d.G, B: d.B, A: 1}, nil
	default:
		return RGBA{}, fmt.Errorf("unsupported color %q", s)
	}
}

func parseComponents(raw, body string, n int) (RGBA, error) {
	parts := strings.Split(body, ",")
	if len(parts) != n {
		return RGBA{}, fmt.Errorf("invalid color %q: expected %d components", raw, n)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("invalid color %q: channel %d out of range", raw, i)
		}
		rgb[i] = uint8(v)
	}
	c := RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
	if n == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid color %q: alpha out of range", raw)
		}
		c.A = a
	}
	return c, nil
}

// Colors marshals as a bare string when it holds exactly one color, which
// Chart.js applies to every point, and as an array otherwise.
type Colors []RGBA

func (cs Colors) MarshalJSON() ([]byte, error) {
	if len(cs) == 1 {
		return json.Marshal(cs[0])
	}
	if cs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]RGBA(cs))
}

func (cs *Colors) UnmarshalJSON(data []byte) error {
	var single RGBA
	if err := single.UnmarshalJSON(data); err == nil {
		*cs = Colors{single}
		return nil
	}
	var many []RGBA
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*cs = many
	return nil
}

// Opaque maps Opaque over every color.
func (cs Colors) Opaque() Colors {
	out := make(Colors, len(cs))
	for i, c := range cs {
		out[i] = c.Opaque()
	}
	return out
}

// At returns the color for point i, repeating a single color for every point.
func (cs Colors) At(i int) RGBA {
	if len(cs) == 0 {
		return RGBA{}
	}
	if len(cs) == 1 {
		return cs[0]
	}
	return cs[i%len(cs)]
}
