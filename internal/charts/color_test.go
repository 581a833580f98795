package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBAString(t *testing.T) {
	tests := []struct {
		color    RGBA
		expected string
	}{
		{Red500.WithAlpha(0.8), "rgba(239,68,68,0.8)"},
		{Green500, "rgba(34,197,94,1)"},
		{White.WithAlpha(0.2), "rgba(255,255,255,0.2)"},
		{RGBA{}, "rgba(0,0,0,0)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.color.String(); got != tt.expected {
				t.Errorf("String() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestOpaqueIdempotent(t *testing.T) {
	for _, c := range []RGBA{Red500.WithAlpha(0.8), Yellow500.WithAlpha(0), Blue500} {
		once := c.Opaque()
		assert.Equal(t, 1.0, once.A)
		assert.Equal(t, once, once.Opaque())
		assert.Equal(t, c.R, once.R)
		assert.Equal(t, c.G, once.G)
		assert.Equal(t, c.B, once.B)
	}

	colors := Colors{Red500.WithAlpha(0.8), Green500.WithAlpha(0.8)}
	assert.Equal(t, colors.Opaque(), colors.Opaque().Opaque())
	assert.Equal(t, 0.8, colors[0].A, "Opaque must not modify the receiver")
}

func TestWithAlphaClamps(t *testing.T) {
	assert.Equal(t, 1.0, Red500.WithAlpha(3).A)
	assert.Equal(t, 0.0, Red500.WithAlpha(-1).A)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected RGBA
		wantErr  bool
	}{
		{"rgba(239,68,68,0.8)", Red500.WithAlpha(0.8), false},
		{"rgba( 34, 197, 94, 1 )", Green500, false},
		{"rgb(59,130,246)", Blue500, false},
		{"#ffffff", White, false},
		{"#FFF", White, false},
		{"#22c55e", Green500, false},
		{"red", RGBA{}, true},
		{"rgba(1,2,3)", RGBA{}, true},
		{"rgb(300,0,0)", RGBA{}, true},
		{"rgba(1,2,3,1.5)", RGBA{}, true},
		{"#12345", RGBA{}, true},
		{"#zzzzzz", RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRGBAJSON(t *testing.T) {
	data, err := json.Marshal(Purple500.WithAlpha(0.2))
	require.NoError(t, err)
	assert.Equal(t, `"rgba(168,85,247,0.2)"`, string(data))

	var c RGBA
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, Purple500.WithAlpha(0.2), c)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &c))
}

func TestColorsJSON(t *testing.T) {
	single, err := json.Marshal(Colors{Green500})
	require.NoError(t, err)
	assert.Equal(t, `"rgba(34,197,94,1)"`, string(single))

	many, err := json.Marshal(Colors{Red500, Green500})
	require.NoError(t, err)
	assert.Equal(t, `["rgba(239,68,68,1)","rgba(34,197,94,1)"]`, string(many))

	empty, err := json.Marshal(Colors(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(empty))
}

func TestColorsAt(t *testing.T) {
	assert.Equal(t, RGBA{}, Colors(nil).At(3))
	assert.Equal(t, Blue500, Colors{Blue500}.At(7))
	assert.Equal(t, Green500, Colors{Red500, Green500}.At(1))
	assert.Equal(t, Red500, Colors{Red500, Green500}.At(2))
}

func TestRGBAConversions(t *testing.T) {
	assert.Equal(t, "EF4444", Red500.Hex())

	d := Red500.WithAlpha(0.8).Drawing()
	assert.Equal(t, uint8(239), d.R)
	assert.Equal(t, uint8(204), d.A)
}

func TestScoreColors(t *testing.T) {
	p := DefaultScorePalette()
	got := ScoreColors([]float64{20, 40, 60}, Darts501Thresholds, p)
	assert.Equal(t, Colors{p.Low, p.Mid, p.High}, got)
	assert.Equal(t, "rgba(239,68,68,0.8)", got[0].String())
	assert.Equal(t, "rgba(234,179,8,0.8)", got[1].String())
	assert.Equal(t, "rgba(34,197,94,0.8)", got[2].String())

	assert.Empty(t, ScoreColors(nil, Darts501Thresholds, p))
}

func TestColorsUnmarshalJSON(t *testing.T) {
	var cs Colors
	require.NoError(t, json.Unmarshal([]byte(`"rgba(34,197,94,0.2)"`), &cs))
	assert.Equal(t, Colors{Green500.WithAlpha(0.2)}, cs)

	require.NoError(t, json.Unmarshal([]byte(`["#ef4444","rgb(34,197,94)"]`), &cs))
	assert.Equal(t, Colors{Red500, Green500}, cs)

	assert.Error(t, json.Unmarshal([]byte(`42`), &cs))
}
