package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedash/internal/charts"
)

const presetsYAML = `
presets:
  - name: cricket
    title: Cricket MPR
    kind: bar
    y_axis_title: Marks Per Round
    dataset_label: MPR
    thresholds:
      low: 1.5
      high: 2.5
    palette:
      low: "rgba(239,68,68,0.6)"
      mid: "#eab308"
      high: "rgb(34,197,94)"
  - name: network-speed
    kind: line
    y_axis_title: Mbit/s
    legend: hide
    theme: plain
    series:
      - field: download
        label: Down
        color: "#3b82f6"
`

func writePresets(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets(writePresets(t, "presets.yaml", presetsYAML))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	cricket := presets[0]
	assert.Equal(t, "cricket", cricket.Name)
	require.NotNil(t, cricket.Thresholds)
	assert.Equal(t, charts.Thresholds{Low: 1.5, High: 2.5}, *cricket.Thresholds)

	spec, err := cricket.Spec()
	require.NoError(t, err)
	assert.Equal(t, charts.KindBar, spec.Kind)
	assert.Equal(t, "MPR", spec.DatasetLabel)
	assert.Equal(t, charts.Red500.WithAlpha(0.6), spec.Palette.Low)
	assert.Equal(t, charts.Yellow500, spec.Palette.Mid)
	assert.Equal(t, charts.Green500, spec.Palette.High)

	speed, err := presets[1].Spec()
	require.NoError(t, err)
	assert.Equal(t, charts.LegendHide, speed.Legend)
	require.NotNil(t, speed.Theme)
	assert.Equal(t, "plain", speed.Theme.Name)
	require.Len(t, speed.Series, 1)
	assert.Equal(t, charts.Blue500, speed.Series[0].Color)
}

func TestLoadPresetsJSON(t *testing.T) {
	path := writePresets(t, "presets.json", `{"presets":[{"name":"solar","kind":"line","series":[{"field":"produced","color":"#22c55e"}]}]}`)
	presets, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 1)

	spec, err := presets[0].Spec()
	require.NoError(t, err)
	assert.Equal(t, "produced", spec.Series[0].Field)
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPresetConfigSpecErrors(t *testing.T) {
	tests := []struct {
		name   string
		preset PresetConfig
	}{
		{"unknown kind", PresetConfig{Name: "x", Kind: "pie"}},
		{"bad color", PresetConfig{Name: "x", Kind: "line", Series: []SeriesConfig{{Field: "usage", Color: "teal"}}}},
		{"bad legend", PresetConfig{Name: "x", Kind: "line", Legend: "maybe", Series: []SeriesConfig{{Field: "usage", Color: "#fff"}}}},
		{"bad theme", PresetConfig{Name: "x", Kind: "bar", Theme: "neon"}},
		{"inverted thresholds", PresetConfig{Name: "x", Kind: "bar", Thresholds: &charts.Thresholds{Low: 5, High: 1}}},
		{"bad palette", PresetConfig{Name: "x", Kind: "bar", Palette: &PaletteConfig{Low: "#fff", Mid: "nope", High: "#000"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.preset.Spec()
			assert.Error(t, err)
		})
	}
}

func TestConfigRegistry(t *testing.T) {
	cfg := &Config{}
	registry, err := cfg.Registry()
	require.NoError(t, err)
	assert.Len(t, registry.Names(), len(charts.DefaultPresets()))

	cfg.PresetsFile = writePresets(t, "presets.yaml", presetsYAML)
	registry, err = cfg.Registry()
	require.NoError(t, err)
	assert.Contains(t, registry.Names(), "cricket")
	assert.Len(t, registry.Names(), len(charts.DefaultPresets())+1)

	speed, err := registry.Get(charts.PresetNetworkSpeed)
	require.NoError(t, err)
	assert.Equal(t, "Mbit/s", speed.YAxisTitle)

	cfg.PresetsFile = writePresets(t, "broken.yaml", "presets:\n  - name: broken\n    kind: line\n")
	_, err = cfg.Registry()
	assert.ErrorIs(t, err, charts.ErrInvalidInput)
}
