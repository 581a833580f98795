package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"homedash/internal/charts"
)

// SeriesConfig is one line series of a preset file entry.
type SeriesConfig struct {
	Field string `mapstructure:"field"`
	Label string `mapstructure:"label"`
	Color string `mapstructure:"color"`
}

// PaletteConfig overrides the score bucket colors.
type PaletteConfig struct {
	Low  string `mapstructure:"low"`
	Mid  string `mapstructure:"mid"`
	High string `mapstructure:"high"`
}

// PresetConfig is one entry of a presets file. Colors accept the forms
// charts.ParseColor does.
type PresetConfig struct {
	Name         string             `mapstructure:"name"`
	Title        string             `mapstructure:"title"`
	Kind         string             `mapstructure:"kind"`
	LabelField   string             `mapstructure:"label_field"`
	XAxisTitle   string             `mapstructure:"x_axis_title"`
	YAxisTitle   string             `mapstructure:"y_axis_title"`
	Legend       string             `mapstructure:"legend"`
	DatasetLabel string             `mapstructure:"dataset_label"`
	Theme        string             `mapstructure:"theme"`
	Thresholds   *charts.Thresholds `mapstructure:"thresholds"`
	Palette      *PaletteConfig     `mapstructure:"palette"`
	Series       []SeriesConfig     `mapstructure:"series"`
}

// LoadPresets reads the "presets" list of a YAML, JSON or TOML file.
func LoadPresets(path string) ([]PresetConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read presets file %s: %w", path, err)
	}

	var presets []PresetConfig
	if err := v.UnmarshalKey("presets", &presets); err != nil {
		return nil, fmt.Errorf("failed to decode presets file %s: %w", path, err)
	}
	return presets, nil
}

// Spec converts the entry to a chart spec.
func (p PresetConfig) Spec() (charts.Spec, error) {
	spec := charts.Spec{
		Name:         strings.TrimSpace(p.Name),
		Title:        p.Title,
		Kind:         charts.ChartKind(strings.ToLower(strings.TrimSpace(p.Kind))),
		LabelField:   p.LabelField,
		XAxisTitle:   p.XAxisTitle,
		YAxisTitle:   p.YAxisTitle,
		DatasetLabel: p.DatasetLabel,
	}

	legend, err := charts.ParseLegendMode(p.Legend)
	if err != nil {
		return charts.Spec{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	spec.Legend = legend

	if p.Theme != "" {
		theme, err := charts.ThemeByName(p.Theme)
		if err != nil {
			return charts.Spec{}, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		spec.Theme = &theme
	}

	if p.Thresholds != nil {
		spec.Thresholds = *p.Thresholds
	}

	if p.Palette != nil {
		palette, err := p.Palette.palette()
		if err != nil {
			return charts.Spec{}, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		spec.Palette = palette
	}

	for i, s := range p.Series {
		color, err := charts.ParseColor(s.Color)
		if err != nil {
			return charts.Spec{}, fmt.Errorf("preset %q series %d: %w", p.Name, i, err)
		}
		spec.Series = append(spec.Series, charts.SeriesSpec{Field: s.Field, Label: s.Label, Color: color})
	}

	if err := spec.Validate(); err != nil {
		return charts.Spec{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return spec, nil
}

func (p PaletteConfig) palette() (charts.ScorePalette, error) {
	var palette charts.ScorePalette
	var err error
	if palette.Low, err = charts.ParseColor(p.Low); err != nil {
		return palette, fmt.Errorf("palette low: %w", err)
	}
	if palette.Mid, err = charts.ParseColor(p.Mid); err != nil {
		return palette, fmt.Errorf("palette mid: %w", err)
	}
	if palette.High, err = charts.ParseColor(p.High); err != nil {
		return palette, fmt.Errorf("palette high: %w", err)
	}
	return palette, nil
}

// Registry returns the default presets overridden and extended by the
// presets file, if one is configured.
func (c *Config) Registry() (*charts.Registry, error) {
	registry := charts.DefaultRegistry()
	if c.PresetsFile == "" {
		return registry, nil
	}

	presets, err := LoadPresets(c.PresetsFile)
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		spec, err := p.Spec()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
