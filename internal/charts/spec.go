package charts

import (
	"fmt"
	"strings"

	"homedash/internal/models"
)

// LegendMode controls legend visibility.
type LegendMode int

const (
	// LegendAuto shows the legend when at least one line series is labeled.
	// Score bars never show a legend in auto mode.
	LegendAuto LegendMode = iota
	LegendShow
	LegendHide
)

// ParseLegendMode parses "auto", "show" or "hide".
func ParseLegendMode(s string) (LegendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return LegendAuto, nil
	case "show", "true", "on":
		return LegendShow, nil
	case "hide", "false", "off":
		return LegendHide, nil
	default:
		return LegendAuto, fmt.Errorf("%w: unknown legend mode %q", ErrInvalidInput, s)
	}
}

// Line series styling shared by every line chart.
const (
	SeriesFillAlpha  = 0.2
	SeriesTension    = 0.2
	PointRadius      = 4
	PointHoverRadius = 6
)

// DefaultScoreLabel is the dataset label of score charts.
const DefaultScoreLabel = "Avg 3 Dart Score"

// SeriesSpec maps one record field to one line series. Color is the series
// hue; the border uses it opaque and the fill at SeriesFillAlpha.
type SeriesSpec struct {
	Field string
	Label string
	Color RGBA
}

// Spec describes a chart independently of its data.
type Spec struct {
	Name       string
	Title      string
	Kind       ChartKind
	LabelField string
	XAxisTitle string
	YAxisTitle string
	Legend     LegendMode

	// Line charts
	Series []SeriesSpec

	// Score bar charts
	DatasetLabel string
	Thresholds   Thresholds
	Palette      ScorePalette

	// Theme overrides the builder theme when set.
	Theme *Theme
}

// Input is the data a Spec is applied to. Line charts read Records, score
// bar charts read Scores.
type Input struct {
	Records []models.MetricRecord
	Scores  []float64
}

// Validate checks the spec without looking at data.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindBar:
		return s.Thresholds.Validate()
	case KindLine:
		if len(s.Series) == 0 {
			return fmt.Errorf("%w: line chart needs at least one series", ErrInvalidInput)
		}
		for i, series := range s.Series {
			if strings.TrimSpace(series.Field) == "" {
				return fmt.Errorf("%w: series %d has no field", ErrInvalidInput, i)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown chart kind %q", ErrInvalidInput, s.Kind)
	}
}

func (s Spec) labelField() string {
	if s.LabelField == "" {
		return models.DefaultLabelField
	}
	return s.LabelField
}

func (s Spec) xAxisTitle() string {
	if s.XAxisTitle == "" && s.Kind == KindLine {
		return "Date"
	}
	return s.XAxisTitle
}

func (s Spec) palette() ScorePalette {
	if s.Palette.IsZero() {
		return DefaultScorePalette()
	}
	return s.Palette
}

func (s Spec) datasetLabel() string {
	if s.DatasetLabel == "" {
		return DefaultScoreLabel
	}
	return s.DatasetLabel
}
