package server

import (
	"strings"

	"homedash/internal/charts"
	"homedash/internal/models"
)

// ChartRequest is the body of POST /api/charts/{preset}. The surface is
// declared for the duration of the request.
type ChartRequest struct {
	Surface    string                `json:"surface"`
	Width      int                   `json:"width,omitempty"`
	Height     int                   `json:"height,omitempty"`
	Title      string                `json:"title,omitempty"`
	Theme      string                `json:"theme,omitempty"`
	Records    []models.MetricRecord `json:"records,omitempty"`
	Scores     []float64             `json:"scores,omitempty"`
	Thresholds *charts.Thresholds    `json:"thresholds,omitempty"`
}

// PanelRequest is one chart of a dashboard request.
type PanelRequest struct {
	Preset string `json:"preset"`
	ChartRequest
}

// DashboardRequest is the body of POST /api/dashboard.
type DashboardRequest struct {
	Title  string         `json:"title"`
	Intro  string         `json:"intro,omitempty"`
	Theme  string         `json:"theme,omitempty"`
	Panels []PanelRequest `json:"panels"`
}

// PresetInfo describes a preset in GET /api/presets.
type PresetInfo struct {
	Name       string             `json:"name"`
	Title      string             `json:"title,omitempty"`
	Kind       charts.ChartKind   `json:"kind"`
	XAxisTitle string             `json:"x_axis_title,omitempty"`
	YAxisTitle string             `json:"y_axis_title,omitempty"`
	Fields     []string           `json:"fields,omitempty"`
	Thresholds *charts.Thresholds `json:"thresholds,omitempty"`
}

func presetInfo(spec charts.Spec) PresetInfo {
	info := PresetInfo{
		Name:       spec.Name,
		Title:      spec.Title,
		Kind:       spec.Kind,
		XAxisTitle: spec.XAxisTitle,
		YAxisTitle: spec.YAxisTitle,
	}
	if spec.Kind == charts.KindLine && info.XAxisTitle == "" {
		info.XAxisTitle = "Date"
	}
	for _, series := range spec.Series {
		info.Fields = append(info.Fields, series.Field)
	}
	if spec.Kind == charts.KindBar {
		t := spec.Thresholds
		info.Thresholds = &t
	}
	return info
}

// apply merges request overrides into a preset spec.
func (r ChartRequest) apply(spec charts.Spec) (charts.Spec, error) {
	if r.Title != "" {
		spec.Title = r.Title
	}
	if r.Thresholds != nil {
		spec.Thresholds = *r.Thresholds
	}
	if strings.TrimSpace(r.Theme) != "" {
		theme, err := charts.ThemeByName(r.Theme)
		if err != nil {
			return charts.Spec{}, err
		}
		spec.Theme = &theme
	}
	return spec, nil
}

func (r ChartRequest) input() charts.Input {
	return charts.Input{Records: r.Records, Scores: r.Scores}
}
