package charts

import (
	"context"
	"fmt"
	"time"

	"homedash/internal/logger"
	"homedash/internal/models"
)

// Observer receives build and render outcomes, e.g. for metrics.
type Observer interface {
	ObserveBuild(kind ChartKind, err error)
	ObserveRender(format Format, elapsed time.Duration, err error)
}

// Builder turns specs and data into chart configs and hands them to a
// renderer. It holds no per-call state and is safe for concurrent use as
// long as its SurfaceResolver is.
type Builder struct {
	surfaces SurfaceResolver
	theme    Theme
	renderer Renderer
	observer Observer
	log      *logger.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRenderer sets the renderer used by Render. Defaults to Chart.js.
func WithRenderer(r Renderer) BuilderOption {
	return func(b *Builder) { b.renderer = r }
}

// WithObserver reports build and render outcomes to o.
func WithObserver(o Observer) BuilderOption {
	return func(b *Builder) { b.observer = o }
}

// WithLogger replaces the component logger.
func WithLogger(l *logger.Logger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a builder bound to a set of surfaces and a theme.
func NewBuilder(surfaces SurfaceResolver, theme Theme, opts ...BuilderOption) *Builder {
	b := &Builder{
		surfaces: surfaces,
		theme:    theme,
		renderer: ChartJSRenderer{},
		log:      logger.Component("charts"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Theme returns the builder's theme.
func (b *Builder) Theme() Theme {
	return b.theme
}

// BuildScoreChart builds a bar chart with one bar per score, colored by
// threshold bucket.
func (b *Builder) BuildScoreChart(surfaceID string, scores []float64, thresholds Thresholds) (*ChartConfig, error) {
	spec := Spec{
		Kind:       KindBar,
		Thresholds: thresholds,
		YAxisTitle: "Average 3 Dart Score",
	}
	return b.Build(surfaceID, spec, Input{Scores: scores})
}

// BuildDualSeriesChart builds a filled line chart with two series sharing
// the date axis.
func (b *Builder) BuildDualSeriesChart(surfaceID string, records []models.MetricRecord, first, second SeriesSpec, axisLabel string) (*ChartConfig, error) {
	spec := Spec{
		Kind:       KindLine,
		Series:     []SeriesSpec{first, second},
		YAxisTitle: axisLabel,
	}
	return b.Build(surfaceID, spec, Input{Records: records})
}

// BuildSingleSeriesChart builds a filled line chart with one series. An
// empty series label hides the legend.
func (b *Builder) BuildSingleSeriesChart(surfaceID string, records []models.MetricRecord, series SeriesSpec, axisLabel string) (*ChartConfig, error) {
	spec := Spec{
		Kind:       KindLine,
		Series:     []SeriesSpec{series},
		YAxisTitle: axisLabel,
	}
	return b.Build(surfaceID, spec, Input{Records: records})
}

// Build applies spec to input. No partial config is returned on error.
func (b *Builder) Build(surfaceID string, spec Spec, input Input) (*ChartConfig, error) {
	cfg, err := b.build(surfaceID, spec, input)
	if b.observer != nil {
		b.observer.ObserveBuild(spec.Kind, err)
	}
	if err != nil {
		return nil, chartError("build", surfaceID, err)
	}

	b.log.Debug("chart config built", logger.Fields{
		"surface": surfaceID,
		"kind":    string(spec.Kind),
		"points":  cfg.Len(),
		"series":  len(cfg.Data.Datasets),
	})
	return cfg, nil
}

func (b *Builder) build(surfaceID string, spec Spec, input Input) (*ChartConfig, error) {
	if b.surfaces == nil {
		return nil, fmt.Errorf("%w: no surfaces declared", ErrInvalidSurface)
	}
	if _, err := b.surfaces.Resolve(surfaceID); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	theme := b.theme
	if spec.Theme != nil {
		theme = *spec.Theme
	}

	var (
		cfg *ChartConfig
		err error
	)
	switch spec.Kind {
	case KindBar:
		cfg, err = buildScoreBars(spec, theme, input.Scores)
	case KindLine:
		cfg, err = buildLines(spec, theme, input.Records)
	}
	if err != nil {
		return nil, err
	}

	cfg.SurfaceID = surfaceID
	cfg.Title = spec.Title
	return cfg, nil
}

func baseOptions() Options {
	return Options{Responsive: true, MaintainAspectRatio: false}
}

func buildScoreBars(spec Spec, theme Theme, scores []float64) (*ChartConfig, error) {
	if err := models.ValidateScores(scores); err != nil {
		return nil, err
	}

	data := make([]float64, len(scores))
	copy(data, scores)
	colors := ScoreColors(data, spec.Thresholds, spec.palette())

	cfg := &ChartConfig{
		Type: KindBar,
		Data: ChartData{
			Labels: make([]string, len(data)),
			Datasets: []Dataset{{
				Label:           spec.datasetLabel(),
				Data:            data,
				BackgroundColor: colors,
				BorderColor:     colors.Opaque(),
				BorderWidth:     1,
			}},
		},
		Options: baseOptions(),
	}

	cfg.Options.Scales.X = Scale{
		Ticks: &Ticks{Display: boolPtr(false)},
		Grid:  &Grid{DrawTicks: boolPtr(false), DrawBorder: boolPtr(false)},
	}
	if title := spec.xAxisTitle(); title != "" {
		cfg.Options.Scales.X.Title = theme.axisTitle(title)
	}
	cfg.Options.Scales.Y = Scale{
		BeginAtZero: true,
		Ticks:       theme.ticks(),
		Grid:        theme.grid(),
	}
	if spec.YAxisTitle != "" {
		cfg.Options.Scales.Y.Title = theme.axisTitle(spec.YAxisTitle)
	}

	cfg.Options.Plugins = Plugins{
		Legend:     legendFor(spec.Legend == LegendShow, theme),
		Tooltip:    &Tooltip{Enabled: true},
		DataLabels: &DataLabels{Enabled: false},
	}
	return cfg, nil
}

func buildLines(spec Spec, theme Theme, records []models.MetricRecord) (*ChartConfig, error) {
	labels, err := models.Labels(records, spec.labelField())
	if err != nil {
		return nil, err
	}

	datasets := make([]Dataset, 0, len(spec.Series))
	labeled := false
	for _, series := range spec.Series {
		values, err := models.Column(records, series.Field)
		if err != nil {
			return nil, err
		}
		if series.Label != "" {
			labeled = true
		}
		datasets = append(datasets, Dataset{
			Label:            series.Label,
			Data:             values,
			Fill:             true,
			BorderColor:      Colors{series.Color.Opaque()},
			BackgroundColor:  Colors{series.Color.WithAlpha(SeriesFillAlpha)},
			Tension:          SeriesTension,
			PointRadius:      PointRadius,
			PointHoverRadius: PointHoverRadius,
		})
	}

	cfg := &ChartConfig{
		Type:    KindLine,
		Data:    ChartData{Labels: labels, Datasets: datasets},
		Options: baseOptions(),
	}

	cfg.Options.Scales.X = Scale{
		Title: theme.axisTitle(spec.xAxisTitle()),
		Ticks: theme.ticks(),
		Grid:  theme.grid(),
	}
	cfg.Options.Scales.Y = Scale{
		BeginAtZero: true,
		Ticks:       theme.ticks(),
		Grid:        theme.grid(),
	}
	if spec.YAxisTitle != "" {
		cfg.Options.Scales.Y.Title = theme.axisTitle(spec.YAxisTitle)
	}

	show := labeled
	switch spec.Legend {
	case LegendShow:
		show = true
	case LegendHide:
		show = false
	}
	cfg.Options.Plugins = Plugins{
		Legend:  legendFor(show, theme),
		Tooltip: &Tooltip{Enabled: true},
		Title:   &TitleOpts{Display: false},
	}
	return cfg, nil
}

func legendFor(show bool, theme Theme) Legend {
	if !show {
		return Legend{Display: false}
	}
	return Legend{Display: true, Position: "bottom", Labels: theme.legendLabels()}
}

// Render binds cfg to its surface with the builder's renderer. The
// renderer is called exactly once; an unresolved surface fails before
// the call.
func (b *Builder) Render(ctx context.Context, cfg *ChartConfig) (*Widget, error) {
	return b.RenderWith(ctx, b.renderer, cfg)
}

// RenderWith is Render with an explicit renderer.
func (b *Builder) RenderWith(ctx context.Context, r Renderer, cfg *ChartConfig) (*Widget, error) {
	if cfg == nil {
		return nil, chartError("render", "", fmt.Errorf("%w: nil config", ErrInvalidInput))
	}
	if r == nil {
		return nil, chartError("render", cfg.SurfaceID, fmt.Errorf("%w: no renderer", ErrInvalidInput))
	}
	if b.surfaces == nil {
		return nil, chartError("render", cfg.SurfaceID, fmt.Errorf("%w: no surfaces declared", ErrInvalidSurface))
	}
	surface, err := b.surfaces.Resolve(cfg.SurfaceID)
	if err != nil {
		return nil, chartError("render", cfg.SurfaceID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, chartError("render", cfg.SurfaceID, err)
	}

	start := time.Now()
	widget, err := r.Render(ctx, surface, cfg)
	elapsed := time.Since(start)
	if b.observer != nil {
		b.observer.ObserveRender(r.Format(), elapsed, err)
	}
	if err != nil {
		b.log.Warn("chart render failed", logger.Fields{
			"surface": cfg.SurfaceID,
			"format":  string(r.Format()),
			"error":   err.Error(),
		})
		return nil, chartError("render", cfg.SurfaceID, err)
	}

	b.log.Debug("chart rendered", logger.Fields{
		"surface":     cfg.SurfaceID,
		"format":      string(r.Format()),
		"bytes":       len(widget.Content),
		"duration_ms": elapsed.Milliseconds(),
	})
	return widget, nil
}

// BuildAndRender is Build followed by Render.
func (b *Builder) BuildAndRender(ctx context.Context, surfaceID string, spec Spec, input Input) (*Widget, error) {
	cfg, err := b.Build(surfaceID, spec, input)
	if err != nil {
		return nil, err
	}
	return b.Render(ctx, cfg)
}
