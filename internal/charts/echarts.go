package charts

import (
	"bytes"
	"context"
	"fmt"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// EChartsRenderer renders a config as a standalone go-echarts page.
type EChartsRenderer struct {
	// Theme overrides the ECharts theme picked from the config styling.
	Theme string
}

func (EChartsRenderer) Format() Format { return FormatECharts }

func (r EChartsRenderer) Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error) {
	width, height := surface.Size()
	global := []echarts.GlobalOpts{
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: pageTitle(cfg),
			ChartID:   surface.ID,
			Theme:     r.theme(cfg),
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		echarts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: cfg.Options.Plugins.Tooltip != nil && cfg.Options.Plugins.Tooltip.Enabled, Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: cfg.Options.Plugins.Legend.Display, Bottom: "0"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: cfg.XTitle()}),
		echarts.WithYAxisOpts(opts.YAxis{Name: cfg.YTitle(), Min: 0}),
	}

	var buf bytes.Buffer
	switch cfg.Type {
	case KindBar:
		bar := echarts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(cfg.Data.Labels)
		for _, ds := range cfg.Data.Datasets {
			items := make([]opts.BarData, len(ds.Data))
			for i, v := range ds.Data {
				items[i] = opts.BarData{
					Value: v,
					ItemStyle: &opts.ItemStyle{
						Color:       ds.BackgroundColor.At(i).String(),
						BorderColor: ds.BorderColor.At(i).String(),
					},
				}
			}
			bar.AddSeries(ds.Label, items)
		}
		if err := bar.Render(&buf); err != nil {
			return nil, fmt.Errorf("failed to render echarts bar chart: %w", err)
		}
	case KindLine:
		line := echarts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(cfg.Data.Labels)
		for _, ds := range cfg.Data.Datasets {
			items := make([]opts.LineData, len(ds.Data))
			for i, v := range ds.Data {
				items[i] = opts.LineData{Value: v}
			}
			stroke := ds.BorderColor.At(0)
			fill := ds.BackgroundColor.At(0)
			seriesOpts := []echarts.SeriesOpts{
				echarts.WithLineChartOpts(opts.LineChart{Smooth: ds.Tension > 0}),
				echarts.WithLineStyleOpts(opts.LineStyle{Color: stroke.String(), Width: 2}),
				echarts.WithItemStyleOpts(opts.ItemStyle{Color: stroke.String()}),
			}
			if ds.Fill {
				seriesOpts = append(seriesOpts, echarts.WithAreaStyleOpts(opts.AreaStyle{
					Color:   fill.Opaque().String(),
					Opacity: float32(fill.A),
				}))
			}
			line.AddSeries(ds.Label, items, seriesOpts...)
		}
		if err := line.Render(&buf); err != nil {
			return nil, fmt.Errorf("failed to render echarts line chart: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported chart kind %q", ErrInvalidInput, cfg.Type)
	}

	return &Widget{SurfaceID: surface.ID, Format: FormatECharts, Content: buf.Bytes()}, nil
}

func (r EChartsRenderer) theme(cfg *ChartConfig) string {
	if r.Theme != "" {
		return r.Theme
	}
	if t := cfg.Options.Scales.Y.Title; t != nil && t.Color != nil {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

func pageTitle(cfg *ChartConfig) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	return "homedash chart"
}
