package charts

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGRenderer renders a config as a static image with go-chart.
type PNGRenderer struct{}

func (PNGRenderer) Format() Format { return FormatPNG }

func (r PNGRenderer) Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error) {
	width, height := surface.Size()

	var buf bytes.Buffer
	var err error
	switch cfg.Type {
	case KindBar:
		err = renderBarPNG(&buf, cfg, width, height)
	case KindLine:
		err = renderLinePNG(&buf, cfg, width, height)
	default:
		err = fmt.Errorf("%w: unsupported chart kind %q", ErrInvalidInput, cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	return &Widget{SurfaceID: surface.ID, Format: FormatPNG, Content: buf.Bytes()}, nil
}

func pngBackground() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
	}
}

// valueRange spans zero and every value, with headroom above the maximum.
// An empty or flat series still gets a non-degenerate 0..1 range.
func valueRange(series ...[]float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, values := range series {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi <= lo {
		hi = lo + 1
	} else {
		hi += (hi - lo) * 0.1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func placeholderStyle() chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		FillColor:   drawing.ColorTransparent,
		StrokeWidth: 1,
	}
}

func renderBarPNG(buf *bytes.Buffer, cfg *ChartConfig, width, height int) error {
	graph := chart.BarChart{
		Title:      cfg.Title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: pngBackground(),
		Width:      width,
		Height:     height,
		XAxis:      chart.Style{FontSize: 10},
		YAxis: chart.YAxis{
			Name:      cfg.YTitle(),
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
	}

	var all [][]float64
	for _, ds := range cfg.Data.Datasets {
		all = append(all, ds.Data)
		for i, v := range ds.Data {
			graph.Bars = append(graph.Bars, chart.Value{
				Value: v,
				Label: cfg.Data.Labels[i],
				Style: chart.Style{
					FillColor:   ds.BackgroundColor.At(i).Drawing(),
					StrokeColor: ds.BorderColor.At(i).Drawing(),
					StrokeWidth: float64(ds.BorderWidth),
				},
			})
		}
	}
	graph.YAxis.Range = valueRange(all...)

	// BarChart refuses to render without bars.
	if len(graph.Bars) == 0 {
		graph.Bars = []chart.Value{{Value: 0, Style: placeholderStyle()}}
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

func renderLinePNG(buf *bytes.Buffer, cfg *ChartConfig, width, height int) error {
	n := cfg.Len()
	xValues := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, label := range cfg.Data.Labels {
		xValues[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	graph := chart.Chart{
		Title:      cfg.Title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: pngBackground(),
		Width:      width,
		Height:     height,
		XAxis: chart.XAxis{
			Name:      cfg.XTitle(),
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 9},
			Range:     &chart.ContinuousRange{Min: 0, Max: math.Max(float64(n-1), 1)},
			Ticks:     ticks,
		},
		YAxis: chart.YAxis{
			Name:      cfg.YTitle(),
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
	}

	var all [][]float64
	for i, ds := range cfg.Data.Datasets {
		all = append(all, ds.Data)
		if len(ds.Data) == 0 {
			continue
		}
		stroke := ds.BorderColor.At(0).Drawing()
		style := chart.Style{
			StrokeColor: stroke,
			StrokeWidth: 2,
			DotColor:    stroke,
			DotWidth:    float64(ds.PointRadius),
		}
		if ds.Fill {
			style.FillColor = ds.BackgroundColor.At(0).Drawing()
		}
		name := ds.Label
		if name == "" {
			name = fmt.Sprintf("series %d", i+1)
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    name,
			Style:   style,
			XValues: xValues,
			YValues: ds.Data,
		})
	}
	graph.YAxis.Range = valueRange(all...)

	// Chart refuses to render without a visible series.
	if len(graph.Series) == 0 {
		graph.Series = []chart.Series{chart.ContinuousSeries{
			Style:   placeholderStyle(),
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
		}}
		graph.XAxis.Ticks = nil
	} else if cfg.Options.Plugins.Legend.Display {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render line chart: %w", err)
	}
	return nil
}
