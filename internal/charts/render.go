package charts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Format names a rendering back end.
type Format string

const (
	FormatJSON    Format = "json"
	FormatChartJS Format = "chartjs"
	FormatECharts Format = "echarts"
	FormatPNG     Format = "png"
	FormatXLSX    Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatChartJS, FormatECharts, FormatPNG, FormatXLSX}

// ParseFormat resolves a format name; empty means json.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidInput, s)
}

// ContentType is the MIME type of rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatChartJS, FormatECharts:
		return "text/html; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension is the file extension of rendered output, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatChartJS, FormatECharts:
		return ".html"
	case FormatPNG:
		return ".png"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".json"
	}
}

// Widget is a chart bound to a surface. Content holds the rendered bytes.
type Widget struct {
	SurfaceID string
	Format    Format
	Content   []byte
	Snippet   *ChartSnippet
}

// ContentType of the widget's content.
func (w *Widget) ContentType() string {
	return w.Format.ContentType()
}

// Renderer binds a config to a surface.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error)
}

// RendererFor returns the renderer for a format.
func RendererFor(f Format) (Renderer, error) {
	switch f {
	case FormatJSON, "":
		return JSONRenderer{}, nil
	case FormatChartJS:
		return ChartJSRenderer{}, nil
	case FormatECharts:
		return EChartsRenderer{}, nil
	case FormatPNG:
		return PNGRenderer{}, nil
	case FormatXLSX:
		return XLSXRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, f)
	}
}

// JSONRenderer emits the Chart.js config itself.
type JSONRenderer struct {
	Indent bool
}

func (JSONRenderer) Format() Format { return FormatJSON }

func (r JSONRenderer) Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error) {
	var (
		data []byte
		err  error
	)
	if r.Indent {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = json.Marshal(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart config: %w", err)
	}
	return &Widget{SurfaceID: surface.ID, Format: FormatJSON, Content: data}, nil
}
