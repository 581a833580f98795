package charts

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreConfig(t *testing.T) *ChartConfig {
	t.Helper()
	b := NewBuilder(OpenSurfaces{}, DarkTheme())
	cfg, err := b.BuildScoreChart("dartChart", []float64{20, 40, 60}, Darts501Thresholds)
	require.NoError(t, err)
	return cfg
}

func speedConfig(t *testing.T) *ChartConfig {
	t.Helper()
	b := NewBuilder(OpenSurfaces{}, DarkTheme())
	cfg, err := b.BuildDualSeriesChart("speedChart", presetRecords(),
		SeriesSpec{Field: "download", Label: "Download", Color: Blue500},
		SeriesSpec{Field: "upload", Label: "Upload", Color: Purple500},
		"Mbps")
	require.NoError(t, err)
	return cfg
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{" PNG ", FormatPNG, false},
		{"chartjs", FormatChartJS, false},
		{"echarts", FormatECharts, false},
		{"xlsx", FormatXLSX, false},
		{"svg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "image/png", FormatPNG.ContentType())
	assert.Equal(t, ".png", FormatPNG.Extension())
	assert.Equal(t, "text/html; charset=utf-8", FormatChartJS.ContentType())
	assert.Equal(t, ".html", FormatECharts.Extension())
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())

	for _, f := range Formats {
		r, err := RendererFor(f)
		require.NoError(t, err)
		assert.Equal(t, f, r.Format())
	}
	_, err := RendererFor("gif")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestJSONRenderer(t *testing.T) {
	cfg := scoreConfig(t)
	surface := Surface{ID: "dartChart"}

	w, err := JSONRenderer{}.Render(context.Background(), surface, cfg)
	require.NoError(t, err)
	var decoded ChartConfig
	require.NoError(t, json.Unmarshal(w.Content, &decoded))
	assert.Equal(t, KindBar, decoded.Type)
	assert.Equal(t, cfg.Data.Datasets[0].Data, decoded.Data.Datasets[0].Data)

	indented, err := JSONRenderer{Indent: true}.Render(context.Background(), surface, cfg)
	require.NoError(t, err)
	assert.Contains(t, string(indented.Content), "\n  ")
}

func TestChartJSSnippet(t *testing.T) {
	cfg := speedConfig(t)
	cfg.Title = "Network <Speed>"
	surface := Surface{ID: "speedChart", Width: 500, Height: 250}

	w, err := ChartJSRenderer{}.Render(context.Background(), surface, cfg)
	require.NoError(t, err)
	require.NotNil(t, w.Snippet)
	assert.Equal(t, "text/html; charset=utf-8", w.ContentType())

	snippet := w.Snippet
	assert.Equal(t, "speedChart", snippet.ID)
	assert.Contains(t, snippet.Div, `<canvas id="speedChart" width="500" height="250">`)
	assert.Contains(t, snippet.Div, "height:250px")
	assert.Contains(t, snippet.Script, `document.getElementById("speedChart")`)
	assert.Contains(t, snippet.Script, "new Chart(el.getContext('2d'),")
	assert.Contains(t, snippet.Script, `"type":"line"`)
	assert.Contains(t, snippet.HTML, ChartJSCDN)
	assert.Contains(t, snippet.HTML, "<h3>Network &lt;Speed&gt;</h3>")
	assert.Equal(t, snippet.HTML, string(w.Content))

	omitted, err := ChartJSRenderer{OmitLibrary: true}.Snippet(surface, cfg)
	require.NoError(t, err)
	assert.NotContains(t, omitted.HTML, ChartJSCDN)
}

func TestChartJSSnippetEscapesID(t *testing.T) {
	cfg := scoreConfig(t)
	snippet, err := ChartJSRenderer{}.Snippet(Surface{ID: `x"></canvas><script>`}, cfg)
	require.NoError(t, err)
	assert.NotContains(t, snippet.Div, `<script>`)
	assert.NotContains(t, ExtractScriptContent(snippet.Script), "</canvas>")
}

func TestExtractScriptContent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<script>var a = 1;</script>", "var a = 1;"},
		{"  <script>\n  go();\n</script>  ", "go();"},
		{"plain()", "plain()"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractScriptContent(tt.input); got != tt.expected {
			t.Errorf("ExtractScriptContent(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestEChartsRenderer(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *ChartConfig
		series []string
	}{
		{"bar", scoreConfig(t), []string{DefaultScoreLabel}},
		{"line", speedConfig(t), []string{"Download", "Upload"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := EChartsRenderer{}.Render(context.Background(), Surface{ID: tt.cfg.SurfaceID, Width: 700, Height: 350}, tt.cfg)
			require.NoError(t, err)
			page := string(w.Content)
			assert.Contains(t, page, "echarts")
			assert.Contains(t, page, "700px")
			for _, name := range tt.series {
				assert.Contains(t, page, name)
			}
		})
	}
}

func TestEChartsTheme(t *testing.T) {
	assert.Equal(t, "chalk", EChartsRenderer{}.theme(scoreConfig(t)))
	assert.Equal(t, "vintage", EChartsRenderer{Theme: "vintage"}.theme(scoreConfig(t)))

	b := NewBuilder(OpenSurfaces{}, PlainTheme())
	cfg, err := b.BuildScoreChart("plain", []float64{1}, Darts501Thresholds)
	require.NoError(t, err)
	assert.Equal(t, "westeros", EChartsRenderer{}.theme(cfg))
}

func TestPNGRenderer(t *testing.T) {
	signature := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

	for name, cfg := range map[string]*ChartConfig{"bar": scoreConfig(t), "line": speedConfig(t)} {
		t.Run(name, func(t *testing.T) {
			w, err := PNGRenderer{}.Render(context.Background(), Surface{ID: cfg.SurfaceID, Width: 400, Height: 200}, cfg)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(w.Content, signature), "content is not a PNG")
			assert.Equal(t, "image/png", w.ContentType())
		})
	}
}

func TestValueRange(t *testing.T) {
	r := valueRange()
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 1.0, r.Max)

	r = valueRange([]float64{10, 20}, []float64{5})
	assert.Equal(t, 0.0, r.Min)
	assert.InDelta(t, 22.0, r.Max, 1e-9)

	r = valueRange([]float64{-4, 0})
	assert.Equal(t, -4.0, r.Min)
	assert.InDelta(t, 0.4, r.Max, 1e-9)
}

func TestXLSXRenderer(t *testing.T) {
	for name, cfg := range map[string]*ChartConfig{"bar": scoreConfig(t), "line": speedConfig(t)} {
		t.Run(name, func(t *testing.T) {
			w, err := XLSXRenderer{}.Render(context.Background(), Surface{ID: cfg.SurfaceID}, cfg)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(w.Content, []byte("PK")), "content is not a zip archive")

			zr, err := zip.NewReader(bytes.NewReader(w.Content), int64(len(w.Content)))
			require.NoError(t, err)
			var hasChart bool
			for _, f := range zr.File {
				if strings.HasPrefix(f.Name, "xl/charts/chart") {
					hasChart = true
				}
			}
			assert.True(t, hasChart, "workbook has no chart part")
		})
	}
}

func TestRenderersRejectUnknownKind(t *testing.T) {
	cfg := &ChartConfig{Type: "pie"}
	for _, r := range []Renderer{EChartsRenderer{}, PNGRenderer{}, XLSXRenderer{}} {
		_, err := r.Render(context.Background(), Surface{ID: "x"}, cfg)
		assert.ErrorIs(t, err, ErrInvalidInput, "%s", r.Format())
	}
}
