package charts

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// ChartJSCDN is the Chart.js bundle the snippets expect on the page.
const ChartJSCDN = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

// ChartSnippet is an embeddable chart fragment.
// Div holds the sized container and canvas, Script the <script> block that
// instantiates the chart on that canvas, and HTML both plus the library
// include, ready for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// ChartJSRenderer renders a config as a Chart.js canvas snippet.
type ChartJSRenderer struct {
	// OmitLibrary leaves the Chart.js <script src> out of HTML, for pages
	// that include it once.
	OmitLibrary bool
}

func (ChartJSRenderer) Format() Format { return FormatChartJS }

func (r ChartJSRenderer) Render(ctx context.Context, surface Surface, cfg *ChartConfig) (*Widget, error) {
	snippet, err := r.Snippet(surface, cfg)
	if err != nil {
		return nil, err
	}
	return &Widget{
		SurfaceID: surface.ID,
		Format:    FormatChartJS,
		Content:   []byte(snippet.HTML),
		Snippet:   &snippet,
	}, nil
}

// Snippet builds the canvas and bootstrap script for cfg on surface.
func (r ChartJSRenderer) Snippet(surface Surface, cfg *ChartConfig) (ChartSnippet, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode chart config: %w", err)
	}
	// json.Marshal escapes <, > and &, so both literals are safe inside <script>.
	idJSON, err := json.Marshal(surface.ID)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode surface id: %w", err)
	}

	width, height := surface.Size()
	id := html.EscapeString(surface.ID)

	div := fmt.Sprintf(`<div class="chart-canvas" style="position:relative;width:100%%;height:%dpx;"><canvas id="%s" width="%d" height="%d"></canvas></div>`,
		height, id, width, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById(%s);if(!el)return;new Chart(el.getContext('2d'),%s);})();</script>`,
		idJSON, cfgJSON)

	var b strings.Builder
	if !r.OmitLibrary {
		fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", ChartJSCDN)
	}
	b.WriteString("<div class=\"chart-container\">\n")
	if cfg.Title != "" {
		fmt.Fprintf(&b, "\t<h3>%s</h3>\n", html.EscapeString(cfg.Title))
	}
	fmt.Fprintf(&b, "\t%s\n</div>\n%s", div, script)

	return ChartSnippet{
		ID:     surface.ID,
		Title:  cfg.Title,
		Div:    div,
		Script: script,
		HTML:   b.String(),
	}, nil
}

// ExtractScriptContent strips the <script> tags from a snippet script.
func ExtractScriptContent(script string) string {
	content := strings.TrimSpace(script)
	content = strings.TrimPrefix(content, "<script>")
	content = strings.TrimSuffix(content, "</script>")
	return strings.TrimSpace(content)
}
