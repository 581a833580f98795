package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"homedash/internal/charts"
	"homedash/internal/config"
	"homedash/internal/logger"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Panel is one chart on the page. Script is the bootstrap code without its
// <script> element; the page template wraps it.
type Panel struct {
	ID     string
	Title  string
	Div    template.HTML
	Script template.JS
}

type pageData struct {
	Title       string
	Intro       template.HTML
	ChartJS     string
	Dark        bool
	Version     string
	GeneratedAt string
	Panels      []Panel
}

// Page is an HTML document hosting Chart.js panels. It declares the
// surfaces charts bind to, so it doubles as the builder's SurfaceResolver.
type Page struct {
	Title string
	Dark  bool

	doc      *charts.Document
	intro    string
	panels   []Panel
	markdown *Markdown
	now      func() time.Time
	log      *logger.Logger
}

// NewPage creates an empty page.
func NewPage(title string, dark bool) *Page {
	doc, _ := charts.NewDocument()
	return &Page{
		Title:    title,
		Dark:     dark,
		doc:      doc,
		markdown: NewMarkdown(),
		now:      time.Now,
		log:      logger.Component("dashboard"),
	}
}

// Declare adds a chart surface to the page.
func (p *Page) Declare(id string, width, height int) error {
	return p.doc.Declare(id, width, height)
}

// Resolve implements charts.SurfaceResolver.
func (p *Page) Resolve(id string) (charts.Surface, error) {
	return p.doc.Resolve(id)
}

// SetIntro sets markdown shown above the panels.
func (p *Page) SetIntro(markdown string) {
	p.intro = markdown
}

// AddPanel places a rendered Chart.js snippet on the page. The snippet must
// be bound to a surface declared on this page, and each surface hosts one
// panel. An empty title falls back to the snippet title, then to the
// surface id.
func (p *Page) AddPanel(title string, snippet charts.ChartSnippet) error {
	if _, err := p.doc.Resolve(snippet.ID); err != nil {
		return err
	}
	for _, existing := range p.panels {
		if existing.ID == snippet.ID {
			return fmt.Errorf("%w: surface %q already hosts a panel", charts.ErrInvalidSurface, snippet.ID)
		}
	}

	if title == "" {
		title = snippet.Title
	}
	if title == "" {
		title = ToTitleCase(strings.NewReplacer("-", " ", "_", " ").Replace(snippet.ID))
	}

	p.panels = append(p.panels, Panel{
		ID:     snippet.ID,
		Title:  title,
		Div:    template.HTML(snippet.Div),
		Script: template.JS(charts.ExtractScriptContent(snippet.Script)),
	})
	return nil
}

// AddWidget is AddPanel for a widget rendered by charts.ChartJSRenderer.
func (p *Page) AddWidget(title string, w *charts.Widget) error {
	if w == nil || w.Snippet == nil {
		return fmt.Errorf("%w: widget has no Chart.js snippet", charts.ErrInvalidInput)
	}
	return p.AddPanel(title, *w.Snippet)
}

// Panels returns the panels in page order.
func (p *Page) Panels() []Panel {
	out := make([]Panel, len(p.panels))
	copy(out, p.panels)
	return out
}

// HTML renders the complete document. Chart.js is included once in the head.
func (p *Page) HTML() (string, error) {
	intro, err := p.markdown.Convert(p.intro)
	if err != nil {
		return "", err
	}

	data := pageData{
		Title:       p.Title,
		Intro:       template.HTML(intro),
		ChartJS:     charts.ChartJSCDN,
		Dark:        p.Dark,
		Version:     config.GetVersion(),
		GeneratedAt: p.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Panels:      p.panels,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute page template: %w", err)
	}

	p.log.Debug("dashboard page rendered", logger.Fields{
		"panels": len(p.panels),
		"bytes":  buf.Len(),
	})
	return buf.String(), nil
}
