package charts

// ChartKind selects the chart type.
type ChartKind string

const (
	KindBar  ChartKind = "bar"
	KindLine ChartKind = "line"
)

// ChartConfig is a complete Chart.js configuration. SurfaceID and Title
// travel with the config but are not part of the Chart.js JSON.
type ChartConfig struct {
	SurfaceID string    `json:"-"`
	Title     string    `json:"-"`
	Type      ChartKind `json:"type"`
	Data      ChartData `json:"data"`
	Options   Options   `json:"options"`
}

// ChartData holds the shared x-axis labels and the datasets.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series.
type Dataset struct {
	Label            string    `json:"label"`
	Data             []float64 `json:"data"`
	Fill             bool      `json:"fill,omitempty"`
	BackgroundColor  Colors    `json:"backgroundColor"`
	BorderColor      Colors    `json:"borderColor"`
	BorderWidth      int       `json:"borderWidth,omitempty"`
	Tension          float64   `json:"tension,omitempty"`
	PointRadius      int       `json:"pointRadius,omitempty"`
	PointHoverRadius int       `json:"pointHoverRadius,omitempty"`
}

type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Scales              Scales  `json:"scales"`
	Plugins             Plugins `json:"plugins"`
}

type Scales struct {
	X Scale `json:"x"`
	Y Scale `json:"y"`
}

type Scale struct {
	BeginAtZero bool        `json:"beginAtZero,omitempty"`
	Title       *ScaleTitle `json:"title,omitempty"`
	Ticks       *Ticks      `json:"ticks,omitempty"`
	Grid        *Grid       `json:"grid,omitempty"`
}

type ScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   *RGBA  `json:"color,omitempty"`
	Font    *Font  `json:"font,omitempty"`
}

type Ticks struct {
	Display *bool `json:"display,omitempty"`
	Color   *RGBA `json:"color,omitempty"`
	Font    *Font `json:"font,omitempty"`
}

type Grid struct {
	Color      *RGBA `json:"color,omitempty"`
	DrawTicks  *bool `json:"drawTicks,omitempty"`
	DrawBorder *bool `json:"drawBorder,omitempty"`
}

type Plugins struct {
	Legend     Legend      `json:"legend"`
	Tooltip    *Tooltip    `json:"tooltip,omitempty"`
	Title      *TitleOpts  `json:"title,omitempty"`
	DataLabels *DataLabels `json:"datalabels,omitempty"`
}

type Legend struct {
	Display  bool          `json:"display"`
	Position string        `json:"position,omitempty"`
	Labels   *LegendLabels `json:"labels,omitempty"`
}

type LegendLabels struct {
	Color *RGBA `json:"color,omitempty"`
	Font  *Font `json:"font,omitempty"`
}

type Tooltip struct {
	Enabled bool `json:"enabled"`
}

type TitleOpts struct {
	Display bool   `json:"display"`
	Text    string `json:"text,omitempty"`
}

type DataLabels struct {
	Enabled bool `json:"enabled"`
}

// Len is the number of points on the x axis.
func (c *ChartConfig) Len() int {
	return len(c.Data.Labels)
}

// XTitle returns the x-axis title text, if any.
func (c *ChartConfig) XTitle() string {
	if c.Options.Scales.X.Title == nil {
		return ""
	}
	return c.Options.Scales.X.Title.Text
}

// YTitle returns the y-axis title text, if any.
func (c *ChartConfig) YTitle() string {
	if c.Options.Scales.Y.Title == nil {
		return ""
	}
	return c.Options.Scales.Y.Title.Text
}

func boolPtr(b bool) *bool {
	return &b
}
