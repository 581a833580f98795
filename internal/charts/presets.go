package charts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownPreset is returned for preset names the registry does not hold.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names of the dashboard charts.
const (
	PresetDarts501          = "darts-501"
	PresetDartsTraining     = "darts-score-training"
	PresetEmporiaUsage      = "emporia-usage"
	PresetEmporiaUsageOnly  = "emporia-usage-only"
	PresetEnphaseProduction = "enphase-production"
	PresetNetworkSpeed      = "network-speed"
	PresetNetworkLatency    = "network-latency"
)

// DefaultPresets returns the dashboard's charts as specs. The score charts
// and the single-series energy charts are unstyled whatever the builder
// theme; the rest follow it.
func DefaultPresets() []Spec {
	plain := PlainTheme()
	return []Spec{
		scorePreset(PresetDarts501, "501 Average", Darts501Thresholds),
		scorePreset(PresetDartsTraining, "Score Training Average", ScoreTrainingThresholds),
		{
			Name:       PresetEmporiaUsage,
			Title:      "Energy Usage",
			Kind:       KindLine,
			YAxisTitle: "kWh",
			Series: []SeriesSpec{
				{Field: "usage", Label: "Usage", Color: Red400},
				{Field: "produced", Label: "Produced", Color: Green500},
			},
		},
		{
			Name:       PresetEmporiaUsageOnly,
			Title:      "Energy Usage",
			Kind:       KindLine,
			YAxisTitle: "kWh",
			Series:     []SeriesSpec{{Field: "usage", Color: Green500}},
			Theme:      &plain,
		},
		{
			Name:       PresetEnphaseProduction,
			Title:      "Solar Production",
			Kind:       KindLine,
			YAxisTitle: "kWh",
			Series:     []SeriesSpec{{Field: "produced", Color: Green500}},
			Theme:      &plain,
		},
		{
			Name:       PresetNetworkSpeed,
			Title:      "Network Speed",
			Kind:       KindLine,
			YAxisTitle: "Mbps",
			Series: []SeriesSpec{
				{Field: "download", Label: "Download", Color: Blue500},
				{Field: "upload", Label: "Upload", Color: Purple500},
			},
		},
		{
			Name:       PresetNetworkLatency,
			Title:      "Network Latency",
			Kind:       KindLine,
			YAxisTitle: "ms",
			Series: []SeriesSpec{
				{Field: "ping", Label: "Ping", Color: Green500},
				{Field: "tcp_latency", Label: "TCP Latency", Color: Yellow500},
			},
		},
	}
}

func scorePreset(name, title string, t Thresholds) Spec {
	plain := PlainTheme()
	return Spec{
		Name:         name,
		Title:        title,
		Kind:         KindBar,
		YAxisTitle:   "Average 3 Dart Score",
		DatasetLabel: DefaultScoreLabel,
		Thresholds:   t,
		Theme:        &plain,
	}
}

// Registry holds named specs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry registers specs in order; later names replace earlier ones.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry holds DefaultPresets.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultPresets()...)
	if err != nil {
		panic(fmt.Sprintf("default presets are invalid: %v", err))
	}
	return r
}

// Register validates and stores a spec under its name.
func (r *Registry) Register(s Spec) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("%w: preset has no name", ErrInvalidInput)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", s.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.specs == nil {
		r.specs = make(map[string]Spec)
	}
	r.specs[s.Name] = s
	return nil
}

// Get returns the spec registered under name.
func (r *Registry) Get(name string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return s, nil
}

// Names lists preset names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs lists presets sorted by name.
func (r *Registry) Specs() []Spec {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		if s, ok := r.specs[name]; ok {
			specs = append(specs, s)
		}
	}
	return specs
}
