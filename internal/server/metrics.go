package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homedash/internal/charts"
)

const metricsNamespace = "homedash"

// Metrics holds the service collectors on a private registry and reports
// chart outcomes as a charts.Observer.
type Metrics struct {
	registry       *prometheus.Registry
	builds         *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chart_builds_total",
			Help:      "Chart configs built, by chart kind and result.",
		}, []string{"kind", "result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chart_renders_total",
			Help:      "Chart widgets rendered, by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "chart_render_duration_seconds",
			Help:      "Time spent in a renderer, by format.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}, []string{"format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route template, method and status code.",
		}, []string{"route", "method", "code"}),
	}

	m.registry.MustRegister(
		m.builds,
		m.renders,
		m.renderDuration,
		m.requests,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveBuild implements charts.Observer.
func (m *Metrics) ObserveBuild(kind charts.ChartKind, err error) {
	m.builds.WithLabelValues(string(kind), result(err)).Inc()
}

// ObserveRender implements charts.Observer.
func (m *Metrics) ObserveRender(format charts.Format, elapsed time.Duration, err error) {
	m.renders.WithLabelValues(string(format), result(err)).Inc()
	m.renderDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRequest(route, method string, code int) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
