package bbcode

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render modes used as the "mode" label.
const (
	ModeHTML  = "html"
	ModeNodes = "nodes"
)

// Metrics tracks parse, render and document cache activity.
//
// Metrics:
//   - <ns>_parses_total: documents parsed (cache misses included, hits excluded)
//   - <ns>_renders_total: renders by mode
//   - <ns>_render_duration_seconds: render latency by mode
//   - <ns>_cache_hits_total / <ns>_cache_misses_total / <ns>_cache_evictions_total
//   - <ns>_cache_entries: current number of cached documents
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	parsesTotal    prometheus.Counter
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge
}

// NewMetrics creates and registers the metrics with the provided registry.
func NewMetrics(namespace string, registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		parsesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Total number of documents parsed",
		}),

		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of renders by output mode",
			},
			[]string{"mode"},
		),

		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Render latency by output mode",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"mode"},
		),

		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of document cache hits",
		}),

		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of document cache misses",
		}),

		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of document cache evictions",
		}),

		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of cached documents",
		}),
	}

	registry.MustRegister(
		m.parsesTotal,
		m.rendersTotal,
		m.renderDuration,
		m.cacheHits,
		m.cacheMisses,
		m.cacheEvictions,
		m.cacheEntries,
	)

	return m
}

func (m *Metrics) RecordParse() {
	if m == nil {
		return
	}
	m.parsesTotal.Inc()
}

// RecordRender counts one render in the given mode and observes its latency.
func (m *Metrics) RecordRender(mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(mode).Inc()
	m.renderDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) RecordCacheEviction() {
	if m == nil {
		return
	}
	m.cacheEvictions.Inc()
}

func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}
