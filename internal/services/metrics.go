package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SelectionMetrics exposes Prometheus metrics about recommendations.
type SelectionMetrics struct {
	selections      *prometheus.CounterVec
	selectionErrors prometheus.Counter
	latency         prometheus.Histogram
	candidates      prometheus.Histogram
	catalogItems    prometheus.Gauge
}

// NewSelectionMetrics registers the recommendation metrics with reg.
// Passing a fresh registry per process (or per test) avoids duplicate
// registration panics.
func NewSelectionMetrics(reg prometheus.Registerer) *SelectionMetrics {
	factory := promauto.With(reg)

	return &SelectionMetrics{
		selections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teapick_selections_total",
			Help: "Total number of drink selections by outcome",
		}, []string{"outcome"}),
		selectionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "teapick_selection_errors_total",
			Help: "Total number of selections that failed",
		}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teapick_selection_duration_seconds",
			Help:    "Time spent selecting a drink",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teapick_selection_pool_size",
			Help:    "Number of items in the pool a drink was drawn from",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		}),
		catalogItems: factory.NewGauge(prometheus.GaugeOpts{
			Name: "teapick_catalog_items",
			Help: "Number of drinks in the loaded catalog",
		}),
	}
}

func (m *SelectionMetrics) ObserveSelection(fullMatch bool, poolSize int, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "fallback"
	if fullMatch {
		outcome = "full_match"
	}
	m.selections.WithLabelValues(outcome).Inc()
	m.candidates.Observe(float64(poolSize))
	m.latency.Observe(elapsed.Seconds())
}

func (m *SelectionMetrics) ObserveError() {
	if m == nil {
		return
	}
	m.selectionErrors.Inc()
}

func (m *SelectionMetrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogItems.Set(float64(n))
}
