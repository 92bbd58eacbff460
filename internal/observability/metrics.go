// Package observability holds the Prometheus instrumentation for the server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// synthesis engine.
type Metrics struct {
	PredictionsTotal  *prometheus.CounterVec // labels: outcome={success,error}
	SynthesisDuration prometheus.Histogram

	NearestQueries  *prometheus.CounterVec // labels: result={near,far}
	GridSlicesTotal prometheus.Counter
	GridRunDuration prometheus.Histogram
	SegmentsLoaded  prometheus.Gauge
	GridWaterNodes  prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionsTotal,
		m.SynthesisDuration,
		m.NearestQueries,
		m.GridSlicesTotal,
		m.GridRunDuration,
		m.SegmentsLoaded,
		m.GridWaterNodes,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soundtide",
			Name:      "predictions_total",
			Help:      "Tide prediction requests by outcome.",
		}, []string{"outcome"}),
		SynthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soundtide",
			Name:      "synthesis_duration_seconds",
			Help:      "Duration of one harmonic synthesis over a window.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		NearestQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soundtide",
			Name:      "nearest_queries_total",
			Help:      "Nearest-segment lookups by proximity result.",
		}, []string{"result"}),
		GridSlicesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soundtide",
			Name:      "grid_slices_total",
			Help:      "Total gridded time slices interpolated.",
		}),
		GridRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soundtide",
			Name:      "grid_run_duration_seconds",
			Help:      "Duration of a complete gridded field run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		SegmentsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "soundtide",
			Name:      "segments_loaded",
			Help:      "Number of segments in the loaded table.",
		}),
		GridWaterNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "soundtide",
			Name:      "grid_water_nodes",
			Help:      "Number of water nodes in the loaded grid, 0 when gridless.",
		}),
	}
}
