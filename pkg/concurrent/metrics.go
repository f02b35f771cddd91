package concurrent

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	tilesProcessed *prometheus.CounterVec
	tilesFailed    *prometheus.CounterVec
	tileDuration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routabletiles",
			Name:      "tiles_processed_total",
			Help:      "Number of tiles processed successfully.",
		}, []string{"task"}),
		tilesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routabletiles",
			Name:      "tiles_failed_total",
			Help:      "Number of tiles that failed to process.",
		}, []string{"task"}),
		tileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routabletiles",
			Name:      "tile_duration_seconds",
			Help:      "Time spent on one tile.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, []string{"task"}),
	}
	reg.MustRegister(m.tilesProcessed, m.tilesFailed, m.tileDuration)
	return m
}

func (m *Metrics) observe(task string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.tileDuration.WithLabelValues(task).Observe(seconds)
	if err != nil {
		m.tilesFailed.WithLabelValues(task).Inc()
		return
	}
	m.tilesProcessed.WithLabelValues(task).Inc()
}
