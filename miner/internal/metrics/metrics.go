package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Build metrics
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_miner_builds_total",
			Help: "Total number of artifact builds",
		},
		[]string{"status"},
	)

	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loghound_miner_build_duration_seconds",
			Help:    "Duration of artifact builds in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		},
	)

	TemplatesMined = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loghound_miner_templates",
			Help: "Number of templates in the last completed build",
		},
	)

	// Serving metrics
	VectorsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loghound_miner_vectors_served_total",
			Help: "Total number of vector records served",
		},
	)
)
