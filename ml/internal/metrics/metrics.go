package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training metrics
	TrainTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_ml_train_total",
			Help: "Total number of training requests",
		},
		[]string{"model", "status"},
	)

	TrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loghound_ml_train_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"model"},
	)

	TrainRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loghound_ml_train_rows",
			Help: "Number of rows used in the last training run",
		},
		[]string{"model"},
	)

	// Prediction metrics
	PredictTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_ml_predict_total",
			Help: "Total number of prediction requests",
		},
		[]string{"model", "status"},
	)

	PredictDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loghound_ml_predict_duration_seconds",
			Help:    "Duration of prediction in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	AnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_ml_anomalies_total",
			Help: "Total number of rows flagged anomalous",
		},
		[]string{"model"},
	)
)
