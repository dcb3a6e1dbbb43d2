package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loghound-systems/loghound-stack/common/middleware"
	"github.com/loghound-systems/loghound-stack/ml/internal/handlers"
)

// NewRouter constructs a ServeMux with the model API routes registered.
// With a non-empty origin list the API also answers CORS preflight, so
// a dashboard can call /summary and /predict directly.
func NewRouter(h *handlers.Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/healthz", h.HealthCheck)

	// Model status
	mux.HandleFunc("/summary", h.Summary)

	// Sparse vector API
	mux.HandleFunc("/train_vectors", h.TrainVectors)
	mux.HandleFunc("/predict_vectors", h.PredictVectors)

	// Raw text API
	mux.HandleFunc("/train", h.TrainText)
	mux.HandleFunc("/predict", h.PredictText)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	var handler http.Handler = mux
	if len(allowedOrigins) > 0 {
		handler = middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		})(handler)
	}

	return middleware.RequestID(handler)
}
