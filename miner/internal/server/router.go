package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loghound-systems/loghound-stack/common/middleware"
	"github.com/loghound-systems/loghound-stack/miner/internal/handlers"
)

// NewRouter constructs a ServeMux with miner routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/healthz", h.HealthCheck)

	// Artifact lifecycle
	mux.HandleFunc("/build", h.Build)

	// Vector pagination
	mux.HandleFunc("/collect_vectors", h.CollectVectors)
	mux.HandleFunc("/templates/vectors", h.TemplateVectors)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
