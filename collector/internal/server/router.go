package server

import (
	"net/http"

	"github.com/loghound-systems/loghound-stack/collector/internal/handlers"
	"github.com/loghound-systems/loghound-stack/common/middleware"
)

// NewRouter constructs a ServeMux with collector routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/healthz", h.HealthCheck)

	// Dataset pagination
	mux.HandleFunc("/collect", h.Collect)

	return middleware.RequestID(mux)
}
