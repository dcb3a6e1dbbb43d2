package server

import (
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/middleware"
	"github.com/loghound-systems/loghound-stack/storage/internal/handlers"
)

// NewRouter constructs a ServeMux with storage API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/healthz", h.HealthCheck)

	// Log corpus
	mux.HandleFunc("/bgl/logs/bulk", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.BulkCreateLogs(w, r)
	})
	mux.HandleFunc("/bgl/logs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetLog(w, r)
	})
	mux.HandleFunc("/bgl/logs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.CreateLog(w, r)
		case http.MethodGet:
			h.ListLogs(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Vectorized events
	mux.HandleFunc("/vectors/bulk", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.BulkCreateVectors(w, r)
	})
	mux.HandleFunc("/vectors", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.ListVectors(w, r)
	})

	// Template dictionary
	mux.HandleFunc("/templates", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.ReplaceTemplates(w, r)
		case http.MethodGet:
			h.ListTemplates(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Model registry
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.CreateModel(w, r)
		case http.MethodGet:
			h.ListModels(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	return middleware.RequestID(mux)
}
