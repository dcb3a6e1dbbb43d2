package handlers

import (
	"errors"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/httputil"
	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/miner/internal/artifacts"
	"github.com/loghound-systems/loghound-stack/miner/internal/service"
)

type Handler struct {
	service      *service.Service
	defaultLimit int
	logger       *logging.Logger
}

func NewHandler(svc *service.Service, defaultLimit int, logger *logging.Logger) *Handler {
	return &Handler{service: svc, defaultLimit: defaultLimit, logger: logger}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"built":        h.service.Built(),
		"dataset_path": h.service.DatasetPath(),
		"meta":         h.service.Meta(),
	})
}

// Build handles POST /build. Without force, an existing complete
// artifact set is reused.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	force := httputil.ParseBoolParam(r.URL.Query().Get("force"), false)
	meta, err := h.service.EnsureBuilt(r.Context(), force)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "artifact build failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "artifact build failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "built",
		"meta":         meta,
		"dataset_path": h.service.DatasetPath(),
	})
}

// CollectVectors handles GET /collect_vectors, building the artifacts
// on first call.
func (h *Handler) CollectVectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, err := httputil.ParsePaging(r, h.defaultLimit)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.Vectors(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "collect vectors failed",
			logging.Offset(params.Offset), logging.Limit(params.Limit), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to collect vectors")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// TemplateVectors handles GET /templates/vectors. Unlike the per-line
// endpoints it does not build lazily; mining must have happened first.
func (h *Handler) TemplateVectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, err := httputil.ParsePaging(r, h.defaultLimit)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.service.TemplateVectors(r.Context(), params)
	if errors.Is(err, artifacts.ErrNotBuilt) {
		httputil.WriteError(w, http.StatusBadRequest, "run /build first")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "template vectors failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to vectorize templates")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, batch)
}
