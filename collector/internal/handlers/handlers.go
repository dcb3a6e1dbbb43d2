package handlers

import (
	"net/http"

	"github.com/loghound-systems/loghound-stack/collector/internal/source"
	"github.com/loghound-systems/loghound-stack/common/bgl"
	"github.com/loghound-systems/loghound-stack/common/httputil"
	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/paging"
)

type Handler struct {
	reader       *source.Reader
	defaultLimit int
	logger       *logging.Logger
}

func NewHandler(reader *source.Reader, defaultLimit int, logger *logging.Logger) *Handler {
	return &Handler{reader: reader, defaultLimit: defaultLimit, logger: logger}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"dataset_path": h.reader.Path(),
	})
}

// Collect handles GET /collect. The dataset's total line count is never
// precomputed, so the page total stays unknown; clients page until an
// empty batch comes back.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, err := httputil.ParsePaging(r, h.defaultLimit)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.reader.ReadBatch(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "read dataset batch",
			logging.Offset(params.Offset), logging.Limit(params.Limit), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read dataset")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, paging.NewPage[bgl.LogRecord](params.Offset, records, nil))
}
