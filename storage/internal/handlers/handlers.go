package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/loghound-systems/loghound-stack/common/httputil"
	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
	"github.com/loghound-systems/loghound-stack/common/paging"
	"github.com/loghound-systems/loghound-stack/storage/internal/models"
	"github.com/loghound-systems/loghound-stack/storage/internal/repository"
)

type Handler struct {
	repo   repository.Repository
	nats   messaging.Client
	logger *logging.Logger
}

func NewHandler(repo repository.Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// SetMessagingClient makes /health report broker state alongside the
// database. Optional; without it the health payload omits nats.
func (h *Handler) SetMessagingClient(client messaging.Client) {
	h.nats = client
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	payload := map[string]interface{}{"status": "ok"}
	if h.nats != nil {
		payload["nats"] = messaging.CheckClientHealth(r.Context(), h.nats)
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// CreateLog handles POST /bgl/logs
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var item models.BGLLog
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	id, err := h.repo.InsertLog(r.Context(), &item)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "insert log", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to insert log")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// BulkCreateLogs handles POST /bgl/logs/bulk. An empty batch succeeds
// with zero inserted rows.
func (h *Handler) BulkCreateLogs(w http.ResponseWriter, r *http.Request) {
	var items []models.BGLLog
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	inserted, err := h.repo.BulkInsertLogs(r.Context(), items)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "bulk insert logs",
			logging.Rows(len(items)), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to insert logs")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

// GetLog handles GET /bgl/logs/{id}
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/bgl/logs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid log id")
		return
	}

	log, err := h.repo.GetLog(r.Context(), id)
	if errors.Is(err, repository.ErrLogNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get log", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get log")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, log)
}

// ListLogs handles GET /bgl/logs with offset/limit pagination and the
// only_non_alert filter used to assemble clean training corpora.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	params, err := httputil.ParsePaging(r, 100)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	onlyNonAlert := httputil.ParseBoolParam(r.URL.Query().Get("only_non_alert"), false)

	logs, total, err := h.repo.ListLogs(r.Context(), params, onlyNonAlert)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list logs",
			logging.Offset(params.Offset), logging.Limit(params.Limit), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, paging.NewPage(params.Offset, logs, paging.Known(total)))
}

// BulkCreateVectors handles POST /vectors/bulk
func (h *Handler) BulkCreateVectors(w http.ResponseWriter, r *http.Request) {
	var items []models.EventVector
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	inserted, err := h.repo.BulkInsertVectors(r.Context(), items)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "bulk insert vectors",
			logging.Rows(len(items)), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to insert vectors")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

// ListVectors handles GET /vectors
func (h *Handler) ListVectors(w http.ResponseWriter, r *http.Request) {
	params, err := httputil.ParsePaging(r, paging.DefaultLimit)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	onlyNonAlert := httputil.ParseBoolParam(r.URL.Query().Get("only_non_alert"), false)

	vectors, total, err := h.repo.ListVectors(r.Context(), params, onlyNonAlert)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list vectors",
			logging.Offset(params.Offset), logging.Limit(params.Limit), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list vectors")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, paging.NewPage(params.Offset, vectors, paging.Known(total)))
}

// ReplaceTemplates handles PUT /templates
func (h *Handler) ReplaceTemplates(w http.ResponseWriter, r *http.Request) {
	var items []models.Template
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	stored, err := h.repo.ReplaceTemplates(r.Context(), items)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "replace templates", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to replace templates")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"templates": stored})
}

// ListTemplates handles GET /templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repo.ListTemplates(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list templates", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	httputil.WriteJSON(w, http.StatusOK, templates)
}

// CreateModel handles POST /models
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var entry models.ModelEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if entry.Name == "" || entry.Version == "" || entry.Path == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name, version and path are required")
		return
	}

	id, err := h.repo.CreateModel(r.Context(), &entry)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create model entry",
			logging.Model(entry.Name), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create model entry")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// ListModels handles GET /models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.ListModels(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list model entries", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list model entries")
		return
	}
	if entries == nil {
		entries = []models.ModelEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
