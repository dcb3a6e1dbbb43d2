package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/httputil"
	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/sparse"
	"github.com/loghound-systems/loghound-stack/ml/internal/service"
	"github.com/loghound-systems/loghound-stack/ml/internal/svm"
)

type Handler struct {
	service *service.Service
	logger  *logging.Logger
}

func NewHandler(svc *service.Service, logger *logging.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Summary handles GET /summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Summary())
}

// TrainVectors handles POST /train_vectors
func (h *Handler) TrainVectors(w http.ResponseWriter, r *http.Request) {
	vectors, ok := h.readVectors(w, r)
	if !ok {
		return
	}

	result, err := h.service.TrainVectors(r.Context(), vectors)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "trained",
		"path":   result.Path,
		"stats":  result.Stats,
	})
}

// PredictVectors handles POST /predict_vectors
func (h *Handler) PredictVectors(w http.ResponseWriter, r *http.Request) {
	vectors, ok := h.readVectors(w, r)
	if !ok {
		return
	}

	labels, scores, err := h.service.PredictVectors(r.Context(), vectors)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"scores": scores,
	})
}

// TrainText handles POST /train
func (h *Handler) TrainText(w http.ResponseWriter, r *http.Request) {
	texts, ok := h.readTexts(w, r)
	if !ok {
		return
	}

	result, err := h.service.TrainText(r.Context(), texts)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "trained",
		"path":       result.Path,
		"stats":      result.Stats,
		"vectorizer": result.Fitted,
	})
}

// PredictText handles POST /predict
func (h *Handler) PredictText(w http.ResponseWriter, r *http.Request) {
	texts, ok := h.readTexts(w, r)
	if !ok {
		return
	}

	labels, scores, err := h.service.PredictText(r.Context(), texts)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"scores": scores,
	})
}

// readVectors decodes a vector batch, accepting either a bare JSON
// array or an object with a "vectors" key. Normalization happens here
// once; everything downstream sees one canonical form.
func (h *Handler) readVectors(w http.ResponseWriter, r *http.Request) ([]sparse.Vector, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return nil, false
	}

	var vectors []sparse.Vector
	switch {
	case len(raw) > 0 && raw[0] == '[':
		if err := json.Unmarshal(raw, &vectors); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid vectors payload: %v", err))
			return nil, false
		}
	case len(raw) > 0 && raw[0] == '{':
		var wrapper struct {
			Vectors *[]sparse.Vector `json:"vectors"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid vectors payload: %v", err))
			return nil, false
		}
		if wrapper.Vectors == nil {
			httputil.WriteError(w, http.StatusBadRequest, "body must be a list of vectors or an object with 'vectors' key")
			return nil, false
		}
		vectors = *wrapper.Vectors
	default:
		httputil.WriteError(w, http.StatusBadRequest, "body must be a list of vectors or an object with 'vectors' key")
		return nil, false
	}

	return vectors, true
}

func (h *Handler) readTexts(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req struct {
		Texts []string `json:"texts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return nil, false
	}
	if len(req.Texts) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "texts is empty")
		return nil, false
	}
	return req.Texts, true
}

// writeModelError maps domain errors onto status codes: batch
// validation failures are client errors, missing models are state
// conflicts.
func (h *Handler) writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.NotTrained(err):
		httputil.WriteError(w, http.StatusConflict, "model not trained yet")
	case isValidationError(err):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "model operation failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	var (
		badDim *sparse.InvalidDimError
		dimErr *sparse.DimensionMismatchError
		lenErr *sparse.LengthMismatchError
		oobErr *sparse.IndexOutOfBoundsError
		dupErr *sparse.DuplicateIndexError
		finErr *sparse.NonFiniteValueError
	)
	return errors.Is(err, sparse.ErrEmptyBatch) ||
		errors.Is(err, service.ErrEmptyTexts) ||
		errors.Is(err, svm.ErrDimensionMismatch) ||
		errors.As(err, &badDim) ||
		errors.As(err, &dimErr) ||
		errors.As(err, &lenErr) ||
		errors.As(err, &oobErr) ||
		errors.As(err, &dupErr) ||
		errors.As(err, &finErr)
}
