// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/jobmatch/internal/domain/model"
)

// PredictionDependencies defines the interface for prediction operations.
type PredictionDependencies interface {
	PredictSuccess(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error)
}

// PredictionsHandler handles success-prediction requests.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandleGetPrediction handles GET /predictions/{user_id}/{job_id} requests.
func (h *PredictionsHandler) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/predictions/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	pred, err := h.deps.PredictSuccess(r.Context(), parts[0], parts[1])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPredictionView(pred))
}
