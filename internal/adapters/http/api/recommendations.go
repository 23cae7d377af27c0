// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/scoring"
)

// RecommendationDependencies defines the interface for ranking operations.
type RecommendationDependencies interface {
	GetRecommendations(ctx context.Context, userID string, opts app.Options) ([]model.SmartRecommendation, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleGetRecommendations handles GET /recommendations/{user_id} requests.
// Query parameters: limit, exclude_applied, diversity_factor,
// risk_tolerance, career_stage.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	recs, err := h.deps.GetRecommendations(r.Context(), userID, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]recommendationView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecommendationView(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseOptions(r *http.Request) (app.Options, error) {
	opts := app.DefaultOptions()
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid limit %q", ErrBadRequest, v)
		}
		opts.Limit = n
	}
	if v := q.Get("exclude_applied"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid exclude_applied %q", ErrBadRequest, v)
		}
		opts.ExcludeApplied = b
	}
	if v := q.Get("diversity_factor"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid diversity_factor %q", ErrBadRequest, v)
		}
		opts.DiversityFactor = f
	}
	if v := q.Get("risk_tolerance"); v != "" {
		opts.RiskTolerance = scoring.RiskTolerance(v)
	}
	if v := q.Get("career_stage"); v != "" {
		opts.CareerStage = scoring.CareerStage(v)
	}
	return opts, nil
}
