// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GetRecommendations returns the ranked recommendation set for a user.
	GetRecommendations(ctx context.Context, userID string, opts app.Options) ([]model.SmartRecommendation, error)

	// PredictSuccess estimates stage probabilities for a (user, job) pair.
	PredictSuccess(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error)

	// RecordFeedback submits feedback for async processing. Returns false
	// on backpressure.
	RecordFeedback(ctx context.Context, fb model.LearningFeedback) bool

	// UpdatePreferences persists an explicit preference update.
	UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	recommendationsHandler *RecommendationsHandler
	predictionsHandler     *PredictionsHandler
	feedbackHandler        *FeedbackHandler
	preferencesHandler     *PreferencesHandler
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		recommendationsHandler: NewRecommendationsHandler(deps),
		predictionsHandler:     NewPredictionsHandler(deps),
		feedbackHandler:        NewFeedbackHandler(deps),
		preferencesHandler:     NewPreferencesHandler(deps),
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/predictions/", MetricsMiddleware(s.predictionsHandler.HandleGetPrediction, "predictions"))
	mux.HandleFunc("/feedback", MetricsMiddleware(s.feedbackHandler.HandlePostFeedback, "feedback"))
	mux.HandleFunc("/preferences/", MetricsMiddleware(s.preferencesHandler.HandlePutPreferences, "preferences"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates engine errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrInvalidOptions):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
