// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/jobmatch/internal/domain/model"
)

// FeedbackDependencies defines the interface for feedback ingestion.
type FeedbackDependencies interface {
	RecordFeedback(ctx context.Context, fb model.LearningFeedback) bool
}

// FeedbackHandler handles feedback submissions.
type FeedbackHandler struct {
	deps FeedbackDependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps FeedbackDependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

// feedbackRequest mirrors the POST /feedback body.
type feedbackRequest struct {
	FeedbackID       string  `json:"feedback_id,omitempty"`
	RecommendationID string  `json:"recommendation_id,omitempty"`
	UserID           string  `json:"user_id"`
	JobID            string  `json:"job_id"`
	UserAction       string  `json:"user_action"`
	Rating           int     `json:"rating,omitempty"`
	Reasoning        string  `json:"reasoning,omitempty"`
	DwellSeconds     float64 `json:"dwell_seconds,omitempty"`
	ScrollDepth      float64 `json:"scroll_depth,omitempty"`
	RepeatVisits     int     `json:"repeat_visits,omitempty"`
	Applied          *bool   `json:"applied,omitempty"`
	Interviewed      *bool   `json:"interviewed,omitempty"`
	Offered          *bool   `json:"offered,omitempty"`
}

func (f feedbackRequest) validate() error {
	switch {
	case strings.TrimSpace(f.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(f.JobID) == "":
		return errors.New("missing job_id")
	case !model.ValidAction(f.UserAction):
		return fmt.Errorf("unknown user_action %q", f.UserAction)
	}
	if f.Rating < 0 || f.Rating > 5 {
		return fmt.Errorf("rating %d out of range [0,5]", f.Rating)
	}
	return nil
}

func (f feedbackRequest) toModel() model.LearningFeedback {
	fb := model.LearningFeedback{
		FeedbackID:       f.FeedbackID,
		RecommendationID: f.RecommendationID,
		UserID:           f.UserID,
		JobID:            f.JobID,
		UserAction:       f.UserAction,
		Rating:           f.Rating,
		Reasoning:        f.Reasoning,
		Implicit: model.ImplicitSignals{
			DwellSeconds: f.DwellSeconds,
			ScrollDepth:  f.ScrollDepth,
			RepeatVisits: f.RepeatVisits,
		},
	}
	if f.Applied != nil || f.Interviewed != nil || f.Offered != nil {
		fb.Outcome = &model.FeedbackOutcome{
			Applied:     f.Applied != nil && *f.Applied,
			Interviewed: f.Interviewed != nil && *f.Interviewed,
			Offered:     f.Offered != nil && *f.Offered,
		}
	}
	return fb
}

// HandlePostFeedback handles POST /feedback requests. Accepted events
// return 202; a full ingestion queue returns 429.
func (h *FeedbackHandler) HandlePostFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_feedback"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	if ok := h.deps.RecordFeedback(r.Context(), req.toModel()); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
