// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/jobmatch/internal/domain/model"
)

// PreferenceDependencies defines the interface for preference updates.
type PreferenceDependencies interface {
	UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error
}

// PreferencesHandler handles explicit preference updates.
type PreferencesHandler struct {
	deps PreferenceDependencies
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(deps PreferenceDependencies) *PreferencesHandler {
	return &PreferencesHandler{deps: deps}
}

// preferencesRequest mirrors the PUT /preferences/{user_id} body.
type preferencesRequest struct {
	JobTypes     []string `json:"job_types,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	RemoteOK     bool     `json:"remote_ok,omitempty"`
	SalaryMin    float64  `json:"salary_min,omitempty"`
	SalaryMax    float64  `json:"salary_max,omitempty"`
	CompanySizes []string `json:"company_sizes,omitempty"`
	WorkStyles   []string `json:"work_styles,omitempty"`
}

func (p preferencesRequest) validate() error {
	if p.SalaryMin < 0 || p.SalaryMax < 0 {
		return fmt.Errorf("negative salary bound")
	}
	if p.SalaryMax > 0 && p.SalaryMin > p.SalaryMax {
		return fmt.Errorf("salary_min %g above salary_max %g", p.SalaryMin, p.SalaryMax)
	}
	return nil
}

// HandlePutPreferences handles PUT /preferences/{user_id} requests.
func (h *PreferencesHandler) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_preferences"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/preferences/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	prefs := model.Preferences{
		JobTypes:     req.JobTypes,
		Industries:   req.Industries,
		Locations:    req.Locations,
		RemoteOK:     req.RemoteOK,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		CompanySizes: req.CompanySizes,
		WorkStyles:   req.WorkStyles,
	}
	if err := h.deps.UpdatePreferences(r.Context(), userID, prefs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}
