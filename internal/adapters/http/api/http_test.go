package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// stubDeps implements Dependencies with overridable behavior.
type stubDeps struct {
	recommendations func(ctx context.Context, userID string, opts app.Options) ([]model.SmartRecommendation, error)
	prediction      func(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error)
	feedbackOK      bool
	preferencesErr  error
}

func (s *stubDeps) GetRecommendations(ctx context.Context, userID string, opts app.Options) ([]model.SmartRecommendation, error) {
	if s.recommendations != nil {
		return s.recommendations(ctx, userID, opts)
	}
	return []model.SmartRecommendation{}, nil
}

func (s *stubDeps) PredictSuccess(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error) {
	if s.prediction != nil {
		return s.prediction(ctx, userID, jobID)
	}
	return model.SuccessPrediction{UserID: userID, JobID: jobID}, nil
}

func (s *stubDeps) RecordFeedback(ctx context.Context, fb model.LearningFeedback) bool {
	return s.feedbackOK
}

func (s *stubDeps) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	return s.preferencesErr
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	NewServer(deps, stubStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func sampleRecommendation() model.SmartRecommendation {
	return model.SmartRecommendation{
		RecommendationID: "rec-1",
		Job: model.JobCandidate{
			JobID:    "j1",
			Title:    "Backend Engineer",
			Employer: "Acme",
			Industry: "Technology",
			JobType:  "full_time",
		},
		Score:               91.25,
		Reasoning:           []string{"your skills cover most of what this role asks for"},
		Confidence:          model.ConfidenceHigh,
		ApplicationStrategy: "apply promptly",
		Timing:              "now is a good window to apply",
		CompetitiveAnalysis: "moderate competition with 10 applicants",
		Explanation:         "scored 91.25/100",
		GeneratedAt:         time.Now(),
	}
}

func TestGetRecommendationsEndpoint(t *testing.T) {
	deps := &stubDeps{
		recommendations: func(ctx context.Context, userID string, opts app.Options) ([]model.SmartRecommendation, error) {
			if userID == "ghost" {
				return nil, store.ErrNotFound
			}
			if err := opts.Validate(); err != nil {
				return nil, err
			}
			return []model.SmartRecommendation{sampleRecommendation()}, nil
		},
	}
	srv := newTestServer(deps)
	defer srv.Close()

	t.Run("returns ranked recommendations", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/recommendations/u1?limit=5&diversity_factor=0.3")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out []recommendationView
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].RecommendationID != "rec-1" {
			t.Fatalf("unexpected body: %+v", out)
		}
		if out[0].Score != 91.25 {
			t.Errorf("expected score 91.25, got %v", out[0].Score)
		}
	})

	t.Run("rejects malformed query values", func(t *testing.T) {
		for _, q := range []string{"limit=abc", "diversity_factor=x", "exclude_applied=maybe"} {
			resp, err := http.Get(srv.URL + "/recommendations/u1?" + q)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("query %q: expected 400, got %d", q, resp.StatusCode)
			}
		}
	})

	t.Run("rejects out-of-range options", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/recommendations/u1?diversity_factor=2.0")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/recommendations/ghost")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("missing user id is a bad request", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/recommendations/")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestGetPredictionEndpoint(t *testing.T) {
	deps := &stubDeps{
		prediction: func(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error) {
			if jobID == "ghost" {
				return model.SuccessPrediction{}, store.ErrNotFound
			}
			return model.SuccessPrediction{
				UserID:             userID,
				JobID:              jobID,
				ApplicationRate:    0.6,
				InterviewRate:      0.5,
				OfferRate:          0.4,
				OverallSuccessRate: 0.12,
				ConfidenceInterval: [2]float64{0, 0.27},
				ConfidenceLevel:    model.ConfidenceMedium,
				Timeline: []model.TimelinePrediction{
					{Stage: model.StageApplication, PredictedDays: 4, Confidence: model.ConfidenceMedium, MinDays: 3.2, MaxDays: 6},
				},
			}, nil
		},
	}
	srv := newTestServer(deps)
	defer srv.Close()

	t.Run("returns a prediction", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/predictions/u1/j1")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out predictionView
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.OverallSuccessRate != 0.12 || len(out.Timeline) != 1 {
			t.Fatalf("unexpected body: %+v", out)
		}
	})

	t.Run("malformed path is a bad request", func(t *testing.T) {
		for _, path := range []string{"/predictions/u1", "/predictions/u1/j1/extra", "/predictions//j1"} {
			resp, err := http.Get(srv.URL + path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("path %q: expected 400, got %d", path, resp.StatusCode)
			}
		}
	})

	t.Run("unknown job maps to 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/predictions/u1/ghost")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestPostFeedbackEndpoint(t *testing.T) {
	t.Run("accepted feedback returns 202", func(t *testing.T) {
		srv := newTestServer(&stubDeps{feedbackOK: true})
		defer srv.Close()

		body := `{"user_id":"u1","job_id":"j1","user_action":"applied","dwell_seconds":12.5}`
		resp, err := http.Post(srv.URL+"/feedback", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Errorf("expected 202, got %d", resp.StatusCode)
		}
	})

	t.Run("backpressure returns 429", func(t *testing.T) {
		srv := newTestServer(&stubDeps{feedbackOK: false})
		defer srv.Close()

		body := `{"user_id":"u1","job_id":"j1","user_action":"viewed"}`
		resp, err := http.Post(srv.URL+"/feedback", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid bodies return 400", func(t *testing.T) {
		srv := newTestServer(&stubDeps{feedbackOK: true})
		defer srv.Close()

		bodies := []string{
			`not json`,
			`{"job_id":"j1","user_action":"viewed"}`,
			`{"user_id":"u1","user_action":"viewed"}`,
			`{"user_id":"u1","job_id":"j1","user_action":"teleported"}`,
			`{"user_id":"u1","job_id":"j1","user_action":"viewed","rating":9}`,
		}
		for _, body := range bodies {
			resp, err := http.Post(srv.URL+"/feedback", "application/json", strings.NewReader(body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
			}
		}
	})
}

func TestPutPreferencesEndpoint(t *testing.T) {
	t.Run("updates preferences", func(t *testing.T) {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		body := `{"job_types":["full_time"],"salary_min":70000,"salary_max":90000}`
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/preferences/u1", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		srv := newTestServer(&stubDeps{preferencesErr: store.ErrNotFound})
		defer srv.Close()

		req, err := http.NewRequest(http.MethodPut, srv.URL+"/preferences/ghost", strings.NewReader(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("inverted salary band is a bad request", func(t *testing.T) {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		body := `{"salary_min":90000,"salary_max":70000}`
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/preferences/u1", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestHealthAndStatsEndpoints(t *testing.T) {
	srv := newTestServer(&stubDeps{})
	defer srv.Close()

	for _, path := range []string{"/healthz", "/stats", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("path %q: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
