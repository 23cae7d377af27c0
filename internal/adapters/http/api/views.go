package api

import (
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
)

// jobView mirrors the job snapshot embedded in a recommendation.
type jobView struct {
	JobID          string   `json:"job_id"`
	Title          string   `json:"title"`
	Employer       string   `json:"employer"`
	Industry       string   `json:"industry"`
	JobType        string   `json:"job_type"`
	Location       string   `json:"location"`
	RemoteEligible bool     `json:"remote_eligible"`
	SalaryMin      float64  `json:"salary_min,omitempty"`
	SalaryMax      float64  `json:"salary_max,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	ApplicantCount int      `json:"applicant_count"`
}

// recommendationView mirrors the response shape for one ranked item.
type recommendationView struct {
	RecommendationID     string   `json:"recommendation_id"`
	Job                  jobView  `json:"job"`
	Score                float64  `json:"score"`
	Reasoning            []string `json:"reasoning"`
	Confidence           string   `json:"confidence"`
	PersonalizedInsights []string `json:"personalized_insights,omitempty"`
	ApplicationStrategy  string   `json:"application_strategy"`
	Timing               string   `json:"timing"`
	CompetitiveAnalysis  string   `json:"competitive_analysis"`
	Explanation          string   `json:"explanation"`
	GeneratedAt          string   `json:"generated_at"`
}

// timelineView mirrors one funnel-stage timeline estimate.
type timelineView struct {
	Stage         string  `json:"stage"`
	PredictedDays float64 `json:"predicted_days"`
	Confidence    string  `json:"confidence"`
	MinDays       float64 `json:"min_days"`
	MaxDays       float64 `json:"max_days"`
}

// predictionView mirrors the response shape for a success prediction.
type predictionView struct {
	UserID             string         `json:"user_id"`
	JobID              string         `json:"job_id"`
	ApplicationRate    float64        `json:"application_rate"`
	InterviewRate      float64        `json:"interview_rate"`
	OfferRate          float64        `json:"offer_rate"`
	OverallSuccessRate float64        `json:"overall_success_rate"`
	ConfidenceInterval [2]float64     `json:"confidence_interval"`
	ConfidenceLevel    string         `json:"confidence_level"`
	Timeline           []timelineView `json:"timeline"`
}

func toJobView(j model.JobCandidate) jobView {
	return jobView{
		JobID:          j.JobID,
		Title:          j.Title,
		Employer:       j.Employer,
		Industry:       j.Industry,
		JobType:        j.JobType,
		Location:       j.Location,
		RemoteEligible: j.RemoteEligible,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Skills:         j.Skills,
		ApplicantCount: j.ApplicantCount,
	}
}

func toRecommendationView(r model.SmartRecommendation) recommendationView {
	return recommendationView{
		RecommendationID:     r.RecommendationID,
		Job:                  toJobView(r.Job),
		Score:                r.Score,
		Reasoning:            r.Reasoning,
		Confidence:           r.Confidence,
		PersonalizedInsights: r.PersonalizedInsights,
		ApplicationStrategy:  r.ApplicationStrategy,
		Timing:               r.Timing,
		CompetitiveAnalysis:  r.CompetitiveAnalysis,
		Explanation:          r.Explanation,
		GeneratedAt:          r.GeneratedAt.Format(time.RFC3339),
	}
}

func toPredictionView(p model.SuccessPrediction) predictionView {
	timeline := make([]timelineView, 0, len(p.Timeline))
	for _, tl := range p.Timeline {
		timeline = append(timeline, timelineView{
			Stage:         tl.Stage,
			PredictedDays: tl.PredictedDays,
			Confidence:    tl.Confidence,
			MinDays:       tl.MinDays,
			MaxDays:       tl.MaxDays,
		})
	}
	return predictionView{
		UserID:             p.UserID,
		JobID:              p.JobID,
		ApplicationRate:    p.ApplicationRate,
		InterviewRate:      p.InterviewRate,
		OfferRate:          p.OfferRate,
		OverallSuccessRate: p.OverallSuccessRate,
		ConfidenceInterval: p.ConfidenceInterval,
		ConfidenceLevel:    p.ConfidenceLevel,
		Timeline:           timeline,
	}
}
