package model

import "time"

// SmartRecommendation is a single ranked job recommendation returned to
// the caller. Transient; optionally logged for later feedback correlation.
type SmartRecommendation struct {
	RecommendationID     string
	Job                  JobCandidate
	Score                float64 // 0-100, two decimals
	Reasoning            []string
	Confidence           string
	PersonalizedInsights []string
	ApplicationStrategy  string
	Timing               string
	CompetitiveAnalysis  string
	SuccessPrediction    *SuccessPrediction // nil in ranked sets; callers obtain one via PredictSuccess
	Explanation          string
	GeneratedAt          time.Time
}
