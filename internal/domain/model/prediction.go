package model

// Confidence tiers for predictions, derived purely from sample counts.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Funnel stages in order.
const (
	StageApplication = "application"
	StageInterview   = "interview"
	StageOffer       = "offer"
)

// TimelinePrediction estimates elapsed days for one funnel stage. The
// range is asymmetric: tighter on the downside than the upside.
type TimelinePrediction struct {
	Stage         string
	PredictedDays float64
	Confidence    string
	MinDays       float64
	MaxDays       float64
}

// SuccessPrediction holds stage-wise conversion probabilities and
// expected timelines for a single (user, job) pair. Transient.
type SuccessPrediction struct {
	UserID             string
	JobID              string
	ApplicationRate    float64
	InterviewRate      float64
	OfferRate          float64
	OverallSuccessRate float64 // product of the three stage rates, clamped to [0.05,0.95]
	ConfidenceInterval [2]float64
	ConfidenceLevel    string
	Timeline           []TimelinePrediction // ordered application -> interview -> offer
}
