package prediction

import (
	"math"
	"strings"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Timeline baselines in days, used when the user's own history lacks
// enough comparable samples.
const (
	baselineResponseDays  = 5
	baselineInterviewDays = 12
	baselineOfferDays     = 21

	// A personal mean overrides the baseline once this many samples of
	// the stage exist in the user's history.
	personalSampleMin = 2

	// The range is asymmetric: "no earlier than" is a firmer claim than
	// "no later than".
	downsideMargin = 0.2
	upsideMargin   = 0.5
)

// industryPaceMultipliers scale baseline timelines by hiring pace.
// Unlisted industries run at the baseline.
var industryPaceMultipliers = map[string]float64{
	"technology": 0.8,
	"startup":    0.7,
	"retail":     0.9,
	"finance":    1.2,
	"education":  1.3,
	"healthcare": 1.4,
	"government": 1.8,
}

// predictTimelines builds the application -> interview -> offer timeline
// estimates for one job.
func predictTimelines(history []model.ApplicationRecord, job model.JobCandidate, confidence string) []model.TimelinePrediction {
	multiplier := industryMultiplier(job.Industry)
	stages := []struct {
		name     string
		baseline float64
		elapsed  func(model.ApplicationRecord) (time.Duration, bool)
	}{
		{model.StageApplication, baselineResponseDays, func(a model.ApplicationRecord) (time.Duration, bool) {
			return a.RespondedAt.Sub(a.AppliedAt), a.Responded()
		}},
		{model.StageInterview, baselineInterviewDays, func(a model.ApplicationRecord) (time.Duration, bool) {
			return a.InterviewedAt.Sub(a.AppliedAt), a.Interviewed()
		}},
		{model.StageOffer, baselineOfferDays, func(a model.ApplicationRecord) (time.Duration, bool) {
			return a.OfferedAt.Sub(a.AppliedAt), a.Offered()
		}},
	}

	out := make([]model.TimelinePrediction, 0, len(stages))
	for _, stage := range stages {
		days, personal := personalMeanDays(history, stage.elapsed)
		if !personal {
			days = stage.baseline * multiplier
		}
		days = math.Max(days, 1)
		out = append(out, model.TimelinePrediction{
			Stage:         stage.name,
			PredictedDays: round1(days),
			Confidence:    confidence,
			MinDays:       round1(days * (1 - downsideMargin)),
			MaxDays:       round1(days * (1 + upsideMargin)),
		})
	}
	return out
}

// personalMeanDays averages the user's own elapsed time for a stage.
// The boolean reports whether enough samples existed to trust the mean.
func personalMeanDays(history []model.ApplicationRecord, elapsed func(model.ApplicationRecord) (time.Duration, bool)) (float64, bool) {
	var total time.Duration
	var samples int
	for _, a := range history {
		d, ok := elapsed(a)
		if !ok || d <= 0 {
			continue
		}
		total += d
		samples++
	}
	if samples < personalSampleMin {
		return 0, false
	}
	return total.Hours() / 24 / float64(samples), true
}

func industryMultiplier(industry string) float64 {
	if m, ok := industryPaceMultipliers[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return m
	}
	return 1
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
