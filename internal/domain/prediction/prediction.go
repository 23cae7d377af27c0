// Package prediction estimates stage-wise conversion probabilities and
// expected timelines for a single (user, job) pair.
package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/scoring"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// Probability blend and clamp constants.
const (
	// Stage probabilities blend feature alignment with the user's own
	// conversion history, then shift by the competition band.
	alignmentWeight = 0.5
	historyWeight   = 0.5

	// Baseline conversion rates used when the user has no history at a
	// given funnel stage.
	baseApplicationRate = 0.35
	baseInterviewRate   = 0.40
	baseOfferRate       = 0.30

	// Overall success rate stays inside these bounds to avoid
	// overconfident extremes.
	minOverallRate = 0.05
	maxOverallRate = 0.95

	confidenceMargin = 0.15

	// Confidence tiers are derived purely from sample counts: the user's
	// own history plus a bounded sample of the job's applicant pool.
	applicantSampleCap = 20
	highSamplePoints   = 25
	mediumSamplePoints = 10
)

// FeatureScorer produces the feature vector whose skills and experience
// sub-scores seed the stage probabilities.
type FeatureScorer interface {
	Score(ctx context.Context, in scoring.Input) (model.FeatureVector, error)
}

// ProfileSource resolves the behavior profile used as scoring context.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (model.BehaviorProfile, error)
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline computes success predictions. It is read-only with respect to
// all collaborators and safe for concurrent use.
type Pipeline struct {
	jobs     store.JobStore
	users    store.UserStore
	scorer   FeatureScorer
	profiles ProfileSource
	logger   logger.Logger
}

// New creates a Pipeline over the given collaborators.
func New(jobs store.JobStore, users store.UserStore, scorer FeatureScorer, profiles ProfileSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		jobs:     jobs,
		users:    users,
		scorer:   scorer,
		profiles: profiles,
		logger:   logger.Get().Named("prediction"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict estimates the user's chances for one job. Unknown users or
// jobs surface the store's not-found error.
func (p *Pipeline) Predict(ctx context.Context, userID, jobID string) (model.SuccessPrediction, error) {
	user, err := p.users.FetchUser(ctx, userID)
	if err != nil {
		metrics.RecordPredictionError()
		return model.SuccessPrediction{}, fmt.Errorf("fetching user %q: %w", userID, err)
	}
	job, err := p.jobs.FetchJob(ctx, jobID)
	if err != nil {
		metrics.RecordPredictionError()
		return model.SuccessPrediction{}, fmt.Errorf("fetching job %q: %w", jobID, err)
	}
	history, err := p.users.FetchApplicationHistory(ctx, userID)
	if err != nil {
		metrics.RecordPredictionError()
		return model.SuccessPrediction{}, fmt.Errorf("fetching history for %q: %w", userID, err)
	}
	profile, err := p.profiles.GetProfile(ctx, userID)
	if err != nil {
		metrics.RecordPredictionError()
		return model.SuccessPrediction{}, fmt.Errorf("building profile for %q: %w", userID, err)
	}

	vector, err := p.scorer.Score(ctx, scoring.Input{User: user, Job: job, Profile: profile})
	if err != nil {
		metrics.RecordPredictionError()
		return model.SuccessPrediction{}, fmt.Errorf("scoring %q/%q: %w", userID, jobID, err)
	}

	alignment := 0.6*vector.SkillsMatch + 0.4*vector.ExperienceMatch
	conv := conversionRates(history)
	competition := competitionAdjustment(job.ApplicantCount)

	appRate := round2(stageProbability(alignment, conv.application, competition))
	interviewRate := round2(stageProbability(alignment, conv.interview, competition))
	offerRate := round2(stageProbability(alignment, conv.offer, competition))

	// The overall rate stays the exact product of the reported stage
	// rates unless the clamp bounds bite.
	overall := clamp(appRate*interviewRate*offerRate, minOverallRate, maxOverallRate)
	level := confidenceLevel(len(history), job.ApplicantCount)

	metrics.RecordPrediction()
	return model.SuccessPrediction{
		UserID:             userID,
		JobID:              jobID,
		ApplicationRate:    appRate,
		InterviewRate:      interviewRate,
		OfferRate:          offerRate,
		OverallSuccessRate: overall,
		ConfidenceInterval: [2]float64{
			round2(clamp(overall-confidenceMargin, 0, 1)),
			round2(clamp(overall+confidenceMargin, 0, 1)),
		},
		ConfidenceLevel: level,
		Timeline:        predictTimelines(history, job, level),
	}, nil
}

// stageRates holds the user's own historical conversion rates.
type stageRates struct {
	application float64
	interview   float64
	offer       float64
}

// conversionRates derives funnel conversion from the user's history,
// falling back to baseline rates where a stage has no denominator.
func conversionRates(history []model.ApplicationRecord) stageRates {
	rates := stageRates{
		application: baseApplicationRate,
		interview:   baseInterviewRate,
		offer:       baseOfferRate,
	}
	if len(history) == 0 {
		return rates
	}

	var responded, interviewed, offered int
	for _, a := range history {
		if a.Responded() {
			responded++
		}
		if a.Interviewed() {
			interviewed++
		}
		if a.Offered() {
			offered++
		}
	}

	rates.application = float64(responded) / float64(len(history))
	if responded > 0 {
		rates.interview = float64(interviewed) / float64(responded)
	}
	if interviewed > 0 {
		rates.offer = float64(offered) / float64(interviewed)
	}
	return rates
}

// competitionAdjustment maps the applicant count to a probability shift
// in monotonically decreasing bands.
func competitionAdjustment(applicants int) float64 {
	switch {
	case applicants < 5:
		return 0.2
	case applicants < 15:
		return 0.1
	case applicants < 50:
		return 0
	case applicants < 100:
		return -0.1
	default:
		return -0.2
	}
}

func stageProbability(alignment, historical, competition float64) float64 {
	p := alignmentWeight*alignment + historyWeight*historical + competition
	return clamp(p, minOverallRate, maxOverallRate)
}

func confidenceLevel(historySize, applicants int) string {
	points := historySize + min(applicants, applicantSampleCap)
	switch {
	case points >= highSamplePoints:
		return model.ConfidenceHigh
	case points >= mediumSamplePoints:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
