// Package scoring computes the per-(user, job) feature vector and the
// weighted combined score.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/jobmatch/internal/adapters/inference"
	"github.com/okian/jobmatch/internal/adapters/market"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// Default scoring configuration constants.
const (
	neutralScore = 0.5

	// Historical success rate above this threshold boosts the behavior
	// sub-score.
	successBoostThreshold = 0.3
	successBoostFactor    = 1.2

	scoreScale = 100
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithInference sets the text-inference client used for the personality
// and culture sub-scores.
func WithInference(client inference.Client) Option {
	return func(s *Scorer) {
		if client != nil {
			s.inference = client
		}
	}
}

// WithMarketSignals sets the market-demand provider.
func WithMarketSignals(provider market.SignalProvider) Option {
	return func(s *Scorer) {
		if provider != nil {
			s.market = provider
		}
	}
}

// WithClock overrides the time source for timing sub-scores. Intended
// for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Input carries everything needed to score one (user, job) pair.
type Input struct {
	User    model.UserRecord
	Job     model.JobCandidate
	Profile model.BehaviorProfile
}

// Scorer computes feature vectors. Sub-scores that depend on external
// calls degrade to the neutral default on failure; one feature's
// failure never blocks the rest of the vector.
type Scorer struct {
	inference inference.Client
	market    market.SignalProvider
	now       func() time.Time
	logger    logger.Logger
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		inference: inference.NeutralClient{},
		market:    market.NewStaticProvider(),
		now:       time.Now,
		logger:    logger.Get().Named("scoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the full feature vector for in. The only error path is
// context cancellation; degraded sub-scores are recorded as warnings on
// the vector instead.
func (s *Scorer) Score(ctx context.Context, in Input) (model.FeatureVector, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return model.FeatureVector{}, fmt.Errorf("scoring cancelled: %w", err)
	}

	now := s.now()
	v := model.FeatureVector{
		SkillsMatch:           skillsMatch(in.User.Skills, in.Job),
		ExperienceMatch:       experienceMatch(in.User.YearsExperience, in.Job.ExperienceMin),
		EducationMatch:        educationMatch(in.User.EducationLevel, in.Job.EducationLevel),
		LocationMatch:         locationMatch(in.User.Location, in.Profile.Preferences, in.Job),
		SalaryMatch:           salaryMatch(in.User.DesiredSalary, in.Profile.Preferences, in.Job),
		UserBehaviorScore:     behaviorAlignment(in.Profile, in.Job),
		HistoricalSuccessRate: clamp01(in.Profile.Patterns.SuccessRate),
		TimingScore:           timingScore(in.Profile.Patterns, in.Job, now),
	}

	v.PersonalityMatch = s.inferenceScore(ctx, &v, inference.FeaturePersonality, in)
	v.CulturalFit = s.inferenceScore(ctx, &v, inference.FeatureCulture, in)
	v.MarketDemand = s.marketDemand(ctx, &v, in.Job)

	metrics.RecordCandidateScored()
	return v, nil
}

// inferenceScore asks the inference API for a sub-score, degrading to
// the neutral default on any failure. Degradation is non-fatal and
// logged as a warning.
func (s *Scorer) inferenceScore(ctx context.Context, v *model.FeatureVector, feature string, in Input) float64 {
	if ctx.Err() != nil {
		return s.degrade(ctx, v, feature, ctx.Err())
	}

	text := inferenceText(in.User, in.Job)
	start := time.Now()
	score, err := s.inference.Score(ctx, feature, text)
	metrics.RecordInferenceLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordInferenceError()
		return s.degrade(ctx, v, feature, err)
	}
	return clamp01(score)
}

func (s *Scorer) marketDemand(ctx context.Context, v *model.FeatureVector, job model.JobCandidate) float64 {
	if len(job.Skills) == 0 {
		return neutralScore
	}
	var total float64
	for _, skill := range job.Skills {
		d, err := s.market.Demand(ctx, skill)
		if err != nil {
			return s.degrade(ctx, v, model.FeatureMarketDemand, err)
		}
		total += clamp01(d)
	}
	return total / float64(len(job.Skills))
}

// degrade records a neutral-default fallback for feature.
func (s *Scorer) degrade(ctx context.Context, v *model.FeatureVector, feature string, err error) float64 {
	v.Warnings = append(v.Warnings, feature)
	metrics.RecordInferenceFallback()
	if !errors.Is(err, context.Canceled) {
		s.logger.Warn(ctx, "sub-score degraded to neutral default",
			logger.String("feature", feature),
			logger.Error(err),
		)
	}
	return neutralScore
}

// Combine folds the vector into a 0-100 score using the supplied model
// snapshot, adjusted for career stage and risk tolerance. The sum is
// order-independent; the sigmoid keeps the result strictly inside
// (0, 100).
func Combine(v model.FeatureVector, snapshot model.ScoringModel, stage CareerStage, risk RiskTolerance) float64 {
	weights := adjustWeights(snapshot.Weights, stage, risk)

	var raw float64
	for name, value := range v.Map() {
		if w := weights[name]; w > 0 {
			raw += w * clamp01(value)
		}
	}
	return round2(sigmoid(raw) * scoreScale)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
