package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/ranking"
	"github.com/okian/jobmatch/internal/domain/scoring"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ranking option bounds.
const (
	defaultLimit         = 10
	maxLimit             = 100
	defaultDiversity     = 0.3
	highScoreThreshold   = 85
	strongScoreThreshold = 70
)

// Options tunes a single GetRecommendations call.
type Options struct {
	Limit           int
	ExcludeApplied  bool
	DiversityFactor float64
	RiskTolerance   scoring.RiskTolerance
	CareerStage     scoring.CareerStage
}

// DefaultOptions returns the standard ranking options.
func DefaultOptions() Options {
	return Options{
		Limit:           defaultLimit,
		ExcludeApplied:  true,
		DiversityFactor: defaultDiversity,
	}
}

// Validate reports whether the options are usable.
func (o Options) Validate() error {
	if o.Limit < 1 || o.Limit > maxLimit {
		return fmt.Errorf("%w: limit %d out of range [1,%d]", ErrInvalidOptions, o.Limit, maxLimit)
	}
	if o.DiversityFactor < 0 || o.DiversityFactor > 1 {
		return fmt.Errorf("%w: diversity factor %.3f out of range [0,1]", ErrInvalidOptions, o.DiversityFactor)
	}
	if !scoring.ValidRiskTolerance(o.RiskTolerance) {
		return fmt.Errorf("%w: unknown risk tolerance %q", ErrInvalidOptions, o.RiskTolerance)
	}
	if !scoring.ValidCareerStage(o.CareerStage) {
		return fmt.Errorf("%w: unknown career stage %q", ErrInvalidOptions, o.CareerStage)
	}
	return nil
}

// GetRecommendations returns up to opts.Limit ranked recommendations for
// the user. Identical calls inside the cache TTL return the same ranked
// set. One candidate's scoring failure drops that candidate, never the
// batch.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, opts Options) ([]model.SmartRecommendation, error) {
	if err := e.requireStarted(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	metrics.RecordRecommendationRequest()
	start := time.Now()
	defer func() {
		metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	}()

	key := cacheKey(userID, e.generation(userID), opts)
	if cached, ok := e.recCache.Get(ctx, key); ok {
		metrics.RecordRecommendationCacheHit()
		return cloneRecommendations(cached), nil
	}
	metrics.RecordRecommendationCacheMiss()

	user, err := e.store.FetchUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching user %q: %w", userID, err)
	}
	prof, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("building profile for %q: %w", userID, err)
	}

	candidates, err := e.fetchCandidates(ctx, userID, prof, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []model.SmartRecommendation{}, nil
	}

	// One model snapshot for the whole fan-out: a weight update landing
	// mid-request must not split the batch across model versions.
	snapshot := e.models.Snapshot()
	now := e.clock()

	scored := make([]*model.SmartRecommendation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.scoringParallel)
	for i, job := range candidates {
		g.Go(func() error {
			vector, err := e.scorer.Score(gctx, scoring.Input{User: user, Job: job, Profile: prof})
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				metrics.RecordCandidateDropped()
				e.logger.Warn(gctx, "dropping candidate after scoring failure",
					logger.String("jobID", job.JobID),
					logger.Error(err),
				)
				return nil
			}
			score := scoring.Combine(vector, snapshot, opts.CareerStage, opts.RiskTolerance)
			rec := e.buildRecommendation(user, job, vector, score, now)
			scored[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates for %q: %w", userID, err)
	}

	recs := make([]model.SmartRecommendation, 0, len(scored))
	for _, r := range scored {
		if r != nil {
			recs = append(recs, *r)
		}
	}

	ranked := ranking.Diversify(recs, opts.DiversityFactor)
	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	e.recCache.Set(ctx, key, cloneRecommendations(ranked))
	return ranked, nil
}

// fetchCandidates pulls the bounded job pool for ranking, applying the
// profile's coarse filters.
func (e *Engine) fetchCandidates(ctx context.Context, userID string, prof model.BehaviorProfile, opts Options) ([]model.JobCandidate, error) {
	filters := store.JobFilters{
		JobTypes: prof.Preferences.JobTypes,
		Limit:    e.candidatePoolSize,
	}
	if opts.ExcludeApplied {
		history, err := e.store.FetchApplicationHistory(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetching history for %q: %w", userID, err)
		}
		for _, a := range history {
			filters.ExcludeJobIDs = append(filters.ExcludeJobIDs, a.JobID)
		}
	}

	jobs, err := e.store.FetchActiveJobs(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates for %q: %w", userID, err)
	}
	return jobs, nil
}

// buildRecommendation assembles the output record with its narrative
// fields.
func (e *Engine) buildRecommendation(user model.UserRecord, job model.JobCandidate, vector model.FeatureVector, score float64, now time.Time) model.SmartRecommendation {
	return model.SmartRecommendation{
		RecommendationID:     uuid.NewString(),
		Job:                  job,
		Score:                score,
		Reasoning:            buildReasoning(vector, job),
		Confidence:           recommendationConfidence(vector),
		PersonalizedInsights: buildInsights(user, vector, job),
		ApplicationStrategy:  buildStrategy(score, job),
		Timing:               buildTiming(vector, job, now),
		CompetitiveAnalysis:  buildCompetitiveAnalysis(job),
		Explanation:          buildExplanation(score, job),
		GeneratedAt:          now,
	}
}

func buildReasoning(v model.FeatureVector, job model.JobCandidate) []string {
	var out []string
	if v.SkillsMatch >= 0.7 {
		out = append(out, "your skills cover most of what this role asks for")
	}
	if v.ExperienceMatch >= 0.9 {
		out = append(out, "your experience level fits the stated requirement")
	}
	if v.LocationMatch >= 0.9 {
		out = append(out, "the location or remote policy lines up with your situation")
	}
	if v.SalaryMatch >= 0.7 {
		out = append(out, "the advertised pay overlaps your target band")
	}
	if v.MarketDemand >= 0.7 {
		out = append(out, "demand for this skill set is currently strong")
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("broad match against your profile for %s roles", job.JobType))
	}
	return out
}

// recommendationConfidence reflects how much of the vector computed
// cleanly: degraded sub-scores lower confidence in the narrative.
func recommendationConfidence(v model.FeatureVector) string {
	switch len(v.Warnings) {
	case 0:
		return model.ConfidenceHigh
	case 1, 2:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func buildInsights(user model.UserRecord, v model.FeatureVector, job model.JobCandidate) []string {
	var out []string
	if v.SkillsMatch < 0.5 && len(job.Skills) > 0 {
		out = append(out, fmt.Sprintf("closing gaps in the listed skills would strengthen your application at %s", job.Employer))
	}
	if v.UserBehaviorScore >= 0.7 {
		out = append(out, "this posting resembles jobs you have engaged with before")
	}
	if v.HistoricalSuccessRate >= 0.5 {
		out = append(out, "your past applications to similar roles have converted well")
	}
	return out
}

func buildStrategy(score float64, job model.JobCandidate) string {
	switch {
	case score >= highScoreThreshold:
		return "apply promptly and tailor your summary to the listed requirements"
	case score >= strongScoreThreshold:
		return "a targeted cover letter addressing the skill gaps would improve your odds"
	default:
		return fmt.Sprintf("consider reaching out to %s contacts before applying", job.Employer)
	}
}

func buildTiming(v model.FeatureVector, job model.JobCandidate, now time.Time) string {
	if !job.Deadline.IsZero() && job.Deadline.After(now) {
		days := int(job.Deadline.Sub(now).Hours() / 24)
		if days <= 7 {
			return fmt.Sprintf("deadline in %d days; apply as soon as possible", days)
		}
	}
	if v.TimingScore >= 0.6 {
		return "now is a good window to apply"
	}
	return "no urgency; prepare your application carefully"
}

func buildCompetitiveAnalysis(job model.JobCandidate) string {
	switch {
	case job.ApplicantCount < 5:
		return "very few applicants so far; early applications stand out"
	case job.ApplicantCount < 50:
		return fmt.Sprintf("moderate competition with %d applicants", job.ApplicantCount)
	default:
		return fmt.Sprintf("crowded field with %d applicants; differentiation matters", job.ApplicantCount)
	}
}

func buildExplanation(score float64, job model.JobCandidate) string {
	return fmt.Sprintf("scored %.2f/100 for %s at %s based on weighted profile fit", score, job.Title, job.Employer)
}

func cloneRecommendations(recs []model.SmartRecommendation) []model.SmartRecommendation {
	return append([]model.SmartRecommendation(nil), recs...)
}
