// Package modelstore holds the shared scoring model behind an atomic
// snapshot pointer. Scoring passes read one consistent snapshot per
// request; the feedback loop publishes new versions via copy-and-swap,
// never in-place mutation.
package modelstore

import (
	"sync/atomic"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Default weights for a freshly initialized model. Values are relative;
// the sigmoid squashing makes the absolute scale uninteresting.
const (
	defaultAccuracy = 0.5
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithInitialWeights overrides the default weight for the named features.
// Non-positive weights are ignored so the non-negativity invariant holds.
func WithInitialWeights(weights map[string]float64) Option {
	return func(s *Store) {
		for name, w := range weights {
			if w > 0 {
				s.initial.Weights[name] = w
			}
		}
	}
}

// WithInitialAccuracy sets the starting rolling accuracy estimate.
func WithInitialAccuracy(acc float64) Option {
	return func(s *Store) {
		if acc > 0 && acc <= 1 {
			s.initial.Accuracy = acc
		}
	}
}

// Store publishes immutable model snapshots.
type Store struct {
	current atomic.Pointer[model.ScoringModel]
	initial model.ScoringModel
}

// New creates a Store seeded with the default model at version 1.
func New(opts ...Option) *Store {
	s := &Store{initial: defaultModel()}
	for _, opt := range opts {
		opt(s)
	}
	first := s.initial.Clone()
	s.current.Store(&first)
	return s
}

// Snapshot returns the current model. The returned value must be treated
// as read-only; all candidates of one ranking call must score against a
// single Snapshot result.
func (s *Store) Snapshot() model.ScoringModel {
	return *s.current.Load()
}

// Publish installs next as the new current model, bumping the version.
// The caller passes a fully built model; Publish clones it so later
// caller mutations cannot leak into published state.
func (s *Store) Publish(next model.ScoringModel) model.ScoringModel {
	snap := next.Clone()
	snap.Version = s.current.Load().Version + 1
	s.current.Store(&snap)
	return snap
}

// Reset replaces the current model with a fresh default snapshot. Used
// after a full retraining completes.
func (s *Store) Reset() model.ScoringModel {
	next := s.initial.Clone()
	next.Version = s.current.Load().Version + 1
	next.LastTrained = time.Now()
	s.current.Store(&next)
	return next
}

func defaultModel() model.ScoringModel {
	return model.ScoringModel{
		Version:  1,
		Features: model.FeatureNames(),
		Weights: map[string]float64{
			model.FeatureSkillsMatch:           1.0,
			model.FeatureExperienceMatch:       0.8,
			model.FeatureEducationMatch:        0.4,
			model.FeatureLocationMatch:         0.6,
			model.FeatureSalaryMatch:           0.6,
			model.FeaturePersonalityMatch:      0.5,
			model.FeatureCulturalFit:           0.5,
			model.FeatureMarketDemand:          0.4,
			model.FeatureUserBehaviorScore:     0.7,
			model.FeatureHistoricalSuccessRate: 0.5,
			model.FeatureTimingScore:           0.3,
		},
		Accuracy:    defaultAccuracy,
		LastTrained: time.Time{},
		BiasMetrics: map[string]float64{},
	}
}
