// Package profile builds and caches per-user behavior profiles from raw
// application and interaction history.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/cache"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

// Default profile store configuration constants.
const (
	defaultTTL = 6 * time.Hour
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithTTL sets the profile cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store serves behavior profiles, rebuilding lazily on cache miss.
type Store struct {
	users  store.UserStore
	cache  *cache.Cache[model.BehaviorProfile]
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

// New creates a profile store backed by users.
func New(users store.UserStore, opts ...Option) *Store {
	s := &Store{
		users:  users,
		ttl:    defaultTTL,
		now:    time.Now,
		logger: logger.Get().Named("profile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.New[model.BehaviorProfile](
		cache.WithTTL[model.BehaviorProfile](s.ttl),
		cache.WithClock[model.BehaviorProfile](s.now),
	)
	return s
}

// GetProfile returns the user's behavior profile, building it from
// history if no fresh cached copy exists. A user with zero history gets
// a profile with empty preference sets and neutral pattern scores;
// empty history is never an error.
func (s *Store) GetProfile(ctx context.Context, userID string) (model.BehaviorProfile, error) {
	if p, ok := s.cache.Get(ctx, userID); ok {
		metrics.RecordProfileCacheHit()
		return p, nil
	}
	metrics.RecordProfileCacheMiss()

	p, err := s.build(ctx, userID)
	if err != nil {
		return model.BehaviorProfile{}, err
	}
	s.cache.Set(ctx, userID, p)
	return p, nil
}

// UpdatePreferences persists an explicit preference update and
// force-invalidates the cached profile so the next read rebuilds.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	if err := s.users.SavePreferences(ctx, userID, prefs); err != nil {
		return fmt.Errorf("save preferences for %s: %w", userID, err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// Invalidate drops the cached profile, forcing a rebuild on next read.
// Called by the feedback loop after profile-mutating signals.
func (s *Store) Invalidate(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, userID)
}

func (s *Store) build(ctx context.Context, userID string) (model.BehaviorProfile, error) {
	history, err := s.users.FetchApplicationHistory(ctx, userID)
	if err != nil {
		return model.BehaviorProfile{}, fmt.Errorf("fetch application history for %s: %w", userID, err)
	}
	interactions, err := s.users.FetchInteractions(ctx, userID)
	if err != nil {
		return model.BehaviorProfile{}, fmt.Errorf("fetch interactions for %s: %w", userID, err)
	}

	p := model.BehaviorProfile{
		UserID:      userID,
		Patterns:    buildPatterns(history, s.now()),
		Search:      buildSearch(interactions),
		Engagement:  buildEngagement(interactions),
		LastUpdated: s.now(),
	}

	// Explicit preferences win; otherwise derive coarse preferences from
	// what the user actually applied to.
	if prefs, ok, err := s.users.FetchPreferences(ctx, userID); err == nil && ok {
		p.Preferences = prefs
	} else {
		p.Preferences = derivePreferences(history)
	}

	s.logger.Debug(ctx, "profile rebuilt",
		logger.String("userID", userID),
		logger.Int("applications", len(history)),
		logger.Int("interactions", len(interactions)),
	)
	return p, nil
}
