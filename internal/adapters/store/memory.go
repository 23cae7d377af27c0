package store

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Default in-memory store configuration constants.
const (
	defaultJobLimit = 100
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDefaultJobLimit sets the limit used when a filter carries none.
func WithDefaultJobLimit(limit int) Option {
	return func(s *MemoryStore) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// MemoryStore implements Store with mutex-guarded maps. It backs tests
// and local runs; production deployments swap in a database-backed
// implementation of the same interfaces.
type MemoryStore struct {
	mu           sync.RWMutex
	jobs         map[string]model.JobCandidate
	users        map[string]model.UserRecord
	applications map[string][]model.ApplicationRecord
	interactions map[string][]model.InteractionRecord
	preferences  map[string]model.Preferences
	feedback     []model.LearningFeedback
	defaultLimit int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		jobs:         make(map[string]model.JobCandidate),
		users:        make(map[string]model.UserRecord),
		applications: make(map[string][]model.ApplicationRecord),
		interactions: make(map[string][]model.InteractionRecord),
		preferences:  make(map[string]model.Preferences),
		defaultLimit: defaultJobLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutJob inserts or replaces a posting.
func (s *MemoryStore) PutJob(job model.JobCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

// PutUser inserts or replaces a user record.
func (s *MemoryStore) PutUser(user model.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
}

// AddApplication appends an application record to the user's history.
func (s *MemoryStore) AddApplication(rec model.ApplicationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[rec.UserID] = append(s.applications[rec.UserID], rec)
}

// AddInteraction appends a raw interaction record.
func (s *MemoryStore) AddInteraction(rec model.InteractionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[rec.UserID] = append(s.interactions[rec.UserID], rec)
}

// FetchActiveJobs returns active postings matching filters, featured
// first then by posting recency.
func (s *MemoryStore) FetchActiveJobs(ctx context.Context, filters JobFilters) ([]model.JobCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(filters.ExcludeJobIDs))
	for _, id := range filters.ExcludeJobIDs {
		excluded[id] = true
	}
	wantType := make(map[string]bool, len(filters.JobTypes))
	for _, t := range filters.JobTypes {
		wantType[t] = true
	}

	out := make([]model.JobCandidate, 0, len(s.jobs))
	for _, job := range s.jobs {
		if !job.Active || excluded[job.JobID] {
			continue
		}
		if len(wantType) > 0 && !wantType[job.JobType] {
			continue
		}
		out = append(out, job)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		if !out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].PostedAt.After(out[j].PostedAt)
		}
		return out[i].JobID < out[j].JobID
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FetchJob returns a single posting by id.
func (s *MemoryStore) FetchJob(ctx context.Context, jobID string) (model.JobCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return model.JobCandidate{}, ErrNotFound
	}
	return job, nil
}

// FetchUser returns the user record by id.
func (s *MemoryStore) FetchUser(ctx context.Context, userID string) (model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return model.UserRecord{}, ErrNotFound
	}
	return user, nil
}

// FetchApplicationHistory returns the user's applications, most recent first.
func (s *MemoryStore) FetchApplicationHistory(ctx context.Context, userID string) ([]model.ApplicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := append([]model.ApplicationRecord(nil), s.applications[userID]...)
	sort.Slice(history, func(i, j int) bool {
		return history[i].AppliedAt.After(history[j].AppliedAt)
	})
	return history, nil
}

// FetchInteractions returns the user's raw interaction log.
func (s *MemoryStore) FetchInteractions(ctx context.Context, userID string) ([]model.InteractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.InteractionRecord(nil), s.interactions[userID]...), nil
}

// SavePreferences persists an explicit preference update onto the user
// record so later profile rebuilds observe it.
func (s *MemoryStore) SavePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	s.preferences[userID] = prefs
	return nil
}

// FetchPreferences returns explicitly saved preferences, if any.
func (s *MemoryStore) FetchPreferences(ctx context.Context, userID string) (model.Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.preferences[userID]
	return prefs, ok, nil
}

// Append records a feedback event in the durable log.
func (s *MemoryStore) Append(ctx context.Context, fb model.LearningFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, fb)
	return nil
}

// FeedbackEntries returns a copy of the append-only feedback log.
func (s *MemoryStore) FeedbackEntries() []model.LearningFeedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LearningFeedback(nil), s.feedback...)
}
