// Package store defines the job/user/application data-store contract the
// engine consumes, plus an in-memory implementation. The engine treats
// the store as a black box: it fetches snapshots and never writes job or
// user state except appending feedback and preference updates.
package store

import (
	"context"

	"github.com/okian/jobmatch/internal/domain/model"
)

// JobFilters narrows FetchActiveJobs. Zero values mean "no constraint".
type JobFilters struct {
	JobTypes      []string // preferred job types; empty matches all
	ExcludeJobIDs []string // typically jobs the user already applied to
	Limit         int      // max candidates returned; <=0 means store default
}

// JobStore provides read access to job postings.
type JobStore interface {
	// FetchActiveJobs returns active postings matching filters, featured
	// first then by posting recency, up to the limit. An empty result is
	// not an error.
	FetchActiveJobs(ctx context.Context, filters JobFilters) ([]model.JobCandidate, error)

	// FetchJob returns a single posting. Returns ErrNotFound if unknown.
	FetchJob(ctx context.Context, jobID string) (model.JobCandidate, error)
}

// UserStore provides read access to users and their history.
type UserStore interface {
	// FetchUser returns the user record. Returns ErrNotFound if unknown.
	FetchUser(ctx context.Context, userID string) (model.UserRecord, error)

	// FetchApplicationHistory returns the user's past applications, most
	// recent first. An empty history is not an error.
	FetchApplicationHistory(ctx context.Context, userID string) ([]model.ApplicationRecord, error)

	// FetchInteractions returns the user's raw interaction log. An empty
	// log is not an error.
	FetchInteractions(ctx context.Context, userID string) ([]model.InteractionRecord, error)

	// SavePreferences persists an explicit preference update.
	SavePreferences(ctx context.Context, userID string, prefs model.Preferences) error

	// FetchPreferences returns explicitly saved preferences. The boolean
	// reports whether the user ever saved any.
	FetchPreferences(ctx context.Context, userID string) (model.Preferences, bool, error)
}

// FeedbackLog is the durable append-only record of feedback events. It
// is the source of truth for eventual reprocessing; appends must succeed
// independently of model or profile updates.
type FeedbackLog interface {
	Append(ctx context.Context, fb model.LearningFeedback) error
}

// Store bundles every collaborator surface the engine needs.
type Store interface {
	JobStore
	UserStore
	FeedbackLog
}
