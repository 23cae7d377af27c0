package model

import "time"

// User actions a recommendation can receive.
const (
	ActionViewed        = "viewed"
	ActionSaved         = "saved"
	ActionApplied       = "applied"
	ActionDismissed     = "dismissed"
	ActionNotInterested = "not_interested"
)

// ImplicitSignals are passively collected engagement measurements
// attached to a feedback event.
type ImplicitSignals struct {
	DwellSeconds float64
	ScrollDepth  float64 // fraction of the posting viewed, [0,1]
	RepeatVisits int
}

// FeedbackOutcome records the eventual funnel result tied to a
// recommendation, when known.
type FeedbackOutcome struct {
	Applied     bool
	Interviewed bool
	Offered     bool
}

// LearningFeedback is a single user action/outcome signal. Created on
// every interaction with a recommendation; appended to the feedback log
// and the in-memory buffer; never mutated after creation.
type LearningFeedback struct {
	FeedbackID       string
	RecommendationID string
	UserID           string
	JobID            string
	UserAction       string // one of the Action* constants
	Rating           int    // optional explicit 1-5 rating, 0 if absent
	Reasoning        string // optional explicit free-text reason
	Implicit         ImplicitSignals
	Outcome          *FeedbackOutcome // nil until an outcome is known
	CreatedAt        time.Time
}

// Positive reports whether the action counts as a positive signal for
// batch aggregation.
func (f LearningFeedback) Positive() bool {
	return f.UserAction == ActionApplied || f.UserAction == ActionSaved
}

// Negative reports whether the action counts as a negative signal.
func (f LearningFeedback) Negative() bool {
	return f.UserAction == ActionDismissed || f.UserAction == ActionNotInterested
}

// ValidAction reports whether the action is one the engine recognizes.
func ValidAction(action string) bool {
	switch action {
	case ActionViewed, ActionSaved, ActionApplied, ActionDismissed, ActionNotInterested:
		return true
	}
	return false
}
