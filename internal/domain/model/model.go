// Package model contains domain models passed between layers.
package model

import "time"

// Preferences captures the explicit job preferences of a user.
type Preferences struct {
	JobTypes     []string // e.g. "full_time", "contract"
	Industries   []string
	Locations    []string
	RemoteOK     bool
	SalaryMin    float64
	SalaryMax    float64
	CompanySizes []string // e.g. "startup", "enterprise"
	WorkStyles   []string // e.g. "remote", "hybrid", "office"
}

// ApplicationPatterns aggregates a user's historical application behavior.
// Scores are normalized to [0,1]; a user with no history gets neutral 0.5 values.
type ApplicationPatterns struct {
	ApplicationsPerWeek float64
	PreferredDay        time.Weekday
	PreferredHour       int // 0-23, local time of historical applications
	SuccessRate         float64
	FollowUpRate        float64
}

// SearchBehavior aggregates search activity counters.
type SearchBehavior struct {
	SearchesPerWeek float64
	TopKeywords     []string
	FilterUsageRate float64
}

// EngagementMetrics aggregates interaction counters with recommendations.
type EngagementMetrics struct {
	ViewCount    int
	SaveCount    int
	ApplyCount   int
	DismissCount int
	AvgDwellSecs float64
}

// BehaviorProfile is the cached per-user summary of preferences and
// historical engagement used to bias scoring. Rebuilt lazily and cached
// with a fixed TTL.
type BehaviorProfile struct {
	UserID      string
	Preferences Preferences
	Patterns    ApplicationPatterns
	Search      SearchBehavior
	Engagement  EngagementMetrics
	LastUpdated time.Time
}

// JobCandidate is an immutable snapshot of a job posting plus an employer
// summary, pulled from the job store per request.
type JobCandidate struct {
	JobID          string
	Title          string
	Employer       string
	Industry       string
	JobType        string
	Location       string
	RemoteEligible bool
	SalaryMin      float64
	SalaryMax      float64
	Skills         []string
	ExperienceMin  float64 // required years of experience, 0 means unstated
	EducationLevel string  // minimum education level, "" means unstated
	Description    string
	PostedAt       time.Time
	Deadline       time.Time // zero value means no deadline
	ApplicantCount int
	Active         bool
	Featured       bool
}

// UserRecord is the store's view of a user, fetched with enough history
// context to score against.
type UserRecord struct {
	UserID          string
	Skills          []string
	YearsExperience float64
	EducationLevel  string // e.g. "none", "certificate", "bachelor", "master", "doctorate"
	Location        string
	CurrentTitle    string
	DesiredSalary   float64
	Summary         string
}

// ApplicationRecord is a single historical application outcome.
type ApplicationRecord struct {
	UserID        string
	JobID         string
	Industry      string
	JobType       string
	AppliedAt     time.Time
	RespondedAt   time.Time // zero if no response
	InterviewedAt time.Time // zero if no interview
	OfferedAt     time.Time // zero if no offer
	Status        string    // "applied", "responded", "interviewed", "offered", "rejected"
}

// Responded reports whether the application got any employer response.
func (a ApplicationRecord) Responded() bool { return !a.RespondedAt.IsZero() }

// Interviewed reports whether the application reached the interview stage.
func (a ApplicationRecord) Interviewed() bool { return !a.InterviewedAt.IsZero() }

// Offered reports whether the application resulted in an offer.
func (a ApplicationRecord) Offered() bool { return !a.OfferedAt.IsZero() }

// InteractionRecord is a raw user interaction with a posting or recommendation.
type InteractionRecord struct {
	UserID    string
	JobID     string
	Kind      string // "view", "save", "apply", "dismiss", "search"
	DwellSecs float64
	At        time.Time
}
