package scoring

import (
	"strings"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Timing tier constants. Fresh postings and near deadlines both reward
// acting now; tiers mirror typical posting half-life.
const (
	freshTier1 = 3 * 24 * time.Hour
	freshTier2 = 7 * 24 * time.Hour
	freshTier3 = 14 * 24 * time.Hour

	deadlineTier1 = 3 * 24 * time.Hour
	deadlineTier2 = 7 * 24 * time.Hour

	timingBase       = 0.2
	preferredHourPad = 2 // hours either side of the historical peak
)

// Education levels in ascending rank. Unknown strings rank zero.
var educationRank = map[string]int{
	"none":        0,
	"certificate": 1,
	"diploma":     2,
	"associate":   2,
	"bachelor":    3,
	"master":      4,
	"doctorate":   5,
}

// skillsMatch measures overlap between the user's skills and the job's
// required skills: coverage of the job's list, with a Jaccard blend so
// a two-skill posting doesn't score identically to a ten-skill one.
func skillsMatch(userSkills []string, job model.JobCandidate) float64 {
	if len(job.Skills) == 0 || len(userSkills) == 0 {
		return neutralScore
	}

	have := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		have[normalizeSkill(s)] = true
	}

	var matched int
	for _, s := range job.Skills {
		if have[normalizeSkill(s)] {
			matched++
		}
	}

	coverage := float64(matched) / float64(len(job.Skills))
	union := len(userSkills) + len(job.Skills) - matched
	jaccard := float64(matched) / float64(union)
	return clamp01(0.7*coverage + 0.3*jaccard)
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// experienceMatch compares user experience against the job's stated
// minimum. Meeting the bar scores full; shortfall scales linearly;
// heavy overqualification tapers.
func experienceMatch(years, required float64) float64 {
	if required <= 0 {
		return neutralScore
	}
	if years < required {
		return clamp01(years / required)
	}
	if years > required+10 {
		return 0.7
	}
	return 1
}

// educationMatch compares education ranks. Meeting or exceeding the
// requirement scores full; a shortfall scales by rank distance.
func educationMatch(userLevel, requiredLevel string) float64 {
	if requiredLevel == "" {
		return neutralScore
	}
	required, ok := educationRank[strings.ToLower(requiredLevel)]
	if !ok || required == 0 {
		return neutralScore
	}
	user := educationRank[strings.ToLower(userLevel)]
	if user >= required {
		return 1
	}
	return clamp01(float64(user) / float64(required))
}

// locationMatch scores geography, honoring remote eligibility.
func locationMatch(userLocation string, prefs model.Preferences, job model.JobCandidate) float64 {
	if job.RemoteEligible && (prefs.RemoteOK || containsFold(prefs.WorkStyles, "remote")) {
		return 1
	}
	if job.Location == "" {
		return neutralScore
	}
	if sameLocation(userLocation, job.Location) {
		return 1
	}
	for _, loc := range prefs.Locations {
		if sameLocation(loc, job.Location) {
			return 0.9
		}
	}
	if job.RemoteEligible {
		return 0.7
	}
	return 0.2
}

func sameLocation(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// salaryMatch measures overlap between the user's acceptable band and
// the job's advertised band. Either side missing data scores neutral.
func salaryMatch(desired float64, prefs model.Preferences, job model.JobCandidate) float64 {
	userMin, userMax := prefs.SalaryMin, prefs.SalaryMax
	if userMin <= 0 && userMax <= 0 {
		if desired <= 0 {
			return neutralScore
		}
		// Fall back to a band around the stated desired salary.
		userMin, userMax = desired*0.8, desired*1.2
	}
	if userMax <= 0 {
		userMax = userMin * 1.5
	}
	if job.SalaryMin <= 0 && job.SalaryMax <= 0 {
		return neutralScore
	}
	jobMin, jobMax := job.SalaryMin, job.SalaryMax
	if jobMax <= 0 {
		jobMax = jobMin * 1.3
	}

	low := max(userMin, jobMin)
	high := min(userMax, jobMax)
	if high <= low {
		// Disjoint bands: a job paying above the user's band is still
		// attractive; below it is not.
		if jobMin > userMax {
			return 0.8
		}
		return 0.1
	}
	width := userMax - userMin
	if width <= 0 {
		return 1
	}
	return clamp01((high - low) / width)
}

// behaviorAlignment rewards jobs matching the profile's job type,
// industry, location (including remote eligibility), and salary band,
// with a boost for users whose historical success rate clears the
// threshold.
func behaviorAlignment(p model.BehaviorProfile, job model.JobCandidate) float64 {
	score := 0.3
	if containsFold(p.Preferences.JobTypes, job.JobType) {
		score += 0.2
	}
	if containsFold(p.Preferences.Industries, job.Industry) {
		score += 0.2
	}
	if locationMatch("", p.Preferences, job) >= 0.9 {
		score += 0.15
	}
	if salaryMatch(0, p.Preferences, job) >= 0.5 {
		score += 0.15
	}
	if p.Patterns.SuccessRate > successBoostThreshold {
		score *= successBoostFactor
	}
	return clamp01(score)
}

// timingScore rewards freshly posted jobs, approaching deadlines, and
// alignment between now and the user's historical application rhythm.
func timingScore(patterns model.ApplicationPatterns, job model.JobCandidate, now time.Time) float64 {
	score := timingBase

	if !job.PostedAt.IsZero() {
		switch age := now.Sub(job.PostedAt); {
		case age <= freshTier1:
			score += 0.3
		case age <= freshTier2:
			score += 0.2
		case age <= freshTier3:
			score += 0.1
		}
	}

	if !job.Deadline.IsZero() && job.Deadline.After(now) {
		switch left := job.Deadline.Sub(now); {
		case left <= deadlineTier1:
			score += 0.2
		case left <= deadlineTier2:
			score += 0.1
		}
	}

	if now.Weekday() == patterns.PreferredDay {
		score += 0.15
	}
	if hourDistance(now.Hour(), patterns.PreferredHour) <= preferredHourPad {
		score += 0.15
	}

	return clamp01(score)
}

// hourDistance measures circular distance between two hours of day.
func hourDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 12 {
		d = 24 - d
	}
	return d
}

// inferenceText assembles the payload sent to the inference API for
// personality/culture scoring.
func inferenceText(user model.UserRecord, job model.JobCandidate) string {
	var b strings.Builder
	b.WriteString("Candidate: ")
	b.WriteString(user.CurrentTitle)
	if user.Summary != "" {
		b.WriteString("\n")
		b.WriteString(user.Summary)
	}
	b.WriteString("\n\nJob: ")
	b.WriteString(job.Title)
	b.WriteString(" at ")
	b.WriteString(job.Employer)
	if job.Description != "" {
		b.WriteString("\n")
		b.WriteString(job.Description)
	}
	return b.String()
}
