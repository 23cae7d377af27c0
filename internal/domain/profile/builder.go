package profile

import (
	"sort"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Neutral defaults used when a user has no history.
const (
	neutralScore        = 0.5
	defaultPreferredDay = time.Tuesday
	defaultPreferredHr  = 10
	weekWindow          = 7 * 24 * time.Hour
)

// buildPatterns aggregates application history into behavioral rates.
// Zero history yields neutral 0.5 scores and mid-week defaults.
func buildPatterns(history []model.ApplicationRecord, now time.Time) model.ApplicationPatterns {
	if len(history) == 0 {
		return model.ApplicationPatterns{
			PreferredDay:  defaultPreferredDay,
			PreferredHour: defaultPreferredHr,
			SuccessRate:   neutralScore,
			FollowUpRate:  neutralScore,
		}
	}

	var successes, responded int
	dayCounts := make(map[time.Weekday]int)
	hourCounts := make(map[int]int)
	oldest := history[0].AppliedAt

	for _, rec := range history {
		if rec.Interviewed() || rec.Offered() {
			successes++
		}
		if rec.Responded() {
			responded++
		}
		dayCounts[rec.AppliedAt.Weekday()]++
		hourCounts[rec.AppliedAt.Hour()]++
		if rec.AppliedAt.Before(oldest) {
			oldest = rec.AppliedAt
		}
	}

	weeks := now.Sub(oldest).Hours() / weekWindow.Hours()
	if weeks < 1 {
		weeks = 1
	}

	return model.ApplicationPatterns{
		ApplicationsPerWeek: float64(len(history)) / weeks,
		PreferredDay:        modeDay(dayCounts),
		PreferredHour:       modeHour(hourCounts),
		SuccessRate:         float64(successes) / float64(len(history)),
		FollowUpRate:        float64(responded) / float64(len(history)),
	}
}

// derivePreferences infers coarse preferences from applied-to jobs when
// the user never saved explicit ones.
func derivePreferences(history []model.ApplicationRecord) model.Preferences {
	if len(history) == 0 {
		return model.Preferences{}
	}

	industries := make(map[string]int)
	jobTypes := make(map[string]int)
	for _, rec := range history {
		if rec.Industry != "" {
			industries[rec.Industry]++
		}
		if rec.JobType != "" {
			jobTypes[rec.JobType]++
		}
	}
	return model.Preferences{
		Industries: topKeys(industries, 3),
		JobTypes:   topKeys(jobTypes, 2),
	}
}

func buildSearch(interactions []model.InteractionRecord) model.SearchBehavior {
	var searches int
	for _, rec := range interactions {
		if rec.Kind == "search" {
			searches++
		}
	}
	return model.SearchBehavior{SearchesPerWeek: float64(searches)}
}

func buildEngagement(interactions []model.InteractionRecord) model.EngagementMetrics {
	var m model.EngagementMetrics
	var dwellTotal float64
	var dwellCount int
	for _, rec := range interactions {
		switch rec.Kind {
		case "view":
			m.ViewCount++
		case "save":
			m.SaveCount++
		case "apply":
			m.ApplyCount++
		case "dismiss":
			m.DismissCount++
		}
		if rec.DwellSecs > 0 {
			dwellTotal += rec.DwellSecs
			dwellCount++
		}
	}
	if dwellCount > 0 {
		m.AvgDwellSecs = dwellTotal / float64(dwellCount)
	}
	return m
}

func modeDay(counts map[time.Weekday]int) time.Weekday {
	best := defaultPreferredDay
	bestCount := -1
	for day := time.Sunday; day <= time.Saturday; day++ {
		if counts[day] > bestCount {
			best = day
			bestCount = counts[day]
		}
	}
	return best
}

func modeHour(counts map[int]int) int {
	best := defaultPreferredHr
	bestCount := -1
	for hour := 0; hour < 24; hour++ {
		if counts[hour] > bestCount {
			best = hour
			bestCount = counts[hour]
		}
	}
	return best
}

// topKeys returns the n highest-count keys, ties broken alphabetically
// for determinism.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
