// Package ranking bounds redundancy across industry, job type, and
// employer in a scored recommendation list.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/metrics"
)

const (
	// qualityFloor is the minimum adjusted score a candidate must keep
	// after the diversity penalty to stay in the output.
	qualityFloor = 60

	industryWeight = 0.4
	jobTypeWeight  = 0.3
	employerWeight = 0.3
)

// Diversify re-ranks scored candidates, penalizing repeats of an
// already-seen industry, job type, or employer. A candidate whose
// penalized score falls below the quality floor is dropped, not
// reordered. Accepted items keep their descending order by pre-penalty
// score; a zero factor leaves ordering, content, and scores untouched.
func Diversify(scored []model.SmartRecommendation, factor float64) []model.SmartRecommendation {
	out := make([]model.SmartRecommendation, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if factor <= 0 {
		return out
	}
	factor = math.Min(factor, 1)

	seenIndustry := make(map[string]bool)
	seenJobType := make(map[string]bool)
	seenEmployer := make(map[string]bool)

	accepted := out[:0]
	for _, rec := range out {
		var repeat float64
		industry := normalize(rec.Job.Industry)
		jobType := normalize(rec.Job.JobType)
		employer := normalize(rec.Job.Employer)

		if seenIndustry[industry] {
			repeat += industryWeight
		}
		if seenJobType[jobType] {
			repeat += jobTypeWeight
		}
		if seenEmployer[employer] {
			repeat += employerWeight
		}

		penalty := factor * repeat
		adjusted := round2(rec.Score * (1 - penalty))
		if adjusted < qualityFloor {
			metrics.RecordDiversityDrop()
			continue
		}

		rec.Score = adjusted
		seenIndustry[industry] = true
		seenJobType[jobType] = true
		seenEmployer[employer] = true
		accepted = append(accepted, rec)
	}
	return accepted
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
