package ranking_test

import (
	"testing"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(jobID, industry, jobType, employer string, score float64) model.SmartRecommendation {
	return model.SmartRecommendation{
		RecommendationID: "rec-" + jobID,
		Job: model.JobCandidate{
			JobID:    jobID,
			Industry: industry,
			JobType:  jobType,
			Employer: employer,
		},
		Score: score,
	}
}

func TestDiversify(t *testing.T) {
	Convey("Given a scored candidate list", t, func() {
		scored := []model.SmartRecommendation{
			rec("j1", "Technology", "full_time", "Acme", 95),
			rec("j2", "Technology", "full_time", "Acme", 92),
			rec("j3", "Finance", "contract", "Globex", 88),
			rec("j4", "Technology", "contract", "Initech", 85),
			rec("j5", "Healthcare", "full_time", "Umbrella", 70),
		}

		Convey("When the diversity factor is zero", func() {
			out := ranking.Diversify(scored, 0)

			Convey("Then it is a strict no-op beyond sorting", func() {
				So(out, ShouldHaveLength, len(scored))
				for i, r := range out {
					So(r.Job.JobID, ShouldEqual, scored[i].Job.JobID)
					So(r.Score, ShouldEqual, scored[i].Score)
				}
			})
		})

		Convey("When a moderate diversity factor is applied", func() {
			out := ranking.Diversify(scored, 0.3)

			Convey("Then full repeats are penalized", func() {
				// j2 repeats industry, type, and employer of j1:
				// 92 * (1 - 0.3*1.0) = 64.4, above the floor, kept.
				ids := jobIDs(out)
				So(ids, ShouldContain, "j1")
				So(ids, ShouldContain, "j2")
				So(ids, ShouldContain, "j3")
				So(scoreOf(out, "j2"), ShouldEqual, 64.4)
			})

			Convey("Then output preserves pre-penalty descending order", func() {
				ids := jobIDs(out)
				So(indexOf(ids, "j1"), ShouldBeLessThan, indexOf(ids, "j2"))
				So(indexOf(ids, "j2"), ShouldBeLessThan, indexOf(ids, "j3"))
			})

			Convey("Then every surviving adjusted score clears the floor", func() {
				for _, r := range out {
					So(r.Score, ShouldBeGreaterThanOrEqualTo, 60)
				}
			})

			Convey("Then the repeat in a seen industry and type near the floor is dropped", func() {
				// j5 shares industry with nobody, but once j1/j2 mark
				// full_time seen: 70 * (1 - 0.3*0.3) = 63.7, kept.
				// Raise the factor and it goes under.
				strict := ranking.Diversify(scored, 1)
				So(jobIDs(strict), ShouldNotContain, "j2") // 92*(1-1.0) = 0
			})
		})

		Convey("When all candidates are unique", func() {
			unique := []model.SmartRecommendation{
				rec("a", "Technology", "full_time", "Acme", 90),
				rec("b", "Finance", "contract", "Globex", 80),
				rec("c", "Healthcare", "part_time", "Umbrella", 75),
			}
			out := ranking.Diversify(unique, 1)

			Convey("Then nothing is penalized or dropped", func() {
				So(out, ShouldHaveLength, 3)
				So(scoreOf(out, "a"), ShouldEqual, 90)
				So(scoreOf(out, "b"), ShouldEqual, 80)
				So(scoreOf(out, "c"), ShouldEqual, 75)
			})
		})

		Convey("When the input is empty", func() {
			So(ranking.Diversify(nil, 0.3), ShouldBeEmpty)
		})
	})
}

func jobIDs(recs []model.SmartRecommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Job.JobID)
	}
	return out
}

func scoreOf(recs []model.SmartRecommendation, jobID string) float64 {
	for _, r := range recs {
		if r.Job.JobID == jobID {
			return r.Score
		}
	}
	return -1
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
