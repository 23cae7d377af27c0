package prediction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/jobmatch/internal/adapters/store"
	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/prediction"
	"github.com/okian/jobmatch/internal/domain/scoring"
	"github.com/okian/jobmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// staticProfiles returns the same profile for every user.
type staticProfiles struct{ profile model.BehaviorProfile }

func (s staticProfiles) GetProfile(ctx context.Context, userID string) (model.BehaviorProfile, error) {
	p := s.profile
	p.UserID = userID
	return p, nil
}

func job(id string, applicants int) model.JobCandidate {
	return model.JobCandidate{
		JobID:          id,
		Title:          "Backend Engineer",
		Employer:       "Acme",
		Industry:       "Technology",
		JobType:        "full_time",
		Skills:         []string{"Go", "SQL"},
		ExperienceMin:  3,
		PostedAt:       time.Now().Add(-48 * time.Hour),
		ApplicantCount: applicants,
		Active:         true,
	}
}

func newPipeline(mem *store.MemoryStore) *prediction.Pipeline {
	scorer := scoring.New()
	profiles := staticProfiles{profile: model.BehaviorProfile{
		Preferences: model.Preferences{JobTypes: []string{"full_time"}},
		Patterns:    model.ApplicationPatterns{SuccessRate: 0.5},
	}}
	return prediction.New(mem, mem, scorer, profiles)
}

func TestPredict(t *testing.T) {
	Convey("Given a store with a user and two near-identical jobs", t, func() {
		mem := store.NewMemoryStore()
		mem.PutUser(model.UserRecord{
			UserID:          "u1",
			Skills:          []string{"Go", "SQL", "Kubernetes"},
			YearsExperience: 5,
		})
		mem.PutJob(job("quiet", 3))
		mem.PutJob(job("crowded", 120))
		p := newPipeline(mem)

		Convey("When predicting for both jobs", func() {
			quiet, err1 := p.Predict(context.Background(), "u1", "quiet")
			crowded, err2 := p.Predict(context.Background(), "u1", "crowded")

			Convey("Then the less-contested job scores strictly higher", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(quiet.OverallSuccessRate, ShouldBeGreaterThan, crowded.OverallSuccessRate)
				So(quiet.ApplicationRate, ShouldBeGreaterThan, crowded.ApplicationRate)
			})

			Convey("Then the overall rate is the clamped product of stage rates", func() {
				for _, pred := range []model.SuccessPrediction{quiet, crowded} {
					product := pred.ApplicationRate * pred.InterviewRate * pred.OfferRate
					if product < 0.05 {
						product = 0.05
					}
					if product > 0.95 {
						product = 0.95
					}
					So(pred.OverallSuccessRate, ShouldAlmostEqual, product, 1e-9)
					So(pred.OverallSuccessRate, ShouldBeBetweenOrEqual, 0.05, 0.95)
				}
			})

			Convey("Then the confidence interval stays inside [0, 1]", func() {
				So(quiet.ConfidenceInterval[0], ShouldBeGreaterThanOrEqualTo, 0)
				So(quiet.ConfidenceInterval[1], ShouldBeLessThanOrEqualTo, 1)
				So(quiet.ConfidenceInterval[0], ShouldBeLessThan, quiet.ConfidenceInterval[1])
			})

			Convey("Then confidence tiers follow sample counts", func() {
				// No history: 3 applicant points vs 20 capped points.
				So(quiet.ConfidenceLevel, ShouldEqual, model.ConfidenceLow)
				So(crowded.ConfidenceLevel, ShouldEqual, model.ConfidenceMedium)
			})

			Convey("Then timelines use industry-scaled baselines without history", func() {
				So(quiet.Timeline, ShouldHaveLength, 3)
				// Technology runs at 0.8x the 5/12/21-day baselines.
				So(quiet.Timeline[0].Stage, ShouldEqual, model.StageApplication)
				So(quiet.Timeline[0].PredictedDays, ShouldEqual, 4)
				So(quiet.Timeline[1].PredictedDays, ShouldEqual, 9.6)
				So(quiet.Timeline[2].PredictedDays, ShouldEqual, 16.8)
			})

			Convey("Then timeline ranges are asymmetric around the estimate", func() {
				for _, tl := range quiet.Timeline {
					So(tl.MinDays, ShouldBeLessThan, tl.PredictedDays)
					So(tl.MaxDays, ShouldBeGreaterThan, tl.PredictedDays)
					So(tl.PredictedDays-tl.MinDays, ShouldBeLessThan, tl.MaxDays-tl.PredictedDays)
				}
			})
		})
	})

	Convey("Given a user with a fast personal response history", t, func() {
		mem := store.NewMemoryStore()
		mem.PutUser(model.UserRecord{UserID: "u2", Skills: []string{"Go"}})
		mem.PutJob(job("j1", 10))
		applied := time.Now().Add(-30 * 24 * time.Hour)
		for i := 0; i < 3; i++ {
			mem.AddApplication(model.ApplicationRecord{
				UserID:      "u2",
				JobID:       "old",
				AppliedAt:   applied,
				RespondedAt: applied.Add(2 * 24 * time.Hour),
			})
		}
		p := newPipeline(mem)

		Convey("When predicting", func() {
			pred, err := p.Predict(context.Background(), "u2", "j1")

			Convey("Then the personal mean overrides the response baseline", func() {
				So(err, ShouldBeNil)
				So(pred.Timeline[0].PredictedDays, ShouldEqual, 2)
				// Interview and offer stages still fall back to baselines.
				So(pred.Timeline[1].PredictedDays, ShouldEqual, 9.6)
			})
		})
	})

	Convey("Given an unknown user or job", t, func() {
		mem := store.NewMemoryStore()
		mem.PutUser(model.UserRecord{UserID: "u1"})
		mem.PutJob(job("j1", 1))
		p := newPipeline(mem)

		Convey("Then prediction surfaces the store's not-found error", func() {
			_, err := p.Predict(context.Background(), "ghost", "j1")
			So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)

			_, err = p.Predict(context.Background(), "u1", "ghost")
			So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
		})
	})
}
