package scoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/internal/domain/modelstore"
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

// failingInference simulates an unavailable inference backend.
type failingInference struct{}

func (failingInference) Score(ctx context.Context, feature, text string) (float64, error) {
	return 0, errors.New("backend down")
}

// fixedInference returns a constant score.
type fixedInference struct{ score float64 }

func (f fixedInference) Score(ctx context.Context, feature, text string) (float64, error) {
	return f.score, nil
}

func baseInput() scoring.Input {
	posted := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return scoring.Input{
		User: model.UserRecord{
			UserID:          "u1",
			Skills:          []string{"Go", "SQL", "Kubernetes"},
			YearsExperience: 5,
			EducationLevel:  "bachelor",
			Location:        "Cape Town",
			DesiredSalary:   80000,
		},
		Job: model.JobCandidate{
			JobID:          "j1",
			Title:          "Backend Engineer",
			Employer:       "Acme",
			Industry:       "Technology",
			JobType:        "full_time",
			Location:       "Cape Town",
			Skills:         []string{"Go", "SQL"},
			ExperienceMin:  3,
			EducationLevel: "bachelor",
			SalaryMin:      70000,
			SalaryMax:      95000,
			PostedAt:       posted,
			Active:         true,
		},
		Profile: model.BehaviorProfile{
			UserID: "u1",
			Preferences: model.Preferences{
				JobTypes:   []string{"full_time"},
				Industries: []string{"Technology"},
				SalaryMin:  70000,
				SalaryMax:  100000,
			},
			Patterns: model.ApplicationPatterns{
				PreferredDay:  time.Monday,
				PreferredHour: 9,
				SuccessRate:   0.4,
				FollowUpRate:  0.5,
			},
		},
	}
}

func TestScoreVector(t *testing.T) {
	Convey("Given a scorer with a healthy inference backend", t, func() {
		now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC) // Monday 09:30
		scorer := scoring.New(
			scoring.WithInference(fixedInference{score: 0.8}),
			scoring.WithClock(func() time.Time { return now }),
		)

		Convey("When a well-matched pair is scored", func() {
			v, err := scorer.Score(context.Background(), baseInput())

			Convey("Then every sub-score is in range with no warnings", func() {
				So(err, ShouldBeNil)
				So(v.Warnings, ShouldBeEmpty)
				for name, value := range v.Map() {
					So(value, ShouldBeBetweenOrEqual, 0, 1)
					So(name, ShouldBeIn, model.FeatureNames())
				}
			})

			Convey("Then strong alignment is reflected in the sub-scores", func() {
				So(err, ShouldBeNil)
				So(v.SkillsMatch, ShouldBeGreaterThan, 0.7)
				So(v.ExperienceMatch, ShouldEqual, 1)
				So(v.EducationMatch, ShouldEqual, 1)
				So(v.LocationMatch, ShouldEqual, 1)
				So(v.PersonalityMatch, ShouldEqual, 0.8)
				// Fresh posting + preferred Monday 9am window.
				So(v.TimingScore, ShouldBeGreaterThan, 0.7)
				// Success rate 0.4 clears the 0.3 boost threshold.
				So(v.UserBehaviorScore, ShouldBeGreaterThan, 0.9)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := scorer.Score(ctx, baseInput())

			Convey("Then scoring fails with the context error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a scorer whose inference backend is down", t, func() {
		scorer := scoring.New(scoring.WithInference(failingInference{}))

		Convey("When a pair is scored", func() {
			v, err := scorer.Score(context.Background(), baseInput())

			Convey("Then inference features degrade to neutral and the rest survive", func() {
				So(err, ShouldBeNil)
				So(v.PersonalityMatch, ShouldEqual, 0.5)
				So(v.CulturalFit, ShouldEqual, 0.5)
				So(v.Warnings, ShouldContain, "personality")
				So(v.Warnings, ShouldContain, "culture")
				So(v.SkillsMatch, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestCombineBounds(t *testing.T) {
	Convey("Given the default model snapshot", t, func() {
		snapshot := modelstore.New().Snapshot()

		Convey("Then any in-range vector combines into (0, 100)", func() {
			vectors := []model.FeatureVector{
				{}, // all zeros
				{SkillsMatch: 1, ExperienceMatch: 1, EducationMatch: 1, LocationMatch: 1,
					SalaryMatch: 1, PersonalityMatch: 1, CulturalFit: 1, MarketDemand: 1,
					UserBehaviorScore: 1, HistoricalSuccessRate: 1, TimingScore: 1},
				{SkillsMatch: 0.5, TimingScore: 0.25, MarketDemand: 0.75},
			}
			for _, v := range vectors {
				score := scoring.Combine(v, snapshot, scoring.StageUnspecified, scoring.RiskUnspecified)
				So(score, ShouldBeGreaterThan, 0)
				So(score, ShouldBeLessThan, 100)
			}
		})

		Convey("Then a stronger vector never scores below a weaker one", func() {
			weak := model.FeatureVector{SkillsMatch: 0.2, ExperienceMatch: 0.2}
			strong := model.FeatureVector{SkillsMatch: 0.9, ExperienceMatch: 0.9}
			So(scoring.Combine(strong, snapshot, "", ""),
				ShouldBeGreaterThan,
				scoring.Combine(weak, snapshot, "", ""))
		})

		Convey("Then career-stage reweighting shifts the result", func() {
			v := model.FeatureVector{MarketDemand: 1, SalaryMatch: 0.1}
			exploration := scoring.Combine(v, snapshot, scoring.StageExploration, "")
			senior := scoring.Combine(v, snapshot, scoring.StageSenior, "")
			// Exploration boosts market demand; senior boosts salary fit.
			So(exploration, ShouldBeGreaterThan, senior)
		})

		Convey("Then stage and risk validation accepts the closed sets only", func() {
			So(scoring.ValidCareerStage(scoring.StageGrowth), ShouldBeTrue)
			So(scoring.ValidCareerStage("cto"), ShouldBeFalse)
			So(scoring.ValidRiskTolerance(scoring.RiskModerate), ShouldBeTrue)
			So(scoring.ValidRiskTolerance("yolo"), ShouldBeFalse)
		})
	})
}
