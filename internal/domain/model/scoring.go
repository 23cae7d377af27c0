package model

import "time"

// Feature names used by the scoring model. The weights map is keyed by
// these names; the combination step is order-independent.
const (
	FeatureSkillsMatch           = "skills_match"
	FeatureExperienceMatch       = "experience_match"
	FeatureEducationMatch        = "education_match"
	FeatureLocationMatch         = "location_match"
	FeatureSalaryMatch           = "salary_match"
	FeaturePersonalityMatch      = "personality_match"
	FeatureCulturalFit           = "cultural_fit"
	FeatureMarketDemand          = "market_demand"
	FeatureUserBehaviorScore     = "user_behavior_score"
	FeatureHistoricalSuccessRate = "historical_success_rate"
	FeatureTimingScore           = "timing_score"
)

// FeatureNames lists every feature in canonical order.
func FeatureNames() []string {
	return []string{
		FeatureSkillsMatch,
		FeatureExperienceMatch,
		FeatureEducationMatch,
		FeatureLocationMatch,
		FeatureSalaryMatch,
		FeaturePersonalityMatch,
		FeatureCulturalFit,
		FeatureMarketDemand,
		FeatureUserBehaviorScore,
		FeatureHistoricalSuccessRate,
		FeatureTimingScore,
	}
}

// FeatureVector holds the normalized sub-scores for a single (user, job)
// pair. All values lie in [0,1]. Transient; computed per request.
type FeatureVector struct {
	SkillsMatch           float64
	ExperienceMatch       float64
	EducationMatch        float64
	LocationMatch         float64
	SalaryMatch           float64
	PersonalityMatch      float64
	CulturalFit           float64
	MarketDemand          float64
	UserBehaviorScore     float64
	HistoricalSuccessRate float64
	TimingScore           float64

	// Warnings records features that degraded to their neutral default,
	// e.g. on inference timeout. Informational only.
	Warnings []string
}

// Map returns the vector keyed by feature name for weighted combination.
func (v FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		FeatureSkillsMatch:           v.SkillsMatch,
		FeatureExperienceMatch:       v.ExperienceMatch,
		FeatureEducationMatch:        v.EducationMatch,
		FeatureLocationMatch:         v.LocationMatch,
		FeatureSalaryMatch:           v.SalaryMatch,
		FeaturePersonalityMatch:      v.PersonalityMatch,
		FeatureCulturalFit:           v.CulturalFit,
		FeatureMarketDemand:          v.MarketDemand,
		FeatureUserBehaviorScore:     v.UserBehaviorScore,
		FeatureHistoricalSuccessRate: v.HistoricalSuccessRate,
		FeatureTimingScore:           v.TimingScore,
	}
}

// ScoringModel is an immutable snapshot of the weighted scorer. Snapshots
// are published whole by the feedback loop; readers never mutate one.
type ScoringModel struct {
	Version          int
	Features         []string
	Weights          map[string]float64 // non-negative, keyed by feature name
	Accuracy         float64            // rolling estimate in [0,1]
	LastTrained      time.Time
	TrainingDataSize int
	BiasMetrics      map[string]float64
}

// Clone returns a deep copy suitable for copy-and-swap publication.
func (m ScoringModel) Clone() ScoringModel {
	out := m
	out.Features = append([]string(nil), m.Features...)
	out.Weights = make(map[string]float64, len(m.Weights))
	for k, v := range m.Weights {
		out.Weights[k] = v
	}
	out.BiasMetrics = make(map[string]float64, len(m.BiasMetrics))
	for k, v := range m.BiasMetrics {
		out.BiasMetrics[k] = v
	}
	return out
}
