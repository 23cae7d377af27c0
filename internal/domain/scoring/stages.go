package scoring

import "github.com/okian/jobmatch/internal/domain/model"

// CareerStage shifts feature weighting toward learning opportunity or
// stability. The zero value applies no adjustment.
type CareerStage string

// Recognized career stages.
const (
	StageUnspecified CareerStage = ""
	StageExploration CareerStage = "exploration"
	StageGrowth      CareerStage = "growth"
	StageSenior      CareerStage = "senior"
	StageTransition  CareerStage = "transition"
)

// RiskTolerance shifts weighting between proven-success signals and
// market opportunity. The zero value applies no adjustment.
type RiskTolerance string

// Recognized risk tolerances.
const (
	RiskUnspecified  RiskTolerance = ""
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// ValidCareerStage reports whether stage is recognized.
func ValidCareerStage(stage CareerStage) bool {
	switch stage {
	case StageUnspecified, StageExploration, StageGrowth, StageSenior, StageTransition:
		return true
	}
	return false
}

// ValidRiskTolerance reports whether risk is recognized.
func ValidRiskTolerance(risk RiskTolerance) bool {
	switch risk {
	case RiskUnspecified, RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// weightAdjustment multiplies selected feature weights. Keeping the
// policy in data makes each stage testable in isolation.
type weightAdjustment map[string]float64

// stageAdjustments reweights per career stage: exploration favors
// market opportunity over compensation, growth favors skill stretch,
// senior favors experience and compensation, transition favors
// transferable credentials over direct experience.
var stageAdjustments = map[CareerStage]weightAdjustment{
	StageExploration: {
		model.FeatureMarketDemand: 1.3,
		model.FeatureSkillsMatch:  0.9,
		model.FeatureSalaryMatch:  0.8,
	},
	StageGrowth: {
		model.FeatureSkillsMatch:     1.2,
		model.FeatureExperienceMatch: 1.1,
	},
	StageSenior: {
		model.FeatureExperienceMatch: 1.3,
		model.FeatureSalaryMatch:     1.2,
		model.FeatureCulturalFit:     1.1,
	},
	StageTransition: {
		model.FeatureEducationMatch:  1.2,
		model.FeatureMarketDemand:    1.2,
		model.FeatureExperienceMatch: 0.8,
	},
}

// riskAdjustments reweights per risk tolerance: conservative leans on
// the user's proven success signals, aggressive chases demand.
var riskAdjustments = map[RiskTolerance]weightAdjustment{
	RiskConservative: {
		model.FeatureHistoricalSuccessRate: 1.3,
		model.FeatureTimingScore:           1.1,
		model.FeatureMarketDemand:          0.8,
	},
	RiskAggressive: {
		model.FeatureMarketDemand:          1.2,
		model.FeatureSalaryMatch:           1.1,
		model.FeatureHistoricalSuccessRate: 0.8,
	},
}

// adjustWeights returns a copy of weights with stage and risk
// adjustments applied. The input map is never mutated.
func adjustWeights(weights map[string]float64, stage CareerStage, risk RiskTolerance) map[string]float64 {
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	for feature, factor := range stageAdjustments[stage] {
		out[feature] *= factor
	}
	for feature, factor := range riskAdjustments[risk] {
		out[feature] *= factor
	}
	return out
}
