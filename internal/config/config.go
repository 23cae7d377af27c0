// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FeedbackQueueSize bounds the in-memory feedback queue.
	FeedbackQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of feedback workers.
	WorkerCount int `koanf:"worker_count"`

	// FeedbackBatchSize sets how many buffered feedback events trigger a
	// model weight update.
	FeedbackBatchSize int `koanf:"feedback_batch_size"`

	// RetrainThreshold sets the cumulative feedback volume that schedules
	// a full retraining.
	RetrainThreshold int `koanf:"retrain_threshold"`

	// CandidatePoolSize bounds the job pool fetched per ranking request.
	CandidatePoolSize int `koanf:"candidate_pool_size"`

	// ScoringParallelism bounds the per-request scoring fan-out.
	ScoringParallelism int `koanf:"scoring_parallelism"`

	// ProfileCacheTTLMinutes sets the behavior-profile cache TTL.
	ProfileCacheTTLMinutes int `koanf:"profile_cache_ttl_minutes"`

	// RecommendationCacheTTLSeconds sets how long a ranked set stays cached.
	RecommendationCacheTTLSeconds int `koanf:"recommendation_cache_ttl_seconds"`

	// DiversityFactor is the default ranking diversity factor.
	DiversityFactor float64 `koanf:"diversity_factor"`

	// InferenceTimeoutMS bounds a single text-inference call.
	InferenceTimeoutMS int `koanf:"inference_timeout_ms"`

	// GeminiAPIKey enables the Gemini inference client when non-empty;
	// empty falls back to neutral inference scores.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel selects the Gemini model for inference scoring.
	GeminiModel string `koanf:"gemini_model"`

	// MarketDemand maps skill names to demand scores in [0,1].
	MarketDemand map[string]float64 `koanf:"market_demand"`

	// InitialWeights overrides default scoring model weights.
	InitialWeights map[string]float64 `koanf:"initial_weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                      "info",
		Addr:                          ":9080",
		FeedbackQueueSize:             10_000,
		WorkerCount:                   runtime.NumCPU(),
		FeedbackBatchSize:             50,
		RetrainThreshold:              1000,
		CandidatePoolSize:             100,
		ScoringParallelism:            8,
		ProfileCacheTTLMinutes:        360,
		RecommendationCacheTTLSeconds: 300,
		DiversityFactor:               0.3,
		InferenceTimeoutMS:            5000,
		GeminiModel:                   "gemini-2.5-flash",
		MarketDemand:                  map[string]float64{},
		InitialWeights:                map[string]float64{},
	}
}
