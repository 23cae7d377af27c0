// Package inference defines the text-inference contract used for the
// personality and culture sub-scores, plus a Gemini-backed client. The
// engine only depends on the Client interface: a numeric score in [0,1]
// or a failure. Failures always map to the scorer's neutral-default
// path, never to a cascading request failure.
package inference

import (
	"context"
	"time"
)

// Features the engine asks the inference API to score.
const (
	FeaturePersonality = "personality"
	FeatureCulture     = "culture"
)

// Default client configuration constants.
const (
	defaultTimeout = 5 * time.Second
)

// Client scores a piece of text for a named feature. Implementations
// must honor ctx and return a value in [0,1].
type Client interface {
	Score(ctx context.Context, feature, text string) (float64, error)
}

// NeutralClient always returns the neutral score. Used when no inference
// backend is configured; keeps the scorer's degradation path exercised
// in local runs and tests.
type NeutralClient struct{}

// Score returns 0.5 for every input.
func (NeutralClient) Score(ctx context.Context, feature, text string) (float64, error) {
	return 0.5, nil
}
