package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if JOBMATCH_CONFIG is set
//  3. env (prefix JOBMATCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("JOBMATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: JOBMATCH_ADDR, JOBMATCH_QUEUE_SIZE, ...
	// Map env keys like JOBMATCH_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("JOBMATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "jobmatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DiversityFactor < 0 || c.DiversityFactor > 1 {
		return fmt.Errorf("%w: diversity_factor %.3f out of range [0,1]", ErrInvalidConfig, c.DiversityFactor)
	}
	if c.FeedbackBatchSize < 1 {
		return fmt.Errorf("%w: feedback_batch_size must be positive", ErrInvalidConfig)
	}
	for skill, demand := range c.MarketDemand {
		if demand < 0 || demand > 1 {
			return fmt.Errorf("%w: market demand for %q out of range [0,1]", ErrInvalidConfig, skill)
		}
	}
	return nil
}
