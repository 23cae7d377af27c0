// Package market defines the MarketSignalProvider contract: a demand
// score in [0,1] for a skill or role. The engine never generates
// randomized market data itself; deployments plug in a provider fed by
// real labor-market signals, and the static provider below serves
// config-driven tables for local runs.
package market

import (
	"context"
	"strings"
)

// Default provider configuration constants.
const (
	defaultDemand = 0.5
)

// SignalProvider returns current market demand for a skill, in [0,1].
type SignalProvider interface {
	Demand(ctx context.Context, skill string) (float64, error)
}

// Option applies a configuration option to the StaticProvider.
type Option func(*StaticProvider)

// WithDemandTable seeds per-skill demand scores. Keys are lowercased;
// values outside [0,1] are ignored.
func WithDemandTable(table map[string]float64) Option {
	return func(p *StaticProvider) {
		for skill, demand := range table {
			if demand >= 0 && demand <= 1 {
				p.table[strings.ToLower(skill)] = demand
			}
		}
	}
}

// WithDefaultDemand sets the score for skills absent from the table.
func WithDefaultDemand(demand float64) Option {
	return func(p *StaticProvider) {
		if demand >= 0 && demand <= 1 {
			p.fallback = demand
		}
	}
}

// StaticProvider implements SignalProvider from a fixed table.
type StaticProvider struct {
	table    map[string]float64
	fallback float64
}

// NewStaticProvider creates a provider with configuration options.
func NewStaticProvider(opts ...Option) *StaticProvider {
	p := &StaticProvider{
		table:    make(map[string]float64),
		fallback: defaultDemand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Demand returns the configured demand score for skill.
func (p *StaticProvider) Demand(ctx context.Context, skill string) (float64, error) {
	if d, ok := p.table[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return d, nil
	}
	return p.fallback, nil
}
