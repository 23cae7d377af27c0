package app

import "errors"

// Sentinel errors surfaced by the engine.
var (
	// ErrNotStarted is returned when the engine is used before Start.
	ErrNotStarted = errors.New("engine not started")

	// ErrInvalidOptions is returned for out-of-range ranking options.
	ErrInvalidOptions = errors.New("invalid recommendation options")
)
