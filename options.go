package boa

import (
	"io"
	"log/slog"
)

const defaultMaxIterations = 99999999

// discardLogger is the library default: silent regardless of what a
// caller's process-wide slog.SetDefault does elsewhere, since a library
// has no business writing to whatever handler an unrelated caller
// installed as the global default. Callers that want a driver's progress
// logging use WithLogger explicitly.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// RunConfig carries the tunables shared by the naive and nlogn drivers.
type RunConfig struct {
	seed          uint64
	maxIterations int
	logger        *slog.Logger
}

// Option configures a RunConfig.
type Option func(*RunConfig) error

func newRunConfig(opts ...Option) (*RunConfig, error) {
	cfg := &RunConfig{
		maxIterations: defaultMaxIterations,
		logger:        discardLogger,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithSeed fixes the hash seed the canonicalizer folds into every node
// signature. Two runs over the same input with the same seed produce
// identical signatures; the default seed is 0.
func WithSeed(seed uint64) Option {
	return func(cfg *RunConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithMaxIterations caps the number of fixed-point rounds the naive driver
// will run before returning ErrResourceExhaustion instead of looping
// forever on a malformed or pathological input.
func WithMaxIterations(n int) Option {
	return func(cfg *RunConfig) error {
		cfg.maxIterations = n
		return nil
	}
}

// WithLogger directs a driver's progress logging (iteration counts,
// partition counts) to logger instead of the disabled default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *RunConfig) error {
		cfg.logger = logger
		return nil
	}
}
