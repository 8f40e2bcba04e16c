package engine

import "log/slog"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Name   string       // pipeline name used in log lines
	RunID  string       // correlation id; generated when empty
	Logger *slog.Logger // nil uses the package logger
}

// WithName labels the run in logs (e.g. "grades").
func WithName(name string) Option {
	return func(c *config) {
		c.Name = name
	}
}

// WithRunID fixes the run's correlation id instead of generating one.
func WithRunID(id string) Option {
	return func(c *config) {
		c.RunID = id
	}
}

// WithLogger routes the run's log lines to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Name: "pipeline",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
