package internal

import "github.com/kennithz884/snapmind/internal/oracle"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	oracle oracle.Oracle
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOracle overrides the oracle client built from config.
// Intended for tests and local stubs.
func WithOracle(o oracle.Oracle) Option {
	return func(a *application) {
		a.oracle = o
	}
}
