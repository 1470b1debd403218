package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root          string // target directory tree to convert
	RemoveSources bool
	DryRun        bool

	Patterns  []string
	Classes   []string
	MaxPasses int

	ReportURL string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}
	if cfg.MaxPasses < 0 {
		return nil, errors.New("MaxPasses cannot be negative")
	}
	return &cfg, nil
}
