package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/langbench/internal/executor"
)

// DefaultTimeout is the deadline applied to every build and run step.
const DefaultTimeout = 5 * time.Minute

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BenchDir    string   // directory scanned for benchmark sources
	RootDir     string   // exposed to recipes as root_dir; defaults to the parent of BenchDir
	RecipePaths []string // extra .hcl recipe files or directories
	NoDefaults  bool     // skip the embedded recipes

	Timeout time.Duration
	Mode    string
	Workers int

	OutputPath   string // optional YAML report
	PublishURL   string // optional socket.io endpoint
	PublishEvent string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BenchDir == "" {
		return nil, errors.New("BenchDir is a required configuration field and cannot be empty")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	switch cfg.Mode {
	case "":
		cfg.Mode = executor.ModeSequential
	case executor.ModeSequential, executor.ModeConcurrent:
	default:
		return nil, fmt.Errorf("invalid mode %q: must be %q or %q", cfg.Mode, executor.ModeSequential, executor.ModeConcurrent)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.PublishEvent == "" {
		cfg.PublishEvent = "outcome"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
