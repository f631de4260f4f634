// Package config loads engine tunables from the environment. All fields
// have working defaults so a zero-configuration start is always valid.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the runtime tunables for the orchestration engine.
type Config struct {
	RetryMaxAttempts   int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInitialDelay  time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"100ms"`
	RetryBackoffFactor float64       `env:"RETRY_BACKOFF_FACTOR" envDefault:"2.0"`
	ErrorHistoryLimit  int           `env:"ERROR_HISTORY_LIMIT" envDefault:"500"`
	TaskHistoryLimit   int           `env:"TASK_HISTORY_LIMIT" envDefault:"1000"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"json"`
}

// Default returns the built-in configuration without consulting the
// environment.
func Default() Config {
	return Config{
		RetryMaxAttempts:   3,
		RetryInitialDelay:  100 * time.Millisecond,
		RetryBackoffFactor: 2.0,
		ErrorHistoryLimit:  500,
		TaskHistoryLimit:   1000,
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// Load parses the configuration from environment variables, falling back to
// defaults for unset keys.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.RetryInitialDelay < 0 {
		return fmt.Errorf("retry initial delay must not be negative, got %s", c.RetryInitialDelay)
	}
	if c.RetryBackoffFactor < 1.0 {
		return fmt.Errorf("retry backoff factor must be at least 1.0, got %g", c.RetryBackoffFactor)
	}
	if c.ErrorHistoryLimit < 1 {
		return fmt.Errorf("error history limit must be at least 1, got %d", c.ErrorHistoryLimit)
	}
	if c.TaskHistoryLimit < 1 {
		return fmt.Errorf("task history limit must be at least 1, got %d", c.TaskHistoryLimit)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
