// Package retry implements the cross-cutting retry-with-backoff policy
// wrapped around orchestrator and router calls. Control flow stays explicit:
// callers pass a closure to Do instead of decorating methods.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config tunes one retried call-site.
type Config struct {
	// MaxAttempts is the total attempt budget, first try included.
	MaxAttempts int
	// InitialDelay is the sleep before the second attempt.
	InitialDelay time.Duration
	// BackoffFactor multiplies the delay between consecutive attempts.
	BackoffFactor float64
}

// DefaultConfig is the baseline policy used by the orchestrator façade.
var DefaultConfig = Config{
	MaxAttempts:   3,
	InitialDelay:  100 * time.Millisecond,
	BackoffFactor: 2.0,
}

func (c Config) normalized() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultConfig.InitialDelay
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = DefaultConfig.BackoffFactor
	}
	return c
}

// Do runs op until it succeeds or the attempt budget is exhausted, sleeping
// a geometrically growing delay between attempts. Sleeps are blocking but
// honor ctx cancellation; a cancelled context returns immediately with the
// context error. The last operation error is returned wrapped with the
// attempt count.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	cfg = cfg.normalized()
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
	}
	return fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
