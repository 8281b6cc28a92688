// Package retry provides bounded retry loops with constant or exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	OnWait      func(attempt int, delay time.Duration, err error)
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes the operation until it succeeds, the attempt budget is
// exhausted, or the context is cancelled. The delay between attempts is
// multiplied by Multiplier after each wait and capped at MaxDelay; with
// Multiplier 1.0 this is a fixed-interval poll loop.
//
// Errors wrapped with Fatal() abort immediately and are not retried.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts: 6,
		Delay:       1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.Delay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnWait != nil {
			cfg.OnWait(attempt, delay, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// WithMaxAttempts sets the total attempt budget, including the first attempt.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithDelay sets the delay before the first retry.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}

// WithMaxDelay sets the upper bound on the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier. Use 1.0 for fixed-interval polling.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// WithOnWait registers a hook invoked before each suspension, with the
// attempt number, the upcoming delay, and the error that triggered the wait.
func WithOnWait(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(c *Config) {
		c.OnWait = fn
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether the error is marked fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
