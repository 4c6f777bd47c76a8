// Package retry retries flaky browser interactions with backoff. Under
// injected chaos a click can land on a blocking overlay or a navigation can
// hit an offline window; a bot that retries with patience survives what a
// single-shot bot does not.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Config bounds a retry loop.
type Config struct {
	// Attempts is the maximum number of tries, including the first.
	Attempts int
	// Delay is the wait after the first failure.
	Delay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// Factor multiplies the delay after each failure. 1.0 is linear.
	Factor float64
	// Jitter randomizes each wait into [0.5x, 1.5x].
	Jitter bool
}

// Linear waits the same delay between every attempt.
func Linear(attempts int, delay time.Duration) Config {
	return Config{Attempts: attempts, Delay: delay, MaxDelay: delay, Factor: 1.0}
}

// Exponential doubles the delay after each failure, with jitter.
func Exponential(attempts int, delay, maxDelay time.Duration) Config {
	return Config{Attempts: attempts, Delay: delay, MaxDelay: maxDelay, Factor: 2.0, Jitter: true}
}

func (c Config) normalized() Config {
	if c.Attempts <= 0 {
		c.Attempts = 1
	}
	if c.Delay <= 0 {
		c.Delay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 5 * time.Second
	}
	if c.Factor <= 0 {
		c.Factor = 2.0
	}
	return c
}

// Do runs op until it succeeds, exhausts cfg.Attempts, returns a permanent
// error, or ctx is done. The returned error is the last one seen.
func Do(ctx context.Context, cfg Config, op func() error) error {
	cfg = cfg.normalized()
	delay := cfg.Delay

	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err = op(); err == nil {
			return nil
		}
		if IsPermanent(err) || attempt >= cfg.Attempts {
			return err
		}

		wait := delay
		if cfg.Jitter {
			wait = time.Duration(float64(delay) * (0.5 + rand.Float64())) // #nosec G404 -- jitter, not crypto
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Factor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}

// DoWithValue is Do for operations that produce a value, such as reading a
// count off the page.
func DoWithValue[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	var value T
	err := Do(ctx, cfg, func() error {
		var opErr error
		value, opErr = op()
		return opErr
	})
	return value, err
}

// PermanentError marks a failure retrying cannot fix, like an assertion on
// page state that came back wrong.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Do stops immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries the no-retry marker.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
