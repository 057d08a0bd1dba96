// Package retry wraps fallible operations with bounded retries and
// exponential backoff. Classification of which errors are transient is
// supplied by the caller, so this package stays independent of the API
// error taxonomy.
package retry

import (
	"context"
	"log"
	"math/rand"
	"time"
)

const (
	// DefaultMaxAttempts is the total attempt budget, initial try included.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the backoff before the second attempt.
	DefaultBaseDelay = time.Second
	// maxDelay caps the exponential growth, jitter included.
	maxDelay = 30 * time.Second
	// maxJitter is the upper bound of the random spread added to each
	// delay, breaking up thundering herds of concurrent retries.
	maxJitter = time.Second
)

// Policy controls retry behaviour for a set of operations.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Retryable reports whether a failure is worth another attempt.
	// A nil Retryable never retries.
	Retryable func(error) bool

	// Debug enables per-attempt logging.
	Debug bool
}

// NewPolicy returns a Policy with defaults applied.
func NewPolicy(maxAttempts int, baseDelay time.Duration, retryable func(error) bool) Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Retryable:   retryable,
	}
}

// Do runs op, retrying transient failures with exponential backoff until it
// succeeds, a non-retryable error occurs, the attempt budget is exhausted,
// or ctx is cancelled during a backoff wait. The last failure is returned
// as-is; nothing is wrapped, so callers can branch on the error kind.
// The label names the operation in debug logs only.
func (p Policy) Do(ctx context.Context, label string, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := p.backoff(attempt - 1)
			if p.Debug {
				log.Printf("retry: %s attempt %d/%d in %s (last error: %v)",
					label, attempt, p.MaxAttempts, delay, lastErr)
			}
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
	}

	return lastErr
}

// backoff returns the delay after the nth failed attempt:
// base * 2^(n-1) plus up to one second of jitter, capped at 30s.
func (p Policy) backoff(n int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < n; i++ {
		d *= 2
		if d >= maxDelay {
			break
		}
	}
	d += time.Duration(rand.Int63n(int64(maxJitter)))
	if d > maxDelay {
		d = maxDelay
	}
	return d
}
