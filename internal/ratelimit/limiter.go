// Package ratelimit bounds the outbound request rate to the Gorgias API.
// Gorgias enforces a per-account budget (40 requests per 20 seconds on most
// plans), so every HTTP call made by this process goes through one shared
// Limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter. It tracks the issue time of each
// request and blocks callers until issuing another request would not exceed
// the configured budget within the trailing window.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time

	now func() time.Time
}

// New creates a limiter allowing at most limit requests per window.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Acquire blocks until a request slot is available, then reserves it.
// It returns early with the context error if ctx is cancelled while waiting.
//
// The wait-and-recheck is an explicit loop: after sleeping until the oldest
// reserved slot ages out, concurrent callers may have raced for the freed
// slot, so capacity is re-evaluated from scratch.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}

		wait := l.stamps[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Remaining reports how many request slots are currently free.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return l.limit - len(l.stamps)
}

// NextFree reports when the oldest reserved slot ages out of the window.
// If capacity is already available it returns the zero time.
func (l *Limiter) NextFree() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	if len(l.stamps) < l.limit {
		return time.Time{}
	}
	return l.stamps[0].Add(l.window)
}

// prune drops timestamps that have aged out of the trailing window.
// The list never exceeds limit entries at steady state. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}
