package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Defaults applied when the limiter is built without explicit values.
const (
	DefaultCalls  = 10
	DefaultPeriod = 60 * time.Second
)

// Limiter decides whether a client may perform a gated request.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (Decision, error)
}

// Decision describes the limiter's verdict for one request.
type Decision struct {
	Allowed bool
	Count   int64
	Limit   int64
	Period  time.Duration
}

// Exceeded returns the error to report for a rejected request, or nil if it was allowed.
func (d Decision) Exceeded() *LimitExceededError {
	if d.Allowed {
		return nil
	}

	return &LimitExceededError{Limit: d.Limit, Period: d.Period}
}

// LimitExceededError is reported to clients that hit the cap.
type LimitExceededError struct {
	Limit  int64
	Period time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %d seconds.",
		e.Limit, int64(e.Period/time.Second))
}

// SlidingWindowLimiter caps requests per client within a trailing window.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
// Non-positive limit or window fall back to DefaultCalls and DefaultPeriod.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	if limit <= 0 {
		limit = DefaultCalls
	}

	if window <= 0 {
		window = DefaultPeriod
	}

	return &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	res, err := l.store.Take(ctx, clientID, l.limit, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit store: %w", err)
	}

	return Decision{
		Allowed: res.Allowed,
		Count:   res.Count,
		Limit:   l.limit,
		Period:  l.window,
	}, nil
}
