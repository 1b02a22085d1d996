package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a Take call.
type Result struct {
	// Allowed reports whether the request was admitted and recorded.
	Allowed bool
	// Count is the number of recorded requests in the window after this call.
	Count int64
}

// Store holds sliding-window request timestamps per key.
type Store interface {
	// Take prunes timestamps older than window for key. If fewer than limit
	// remain, it records the current time and admits the request; otherwise
	// it rejects without recording anything. Prune, count and record happen
	// atomically per key.
	Take(ctx context.Context, key string, limit int64, window time.Duration) (Result, error)
}
