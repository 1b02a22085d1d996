package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/serroba/shortify/internal/ratelimit"
)

const rateLimitShards = 32

type rateLimitShard struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Keys are spread over shards, each guarded by its own mutex, so a key's
// prune-count-record sequence is atomic while unrelated clients rarely contend.
type RateLimitMemoryStore struct {
	shards [rateLimitShards]rateLimitShard
	now    func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// RateLimitOption configures a RateLimitMemoryStore.
type RateLimitOption func(*RateLimitMemoryStore)

// WithRateLimitClock overrides the clock used to timestamp requests.
func WithRateLimitClock(now func() time.Time) RateLimitOption {
	return func(s *RateLimitMemoryStore) {
		s.now = now
	}
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore(opts ...RateLimitOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{now: time.Now}

	for i := range s.shards {
		s.shards[i].requests = make(map[string][]time.Time)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RateLimitMemoryStore) Take(_ context.Context, key string, limit int64, window time.Duration) (ratelimit.Result, error) {
	now := s.now()
	cutoff := now.Add(-window)

	s.maybeSweep(now, window)

	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	valid := pruneBefore(shard.requests[key], cutoff)
	if len(valid) == 0 {
		delete(shard.requests, key)
	}

	if int64(len(valid)) >= limit {
		if len(valid) > 0 {
			shard.requests[key] = valid
		}

		return ratelimit.Result{Allowed: false, Count: int64(len(valid))}, nil
	}

	valid = append(valid, now)
	shard.requests[key] = valid

	return ratelimit.Result{Allowed: true, Count: int64(len(valid))}, nil
}

// TrackedClients returns how many keys currently hold timestamps.
func (s *RateLimitMemoryStore) TrackedClients() int {
	total := 0

	for i := range s.shards {
		shard := &s.shards[i]

		shard.mu.Lock()
		total += len(shard.requests)
		shard.mu.Unlock()
	}

	return total
}

// maybeSweep drops keys whose whole window has expired, at most once per
// window, so clients that never come back do not pin memory.
func (s *RateLimitMemoryStore) maybeSweep(now time.Time, window time.Duration) {
	s.sweepMu.Lock()
	if now.Sub(s.lastSweep) < window {
		s.sweepMu.Unlock()

		return
	}

	s.lastSweep = now
	s.sweepMu.Unlock()

	cutoff := now.Add(-window)

	for i := range s.shards {
		shard := &s.shards[i]

		shard.mu.Lock()

		for key, timestamps := range shard.requests {
			if valid := pruneBefore(timestamps, cutoff); len(valid) == 0 {
				delete(shard.requests, key)
			} else {
				shard.requests[key] = valid
			}
		}

		shard.mu.Unlock()
	}
}

// pruneBefore keeps the timestamps after cutoff, reusing the backing array.
func pruneBefore(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := timestamps[:0]

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	return valid
}

func (s *RateLimitMemoryStore) shardFor(key string) *rateLimitShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return &s.shards[h.Sum32()%rateLimitShards]
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
