package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortify/internal/ratelimit"
)

// slidingWindowTake prunes, counts and conditionally records in one round trip.
// Scores are unix milliseconds read from the Redis server clock, so every
// instance sharing the key agrees on the window. Returns {allowed, count}.
var slidingWindowTake = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])

local t = redis.call("TIME")
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)

local count = redis.call("ZCARD", key)
if count >= limit then
	return {0, count}
end

redis.call("ZADD", key, now, ARGV[3])
redis.call("PEXPIRE", key, window)

return {1, count + 1}
`)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store, shared
// by every instance that points at the same Redis.
type RateLimitRedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client redis.UniversalClient) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Take(ctx context.Context, key string, limit int64, window time.Duration) (ratelimit.Result, error) {
	res, err := slidingWindowTake.Run(ctx, s.client,
		[]string{s.prefix + key},
		window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return ratelimit.Result{}, err
	}

	return ratelimit.Result{Allowed: res[0] == 1, Count: res[1]}, nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
