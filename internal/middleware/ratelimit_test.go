package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortify/internal/middleware"
	"github.com/serroba/shortify/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockLimiter admits a fixed number of calls and records the keys it saw.
type mockLimiter struct {
	remaining int
	err       error
	keys      []string
}

func (m *mockLimiter) Allow(_ context.Context, clientID string) (ratelimit.Decision, error) {
	m.keys = append(m.keys, clientID)

	if m.err != nil {
		return ratelimit.Decision{}, m.err
	}

	d := ratelimit.Decision{Allowed: m.remaining > 0, Limit: 10, Period: time.Minute}
	if d.Allowed {
		m.remaining--
	}

	return d, nil
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows request when limiter allows", func(t *testing.T) {
		limiter := &mockLimiter{remaining: 1}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx := newMockHumaContext().gated()

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "next should be called when allowed")
		assert.Equal(t, []string{"192.168.1.1"}, limiter.keys)
	})

	t.Run("returns 429 with the limit message when rejected", func(t *testing.T) {
		limiter := &mockLimiter{remaining: 0}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx := newMockHumaContext().gated()

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "next should not be called when rate limited")
		assert.Equal(t, 429, ctx.statusCode)
		assert.Contains(t, string(ctx.written), "Rate limit exceeded. Maximum 10 requests per 60 seconds.")
	})

	t.Run("returns 500 when the limiter fails", func(t *testing.T) {
		limiter := &mockLimiter{err: errors.New("limiter error")}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx := newMockHumaContext().gated()

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "next should not be called when limiter errors")
		assert.Equal(t, 500, ctx.statusCode)
	})

	t.Run("skips operations without rate limit metadata", func(t *testing.T) {
		limiter := &mockLimiter{remaining: 0}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = &huma.Operation{Path: "/api/v1/{slug}"}

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Empty(t, limiter.keys, "limiter must not be consulted")
	})

	t.Run("skips operations that opt out", func(t *testing.T) {
		limiter := &mockLimiter{remaining: 0}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = &huma.Operation{
			Path: "/health",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Enabled: false},
			},
		}

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Empty(t, limiter.keys)
	})

	t.Run("keys the limiter by forwarded client", func(t *testing.T) {
		limiter := &mockLimiter{remaining: 2}
		mw := middleware.RateLimiter(newTestAPI(), limiter, zap.NewNop())

		ctx1 := newMockHumaContext().gated()
		ctx1.remoteAddr = "10.0.0.1:12345"
		ctx1.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18"

		ctx2 := newMockHumaContext().gated()
		ctx2.remoteAddr = "10.0.0.2:54321"
		ctx2.headers["X-Forwarded-For"] = "203.0.113.195"

		mw(ctx1, func(_ huma.Context) {})
		mw(ctx2, func(_ huma.Context) {})

		assert.Equal(t, []string{"203.0.113.195", "203.0.113.195"}, limiter.keys)
	})
}
