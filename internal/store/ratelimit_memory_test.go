package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/serroba/shortify/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryStore(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("records and counts requests", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for i := range 3 {
			res, err := s.Take(context.Background(), "key1", 10, time.Minute)

			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, int64(i+1), res.Count)
		}
	})

	t.Run("rejects at the limit without recording", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Take(context.Background(), "key1", 2, time.Minute)
		_, _ = s.Take(context.Background(), "key1", 2, time.Minute)

		res, err := s.Take(context.Background(), "key1", 2, time.Minute)

		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, int64(2), res.Count)
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Take(context.Background(), "key1", 10, time.Minute)
		_, _ = s.Take(context.Background(), "key1", 10, time.Minute)

		res, err := s.Take(context.Background(), "key2", 10, time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Count, "key2 should have its own counter")
	})

	t.Run("prunes expired entries", func(t *testing.T) {
		now := start
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(func() time.Time { return now }))

		_, _ = s.Take(context.Background(), "key1", 10, time.Minute)
		_, _ = s.Take(context.Background(), "key1", 10, time.Minute)

		now = now.Add(time.Minute)

		res, err := s.Take(context.Background(), "key1", 10, time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Count, "entries exactly one window old should be pruned")
	})

	t.Run("keeps entries still inside the window", func(t *testing.T) {
		now := start
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(func() time.Time { return now }))

		_, _ = s.Take(context.Background(), "key1", 10, time.Minute)

		now = now.Add(59 * time.Second)

		res, err := s.Take(context.Background(), "key1", 10, time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Count)
	})

	t.Run("forgets clients whose window expired", func(t *testing.T) {
		now := start
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(func() time.Time { return now }))

		for i := range 200 {
			_, _ = s.Take(context.Background(), fmt.Sprintf("client-%d", i), 10, time.Minute)
		}

		require.Equal(t, 200, s.TrackedClients())

		now = now.Add(2 * time.Minute)

		res, err := s.Take(context.Background(), "late", 10, time.Minute)

		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1, s.TrackedClients())
	})

	t.Run("does not keep an empty window for a rejected key", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		res, err := s.Take(context.Background(), "blocked", 0, time.Minute)

		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, s.TrackedClients())
	})
}
