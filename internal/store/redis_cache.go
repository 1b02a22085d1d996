package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortify/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Misses are never cached, so a link created elsewhere is visible at once.
type RedisCacheRepository struct {
	store  shortener.Repository
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:link:",
		ttl:    ttl,
		logger: logger,
	}
}

// Put stores a link in the underlying store and updates the cache.
func (r *RedisCacheRepository) Put(ctx context.Context, link *shortener.ShortLink) error {
	if err := r.store.Put(ctx, link); err != nil {
		return err
	}

	// Write-through: update cache after successful insert
	r.cacheLink(ctx, link)

	return nil
}

// Get retrieves a link by slug, checking the cache first.
func (r *RedisCacheRepository) Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(slug)).Result()
	if err == nil && len(fields) > 0 {
		return linkFromHash(fields), nil
	}

	if err != nil {
		r.logger.Warn("link cache read failed", zap.String("slug", string(slug)), zap.Error(err))
	}

	link, err := r.store.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	key := r.prefix + string(link.Slug)
	pipe := r.client.Pipeline()

	pipe.HSet(ctx, key, map[string]any{
		"slug":       string(link.Slug),
		"long_url":   link.LongURL,
		"created_at": link.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("link cache write failed", zap.String("slug", string(link.Slug)), zap.Error(err))
	}
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
