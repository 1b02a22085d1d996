package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortify/internal/shortener"
)

// putIfAbsent writes the link hash only when the key does not exist yet.
var putIfAbsent = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "slug", ARGV[1], "long_url", ARGV[2], "created_at", ARGV[3])
return 1
`)

// RedisStore is a Redis implementation of shortener.Repository.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) Put(ctx context.Context, link *shortener.ShortLink) error {
	created, err := putIfAbsent.Run(ctx, r.client,
		[]string{r.prefix + string(link.Slug)},
		string(link.Slug), link.LongURL, link.CreatedAt.UnixNano(),
	).Int()
	if err != nil {
		return err
	}

	if created == 0 {
		return shortener.ErrAlreadyExists
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(slug)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return linkFromHash(fields), nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func linkFromHash(fields map[string]string) *shortener.ShortLink {
	var createdAt time.Time

	if ts, ok := fields["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortLink{
		Slug:      shortener.Slug(fields["slug"]),
		LongURL:   fields["long_url"],
		CreatedAt: createdAt,
	}
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
