package container

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/ratelimit"
	"github.com/serroba/shortify/internal/shortener"
	"github.com/serroba/shortify/internal/store"
	"go.uber.org/zap"
)

// RateLimitPackage provides the sliding-window limiter for the create endpoint.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		var windows ratelimit.Store

		switch opts.RateLimitBackend {
		case RateLimitMemory:
			windows = store.NewRateLimitMemoryStore()
		case RateLimitRedis:
			windows = store.NewRateLimitRedisStore(do.MustInvoke[redis.UniversalClient](i))
		default:
			return nil, fmt.Errorf("unknown rate limit backend %q", opts.RateLimitBackend)
		}

		return ratelimit.NewSlidingWindowLimiter(
			windows,
			int64(opts.RateLimitCalls),
			time.Duration(opts.RateLimitPeriod)*time.Second,
		), nil
	})
}

// ShortenerPackage provides the shortening service.
func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		generate, err := shortener.NewGenerator(opts.SlugLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(repo, generate, logger, shortener.WithMaxAttempts(opts.MaxAttempts)), nil
	})
}
