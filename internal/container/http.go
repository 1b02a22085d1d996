package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/events"
	"github.com/serroba/shortify/internal/handlers"
	"github.com/serroba/shortify/internal/health"
	"github.com/serroba/shortify/internal/messaging"
	"github.com/serroba/shortify/internal/middleware"
	"github.com/serroba/shortify/internal/ratelimit"
	"github.com/serroba/shortify/internal/shortener"
	"github.com/serroba/shortify/internal/store"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the Huma API with all routes registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		return health.NewHandler(healthChecks(i)), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		svc, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		limiter, err := do.Invoke[ratelimit.Limiter](i)
		if err != nil {
			return nil, err
		}

		publish, err := do.Invoke[messaging.Publish[events.LinkCreated]](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Shortify", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestID(api),
			middleware.AccessLog(logger),
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, limiter, logger),
		)

		handlers.RegisterRoutes(api, handlers.NewURLHandler(svc, publish, logger))
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})
}

// healthChecks probes the backends the configuration actually uses.
func healthChecks(i *do.Injector) map[string]health.Checker {
	opts := do.MustInvoke[*Options](i)
	checks := make(map[string]health.Checker)

	switch opts.Store {
	case StorePostgres:
		if pg, err := do.Invoke[*store.PostgresStore](i); err == nil {
			checks[StorePostgres] = pg
		}
	case StoreSQLite:
		if sq, err := do.Invoke[*store.SQLiteStore](i); err == nil {
			checks[StoreSQLite] = sq
		}
	}

	if opts.Store == StoreRedis || opts.RateLimitBackend == RateLimitRedis || opts.CacheTTL > 0 || opts.Events {
		checks["redis"] = health.NewRedisChecker(do.MustInvoke[redis.UniversalClient](i))
	}

	return checks
}
