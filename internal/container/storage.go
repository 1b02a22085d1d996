package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/shortener"
	"github.com/serroba/shortify/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// redisClient closes the client on injector shutdown.
type redisClient struct {
	*redis.Client
}

func (c redisClient) Shutdown() error {
	return c.Close()
}

// RedisPackage provides the shared Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (redis.UniversalClient, error) {
		opts := do.MustInvoke[*Options](i)

		return redisClient{redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the PostgreSQL link store.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.PostgresStore, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return store.NewPostgresStore(pool), nil
	})
}

// SQLitePackage provides the SQLite link store.
func SQLitePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.SQLiteStore, error) {
		opts := do.MustInvoke[*Options](i)

		db, err := store.OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		return store.NewSQLiteStore(db), nil
	})
}

// RepositoryPackage provides the shortener.Repository selected by Options.Store,
// optionally fronted by a Redis read cache.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo shortener.Repository

		switch opts.Store {
		case StoreMemory:
			repo = store.NewMemoryStore()
		case StorePostgres:
			pg, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			repo = pg
		case StoreSQLite:
			sq, err := do.Invoke[*store.SQLiteStore](i)
			if err != nil {
				return nil, err
			}

			repo = sq
		case StoreRedis:
			repo = store.NewRedisStore(do.MustInvoke[redis.UniversalClient](i))
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}

		if opts.CacheTTL > 0 && opts.Store != StoreRedis {
			client := do.MustInvoke[redis.UniversalClient](i)
			repo = store.NewRedisCacheRepository(repo, client, time.Duration(opts.CacheTTL)*time.Second, logger)
		}

		logger.Info("link store ready",
			zap.String("store", opts.Store),
			zap.Int("cache_ttl_seconds", opts.CacheTTL),
		)

		return repo, nil
	})
}

// migrator is implemented by stores with a schema.
type migrator interface {
	Migrate(ctx context.Context) error
}

// Migrate creates the schema of the configured SQL store. Stores without a
// schema are a no-op.
func Migrate(ctx context.Context, i *do.Injector) error {
	opts := do.MustInvoke[*Options](i)

	var (
		m   migrator
		err error
	)

	switch opts.Store {
	case StorePostgres:
		m, err = do.Invoke[*store.PostgresStore](i)
	case StoreSQLite:
		m, err = do.Invoke[*store.SQLiteStore](i)
	default:
		return nil
	}

	if err != nil {
		return err
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", opts.Store, err)
	}

	return nil
}
