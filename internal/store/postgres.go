package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortify/internal/shortener"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS short_links (
		slug       TEXT PRIMARY KEY,
		long_url   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the short_links table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresSchema)

	return err
}

// Put inserts the link. The primary key on slug decides collisions;
// zero affected rows means another writer owns the slug.
func (p *PostgresStore) Put(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (slug, long_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(link.Slug),
		link.LongURL,
		link.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrAlreadyExists
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	query := `
		SELECT slug, long_url, created_at
		FROM short_links
		WHERE slug = $1
	`

	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, string(slug)).Scan(
		&link.Slug,
		&link.LongURL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
