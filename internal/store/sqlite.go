package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/serroba/shortify/internal/shortener"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS short_links (
    slug       TEXT PRIMARY KEY,
    long_url   TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
`

// OpenSQLite opens a SQLite database tuned for concurrent readers and a
// single writer at a time. Pragmas go in the DSN so every pooled
// connection gets them.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return db, nil
}

// SQLiteStore is a SQLite implementation of shortener.Repository.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed link store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the short_links table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)

	return err
}

func (s *SQLiteStore) Put(ctx context.Context, link *shortener.ShortLink) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO short_links (slug, long_url, created_at) VALUES (?, ?, ?)`,
		string(link.Slug), link.LongURL, link.CreatedAt.UTC(),
	)
	if isSQLiteConstraint(err) {
		return shortener.ErrAlreadyExists
	}

	return err
}

func (s *SQLiteStore) Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT slug, long_url, created_at FROM short_links WHERE slug = ?`,
		string(slug),
	)

	var (
		link      shortener.ShortLink
		rawSlug   string
		createdAt time.Time
	)

	if err := row.Scan(&rawSlug, &link.LongURL, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	link.Slug = shortener.Slug(rawSlug)
	link.CreatedAt = createdAt

	return &link, nil
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the underlying database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

func isSQLiteConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.Code == sqlite3.ErrConstraint
}

// Compile-time check.
var _ shortener.Repository = (*SQLiteStore)(nil)
