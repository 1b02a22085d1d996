package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no link exists for a slug.
	ErrNotFound = errors.New("short link not found")

	// ErrAlreadyExists is returned by Repository.Put when the slug is taken.
	ErrAlreadyExists = errors.New("slug already exists")

	// ErrGenerationExhausted is returned when every attempt to find a free slug collided.
	ErrGenerationExhausted = errors.New("slug generation exhausted")
)

// Repository persists short links.
//
// Put must be an atomic check-and-insert performed by the backend itself:
// if the slug is already present it returns ErrAlreadyExists and leaves the
// existing link untouched.
type Repository interface {
	Put(ctx context.Context, link *ShortLink) error
	Get(ctx context.Context, slug Slug) (*ShortLink, error)
}
