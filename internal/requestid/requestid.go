// Package requestid carries the per-request correlation ID through contexts
// and message metadata.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header and message metadata key holding the ID.
const Header = "X-Request-ID"

type contextKey struct{}

// New returns a fresh random request ID.
func New() string {
	return uuid.NewString()
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID stored in ctx, or "" if none.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}

	return ""
}
