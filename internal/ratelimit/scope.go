package ratelimit

import "github.com/danielgtaylor/huma/v2"

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig opts an operation into rate limiting.
// Operations without it are never limited.
type EndpointConfig struct {
	Enabled bool
}

// Gated reports whether the operation handling ctx is subject to rate limiting.
func Gated(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)

	return ok && cfg.Enabled
}
