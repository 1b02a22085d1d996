package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// UnknownClient is the shared bucket for requests with no identifiable origin.
const UnknownClient = "unknown"

// ClientID identifies the caller for rate limiting: the first X-Forwarded-For
// entry, then X-Real-IP, then the connection's peer address. Callers with
// none of these share the UnknownClient bucket.
func ClientID(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the original client
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(ctx.Header("X-Real-IP")); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if addr == "" {
		return UnknownClient
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	if host == "" {
		return UnknownClient
	}

	return host
}
