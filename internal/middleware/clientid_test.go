package middleware_test

import (
	"testing"

	"github.com/serroba/shortify/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func TestClientID(t *testing.T) {
	t.Run("uses first X-Forwarded-For entry", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18, 150.172.238.178"
		ctx.headers["X-Real-IP"] = "198.51.100.7"

		assert.Equal(t, "203.0.113.195", middleware.ClientID(ctx))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.headers["X-Real-IP"] = "203.0.113.100"

		assert.Equal(t, "203.0.113.100", middleware.ClientID(ctx))
	})

	t.Run("ignores a blank X-Forwarded-For entry", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.headers["X-Forwarded-For"] = " , 70.41.3.18"
		ctx.headers["X-Real-IP"] = "203.0.113.100"

		assert.Equal(t, "203.0.113.100", middleware.ClientID(ctx))
	})

	t.Run("uses peer host without port", func(t *testing.T) {
		ctx := newMockHumaContext()

		assert.Equal(t, "192.168.1.1", middleware.ClientID(ctx))
	})

	t.Run("uses peer address as-is when it has no port", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.remoteAddr = "192.168.1.1"

		assert.Equal(t, "192.168.1.1", middleware.ClientID(ctx))
	})

	t.Run("handles IPv6 peers", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.remoteAddr = "[2001:db8::1]:8080"

		assert.Equal(t, "2001:db8::1", middleware.ClientID(ctx))
	})

	t.Run("unidentifiable callers share one bucket", func(t *testing.T) {
		ctx := newMockHumaContext()
		ctx.remoteAddr = ""

		assert.Equal(t, middleware.UnknownClient, middleware.ClientID(ctx))
	})
}
