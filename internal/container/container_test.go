package container_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/container"
	"github.com/serroba/shortify/internal/shortener"
	"github.com/serroba/shortify/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *container.Options {
	return &container.Options{
		Port:             8000,
		SlugLength:       6,
		MaxAttempts:      5,
		RateLimitCalls:   2,
		RateLimitPeriod:  60,
		RateLimitBackend: container.RateLimitMemory,
		Store:            container.StoreMemory,
		LogFormat:        "console",
		LogLevel:         "error",
	}
}

func newInjector(t *testing.T, opts *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.SQLitePackage(injector)
	container.RepositoryPackage(injector)
	container.RateLimitPackage(injector)
	container.ShortenerPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func serve(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHTTPPackage(t *testing.T) {
	injector := newInjector(t, testOptions())

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	t.Run("create then redirect", func(t *testing.T) {
		resp := serve(router, http.MethodPost, "/api/v1/short_url", map[string]string{"long_url": "https://example.com"})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var body struct {
			Data string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body.Data, 6)

		redirect := serve(router, http.MethodGet, "/api/v1/"+body.Data, nil)
		assert.Equal(t, http.StatusFound, redirect.Code)
		assert.Equal(t, "https://example.com", redirect.Header().Get("Location"))
	})

	t.Run("applies the configured rate limit", func(t *testing.T) {
		// One call was spent above.
		resp := serve(router, http.MethodPost, "/api/v1/short_url", map[string]string{"long_url": "https://example.com"})
		require.Equal(t, http.StatusOK, resp.Code)

		resp = serve(router, http.MethodPost, "/api/v1/short_url", map[string]string{"long_url": "https://example.com"})
		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	})

	t.Run("health reports ok without external backends", func(t *testing.T) {
		resp := serve(router, http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"status":"ok"`)
	})
}

func TestRepositoryPackage(t *testing.T) {
	t.Run("rejects unknown store", func(t *testing.T) {
		opts := testOptions()
		opts.Store = "cassandra"

		_, err := do.Invoke[shortener.Repository](newInjector(t, opts))

		assert.Error(t, err)
	})

	t.Run("builds and migrates sqlite", func(t *testing.T) {
		opts := testOptions()
		opts.Store = container.StoreSQLite
		opts.SQLitePath = filepath.Join(t.TempDir(), "links.db")

		injector := newInjector(t, opts)

		require.NoError(t, container.Migrate(context.Background(), injector))

		repo, err := do.Invoke[shortener.Repository](injector)
		require.NoError(t, err)
		assert.IsType(t, &store.SQLiteStore{}, repo)
	})
}

func TestShortenerPackage(t *testing.T) {
	opts := testOptions()
	opts.SlugLength = 0

	_, err := do.Invoke[*shortener.Service](newInjector(t, opts))

	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Run("builds json logger", func(t *testing.T) {
		logger, err := container.NewLogger("json", "debug")

		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := container.NewLogger("xml", "info")

		assert.Error(t, err)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := container.NewLogger("console", "loud")

		assert.Error(t, err)
	})
}
