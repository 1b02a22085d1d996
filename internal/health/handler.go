package health

import (
	"context"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	healthy        = "healthy"
	unhealthy      = "unhealthy"
)

// checkTimeout bounds each dependency probe.
const checkTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping calls f.
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// RedisChecker adapts a Redis client to the Checker interface.
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type namedChecker struct {
	name    string
	checker Checker
}

// Handler handles health check operations.
type Handler struct {
	checks []namedChecker
}

// NewHandler creates a health handler probing the given named dependencies.
// With no dependencies the service always reports ok.
func NewHandler(checks map[string]Checker) *Handler {
	h := &Handler{checks: make([]namedChecker, 0, len(checks))}
	for name, c := range checks {
		h.checks = append(h.checks, namedChecker{name: name, checker: c})
	}

	sort.Slice(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })

	return h
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string            `doc:"ok or degraded"        example:"ok"   json:"status"`
		Checks map[string]string `doc:"Per dependency status" json:"checks,omitempty"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = statusOK

	if len(h.checks) == 0 {
		return resp, nil
	}

	resp.Body.Checks = make(map[string]string, len(h.checks))

	for _, c := range h.checks {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.checker.Ping(pingCtx)

		cancel()

		if err != nil {
			resp.Body.Checks[c.name] = unhealthy
			resp.Body.Status = statusDegraded

			continue
		}

		resp.Body.Checks[c.name] = healthy
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}
