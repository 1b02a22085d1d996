package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortify/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that caps requests per client on
// operations opted in through ratelimit.EndpointConfig. All other
// operations pass through untouched.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !ratelimit.Gated(ctx) {
			next(ctx)

			return
		}

		clientID := ClientID(ctx)

		decision, err := limiter.Allow(ctx.Context(), clientID)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("path", operationPath(ctx)),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if exceeded := decision.Exceeded(); exceeded != nil {
			logger.Warn("rate limit exceeded",
				zap.String("path", operationPath(ctx)),
				zap.String("method", ctx.Method()),
				zap.String("client_id", clientID),
				zap.Int64("count", decision.Count),
				zap.Int64("max", decision.Limit),
				zap.Duration("window", decision.Period),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, exceeded.Error())

			return
		}

		next(ctx)
	}
}

// operationPath returns the route template of the matched operation, if any.
func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
