package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortify/internal/requestid"
)

// RequestID propagates the caller's X-Request-ID or generates one, stores it
// in the request context and echoes it on the response.
func RequestID(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := ctx.Header(requestid.Header)
		if id == "" {
			id = requestid.New()
		}

		ctx.SetHeader(requestid.Header, id)
		ctx = huma.WithContext(ctx, requestid.WithID(ctx.Context(), id))

		next(ctx)
	}
}
