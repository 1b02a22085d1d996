package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortify/internal/ratelimit"
)

// APIPrefix is the path prefix shared by all link routes.
const APIPrefix = "/api/v1"

// RegisterRoutes registers all URL shortener routes. Only link creation is rate limited.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          APIPrefix + "/short_url",
		Summary:       "Create short URL",
		Description:   "Stores the long URL under a newly generated slug and returns the slug.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusUnprocessableEntity, http.StatusTooManyRequests, http.StatusInternalServerError},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Enabled: true},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-link-info",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/urls/{slug}",
		Summary:     "Get short link",
		Description: "Returns the long URL stored under the slug without redirecting.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetLinkInfo)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          APIPrefix + "/{slug}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the long URL associated with the slug.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
		Errors:        []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
