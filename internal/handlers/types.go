package handlers

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
)

// maxURLLength matches the common browser limit for URLs.
const maxURLLength = 2083

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		LongURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"long_url" maxLength:"2083" minLength:"1"`
	}
}

// Resolve rejects anything that is not an absolute http(s) URL.
func (r *CreateShortURLRequest) Resolve(_ huma.Context) []error {
	if err := validate.Var(r.Body.LongURL, "required,http_url,max=2083"); err != nil {
		return []error{&huma.ErrorDetail{
			Location: "body.long_url",
			Message:  "must be a valid http or https URL",
			Value:    r.Body.LongURL,
		}}
	}

	return nil
}

// CreateShortURLResponse carries the generated slug.
type CreateShortURLResponse struct {
	Body struct {
		Data string `doc:"The generated slug" example:"aB3xY9" json:"data"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Slug string `doc:"The short link slug" example:"aB3xY9" path:"slug"`
}

// RedirectResponse sends the visitor to the long URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The long URL" header:"Location"`
}

// LinkData describes a stored short link.
type LinkData struct {
	ShortCode string `doc:"The short link slug" example:"aB3xY9"              json:"short_code"`
	LongURL   string `doc:"The long URL"        example:"https://example.com" json:"long_url"`
}

// LinkInfoResponse is the response for the link info endpoint.
type LinkInfoResponse struct {
	Body struct {
		Data LinkData `json:"data"`
	}
}

// Compile-time check.
var _ huma.Resolver = (*CreateShortURLRequest)(nil)
