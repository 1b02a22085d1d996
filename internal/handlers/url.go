package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortify/internal/events"
	"github.com/serroba/shortify/internal/messaging"
	"github.com/serroba/shortify/internal/requestid"
	"github.com/serroba/shortify/internal/shortener"
	"go.uber.org/zap"
)

// notFoundDetail is the stable message for unknown slugs.
const notFoundDetail = "No long url found"

// Shortener is the service the handlers delegate to.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (*shortener.ShortLink, error)
	Resolve(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	shortener         Shortener
	publishLinkCreate messaging.Publish[events.LinkCreated]
	logger            *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	svc Shortener,
	publishLinkCreated messaging.Publish[events.LinkCreated],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener:         svc,
		publishLinkCreate: publishLinkCreated,
		logger:            logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata attached to emitted events.
type RequestMeta struct {
	ClientID  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	link, err := h.shortener.Shorten(ctx, req.Body.LongURL)
	if err != nil {
		if errors.Is(err, shortener.ErrGenerationExhausted) {
			return nil, huma.Error500InternalServerError("failed to generate unique slug")
		}

		h.logger.Error("failed to create short link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &events.LinkCreated{
		Slug:      string(link.Slug),
		LongURL:   link.LongURL,
		CreatedAt: link.CreatedAt,
		ClientID:  meta.ClientID,
		RequestID: requestid.FromContext(ctx),
	}

	if err := h.publishLinkCreate(ctx, event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("slug", event.Slug),
			zap.Error(err),
		)
	}

	resp := &CreateShortURLResponse{}
	resp.Body.Data = string(link.Slug)

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.resolve(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: link.LongURL,
	}, nil
}

func (h *URLHandler) GetLinkInfo(ctx context.Context, req *RedirectRequest) (*LinkInfoResponse, error) {
	link, err := h.resolve(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	resp := &LinkInfoResponse{}
	resp.Body.Data = LinkData{
		ShortCode: string(link.Slug),
		LongURL:   link.LongURL,
	}

	return resp, nil
}

func (h *URLHandler) resolve(ctx context.Context, slug string) (*shortener.ShortLink, error) {
	link, err := h.shortener.Resolve(ctx, shortener.Slug(slug))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(notFoundDetail)
		}

		h.logger.Error("failed to resolve short link", zap.String("slug", slug), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	return link, nil
}
