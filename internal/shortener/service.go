package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how many slugs Shorten tries before giving up.
const DefaultMaxAttempts = 5

// attemptOutcome is the result of a single generate-and-put round.
type attemptOutcome int

const (
	attemptStored attemptOutcome = iota
	attemptCollision
)

// Service creates and resolves short links.
type Service struct {
	repo        Repository
	generate    Generator
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new shortening service.
func NewService(repo Repository, generate Generator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		generate:    generate,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten stores longURL under a freshly generated slug.
// Slug collisions are retried internally and never returned to the caller.
func (s *Service) Shorten(ctx context.Context, longURL string) (*ShortLink, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		link := &ShortLink{
			Slug:      s.generate(),
			LongURL:   longURL,
			CreatedAt: s.now().UTC(),
		}

		outcome, err := s.tryPut(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("store short link: %w", err)
		}

		switch outcome {
		case attemptStored:
			s.logger.Debug("short link created",
				zap.String("slug", string(link.Slug)),
				zap.Int("attempt", attempt),
			)

			return link, nil
		case attemptCollision:
			s.logger.Debug("slug collision, regenerating",
				zap.String("slug", string(link.Slug)),
				zap.Int("attempt", attempt),
			)
		}
	}

	s.logger.Error("slug generation exhausted", zap.Int("attempts", s.maxAttempts))

	return nil, fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, s.maxAttempts)
}

func (s *Service) tryPut(ctx context.Context, link *ShortLink) (attemptOutcome, error) {
	err := s.repo.Put(ctx, link)

	switch {
	case err == nil:
		return attemptStored, nil
	case errors.Is(err, ErrAlreadyExists):
		return attemptCollision, nil
	default:
		return 0, err
	}
}

// Resolve returns the link stored under slug, or ErrNotFound.
func (s *Service) Resolve(ctx context.Context, slug Slug) (*ShortLink, error) {
	link, err := s.repo.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get short link: %w", err)
	}

	return link, nil
}
