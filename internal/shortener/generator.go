package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the set of symbols slugs are drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultSlugLength is used when no length is configured.
const DefaultSlugLength = 6

const maxSlugLength = 64

// Generator returns a random slug. It does not guarantee uniqueness.
type Generator func() Slug

// NewGenerator builds a Generator drawing length symbols uniformly from Alphabet.
func NewGenerator(length int) (Generator, error) {
	if length < 1 || length > maxSlugLength {
		return nil, fmt.Errorf("slug length must be between 1 and %d, got %d", maxSlugLength, length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create slug generator: %w", err)
	}

	return func() Slug {
		return Slug(gen())
	}, nil
}
