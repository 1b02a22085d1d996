package store

import (
	"context"
	"sync"

	"github.com/serroba/shortify/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Slug]shortener.ShortLink
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Slug]shortener.ShortLink),
	}
}

func (m *MemoryStore) Put(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Slug]; exists {
		return shortener.ErrAlreadyExists
	}

	m.links[link.Slug] = *link

	return nil
}

func (m *MemoryStore) Get(_ context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[slug]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
