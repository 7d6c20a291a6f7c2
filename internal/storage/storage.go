package storage

import (
	"context"
	"errors"
	"sync"
)

// Slot names, one per persisted store.
const (
	SlotUser           = "user"
	SlotCart           = "cart"
	SlotWishlist       = "wishlist"
	SlotRecentSearches = "recentSearches"
	SlotLang           = "lang"
)

var ErrNotFound = errors.New("storage: key not found")

// Storage is a durable string key-value store. Writes replace the whole
// value (last writer wins).
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Namespace scopes every key under prefix, so one backend can hold the
// slots of many devices.
func Namespace(s Storage, prefix string) Storage {
	return namespaced{s: s, prefix: prefix + ":"}
}

type namespaced struct {
	s      Storage
	prefix string
}

func (n namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.s.Get(ctx, n.prefix+key)
}

func (n namespaced) Set(ctx context.Context, key, value string) error {
	return n.s.Set(ctx, n.prefix+key, value)
}

func (n namespaced) Delete(ctx context.Context, key string) error {
	return n.s.Delete(ctx, n.prefix+key)
}
