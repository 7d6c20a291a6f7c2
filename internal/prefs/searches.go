// Package prefs holds the small per-device preferences: the recent search
// list and the interface language.
package prefs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ariefcatur/go-course-market/internal/storage"
)

const MaxRecentSearches = 5

// RecentSearches is a newest-first, duplicate-free list of past queries.
type RecentSearches struct {
	s storage.Storage

	mu    sync.Mutex
	items []string
}

func NewRecentSearches(ctx context.Context, s storage.Storage) (*RecentSearches, error) {
	r := &RecentSearches{s: s}
	var items []string
	if _, err := storage.LoadJSON(ctx, s, storage.SlotRecentSearches, &items); err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	for _, q := range items {
		q = strings.TrimSpace(q)
		if q != "" && !slices.Contains(r.items, q) && len(r.items) < MaxRecentSearches {
			r.items = append(r.items, q)
		}
	}
	return r, nil
}

// Record moves query to the front. Blank queries are ignored.
func (r *RecentSearches) Record(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]string, 0, MaxRecentSearches)
	next = append(next, query)
	for _, q := range r.items {
		if q != query && len(next) < MaxRecentSearches {
			next = append(next, q)
		}
	}
	return r.commit(ctx, next)
}

func (r *RecentSearches) Remove(ctx context.Context, query string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.items, query)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(r.items), i, i+1)
	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RecentSearches) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.items)
	if out == nil {
		out = []string{}
	}
	return out
}

func (r *RecentSearches) commit(ctx context.Context, next []string) error {
	if err := storage.SaveJSON(ctx, r.s, storage.SlotRecentSearches, next); err != nil {
		return err
	}
	r.items = next
	return nil
}
