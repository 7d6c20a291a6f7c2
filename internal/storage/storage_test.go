package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "cart", "[]"))
	v, err := m.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Delete(ctx, "cart"))
	_, err = m.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNamespaceIsolatesDevices(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := Namespace(m, "device-a")
	b := Namespace(m, "device-b")

	require.NoError(t, a.Set(ctx, SlotLang, "ar"))
	_, err := b.Get(ctx, SlotLang)
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := m.Get(ctx, "device-a:lang")
	require.NoError(t, err)
	assert.Equal(t, "ar", raw)
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var out []string
	ok, err := LoadJSON(ctx, m, SlotRecentSearches, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, m, SlotRecentSearches, []string{"go", "react"}))
	ok, err = LoadJSON(ctx, m, SlotRecentSearches, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"go", "react"}, out)
}

func TestLoadJSONDiscardsCorruptPayload(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, SlotCart, "{oops"))

	var out []string
	ok, err := LoadJSON(ctx, m, SlotCart, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Get(ctx, SlotCart)
	assert.ErrorIs(t, err, ErrNotFound)
}
