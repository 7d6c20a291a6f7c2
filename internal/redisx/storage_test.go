package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	s := ForDevice(&Storage{RDB: rdb}, "dev-1")

	_, err := s.Get(ctx, storage.SlotCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.SlotCart, `[{"id":"course-1"}]`))
	v, err := s.Get(ctx, storage.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"course-1"}]`, v)

	raw, err := mr.Get("market:device:dev-1:cart")
	require.NoError(t, err)
	assert.Equal(t, v, raw)

	require.NoError(t, s.Delete(ctx, storage.SlotCart))
	assert.False(t, mr.Exists("market:device:dev-1:cart"))
}

func TestStorageTTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	s := &Storage{RDB: rdb, TTL: time.Hour}

	require.NoError(t, s.Set(ctx, "k", "v"))
	assert.Equal(t, time.Hour, mr.TTL("k"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarkOnce(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)

	first, err := MarkOnce(ctx, rdb, "dedup:activity:e1", TTLDedup)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := MarkOnce(ctx, rdb, "dedup:activity:e1", TTLDedup)
	require.NoError(t, err)
	assert.False(t, again)

	ok, err := Exists(ctx, rdb, "dedup:activity:e1")
	require.NoError(t, err)
	assert.True(t, ok)
}
