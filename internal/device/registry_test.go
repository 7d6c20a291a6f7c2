package device

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCachesPerDevice(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(Options{Storage: storage.NewMemory()})

	a1, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	a2, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	b, err := r.Get(ctx, "dev-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	r := NewRegistry(Options{Storage: mem, MaxDevices: 2})

	a, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	_, err = a.Cart.Add(ctx, catalog.Course{ID: "course-1", Price: 10})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := r.Get(ctx, fmt.Sprintf("dev-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, r.Len())

	again, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	assert.NotSame(t, a, again)
	assert.True(t, again.Cart.Contains("course-1"))
}

func TestFreshIsNotCached(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(Options{Storage: storage.NewMemory()})

	for i := 0; i < 10; i++ {
		_, err := r.Fresh(ctx, NewID())
		require.NoError(t, err)
	}
	assert.Zero(t, r.Len())
}

func TestConcurrentGetSharesStores(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(Options{Storage: storage.NewMemory()})

	const n = 16
	got := make([]*Stores, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Get(ctx, "dev-a")
			assert.NoError(t, err)
			got[i] = s
		}()
	}
	wg.Wait()
	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

func TestDrainWaitsForCheckout(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(Options{Storage: storage.NewMemory(), CheckoutDelay: 50 * time.Millisecond})

	s, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	_, err = s.Cart.Add(ctx, catalog.Course{ID: "course-1", Price: 10})
	require.NoError(t, err)
	s.Cart.Checkout(ctx)

	require.NoError(t, r.Drain(ctx))
	assert.Zero(t, s.Cart.Count())

	s.Cart.Checkout(ctx)
	short, cancel := context.WithTimeout(ctx, time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Drain(short), context.DeadlineExceeded)
	require.NoError(t, r.Drain(ctx))
}

func TestDevicesDoNotShareSlots(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	r := NewRegistry(Options{Storage: mem})

	a, err := r.Get(ctx, "dev-a")
	require.NoError(t, err)
	_, err = a.Cart.Add(ctx, catalog.Course{ID: "course-1", Price: 10})
	require.NoError(t, err)

	b, err := r.Get(ctx, "dev-b")
	require.NoError(t, err)
	assert.Zero(t, b.Cart.Count())

	raw, err := mem.Get(ctx, "market:device:dev-a:cart")
	require.NoError(t, err)
	assert.Contains(t, raw, "course-1")
}

func TestOpenRehydrates(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	rec := &events.Recorder{}
	opts := Options{Storage: mem, Publisher: rec, Producer: "api"}

	first, err := Open(ctx, "dev-a", opts)
	require.NoError(t, err)
	_, err = first.Wishlist.Add(ctx, catalog.Course{ID: "course-2"})
	require.NoError(t, err)
	require.NoError(t, first.Searches.Record(ctx, "go"))
	_, err = first.Language.Set(ctx, "ar")
	require.NoError(t, err)

	second, err := Open(ctx, "dev-a", opts)
	require.NoError(t, err)
	assert.True(t, second.Wishlist.Contains("course-2"))
	assert.Equal(t, []string{"go"}, second.Searches.List())
	assert.Equal(t, "ar", second.Language.Get().Code)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.WishlistItemAdded, evs[0].EventType)
	assert.Equal(t, "api", evs[0].Producer)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.True(t, ValidID("dev_1"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("a:b"))
	assert.False(t, ValidID(string(make([]byte, 65))))
}
