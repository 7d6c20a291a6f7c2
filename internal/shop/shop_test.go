package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type notices struct{ got []notice.Notice }

func (n *notices) Notify(_ context.Context, x notice.Notice) { n.got = append(n.got, x) }

func (n *notices) last() notice.Notice {
	if len(n.got) == 0 {
		return notice.Notice{}
	}
	return n.got[len(n.got)-1]
}

type harness struct {
	store   *storage.Memory
	notices *notices
	events  *events.Recorder
	deps    Deps
}

func newHarness() *harness {
	h := &harness{store: storage.NewMemory(), notices: &notices{}, events: &events.Recorder{}}
	h.deps = Deps{
		Storage:  h.store,
		Notifier: h.notices,
		Events:   events.Emitter{Publisher: h.events, Producer: "test", DeviceID: "dev-1"},
		Now:      func() time.Time { return fixedNow },
	}
	return h
}

func course(id string, price float64) catalog.Course {
	orig := price * 2
	return catalog.Course{ID: id, Title: "Course " + id, Instructor: "Ann", Price: price,
		OriginalPrice: &orig, Thumbnail: "thumb-" + id, Rating: 4.6, StudentsEnrolled: 1200}
}

func TestCartAddRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)

	added, err := cart.Add(ctx, course("c1", 10))
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, cart.Contains("c1"))

	it := cart.Items()[0]
	assert.Equal(t, "thumb-c1", it.Image)
	assert.Equal(t, fixedNow, it.AddedAt)
	assert.Zero(t, it.Rating)

	removed, err := cart.Remove(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, cart.Count())

	raw, err := h.store.Get(ctx, storage.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	assert.Equal(t, []string{events.CartItemAdded, events.CartItemRemoved}, h.events.Types())
}

func TestCartRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)

	_, err = cart.Add(ctx, course("c1", 10))
	require.NoError(t, err)
	added, err := cart.Add(ctx, course("c1", 10))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, cart.Count())
	assert.Equal(t, notice.Notice{Level: notice.Error, Message: "Course is already in your cart"}, h.notices.last())
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)

	removed, err := cart.Remove(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, notice.Error, h.notices.last().Level)
	assert.Empty(t, h.events.Types())
}

func TestCartRehydratesInOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	for _, id := range []string{"c3", "c1", "c2"} {
		_, err := cart.Add(ctx, course(id, 5))
		require.NoError(t, err)
	}

	again, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	var got []string
	for _, it := range again.Items() {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{"c3", "c1", "c2"}, got)
}

func TestCartCorruptPayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.store.Set(ctx, storage.SlotCart, "{definitely not json"))

	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Count())
	_, err = h.store.Get(ctx, storage.SlotCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCartRehydrateDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.store.Set(ctx, storage.SlotCart, `[{"id":"a","price":1},{"id":"a","price":2},{"id":"b","price":3}]`))

	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Count())
	assert.Equal(t, 4.0, cart.Total())
}

func TestCartTotalAndClear(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	_, _ = cart.Add(ctx, course("c1", 10.5))
	_, _ = cart.Add(ctx, course("c2", 20))
	assert.InDelta(t, 30.5, cart.Total(), 1e-9)

	require.NoError(t, cart.Clear(ctx))
	assert.Equal(t, 0, cart.Count())
	assert.Equal(t, "Cart cleared", h.notices.last().Message)
}

func TestCheckoutEmptyCartSucceeds(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, time.Millisecond)
	require.NoError(t, err)

	res, err := cart.Checkout(ctx).Await(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Order)
	assert.Empty(t, res.Order.CourseIDs)
	assert.Equal(t, 0, cart.Count())
}

func TestCheckoutEmptiesCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	_, _ = cart.Add(ctx, course("c1", 10))
	_, _ = cart.Add(ctx, course("c2", 15))

	res, err := cart.Checkout(ctx).Await(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"c1", "c2"}, res.Order.CourseIDs)
	assert.Equal(t, 25.0, res.Order.Total)
	assert.NotEmpty(t, res.Order.Ref)
	assert.Equal(t, 0, cart.Count())

	evs := h.events.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, events.CheckoutCompleted, last.EventType)
	p, err := events.Decode[events.CheckoutPayload](last)
	require.NoError(t, err)
	assert.Equal(t, res.Order.Ref, p.OrderRef)
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	_, _ = cart.Add(ctx, course("c1", 100))

	d, ok := cart.ApplyCoupon(ctx, "SAVE20")
	assert.True(t, ok)
	assert.Equal(t, 0.2, d)
	assert.Equal(t, 80.0, Discounted(cart.Total(), d))

	d, ok = cart.ApplyCoupon(ctx, "BOGUS")
	assert.False(t, ok)
	assert.Zero(t, d)
	assert.Equal(t, 100.0, cart.Total())
	assert.Equal(t, notice.Notice{Level: notice.Error, Message: "Invalid coupon code"}, h.notices.last())

	_, ok = cart.ApplyCoupon(ctx, "save20")
	assert.False(t, ok)
}

type failingStorage struct{ storage.Storage }

func (failingStorage) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestWriteFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.deps.Storage = failingStorage{Storage: h.store}
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)

	added, err := cart.Add(ctx, course("c1", 10))
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, added)
	assert.Equal(t, 0, cart.Count())

	res, err := cart.Checkout(ctx).Await(ctx)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk full")
}

func TestWishlistItemsCarryPopularity(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	wl, err := NewWishlist(ctx, h.deps)
	require.NoError(t, err)

	_, err = wl.Add(ctx, course("c1", 10))
	require.NoError(t, err)
	it := wl.Items()[0]
	assert.Equal(t, 4.6, it.Rating)
	assert.Equal(t, 1200, it.StudentsEnrolled)
	assert.Equal(t, []string{events.WishlistItemAdded}, h.events.Types())
}

func TestMoveToCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	wl, err := NewWishlist(ctx, h.deps)
	require.NoError(t, err)
	_, _ = wl.Add(ctx, course("c1", 10))

	it, ok, err := wl.MoveToCart(ctx, "c1", cart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c1", it.ID)
	assert.False(t, wl.Contains("c1"))
	assert.True(t, cart.Contains("c1"))
	assert.Zero(t, cart.Items()[0].Rating)
	assert.Equal(t, "Course moved to cart", h.notices.last().Message)

	_, ok, err = wl.MoveToCart(ctx, "c1", cart)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoveToCartKeepsWishlistOnCartFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	wl, err := NewWishlist(ctx, h.deps)
	require.NoError(t, err)
	_, err = wl.Add(ctx, course("c1", 10))
	require.NoError(t, err)

	broken := h.deps
	broken.Storage = failingStorage{Storage: storage.NewMemory()}
	cart, err := NewCart(ctx, broken, 0)
	require.NoError(t, err)

	_, ok, err := wl.MoveToCart(ctx, "c1", cart)
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, ok)
	assert.True(t, wl.Contains("c1"))
	assert.Equal(t, 0, cart.Count())

	raw, err := h.store.Get(ctx, storage.SlotWishlist)
	require.NoError(t, err)
	assert.Contains(t, raw, "c1")
}

func TestCartAndWishlistUseSeparateSlots(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cart, err := NewCart(ctx, h.deps, 0)
	require.NoError(t, err)
	wl, err := NewWishlist(ctx, h.deps)
	require.NoError(t, err)

	_, _ = cart.Add(ctx, course("c1", 10))
	assert.False(t, wl.Contains("c1"))
	_, err = h.store.Get(ctx, storage.SlotWishlist)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
