package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/storage"
)

var wishlistLabels = labels{
	added:        "Added to wishlist",
	duplicate:    "Course is already in your wishlist",
	removed:      "Removed from wishlist",
	missing:      "Course is not in your wishlist",
	cleared:      "Wishlist cleared",
	addedEvent:   events.WishlistItemAdded,
	removedEvent: events.WishlistItemRemoved,
	clearedEvent: events.WishlistCleared,
}

type Wishlist struct {
	*Collection
}

func NewWishlist(ctx context.Context, deps Deps) (*Wishlist, error) {
	col, err := newCollection(ctx, storage.SlotWishlist, deps, wishlistLabels, wishlistItem)
	if err != nil {
		return nil, fmt.Errorf("wishlist: %w", err)
	}
	return &Wishlist{Collection: col}, nil
}

func wishlistItem(c catalog.Course, at time.Time) LineItem {
	it := cartItem(c, at)
	it.Rating = c.Rating
	it.StudentsEnrolled = c.StudentsEnrolled
	return it
}

// MoveToCart adds the course to cart and then removes it from the wishlist.
// It reports false when the course was not wishlisted. A course already in
// the cart still leaves the wishlist. A failed cart write leaves the
// wishlist untouched.
func (w *Wishlist) MoveToCart(ctx context.Context, courseID string, cart *Cart) (LineItem, bool, error) {
	it, ok := w.lookup(courseID)
	if !ok {
		w.deps.notify(ctx, notice.Error, w.labels.missing)
		return LineItem{}, false, nil
	}
	moved := it
	moved.Rating, moved.StudentsEnrolled = 0, 0
	moved.AddedAt = w.deps.now()
	if _, err := cart.addItem(ctx, moved); err != nil {
		return LineItem{}, false, err
	}
	if _, ok, err := w.take(ctx, courseID); err != nil || !ok {
		return LineItem{}, false, err
	}
	w.deps.notify(ctx, notice.Success, "Course moved to cart")
	return it, true, nil
}
