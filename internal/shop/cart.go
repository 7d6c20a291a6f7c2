package shop

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ariefcatur/go-course-market/internal/async"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/google/uuid"
)

var cartLabels = labels{
	added:        "Added to cart",
	duplicate:    "Course is already in your cart",
	removed:      "Course removed from cart",
	missing:      "Course is not in your cart",
	cleared:      "Cart cleared",
	addedEvent:   events.CartItemAdded,
	removedEvent: events.CartItemRemoved,
	clearedEvent: events.CartCleared,
}

type Cart struct {
	*Collection
	checkoutDelay time.Duration
}

func NewCart(ctx context.Context, deps Deps, checkoutDelay time.Duration) (*Cart, error) {
	col, err := newCollection(ctx, storage.SlotCart, deps, cartLabels, cartItem)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	return &Cart{Collection: col, checkoutDelay: checkoutDelay}, nil
}

func cartItem(c catalog.Course, at time.Time) LineItem {
	return LineItem{
		ID:            c.ID,
		Title:         c.Title,
		Instructor:    c.Instructor,
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		Image:         c.Picture(),
		AddedAt:       at,
	}
}

// Total is the sum of item prices.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items() {
		total += it.Price
	}
	return total
}

type Order struct {
	Ref       string    `json:"order_ref"`
	CourseIDs []string  `json:"course_ids"`
	Total     float64   `json:"total"`
	PlacedAt  time.Time `json:"placed_at"`
}

type CheckoutResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Order   *Order `json:"order,omitempty"`
}

// Checkout simulates the payment round trip: after the checkout delay the
// cart is emptied and the order reported. An empty cart checks out too.
// Only a storage failure can make it unsuccessful.
func (c *Cart) Checkout(ctx context.Context) *async.Task[CheckoutResult] {
	ctx = context.WithoutCancel(ctx)
	return async.Run(c.deps.Tasks, c.checkoutDelay, func() (CheckoutResult, error) {
		c.mu.Lock()
		order := &Order{
			Ref:       uuid.NewString(),
			CourseIDs: make([]string, 0, len(c.items)),
			PlacedAt:  c.deps.now().UTC(),
		}
		for _, it := range c.items {
			order.CourseIDs = append(order.CourseIDs, it.ID)
			order.Total += it.Price
		}
		err := c.commit(ctx, []LineItem{})
		c.mu.Unlock()
		if err != nil {
			c.deps.notify(ctx, notice.Error, "Checkout failed. Please try again.")
			return CheckoutResult{Success: false, Error: err.Error()}, nil
		}

		c.deps.notify(ctx, notice.Success, "Order placed successfully!")
		c.deps.Events.Emit(ctx, events.CheckoutCompleted, events.CheckoutPayload{
			OrderRef: order.Ref, CourseIDs: order.CourseIDs, Total: order.Total,
		})
		return CheckoutResult{Success: true, Order: order}, nil
	})
}

// Coupons maps a code to its discount fraction. Codes are case sensitive.
var Coupons = map[string]float64{
	"SAVE20":    0.2,
	"WELCOME10": 0.1,
	"STUDENT15": 0.15,
}

// ApplyCoupon looks code up and returns its discount fraction. The cart is
// not modified either way.
func (c *Cart) ApplyCoupon(ctx context.Context, code string) (float64, bool) {
	d, ok := Coupons[code]
	if !ok {
		c.deps.notify(ctx, notice.Error, "Invalid coupon code")
		return 0, false
	}
	c.deps.notify(ctx, notice.Success, fmt.Sprintf("Coupon applied! %s discount added.", code))
	return d, true
}

// Discounted applies fraction to total, rounded to cents.
func Discounted(total, fraction float64) float64 {
	return math.Round(total*(1-fraction)*100) / 100
}
