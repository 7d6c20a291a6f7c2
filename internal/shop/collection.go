package shop

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-course-market/internal/async"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/storage"
)

// LineItem is one course inside the cart or the wishlist, denormalized for
// display.
type LineItem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Instructor       string    `json:"instructor"`
	Price            float64   `json:"price"`
	OriginalPrice    *float64  `json:"originalPrice,omitempty"`
	Image            string    `json:"image,omitempty"`
	Rating           float64   `json:"rating,omitempty"`
	StudentsEnrolled int       `json:"studentsEnrolled,omitempty"`
	AddedAt          time.Time `json:"addedAt"`
}

// Deps are the collaborators shared by every store of one device.
type Deps struct {
	Storage  storage.Storage
	Notifier notice.Notifier
	Events   events.Emitter
	Tasks    *async.Group // nil leaves checkouts untracked
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) notify(ctx context.Context, lv notice.Level, msg string) {
	notice.Send(ctx, d.Notifier, lv, msg)
}

type labels struct {
	added, duplicate, removed, missing, cleared string
	addedEvent, removedEvent, clearedEvent      string
}

// Collection is an ordered set of line items keyed by course id, mirrored
// to one storage slot. Insertion order is display order.
type Collection struct {
	slot   string
	deps   Deps
	labels labels
	build  func(c catalog.Course, at time.Time) LineItem

	mu    sync.Mutex
	items []LineItem
}

// newCollection rehydrates the slot. An absent or corrupt payload yields an
// empty collection.
func newCollection(ctx context.Context, slot string, deps Deps, l labels, build func(catalog.Course, time.Time) LineItem) (*Collection, error) {
	c := &Collection{slot: slot, deps: deps, labels: l, build: build}
	var stored []LineItem
	ok, err := storage.LoadJSON(ctx, deps.Storage, slot, &stored)
	if err != nil {
		return nil, err
	}
	if ok {
		seen := make(map[string]bool, len(stored))
		for _, it := range stored {
			if it.ID == "" || seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			c.items = append(c.items, it)
		}
	}
	return c, nil
}

// Add appends the course unless it is already present. It reports whether
// the collection changed.
func (c *Collection) Add(ctx context.Context, course catalog.Course) (bool, error) {
	return c.addItem(ctx, c.build(course, c.deps.now()))
}

func (c *Collection) addItem(ctx context.Context, it LineItem) (bool, error) {
	c.mu.Lock()
	if c.indexOf(it.ID) >= 0 {
		c.mu.Unlock()
		c.deps.notify(ctx, notice.Error, c.labels.duplicate)
		return false, nil
	}
	next := make([]LineItem, len(c.items), len(c.items)+1)
	copy(next, c.items)
	next = append(next, it)
	err := c.commit(ctx, next)
	c.mu.Unlock()
	if err != nil {
		return false, err
	}

	c.deps.notify(ctx, notice.Success, c.labels.added)
	c.deps.Events.Emit(ctx, c.labels.addedEvent, events.ItemPayload{CourseID: it.ID, Title: it.Title, Price: it.Price})
	return true, nil
}

// Remove deletes the item with courseID. Removing an absent id is a no-op
// that only raises a notice.
func (c *Collection) Remove(ctx context.Context, courseID string) (bool, error) {
	_, ok, err := c.take(ctx, courseID)
	return ok, err
}

func (c *Collection) take(ctx context.Context, courseID string) (LineItem, bool, error) {
	c.mu.Lock()
	i := c.indexOf(courseID)
	if i < 0 {
		c.mu.Unlock()
		c.deps.notify(ctx, notice.Error, c.labels.missing)
		return LineItem{}, false, nil
	}
	it := c.items[i]
	next := make([]LineItem, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	err := c.commit(ctx, next)
	c.mu.Unlock()
	if err != nil {
		return LineItem{}, false, err
	}

	c.deps.notify(ctx, notice.Success, c.labels.removed)
	c.deps.Events.Emit(ctx, c.labels.removedEvent, events.ItemPayload{CourseID: it.ID, Title: it.Title, Price: it.Price})
	return it, true, nil
}

func (c *Collection) lookup(courseID string) (LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(courseID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

func (c *Collection) Clear(ctx context.Context) error {
	c.mu.Lock()
	err := c.commit(ctx, []LineItem{})
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.deps.notify(ctx, notice.Success, c.labels.cleared)
	c.deps.Events.Emit(ctx, c.labels.clearedEvent, struct{}{})
	return nil
}

func (c *Collection) Contains(courseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(courseID) >= 0
}

func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy in insertion order.
func (c *Collection) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// commit swaps in next and writes it through; on a failed write the
// previous items are restored. Callers hold mu.
func (c *Collection) commit(ctx context.Context, next []LineItem) error {
	prev := c.items
	c.items = next
	if err := storage.SaveJSON(ctx, c.deps.Storage, c.slot, next); err != nil {
		c.items = prev
		return err
	}
	return nil
}

// linear scan, collections hold a handful of items
func (c *Collection) indexOf(courseID string) int {
	for i := range c.items {
		if c.items[i].ID == courseID {
			return i
		}
	}
	return -1
}
