// Package device owns the per-device store bundles. Every device gets its
// own slots in the shared backend, rehydrated once on first use.
package device

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-course-market/internal/async"
	"github.com/ariefcatur/go-course-market/internal/auth"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/prefs"
	"github.com/ariefcatur/go-course-market/internal/redisx"
	"github.com/ariefcatur/go-course-market/internal/shop"
	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	maxIDLen          = 64
	DefaultMaxDevices = 10000
)

type Options struct {
	Storage       storage.Storage
	Publisher     events.Publisher
	Producer      string
	Notifier      notice.Notifier // used outside a request; defaults to notice.Log
	AuthDelays    auth.Delays
	CheckoutDelay time.Duration
	Now           func() time.Time
	Tasks         *async.Group // nil leaves checkouts and auth calls untracked
	MaxDevices    int          // registry cache size; defaults to DefaultMaxDevices
}

// Stores is everything one device holds.
type Stores struct {
	DeviceID string
	Cart     *shop.Cart
	Wishlist *shop.Wishlist
	Session  *auth.Store
	Searches *prefs.RecentSearches
	Language *prefs.Language
}

// Open rehydrates all stores of one device.
func Open(ctx context.Context, deviceID string, o Options) (*Stores, error) {
	fallback := o.Notifier
	if fallback == nil {
		fallback = notice.Log{}
	}
	slots := redisx.ForDevice(o.Storage, deviceID)
	notifier := notice.Dispatcher{Fallback: fallback}
	emitter := events.Emitter{Publisher: o.Publisher, Producer: o.Producer, DeviceID: deviceID}

	deps := shop.Deps{Storage: slots, Notifier: notifier, Events: emitter, Tasks: o.Tasks, Now: o.Now}
	cart, err := shop.NewCart(ctx, deps, o.CheckoutDelay)
	if err != nil {
		return nil, err
	}
	wishlist, err := shop.NewWishlist(ctx, deps)
	if err != nil {
		return nil, err
	}
	session, err := auth.NewStore(ctx, auth.Deps{Storage: slots, Notifier: notifier, Events: emitter, Tasks: o.Tasks, Now: o.Now}, o.AuthDelays)
	if err != nil {
		return nil, err
	}
	searches, err := prefs.NewRecentSearches(ctx, slots)
	if err != nil {
		return nil, err
	}
	lang, err := prefs.NewLanguage(ctx, slots)
	if err != nil {
		return nil, err
	}
	return &Stores{
		DeviceID: deviceID,
		Cart:     cart,
		Wishlist: wishlist,
		Session:  session,
		Searches: searches,
		Language: lang,
	}, nil
}

// Registry caches the Stores of the most recently used devices. An evicted
// device is rehydrated from storage on its next request.
type Registry struct {
	opts    Options
	devices *lru.Cache[string, *Stores]
	opening singleflight.Group
}

func NewRegistry(o Options) *Registry {
	if o.Tasks == nil {
		o.Tasks = &async.Group{}
	}
	size := o.MaxDevices
	if size <= 0 {
		size = DefaultMaxDevices
	}
	devices, err := lru.New[string, *Stores](size)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	return &Registry{opts: o, devices: devices}
}

// Get returns the cached stores of deviceID, opening them on a miss.
// Concurrent misses for one id share a single Open.
func (r *Registry) Get(ctx context.Context, deviceID string) (*Stores, error) {
	if s, ok := r.devices.Get(deviceID); ok {
		return s, nil
	}
	v, err, _ := r.opening.Do(deviceID, func() (any, error) {
		if s, ok := r.devices.Get(deviceID); ok {
			return s, nil
		}
		s, err := r.Fresh(ctx, deviceID)
		if err != nil {
			return nil, err
		}
		r.devices.Add(deviceID, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Stores), nil
}

// Fresh opens deviceID without caching it. Ids minted for a single request
// go through here so anonymous traffic cannot fill the cache.
func (r *Registry) Fresh(ctx context.Context, deviceID string) (*Stores, error) {
	s, err := Open(ctx, deviceID, r.opts)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", deviceID, err)
	}
	return s, nil
}

// Len reports how many devices are cached.
func (r *Registry) Len() int { return r.devices.Len() }

// Drain waits for in-flight checkouts and auth calls of every device opened
// through r, including evicted ones.
func (r *Registry) Drain(ctx context.Context) error {
	return r.opts.Tasks.Wait(ctx)
}

func NewID() string { return uuid.NewString() }

// ValidID accepts short ids made of letters, digits, '-' and '_'.
func ValidID(id string) bool {
	if id == "" || len(id) > maxIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
