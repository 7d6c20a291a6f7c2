package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	CartItemAdded       = "CartItemAdded"
	CartItemRemoved     = "CartItemRemoved"
	CartCleared         = "CartCleared"
	CheckoutCompleted   = "CheckoutCompleted"
	WishlistItemAdded   = "WishlistItemAdded"
	WishlistItemRemoved = "WishlistItemRemoved"
	WishlistCleared     = "WishlistCleared"
	UserLoggedIn        = "UserLoggedIn"
	UserSignedUp        = "UserSignedUp"
	UserLoggedOut       = "UserLoggedOut"
	ProfileUpdated      = "ProfileUpdated"
	CourseEnrolled      = "CourseEnrolled"
)

const (
	TopicCart     = "market.cart"
	TopicWishlist = "market.wishlist"
	TopicAuth     = "market.auth"
)

// Topics lists every topic the stores publish to.
var Topics = []string{TopicCart, TopicWishlist, TopicAuth}

// TopicFor maps an event type to its topic.
func TopicFor(eventType string) string {
	switch eventType {
	case CartItemAdded, CartItemRemoved, CartCleared, CheckoutCompleted:
		return TopicCart
	case WishlistItemAdded, WishlistItemRemoved, WishlistCleared:
		return TopicWishlist
	default:
		return TopicAuth
	}
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // device id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type ItemPayload struct {
	CourseID string  `json:"course_id"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

type CheckoutPayload struct {
	OrderRef  string   `json:"order_ref"`
	CourseIDs []string `json:"course_ids"`
	Total     float64  `json:"total"`
}

type UserPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

type EnrollPayload struct {
	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
}

// Publisher delivers envelopes. Implementations must not block callers for
// long; stores publish after they persisted.
type Publisher interface {
	Publish(ctx context.Context, deviceID string, ev Envelope) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Envelope) error { return nil }

type traceKey struct{}

func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// New builds a v1 envelope around payload.
func New(ctx context.Context, producer, eventType, deviceID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	trace, _ := ctx.Value(traceKey{}).(string)
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       trace,
		CorrelationID: deviceID,
		Payload:       b,
	}, nil
}

// Decode unwraps a payload into T.
func Decode[T any](ev Envelope) (T, error) {
	var t T
	err := json.Unmarshal(ev.Payload, &t)
	return t, err
}
