// Package activity consumes the market's domain events and keeps an
// append-only log of them in Postgres.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ariefcatur/go-course-market/internal/events"
	kafkax "github.com/ariefcatur/go-course-market/internal/kafka"
	"github.com/ariefcatur/go-course-market/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

const supportedVersion = 1

// Recorder persists one event and reports whether it was new.
type Recorder interface {
	Record(ctx context.Context, deviceID string, ev events.Envelope) (bool, error)
}

type Service struct {
	Store       Recorder
	Redis       redis.Cmdable
	ServiceName string
}

// HandleEvent is installed as the consumer handler. Returning nil commits
// the message; errors leave it for redelivery.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	ev, err := kafkax.DecodeEnvelope(m)
	if err != nil {
		// poison message, retrying will not help
		slog.ErrorContext(ctx, "drop undecodable event", "topic", m.Topic, "offset", m.Offset, "err", err)
		return nil
	}
	if ev.EventVersion != supportedVersion {
		slog.WarnContext(ctx, "skip event version", "event_id", ev.EventID, "version", ev.EventVersion)
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, ev.EventID)
	if seen, err := redisx.Exists(ctx, s.Redis, dkey); err == nil && seen {
		return nil
	}

	deviceID := string(m.Key)
	if deviceID == "" {
		deviceID = ev.CorrelationID
	}
	inserted, err := s.Store.Record(ctx, deviceID, ev)
	if err != nil {
		return fmt.Errorf("record %s: %w", ev.EventID, err)
	}
	if _, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup); err != nil {
		slog.WarnContext(ctx, "mark dedup", "event_id", ev.EventID, "err", err)
	}
	slog.DebugContext(ctx, "activity recorded",
		"event_id", ev.EventID, "type", ev.EventType, "device", deviceID, "new", inserted, "trace", ev.TraceID)
	return nil
}
