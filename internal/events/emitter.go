package events

import (
	"context"
	"log/slog"
	"sync"
)

// Emitter is what a store holds: a publisher bound to a device and a
// producer name. Publish failures are logged, never surfaced; the state
// change already happened.
type Emitter struct {
	Publisher Publisher
	Producer  string
	DeviceID  string
}

func (e Emitter) Emit(ctx context.Context, eventType string, payload any) {
	if e.Publisher == nil {
		return
	}
	ev, err := New(ctx, e.Producer, eventType, e.DeviceID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "build event", "type", eventType, "err", err)
		return
	}
	if err := e.Publisher.Publish(ctx, e.DeviceID, ev); err != nil {
		slog.WarnContext(ctx, "publish event", "type", eventType, "device", e.DeviceID, "err", err)
	}
}

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, _ string, ev Envelope) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.EventType)
	}
	return out
}
