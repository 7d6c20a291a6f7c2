// Package notice carries transient, dismissable messages for the user.
// Notices never replace errors: stores emit them for outcomes the user
// should see (duplicate add, coupon rejected) but that are not failures.
package notice

import (
	"context"
	"log/slog"
	"sync"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type ctxKey struct{}

// WithBuffer attaches b to ctx so a Dispatcher delivers into it.
func WithBuffer(ctx context.Context, b *Buffer) context.Context {
	return context.WithValue(ctx, ctxKey{}, b)
}

// Buffer collects the notices raised while serving one request.
type Buffer struct {
	mu    sync.Mutex
	items []Notice
}

func (b *Buffer) Notify(_ context.Context, n Notice) {
	b.mu.Lock()
	b.items = append(b.items, n)
	b.mu.Unlock()
}

// Drain returns the collected notices and empties the buffer.
func (b *Buffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Log writes notices to slog; it is the fallback when no request buffer
// is attached.
type Log struct{}

func (Log) Notify(ctx context.Context, n Notice) {
	slog.InfoContext(ctx, "notice", "level", n.Level, "message", n.Message)
}

// Dispatcher routes a notice to the request buffer when present, else to
// Fallback.
type Dispatcher struct {
	Fallback Notifier
}

func (d Dispatcher) Notify(ctx context.Context, n Notice) {
	if b, ok := ctx.Value(ctxKey{}).(*Buffer); ok && b != nil {
		b.Notify(ctx, n)
		return
	}
	if d.Fallback != nil {
		d.Fallback.Notify(ctx, n)
	}
}

// Send delivers a notice; a nil Notifier drops it.
func Send(ctx context.Context, to Notifier, lv Level, msg string) {
	if to != nil {
		to.Notify(ctx, Notice{Level: lv, Message: msg})
	}
}
