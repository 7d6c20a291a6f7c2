package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/device"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/go-chi/chi/v5/middleware"
)

const HeaderDeviceID = "X-Device-Id"

type (
	bufferKey struct{}
	storesKey struct{}
)

// WithDevice resolves the caller's device, minting an id when the header is
// absent, and attaches its stores and a notice buffer to the request. Stores
// of a minted id are not cached until the client sends the id back.
func WithDevice(reg *device.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := &notice.Buffer{}
			ctx := notice.WithBuffer(r.Context(), buf)
			ctx = context.WithValue(ctx, bufferKey{}, buf)
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = events.WithTrace(ctx, reqID)
			}
			r = r.WithContext(ctx)

			open := reg.Get
			id := r.Header.Get(HeaderDeviceID)
			if id == "" {
				id, open = device.NewID(), reg.Fresh
			} else if !device.ValidID(id) {
				fail(w, r, apperr.E(apperr.Invalid, "malformed "+HeaderDeviceID))
				return
			}
			w.Header().Set(HeaderDeviceID, id)

			stores, err := open(ctx, id)
			if err != nil {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, storesKey{}, stores)))
		})
	}
}

func storesOf(r *http.Request) *device.Stores {
	return r.Context().Value(storesKey{}).(*device.Stores)
}
