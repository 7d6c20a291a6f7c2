package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/notice"
)

const maxBody = 1 << 20

// envelope is the body of every device-scoped response.
type envelope struct {
	Data    any             `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Notices []notice.Notice `json:"notices"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, r *http.Request, code int, data any) {
	writeJSON(w, code, envelope{Data: data, Notices: drain(r)})
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Status(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		msg = http.StatusText(code)
	}
	writeJSON(w, code, envelope{Error: msg, Notices: drain(r)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.E(apperr.Invalid, "request body too large")
		}
		return apperr.E(apperr.Invalid, "invalid json", err)
	}
	return nil
}

func drain(r *http.Request) []notice.Notice {
	if b, ok := r.Context().Value(bufferKey{}).(*notice.Buffer); ok {
		return b.Drain()
	}
	return []notice.Notice{}
}
