package exclog

import (
	"context"
	"net/http"
	"sync"
)

type recorderKey struct{}

// recorder holds the failure an inner component handled without panicking.
type recorder struct {
	mu    sync.Mutex
	trace *Trace
}

func (r *recorder) set(t Trace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = &t
}

func (r *recorder) get() (Trace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trace == nil {
		return Trace{}, false
	}
	return *r.trace, true
}

// Record attaches trace to the request served with ctx, for components that turned a
// failure into a response. The last recorded trace is logged once the inner handler
// returns. Record reports false when no ErrorHandler middleware serves the request.
func Record(ctx context.Context, trace Trace) bool {
	rec, ok := ctx.Value(recorderKey{}).(*recorder)
	if !ok {
		return false
	}
	rec.set(trace)
	return true
}

// RecordError records err with the caller's stack. See Record.
func RecordError(ctx context.Context, err error) bool {
	if _, ok := ctx.Value(recorderKey{}).(*recorder); !ok || err == nil {
		return false
	}
	return Record(ctx, NewTrace(ctx, err))
}

// Middleware wraps next so that its failures are logged. Panics are logged and then
// re-raised unchanged; recorded failures are logged after next returns, leaving the
// response as written.
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &recorder{}
		r = r.WithContext(context.WithValue(r.Context(), recorderKey{}, rec))

		defer func() {
			if v := recover(); v != nil {
				h.Handle(r.Context(), h.request(r), CaptureTrace(r.Context(), v))
				panic(v)
			}
		}()

		next.ServeHTTP(w, r)

		if trace, ok := rec.get(); ok {
			h.Handle(r.Context(), h.request(r), trace)
		}
	})
}

func (h *ErrorHandler) request(r *http.Request) Request {
	return NewHTTPRequest(r, RequestOptions{ScriptName: h.scriptName, Identity: h.identity})
}
