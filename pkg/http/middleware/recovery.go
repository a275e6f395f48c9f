package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/Sokol111/exclog/pkg/exclog"
	"github.com/Sokol111/exclog/pkg/http/problems"
	"github.com/felixge/httpsnoop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// excViewMiddleware is the exception view: it turns panics into problem responses and
// records them for the exception logger. http.ErrAbortHandler is re-raised.
func excViewMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := false
		ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					started = true
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					started = true
					return next(b)
				}
			},
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					started = true
					return next(src)
				}
			},
		})

		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			trace := exclog.CaptureTrace(r.Context(), v)
			if !exclog.Record(r.Context(), trace) {
				fields := append(requestFields(r),
					zap.String("incident_id", trace.ID),
					zap.Error(trace.Err),
					zap.ByteString("stack", trace.Stack),
				)
				logger.Get(r.Context()).Error("Panic recovered", fields...)
			}
			if started {
				return
			}
			problems.Write(w, problemFor(r, trace))
		}()

		next.ServeHTTP(ww, r)
	})
}

func problemFor(r *http.Request, trace exclog.Trace) *problems.Problem {
	var httpErr *exclog.HTTPError
	if !errors.As(trace.Err, &httpErr) || !validStatus(httpErr.Status) {
		p := problems.New(http.StatusInternalServerError, "")
		p.Instance = r.URL.Path
		p.TraceID = trace.TraceID
		p.IncidentID = trace.ID
		return p
	}

	p := problems.New(httpErr.Status, httpErr.Message)
	p.Instance = r.URL.Path
	p.TraceID = trace.TraceID
	p.Location = httpErr.Location
	return p
}

func validStatus(code int) bool {
	return code >= 100 && code <= 599 && http.StatusText(code) != ""
}

// ExcViewModule provides the exception view middleware.
func ExcViewModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func() Middleware {
				return Middleware{Name: ExcViewName, Priority: priority, Handler: excViewMiddleware}
			},
			fx.ResultTags(`group:"http_mw"`),
		),
	)
}
