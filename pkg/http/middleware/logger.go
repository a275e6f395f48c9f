package middleware

import (
	"net/http"

	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/felixge/httpsnoop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// accessLogMiddleware logs incoming HTTP requests and attaches a request scoped logger to
// the context.
func accessLogMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(requestFields(r)...)
			r = r.WithContext(logger.With(r.Context(), reqLog))

			m := httpsnoop.CaptureMetrics(next, w, r)

			reqLog.Debug("Incoming request",
				zap.Int("status", m.Code),
				zap.Duration("latency", m.Duration),
				zap.Int64("written", m.Written),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}

// AccessLogModule provides access log middleware.
func AccessLogModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(log *zap.Logger) Middleware {
				return Middleware{Name: AccessLogName, Priority: priority, Handler: accessLogMiddleware(log)}
			},
			fx.ResultTags(`group:"http_mw"`),
		),
	)
}
