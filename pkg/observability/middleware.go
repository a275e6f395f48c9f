package observability

import (
	"net/http"

	"github.com/Sokol111/exclog/pkg/core/config"
	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/Sokol111/exclog/pkg/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Middleware names.
const (
	OtelName     = "otel"
	TraceLogName = "trace-log"
)

// httpMiddleware starts a server span per request. It wraps the exception logger so
// incident entries carry the request trace id.
func httpMiddleware(appCfg config.AppConfig, tp trace.TracerProvider, mp metric.MeterProvider) middleware.Middleware {
	return middleware.Middleware{
		Name:     OtelName,
		Priority: 20,
		Under:    []string{middleware.AccessLogName},
		Over:     []string{middleware.ExcLogName},
		Handler: otelhttp.NewMiddleware(appCfg.ServiceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithMeterProvider(mp),
			otelhttp.WithFilter(func(r *http.Request) bool { return instrumented(r.URL.Path) }),
		),
	}
}

// traceLogMiddleware adds trace_id and span_id to the request logger.
func traceLogMiddleware() middleware.Middleware {
	return middleware.Middleware{
		Name:     TraceLogName,
		Priority: 25,
		Under:    []string{OtelName},
		Over:     []string{middleware.ExcLogName},
		Handler: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sc := trace.SpanContextFromContext(r.Context())
				if !sc.IsValid() {
					next.ServeHTTP(w, r)
					return
				}
				reqLog := logger.Get(r.Context()).With(
					zap.String("trace_id", sc.TraceID().String()),
					zap.String("span_id", sc.SpanID().String()),
				)
				next.ServeHTTP(w, r.WithContext(logger.With(r.Context(), reqLog)))
			})
		},
	}
}
