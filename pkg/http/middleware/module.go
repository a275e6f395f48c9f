package middleware

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type mwIn struct {
	fx.In
	Mux         *http.ServeMux
	Middlewares []Middleware `group:"http_mw"`
}

// NewMiddlewareModule provides all HTTP middleware modules and the chained http.Handler.
// Default order (outermost first):
//
//	 5 - RateLimit - rejects requests over the configured rate (opt-in)
//	 6 - Bulkhead  - limits concurrent requests (opt-in)
//	10 - AccessLog - logs requests
//	30 - ExcLog    - logs request failures (over ExcView and tm)
//	40 - ExcView   - converts panics to RFC 7807 responses
//
// Other modules join the chain by providing a Middleware in the "http_mw" group.
func NewMiddlewareModule() fx.Option {
	return fx.Options(
		RateLimitModule(5),
		BulkheadModule(6),
		AccessLogModule(10),
		ExcLogModule(30),
		ExcViewModule(40),
		fx.Provide(provideHandler),
	)
}

func provideHandler(in mwIn, log *zap.Logger) (http.Handler, error) {
	ordered, err := Order(in.Middlewares)
	if err != nil {
		return nil, fmt.Errorf("failed to order http middleware: %w", err)
	}
	log.Info("http middleware chain", zap.Strings("order", lo.Map(ordered, func(m Middleware, _ int) string {
		return m.Name
	})))

	return apply(ordered, in.Mux), nil
}
