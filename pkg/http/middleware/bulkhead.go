package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/Sokol111/exclog/pkg/http/problems"
	"github.com/Sokol111/exclog/pkg/http/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// BulkheadName is the name of the concurrency limiting middleware.
const BulkheadName = "bulkhead"

// newBulkheadMiddleware limits concurrent requests. A request waits up to timeout for a
// slot and is rejected with 503 afterwards.
func newBulkheadMiddleware(maxConcurrent int, timeout time.Duration) func(http.Handler) http.Handler {
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthCheck(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := sem.Acquire(ctx, 1)
			cancel()
			if err != nil {
				logger.Get(r.Context()).Warn("HTTP bulkhead acquisition failed - rejecting request",
					zap.Duration("timeout", timeout),
					zap.Int("max-concurrent", maxConcurrent),
					zap.Error(err),
				)
				p := problems.New(http.StatusServiceUnavailable, "too many concurrent requests, please try again later")
				p.Instance = r.URL.Path
				problems.Write(w, p)
				return
			}
			defer sem.Release(1)

			next.ServeHTTP(w, r)
		})
	}
}

// BulkheadModule adds the bulkhead middleware. It stays out of the chain unless
// server.bulkhead.enabled is set.
func BulkheadModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(serverConfig server.Config, log *zap.Logger) Middleware {
				cfg := serverConfig.Bulkhead
				mw := Middleware{Name: BulkheadName, Priority: priority}
				if !cfg.Enabled {
					return mw
				}
				log.Info("HTTP bulkhead initialized",
					zap.Int("max-concurrent", cfg.MaxConcurrent),
					zap.Duration("timeout", cfg.Timeout),
				)
				mw.Handler = newBulkheadMiddleware(cfg.MaxConcurrent, cfg.Timeout)
				return mw
			},
			fx.ResultTags(`group:"http_mw"`),
		),
	)
}
