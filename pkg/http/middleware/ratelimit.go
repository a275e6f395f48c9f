package middleware

import (
	"net/http"
	"strings"

	"github.com/Sokol111/exclog/pkg/http/problems"
	"github.com/Sokol111/exclog/pkg/http/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitName is the name of the rate limiting middleware.
const RateLimitName = "rate-limit"

// rateLimiter is satisfied by *rate.Limiter.
type rateLimiter interface {
	Allow() bool
}

func newRateLimitMiddleware(limiter rateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthCheck(r) || limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			p := problems.New(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			p.Instance = r.URL.Path
			problems.Write(w, p)
		})
	}
}

// RateLimitModule adds rate limiting middleware to the application. It stays out of the
// chain unless server.rate-limit.enabled is set.
func RateLimitModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(serverConfig server.Config, log *zap.Logger) Middleware {
				cfg := serverConfig.RateLimit
				mw := Middleware{Name: RateLimitName, Priority: priority}
				if !cfg.Enabled {
					return mw
				}
				log.Info("HTTP rate limit initialized",
					zap.Int("requests-per-second", cfg.RequestsPerSecond),
					zap.Int("burst", cfg.Burst),
				)
				mw.Handler = newRateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst))
				return mw
			},
			fx.ResultTags(`group:"http_mw"`),
		),
	)
}

func isHealthCheck(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/health/")
}
