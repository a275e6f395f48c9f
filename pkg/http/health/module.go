package health

import (
	"context"
	"net/http"

	"go.uber.org/fx"
)

// NewHealthRoutesModule registers /health/live and /health/ready on the *http.ServeMux.
// Readiness flips once every fx start hook registered before it has run.
func NewHealthRoutesModule() fx.Option {
	return fx.Invoke(registerHealthRoutes)
}

func registerHealthRoutes(lc fx.Lifecycle, mux *http.ServeMux) {
	h := &healthHandler{}
	mux.HandleFunc("GET /health/live", h.IsLive)
	mux.HandleFunc("GET /health/ready", h.IsReady)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			h.ready.Store(true)
			return nil
		},
		OnStop: func(context.Context) error {
			h.ready.Store(false)
			return nil
		},
	})
}
