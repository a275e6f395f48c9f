package server

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serverOptions struct {
	config *Config
}

// Option configures NewHTTPServerModule.
type Option func(*serverOptions)

// WithServerConfig provides a static server Config (useful for tests).
// When set, the server configuration will not be loaded from viper.
func WithServerConfig(cfg Config) Option {
	return func(o *serverOptions) {
		o.config = &cfg
	}
}

// NewHTTPServerModule provides the route *http.ServeMux and runs the server on the fx
// lifecycle. The served http.Handler must be provided elsewhere, usually by the
// middleware module wrapping the mux.
func NewHTTPServerModule(opts ...Option) fx.Option {
	o := &serverOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.config != nil {
		cfg := *o.config
		cfg.SetDefaults()
		configOption = fx.Supply(cfg)
	}

	return fx.Options(
		configOption,
		fx.Provide(http.NewServeMux),
		fx.Invoke(startHTTPServer),
	)
}

func startHTTPServer(lc fx.Lifecycle, log *zap.Logger, conf Config, handler http.Handler, shutdowner fx.Shutdowner) {
	var srv Server
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Create server in OnStart - all routes are registered by now
			srv = newServer(log, conf, handler)

			go func() {
				if err := srv.Serve(nil); err != nil {
					log.Error("HTTP server failed, shutting down application", zap.Error(err))
					_ = shutdowner.Shutdown() //nolint:errcheck // shutdown is best-effort
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if srv != nil {
				return srv.Shutdown(ctx)
			}
			return nil
		},
	})
}
