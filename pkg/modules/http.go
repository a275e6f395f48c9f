package modules

import (
	"github.com/Sokol111/exclog/pkg/exclog"
	"github.com/Sokol111/exclog/pkg/http/health"
	"github.com/Sokol111/exclog/pkg/http/middleware"
	"github.com/Sokol111/exclog/pkg/http/server"
	"github.com/Sokol111/exclog/pkg/security/token"
	"go.uber.org/fx"
)

// httpOptions holds internal configuration for the HTTP module.
type httpOptions struct {
	serverOptions []server.Option
	exclogOptions []exclog.Option
}

// HTTPOption is a functional option for configuring the HTTP module.
type HTTPOption func(*httpOptions)

// WithServerConfig provides a static server Config (useful for tests).
// When set, the server configuration will not be loaded from viper.
func WithServerConfig(cfg server.Config) HTTPOption {
	return func(opts *httpOptions) {
		opts.serverOptions = append(opts.serverOptions, server.WithServerConfig(cfg))
	}
}

// WithExcLog passes options to the exception logger module.
func WithExcLog(opts ...exclog.Option) HTTPOption {
	return func(o *httpOptions) {
		o.exclogOptions = append(o.exclogOptions, opts...)
	}
}

// NewHTTPModule provides the HTTP server with health routes, bearer token identity, the
// exception logger and the middleware chain.
//
// Example usage:
//
//	// Production - loads config from viper
//	modules.NewHTTPModule()
//
//	// Testing - with static config
//	modules.NewHTTPModule(
//	    modules.WithServerConfig(server.Config{...}),
//	    modules.WithExcLog(exclog.WithConfig(exclog.Config{...})),
//	)
func NewHTTPModule(opts ...HTTPOption) fx.Option {
	cfg := &httpOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		server.NewHTTPServerModule(cfg.serverOptions...),
		health.NewHealthRoutesModule(),
		token.NewIdentityModule(),
		exclog.NewExcLogModule(cfg.exclogOptions...),
		middleware.NewMiddlewareModule(),
	)
}
