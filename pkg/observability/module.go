package observability

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

type moduleOptions struct {
	config *Config
}

// Option configures NewObservabilityModule.
type Option func(*moduleOptions)

// WithConfig provides a static Config (useful for tests).
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		o.config = &cfg
	}
}

// NewObservabilityModule provides trace.TracerProvider and metric.MeterProvider and
// registers the HTTP instrumentation middlewares. Disabled signals get noop providers.
func NewObservabilityModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.config != nil {
		cfg := *o.config
		applyDefaults(&cfg)
		configOption = fx.Supply(cfg)
	}

	return fx.Module("observability",
		configOption,
		fx.Provide(
			provideTracerProvider,
			provideMeterProvider,
			fx.Annotate(httpMiddleware, fx.ResultTags(`group:"http_mw"`)),
			fx.Annotate(traceLogMiddleware, fx.ResultTags(`group:"http_mw"`)),
		),
		fx.Invoke(func(trace.TracerProvider, metric.MeterProvider) {}),
	)
}
