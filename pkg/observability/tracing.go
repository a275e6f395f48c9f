package observability

import (
	"context"

	"github.com/Sokol111/exclog/pkg/core/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type providerParams struct {
	fx.In
	Lc     fx.Lifecycle
	Log    *zap.Logger
	Cfg    Config
	AppCfg config.AppConfig
}

func provideTracerProvider(p providerParams) (trace.TracerProvider, error) {
	if !p.Cfg.Tracing.Enabled {
		p.Log.Info("tracing: disabled")
		return noop.NewTracerProvider(), nil
	}

	tp, err := newTracerProvider(context.Background(), p.Log, p.Cfg.OtelCollectorEndpoint, p.AppCfg)
	if err != nil {
		return nil, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			otel.SetTracerProvider(tp)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
			p.Log.Info("tracing initialized", zap.String("endpoint", p.Cfg.OtelCollectorEndpoint))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
			defer cancel()
			return tp.Shutdown(shutdownCtx)
		},
	})
	return tp, nil
}

// newTracerProvider samples everything locally when no collector endpoint is configured,
// so incident logs still carry trace ids.
func newTracerProvider(ctx context.Context, log *zap.Logger, endpoint string, appCfg config.AppConfig) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, appCfg)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		log.Info("tracing: no collector endpoint, running in local mode")
		return sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
			sdktrace.WithResource(res),
		), nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}
