package observability

import (
	"context"
	"fmt"

	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideMeterProvider(p providerParams) (metric.MeterProvider, error) {
	if !p.Cfg.Metrics.Enabled {
		p.Log.Info("metrics: disabled")
		return noop.NewMeterProvider(), nil
	}
	if p.Cfg.OtelCollectorEndpoint == "" {
		return nil, fmt.Errorf("metrics: otel-collector-endpoint is required")
	}

	ctx := context.Background()
	res, err := newResource(ctx, p.AppCfg)
	if err != nil {
		return nil, err
	}
	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(p.Cfg.OtelCollectorEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(p.Cfg.Metrics.Interval))),
		sdkmetric.WithResource(res),
	)

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			otel.SetMeterProvider(provider)
			if p.Cfg.Metrics.Runtime {
				if err := otelruntime.Start(
					otelruntime.WithMeterProvider(provider),
					otelruntime.WithMinimumReadMemStatsInterval(DefaultRuntimeStatsInterval),
				); err != nil {
					p.Log.Warn("runtime metrics unavailable", zap.Error(err))
				}
			}
			p.Log.Info("metrics initialized",
				zap.String("endpoint", p.Cfg.OtelCollectorEndpoint),
				zap.Duration("interval", p.Cfg.Metrics.Interval),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
			defer cancel()
			return provider.Shutdown(shutdownCtx)
		},
	})
	return provider, nil
}
