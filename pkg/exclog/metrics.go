package exclog

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Sokol111/exclog/pkg/exclog"

const (
	outcomeLogged  = "logged"
	outcomeIgnored = "ignored"
	outcomeFailed  = "failed"
)

type handlerMetrics struct {
	exceptions metric.Int64Counter
}

func newHandlerMetrics(mp metric.MeterProvider) handlerMetrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	counter, err := mp.Meter(meterName).Int64Counter(
		"exclog.exceptions",
		metric.WithDescription("Request failures seen by the exception logger, by outcome."),
		metric.WithUnit("{exception}"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return handlerMetrics{exceptions: counter}
}

func (m handlerMetrics) record(ctx context.Context, outcome string) {
	if m.exceptions == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m.exceptions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
