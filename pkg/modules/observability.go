package modules

import (
	"github.com/Sokol111/exclog/pkg/observability"
	"go.uber.org/fx"
)

// NewObservabilityModule provides observability functionality: tracing, metrics
func NewObservabilityModule(opts ...observability.Option) fx.Option {
	return observability.NewObservabilityModule(opts...)
}
