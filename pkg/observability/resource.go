package observability

import (
	"context"
	"strings"

	"github.com/Sokol111/exclog/pkg/core/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ExcludedPaths contains paths that should be excluded from tracing and metrics.
var ExcludedPaths = []string{"/health", "/metrics"}

func newResource(ctx context.Context, appCfg config.AppConfig) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(appCfg.ServiceName),
			semconv.DeploymentEnvironmentNameKey.String(appCfg.Environment),
		),
	)
}

func instrumented(path string) bool {
	for _, excluded := range ExcludedPaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}
	return true
}
