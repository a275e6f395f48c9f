package modules

import (
	"testing"

	"github.com/Sokol111/exclog/pkg/core"
	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/Sokol111/exclog/pkg/http/server"
	"github.com/Sokol111/exclog/pkg/observability"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
)

func TestModulesValidate(t *testing.T) {
	err := fx.ValidateApp(
		NewCoreModule(
			core.WithLoggerConfig(logger.DefaultConfig()),
			core.WithoutEnvFile(),
			core.WithoutConfigFile(),
		),
		NewObservabilityModule(observability.WithConfig(observability.Config{})),
		NewHTTPModule(WithServerConfig(server.Config{Port: 0})),
	)
	assert.NoError(t, err)
}
