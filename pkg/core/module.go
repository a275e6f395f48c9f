package core

import (
	"time"

	"github.com/Sokol111/exclog/pkg/core/config"
	"github.com/Sokol111/exclog/pkg/core/logger"
	"go.uber.org/fx"
)

// coreOptions holds internal configuration for the core module.
type coreOptions struct {
	configOptions []config.Option
	loggerOptions []logger.Option
}

// Option is a functional option for configuring the core module.
type Option func(*coreOptions)

// WithAppConfig provides a static AppConfig (useful for tests).
// When set, the AppConfig will not be loaded from environment variables.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(opts *coreOptions) {
		opts.configOptions = append(opts.configOptions, config.WithAppConfig(cfg))
	}
}

// WithLoggerConfig provides a static logger Config (useful for tests).
// When set, the logger configuration will not be loaded from viper.
func WithLoggerConfig(cfg logger.Config) Option {
	return func(opts *coreOptions) {
		opts.loggerOptions = append(opts.loggerOptions, logger.WithLoggerConfig(cfg))
	}
}

// WithConfigPath reads configuration from path instead of CONFIG_FILE.
func WithConfigPath(path string) Option {
	return func(opts *coreOptions) {
		opts.configOptions = append(opts.configOptions, config.WithConfigPath(path))
	}
}

// WithoutEnvFile disables loading of .env file.
// Useful for tests or environments where .env files are not used.
func WithoutEnvFile() Option {
	return func(opts *coreOptions) {
		opts.configOptions = append(opts.configOptions, config.WithoutEnvFile())
	}
}

// WithoutConfigFile disables loading of config file.
// Useful for tests where configuration is provided via options.
func WithoutConfigFile() Option {
	return func(opts *coreOptions) {
		opts.configOptions = append(opts.configOptions, config.WithoutConfigFile())
	}
}

// NewCoreModule provides core functionality: config and logger.
//
// Example usage:
//
//	// Production - loads config from environment/viper
//	core.NewCoreModule()
//
//	// Testing - with static configs
//	core.NewCoreModule(
//	    core.WithLoggerConfig(logger.Config{...}),
//	    core.WithoutEnvFile(),
//	    core.WithoutConfigFile(),
//	)
func NewCoreModule(opts ...Option) fx.Option {
	cfg := &coreOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		fx.StartTimeout(30*time.Second),
		fx.StopTimeout(30*time.Second),

		config.NewConfigModule(cfg.configOptions...),
		logger.NewZapLoggingModule(cfg.loggerOptions...),
	)
}
