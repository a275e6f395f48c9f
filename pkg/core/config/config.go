package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Environment variable names
const (
	envAppEnv         = "APP_ENV"
	envAppServiceName = "APP_SERVICE_NAME"
	envConfigFile     = "CONFIG_FILE"
)

const defaultServiceName = "exclog"

// AppConfig represents the application identity and the configuration file location.
type AppConfig struct {
	// ConfigFile is the full path to the config file. Empty means no file is read.
	ConfigFile string
	// ServiceName is the name of the service
	ServiceName string
	// Environment is the deployment environment (e.g., "local", "staging", "pro")
	Environment string
}

type moduleOptions struct {
	appConfig    *AppConfig
	configPath   *string
	noConfigFile bool
	dotEnvPath   string
}

// Option configures NewConfigModule.
type Option func(*moduleOptions)

// WithAppConfig provides a static AppConfig (useful for tests).
// When set, the AppConfig will not be loaded from environment variables.
func WithAppConfig(cfg AppConfig) Option {
	return func(o *moduleOptions) {
		o.appConfig = &cfg
	}
}

// WithConfigPath sets a direct path to the configuration file.
// Overrides CONFIG_FILE.
func WithConfigPath(path string) Option {
	return func(o *moduleOptions) {
		o.configPath = &path
	}
}

// WithoutConfigFile disables loading of any config file.
// Viper will still be available for DI but with no file-based configuration.
func WithoutConfigFile() Option {
	return func(o *moduleOptions) {
		o.noConfigFile = true
	}
}

// WithoutEnvFile disables loading of the .env file.
func WithoutEnvFile() Option {
	return func(o *moduleOptions) {
		o.dotEnvPath = ""
	}
}

// NewConfigModule creates an fx module providing AppConfig and *viper.Viper.
//
// The module uses the following environment variables:
//   - APP_ENV: Environment name - OPTIONAL (default: local)
//   - APP_SERVICE_NAME: Service name - OPTIONAL (default: exclog)
//   - CONFIG_FILE: Path to a YAML config file - OPTIONAL
//
// A .env file in the working directory is loaded first, unless WithoutEnvFile is given.
func NewConfigModule(opts ...Option) fx.Option {
	o := &moduleOptions{dotEnvPath: ".env"}
	for _, opt := range opts {
		opt(o)
	}

	dotEnvLoaded := o.dotEnvPath != "" && godotenv.Load(o.dotEnvPath) == nil

	appConfig := fx.Provide(newAppConfig)
	if o.appConfig != nil {
		appConfig = fx.Supply(*o.appConfig)
	}

	return fx.Module("config",
		appConfig,
		fx.Provide(func(conf AppConfig) (*viper.Viper, error) {
			return newViper(resolveConfigPath(o, conf))
		}),
		fx.Invoke(func(logger *zap.Logger, conf AppConfig, v *viper.Viper) {
			logger.Info("Configuration loaded",
				zap.String("service", conf.ServiceName),
				zap.String("environment", conf.Environment),
				zap.String("configFile", v.ConfigFileUsed()),
				zap.Bool("dotEnvFound", dotEnvLoaded),
				zap.Strings("configKeys", v.AllKeys()),
			)
		}),
	)
}

// newAppConfig creates a new AppConfig by reading environment variables.
func newAppConfig() AppConfig {
	env := os.Getenv(envAppEnv)
	if env == "" {
		env = "local"
	}
	serviceName := os.Getenv(envAppServiceName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	return AppConfig{
		ConfigFile:  os.Getenv(envConfigFile),
		ServiceName: serviceName,
		Environment: env,
	}
}

func resolveConfigPath(o *moduleOptions, conf AppConfig) string {
	switch {
	case o.noConfigFile:
		return ""
	case o.configPath != nil:
		return *o.configPath
	default:
		return conf.ConfigFile
	}
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}
	return v, nil
}
