package exclog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type handlerIn struct {
	fx.In
	Settings      Settings
	Log           *zap.Logger
	MeterProvider metric.MeterProvider `optional:"true"`
}

type moduleOptions struct {
	config        *Config
	registrations []func(*Registry) error
	handlerOpts   []HandlerOption
}

// Option configures NewExcLogModule.
type Option func(*moduleOptions)

// WithConfig provides a static Config (useful for tests).
// When set, the configuration will not be loaded from viper.
func WithConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		o.config = &cfg
	}
}

// WithRegistration registers application names (error types, logger factories, message
// strategies) before the configuration is resolved.
func WithRegistration(register func(*Registry) error) Option {
	return func(o *moduleOptions) {
		o.registrations = append(o.registrations, register)
	}
}

// WithHandlerOptions passes options to NewErrorHandler.
func WithHandlerOptions(opts ...HandlerOption) Option {
	return func(o *moduleOptions) {
		o.handlerOpts = append(o.handlerOpts, opts...)
	}
}

// NewExcLogModule provides the resolved Settings and the *ErrorHandler.
// The configuration is read from the "exclog" section unless WithConfig is used.
func NewExcLogModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Module("exclog",
		configProvider(o),
		fx.Provide(
			func(log *zap.Logger) (*Registry, error) {
				reg := NewRegistry(log)
				for _, register := range o.registrations {
					if err := register(reg); err != nil {
						return nil, fmt.Errorf("failed to register exclog names: %w", err)
					}
				}
				return reg, nil
			},
			provideSettings,
			func(in handlerIn) *ErrorHandler {
				handlerOpts := []HandlerOption{WithFallbackLogger(in.Log)}
				if in.MeterProvider != nil {
					handlerOpts = append(handlerOpts, WithMeterProvider(in.MeterProvider))
				}
				return NewErrorHandler(in.Settings, append(handlerOpts, o.handlerOpts...)...)
			},
		),
	)
}

func configProvider(o *moduleOptions) fx.Option {
	if o.config != nil {
		return fx.Supply(*o.config)
	}
	return fx.Provide(LoadConfig)
}

// configKeys are the keys of the "exclog" section that can be overridden from the
// environment as EXCLOG_<KEY>.
var configKeys = []string{"ignore", "extra_info", "get_message", "hidden_cookies", "getLogger", "script_name"}

// LoadConfig reads the "exclog" section of v. A missing section yields the zero Config.
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	for _, key := range configKeys {
		if err := v.BindEnv("exclog."+key, "EXCLOG_"+strings.ToUpper(key)); err != nil {
			return cfg, fmt.Errorf("failed to bind exclog env: %w", err)
		}
	}

	section, ok := v.AllSettings()["exclog"].(map[string]any)
	if !ok {
		return cfg, nil
	}
	sub := viper.New()
	if err := sub.MergeConfigMap(section); err != nil {
		return cfg, fmt.Errorf("failed to load exclog config: %w", err)
	}
	if err := sub.UnmarshalExact(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load exclog config: %w", err)
	}
	return cfg, nil
}

func provideSettings(cfg Config, reg *Registry, log *zap.Logger) (Settings, error) {
	s, err := Resolve(cfg, reg)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve exclog config: %w", err)
	}
	log.Info("exception logger configured",
		zap.Int("ignore", s.IgnoreCount()),
		zap.Bool("extra_info", cfg.ExtraInfo),
		zap.String("get_message", cfg.GetMessage),
		zap.Strings("hidden_cookies", s.HiddenCookies()),
		zap.String("getLogger", cfg.GetLogger),
	)
	return s, nil
}
