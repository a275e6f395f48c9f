package logger

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level specifies the minimum logging level ("debug", "info", "warn", "error", ...).
	Level zapcore.Level `mapstructure:"level"`

	// Development enables console encoding and human-readable timestamps.
	// In production mode (false), JSON encoding is used.
	Development bool `mapstructure:"development"`

	// OutputPaths is a list of URLs or file paths to write logging output to.
	// If empty, defaults to stderr.
	OutputPaths []string `mapstructure:"outputPaths"`

	// ErrorOutputPaths is a list of URLs or file paths to write internal logger errors to.
	// If empty, defaults to stderr.
	ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`

	// StacktraceLevel sets the minimum level at which zap adds its own stacktrace.
	// Defaults to ErrorLevel. Entries written by the exception logger carry their own
	// "stack" field, so "dpanic" keeps them from carrying two.
	StacktraceLevel zapcore.Level `mapstructure:"stacktraceLevel"`
}

// DefaultConfig returns the configuration used when the "logger" section is missing.
func DefaultConfig() Config {
	return Config{
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
}

func (c Config) Validate() error {
	if err := validatePaths(c.OutputPaths, "outputPaths"); err != nil {
		return err
	}
	return validatePaths(c.ErrorOutputPaths, "errorOutputPaths")
}

func validatePaths(paths []string, fieldName string) error {
	for i, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s[%d] cannot be empty or whitespace", fieldName, i)
		}
	}
	return nil
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	sub := v.Sub("logger")
	if sub == nil {
		return cfg, nil
	}

	// zapcore.Level implements encoding.TextUnmarshaler, so "debug" decodes directly.
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := sub.UnmarshalExact(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid logger config: %w", err)
	}
	return cfg, nil
}
