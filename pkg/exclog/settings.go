package exclog

import (
	"github.com/samber/lo"
)

const (
	// DefaultIgnore names the HTTP error type, ignored unless configured otherwise.
	DefaultIgnore = "exclog.HTTPError"
	// DefaultLoggerFactory names the zap logger factory.
	DefaultLoggerFactory = "zap"
	// HiddenPlaceholder replaces the values of hidden cookies.
	HiddenPlaceholder = "hidden"
)

// Config is the raw "exclog" configuration section.
type Config struct {
	// Ignore lists error type names that are never logged. Nil means DefaultIgnore; an
	// empty, non-nil list ignores nothing.
	Ignore []string `mapstructure:"ignore"`

	// ExtraInfo selects VerboseMessage instead of URLMessage.
	ExtraInfo bool `mapstructure:"extra_info"`

	// GetMessage names a registered message strategy. It takes precedence over ExtraInfo.
	GetMessage string `mapstructure:"get_message"`

	// HiddenCookies lists cookies whose values are replaced before formatting.
	HiddenCookies []string `mapstructure:"hidden_cookies"`

	// GetLogger names a registered logger factory. Defaults to DefaultLoggerFactory.
	GetLogger string `mapstructure:"getLogger"`

	// ScriptName is the mount prefix of the application, reported as SCRIPT_NAME.
	ScriptName string `mapstructure:"script_name"`

	// Already resolved values, set from code.
	IgnoreMatchers []Matcher     `mapstructure:"-"`
	Message        MessageFunc   `mapstructure:"-"`
	LoggerFactory  LoggerFactory `mapstructure:"-"`
}

// Settings is the resolved, immutable form of Config.
type Settings struct {
	ignored       []Matcher
	getLogger     LoggerFactory
	getMessage    MessageFunc
	hiddenCookies []string
	scriptName    string
}

// HiddenCookies returns a copy of the configured cookie names.
func (s Settings) HiddenCookies() []string {
	return append([]string(nil), s.hiddenCookies...)
}

// IgnoreCount returns the number of ignore matchers.
func (s Settings) IgnoreCount() int {
	return len(s.ignored)
}

// ScriptName returns the configured mount prefix.
func (s Settings) ScriptName() string {
	return s.scriptName
}

// Resolve turns cfg into Settings, looking names up in reg. Any unknown name fails with a
// *ConfigError.
func Resolve(cfg Config, reg *Registry) (Settings, error) {
	ignoreNames := []string{DefaultIgnore}
	if cfg.Ignore != nil {
		ignoreNames = SplitNames(cfg.Ignore...)
	}
	ignored, err := reg.Matchers(ignoreNames)
	if err != nil {
		return Settings{}, &ConfigError{Setting: "ignore", Err: err}
	}
	ignored = append(ignored, lo.Filter(cfg.IgnoreMatchers, func(m Matcher, _ int) bool {
		return m != nil
	})...)

	getMessage, err := resolveMessage(cfg, reg)
	if err != nil {
		return Settings{}, err
	}

	getLogger := cfg.LoggerFactory
	if getLogger == nil {
		name := lo.Ternary(cfg.GetLogger == "", DefaultLoggerFactory, cfg.GetLogger)
		getLogger, err = reg.LoggerFactory(name)
		if err != nil {
			return Settings{}, &ConfigError{Setting: "getLogger", Name: name, Err: err}
		}
	}

	return Settings{
		ignored:       ignored,
		getLogger:     getLogger,
		getMessage:    getMessage,
		hiddenCookies: SplitNames(cfg.HiddenCookies...),
		scriptName:    cfg.ScriptName,
	}, nil
}

func resolveMessage(cfg Config, reg *Registry) (MessageFunc, error) {
	if cfg.Message != nil {
		return cfg.Message, nil
	}
	if cfg.GetMessage != "" {
		f, err := reg.Message(cfg.GetMessage)
		if err != nil {
			return nil, &ConfigError{Setting: "get_message", Name: cfg.GetMessage, Err: err}
		}
		return f, nil
	}
	if cfg.ExtraInfo {
		return VerboseMessage, nil
	}
	return URLMessage, nil
}
