package exclog

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newTestViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestNewConfig(t *testing.T) {
	t.Run("reads exclog section", func(t *testing.T) {
		v := newTestViper(t, `
exclog:
  ignore: EOF Canceled
  extra_info: true
  get_message: exclog.URLMessage
  hidden_cookies:
    - session
    - csrf
  getLogger: slog
  script_name: /app
`)

		cfg, err := LoadConfig(v)

		require.NoError(t, err)
		assert.Equal(t, []string{"EOF", "Canceled"}, SplitNames(cfg.Ignore...))
		assert.True(t, cfg.ExtraInfo)
		assert.Equal(t, "exclog.URLMessage", cfg.GetMessage)
		assert.Equal(t, []string{"session", "csrf"}, cfg.HiddenCookies)
		assert.Equal(t, "slog", cfg.GetLogger)
		assert.Equal(t, "/app", cfg.ScriptName)
	})

	t.Run("missing section gives defaults", func(t *testing.T) {
		v := newTestViper(t, `
server:
  port: 8080
`)

		cfg, err := LoadConfig(v)

		require.NoError(t, err)
		assert.Nil(t, cfg.Ignore)
		assert.False(t, cfg.ExtraInfo)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		v := newTestViper(t, `
exclog:
  ignored: EOF
`)

		_, err := LoadConfig(v)

		assert.Error(t, err)
	})
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no section", content: "server:\n  port: 8080\n"},
		{name: "section without key", content: "exclog:\n  extra_info: true\n"},
		{name: "section with key", content: "exclog:\n  script_name: /file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EXCLOG_SCRIPT_NAME", "/app")
			t.Setenv("EXCLOG_HIDDEN_COOKIES", "session")

			cfg, err := LoadConfig(newTestViper(t, tt.content))

			require.NoError(t, err)
			assert.Equal(t, "/app", cfg.ScriptName)
			assert.Equal(t, []string{"session"}, cfg.HiddenCookies)
			assert.Nil(t, cfg.Ignore)
		})
	}
}

func TestNewExcLogModule(t *testing.T) {
	var handler *ErrorHandler
	var settings Settings

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(zap.NewNop()),
		NewExcLogModule(
			WithConfig(Config{Ignore: []string{"app.quotaError"}, HiddenCookies: []string{"session"}}),
			WithRegistration(func(r *Registry) error {
				r.RegisterMatcher("app.quotaError", MatchType[quotaError]())
				return nil
			}),
		),
		fx.Populate(&handler, &settings),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, handler)
	assert.Equal(t, 1, settings.IgnoreCount())
	assert.Equal(t, []string{"session"}, settings.HiddenCookies())
}

func TestNewExcLogModule_FailsFast(t *testing.T) {
	t.Run("unknown name", func(t *testing.T) {
		app := fx.New(
			fx.NopLogger,
			fx.Supply(zap.NewNop()),
			NewExcLogModule(WithConfig(Config{Ignore: []string{"app.quotaError"}})),
			fx.Invoke(func(*ErrorHandler) {}),
		)

		err := app.Err()
		require.Error(t, err)
		assert.ErrorContains(t, err, "app.quotaError")
	})

	t.Run("registration error", func(t *testing.T) {
		app := fx.New(
			fx.NopLogger,
			fx.Supply(zap.NewNop()),
			NewExcLogModule(WithConfig(Config{}), WithRegistration(func(*Registry) error {
				return errors.New("duplicate name")
			})),
			fx.Invoke(func(*ErrorHandler) {}),
		)

		assert.ErrorContains(t, app.Err(), "duplicate name")
	})
}
