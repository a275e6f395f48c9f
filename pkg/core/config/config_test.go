package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	t.Setenv(envAppEnv, "")
	t.Setenv(envAppServiceName, "")
	t.Setenv(envConfigFile, "")

	cfg := newAppConfig()

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Empty(t, cfg.ConfigFile)
}

func TestNewAppConfig_FromEnvironment(t *testing.T) {
	t.Setenv(envAppEnv, "pro")
	t.Setenv(envAppServiceName, "orders")
	t.Setenv(envConfigFile, "/etc/orders.yaml")

	cfg := newAppConfig()

	assert.Equal(t, AppConfig{ConfigFile: "/etc/orders.yaml", ServiceName: "orders", Environment: "pro"}, cfg)
}

func TestNewViper_ReadsFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("exclog:\n  ignore: builtins.EOF\n"), 0o600))

	v, err := newViper(configFile)

	require.NoError(t, err)
	assert.Equal(t, "builtins.EOF", v.GetString("exclog.ignore"))
}

func TestNewViper_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("exclog: [[["), 0o600))

	for name, path := range map[string]string{
		"missing": filepath.Join(dir, "missing.yaml"),
		"invalid": invalid,
	} {
		t.Run(name, func(t *testing.T) {
			v, err := newViper(path)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Contains(t, err.Error(), "failed to read config file")
		})
	}
}

func TestNewViper_EnvironmentOverride(t *testing.T) {
	t.Setenv("EXCLOG_SCRIPT_NAME", "/app")

	v, err := newViper("")

	require.NoError(t, err)
	assert.Equal(t, "/app", v.GetString("exclog.script_name"))
}

func TestNewConfigModule_Options(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 9090\n"), 0o600))

	tests := []struct {
		name     string
		opts     []Option
		wantPort int
	}{
		{name: "config path", opts: []Option{WithConfigPath(configFile)}, wantPort: 9090},
		{name: "app config", opts: []Option{WithAppConfig(AppConfig{ConfigFile: configFile})}, wantPort: 9090},
		{name: "without file", opts: []Option{WithConfigPath(configFile), WithoutConfigFile()}, wantPort: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v *viper.Viper
			app := fxtest.New(t,
				fx.NopLogger,
				fx.Supply(zap.NewNop()),
				NewConfigModule(append(tt.opts, WithoutEnvFile())...),
				fx.Populate(&v),
			)
			app.RequireStart().RequireStop()

			assert.Equal(t, tt.wantPort, v.GetInt("server.port"))
		})
	}
}
