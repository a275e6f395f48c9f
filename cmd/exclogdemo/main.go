// Package main provides exclogdemo, a small HTTP service wired with the exception logger.
//
// Usage:
//
//	exclogdemo serve --config ./configs/config.yaml
//	exclogdemo check-config --config ./configs/config.yaml
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Sokol111/exclog/pkg/core"
	"github.com/Sokol111/exclog/pkg/exclog"
	"github.com/Sokol111/exclog/pkg/modules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "exclogdemo",
		Short:   "Demo HTTP service for the exception logger",
		Version: version,
	}

	rootCmd.AddCommand(newServeCmd(), newCheckConfigCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo HTTP service",
		Long: `Run the demo HTTP service.

Routes:
  /ok        200
  /boom      panics with an error, logged and answered with 500
  /missing   panics with a 404 HTTPError, ignored by default
  /redirect  panics with a 303 redirect, ignored by default
  /recorded  records an error and answers 502`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []core.Option
			if configPath != "" {
				opts = append(opts, core.WithConfigPath(configPath))
			}
			fx.New(newApp(opts...)).Run()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file (default: $CONFIG_FILE)")

	return cmd
}

func newApp(opts ...core.Option) fx.Option {
	return fx.Options(
		modules.NewCoreModule(opts...),
		modules.NewObservabilityModule(),
		modules.NewHTTPModule(),
		fx.Invoke(registerRoutes),
	)
}

func newCheckConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate the exclog section of a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckConfig(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCheckConfig(cmd *cobra.Command, configPath string) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file [%s]: %w", configPath, err)
	}

	cfg, err := exclog.LoadConfig(v)
	if err != nil {
		return err
	}
	s, err := exclog.Resolve(cfg, exclog.NewRegistry(zap.NewNop()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ignore matchers: %d\n", s.IgnoreCount())
	fmt.Fprintf(out, "hidden cookies:  %s\n", strings.Join(s.HiddenCookies(), ", "))
	fmt.Fprintf(out, "script name:     %q\n", s.ScriptName())
	fmt.Fprintln(out, "exclog config OK")
	return nil
}
