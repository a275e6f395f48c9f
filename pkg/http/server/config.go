package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultPort = 8080

type Config struct {
	Port int `mapstructure:"port"`

	// Server connection settings
	Connection ConnectionConfig `mapstructure:"connection"`

	// Rate Limiting
	RateLimit RateLimitConfig `mapstructure:"rate-limit"`

	// HTTP Bulkhead
	Bulkhead BulkheadConfig `mapstructure:"bulkhead"`
}

// ConnectionConfig contains low-level HTTP server connection settings.
// These are "hard" timeouts that close the connection without HTTP response.
type ConnectionConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout"` // Slowloris protection
	ReadTimeout       time.Duration `mapstructure:"read-timeout"`
	WriteTimeout      time.Duration `mapstructure:"write-timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle-timeout"` // keep-alive
	MaxHeaderBytes    int           `mapstructure:"max-header-bytes"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests-per-second"`
	Burst             int  `mapstructure:"burst"`
}

type BulkheadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxConcurrent int           `mapstructure:"max-concurrent"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	cfg := Config{Port: defaultPort}
	if sub := v.Sub("server"); sub != nil {
		if err := sub.UnmarshalExact(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load server config: %w", err)
		}
	}
	cfg.SetDefaults()

	logger.Info("loaded server config", zap.Any("config", cfg))
	return cfg, nil
}

// SetDefaults fills unset values. Rate limiting and the bulkhead stay disabled unless
// enabled explicitly.
func (c *Config) SetDefaults() {
	c.Connection.setDefaults()
	c.RateLimit.setDefaults()
	c.Bulkhead.setDefaults()
}

func (c *ConnectionConfig) setDefaults() {
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 40 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = 1 << 20
	}
}

func (c *RateLimitConfig) setDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 1000
	}
	if c.Burst == 0 {
		c.Burst = 100
	}
}

func (c *BulkheadConfig) setDefaults() {
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 500
	}
	if c.Timeout == 0 {
		c.Timeout = 100 * time.Millisecond
	}
}
