package token

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the configuration for PASETO token validation.
type Config struct {
	// PublicKey is the hex-encoded Ed25519 public key for verifying tokens.
	PublicKey string `mapstructure:"public-key"`
}

// newConfig reads "security.token". A missing section or key yields the zero Config,
// which disables the identity middleware.
func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("security.token")
	if sub == nil {
		return cfg, nil
	}
	if err := sub.UnmarshalExact(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load token config: %w", err)
	}
	return cfg, nil
}
