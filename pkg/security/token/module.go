package token

import (
	"github.com/Sokol111/exclog/pkg/http/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// IdentityName is the name of the identity middleware.
const IdentityName = "identity"

type tokenOptions struct {
	config *Config
}

// TokenOption is a functional option for configuring the identity module.
type TokenOption func(*tokenOptions)

// WithTokenConfig provides a static Config (useful for tests).
func WithTokenConfig(cfg Config) TokenOption {
	return func(opts *tokenOptions) {
		opts.config = &cfg
	}
}

// NewIdentityModule registers the identity middleware in the "http_mw" group. It wraps
// the exception logger so incident reports carry the token subject. Without a configured
// public key the middleware stays out of the chain.
//
// Example configuration:
//
//	security:
//	  token:
//	    public-key: 1eb9dbbbbc047c03fd70604e0071f0987e16b28b757225c11f00415d0e20b1a2
func NewIdentityModule(opts ...TokenOption) fx.Option {
	o := &tokenOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.config != nil {
		configOption = fx.Supply(*o.config)
	}

	return fx.Module("identity",
		configOption,
		fx.Provide(
			fx.Annotate(provideIdentityMiddleware, fx.ResultTags(`group:"http_mw"`)),
		),
	)
}

func provideIdentityMiddleware(cfg Config, log *zap.Logger) (middleware.Middleware, error) {
	mw := middleware.Middleware{
		Name:     IdentityName,
		Priority: 15,
		Over:     []string{middleware.ExcLogName},
	}
	if cfg.PublicKey == "" {
		log.Info("identity: no public key, bearer tokens are not inspected")
		return mw, nil
	}

	validator, err := newTokenValidator(cfg)
	if err != nil {
		return mw, err
	}
	mw.Handler = identityMiddleware(validator)
	return mw, nil
}
