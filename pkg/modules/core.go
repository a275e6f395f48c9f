package modules

import (
	"github.com/Sokol111/exclog/pkg/core"
	"go.uber.org/fx"
)

// NewCoreModule provides core functionality: config and logger
func NewCoreModule(opts ...core.Option) fx.Option {
	return core.NewCoreModule(opts...)
}
