package middleware

import (
	"github.com/Sokol111/exclog/pkg/exclog"
	"go.uber.org/fx"
)

// excLogMiddleware places the exception logger over the exception view, so failures it
// renders are still logged, and over the transaction manager when one is registered.
func excLogMiddleware(h *exclog.ErrorHandler, priority int) Middleware {
	return Middleware{
		Name:     ExcLogName,
		Priority: priority,
		Over:     []string{ExcViewName, TransactionName},
		Handler:  h.Middleware,
	}
}

// ExcLogModule provides the exception logger middleware. It needs an *exclog.ErrorHandler,
// see exclog.NewExcLogModule.
func ExcLogModule(priority int) fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(h *exclog.ErrorHandler) Middleware {
				return excLogMiddleware(h, priority)
			},
			fx.ResultTags(`group:"http_mw"`),
		),
	)
}
