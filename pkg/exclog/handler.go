package exclog

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrorHandler filters, formats and logs request failures. It is immutable after
// construction and safe for concurrent use.
type ErrorHandler struct {
	ignored       []Matcher
	getLogger     LoggerFactory
	getMessage    MessageFunc
	hiddenCookies []string
	scriptName    string
	identity      IdentityFunc
	fallback      Logger
	metrics       handlerMetrics
}

// HandlerOption customises an ErrorHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	fallback      *zap.Logger
	identity      IdentityFunc
	meterProvider metric.MeterProvider
}

// WithFallbackLogger sets the zap logger used for the "Exception while logging" entry
// when the configured logger factory itself fails. Defaults to zap.L().
func WithFallbackLogger(log *zap.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.fallback = log
	}
}

// WithIdentity overrides how the middleware extracts the unauthenticated user.
func WithIdentity(f IdentityFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.identity = f
	}
}

// WithMeterProvider sets the provider for the exclog.exceptions counter. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) HandlerOption {
	return func(o *handlerOptions) {
		o.meterProvider = mp
	}
}

// NewErrorHandler creates an ErrorHandler from resolved settings.
func NewErrorHandler(s Settings, opts ...HandlerOption) *ErrorHandler {
	o := &handlerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fallback == nil {
		o.fallback = zap.L()
	}

	getMessage := s.getMessage
	if getMessage == nil {
		getMessage = URLMessage
	}

	return &ErrorHandler{
		ignored:       slices.Clone(s.ignored),
		getLogger:     s.getLogger,
		getMessage:    getMessage,
		hiddenCookies: slices.Clone(s.hiddenCookies),
		scriptName:    s.scriptName,
		identity:      o.identity,
		fallback:      ZapLoggerFactory(o.fallback)(LoggerName),
		metrics:       newHandlerMetrics(o.meterProvider),
	}
}

// Handle logs trace for req unless its error is ignored. Failures while formatting or
// writing are reported once more as "Exception while logging"; a panic from that last
// attempt is not recovered.
func (h *ErrorHandler) Handle(ctx context.Context, req Request, trace Trace) {
	if trace.Err == nil {
		return
	}
	if h.ignores(trace.Err) {
		h.metrics.record(ctx, outcomeIgnored)
		return
	}

	logger, failure, ok := h.write(ctx, req, trace)
	if ok {
		h.metrics.record(ctx, outcomeLogged)
		return
	}

	h.metrics.record(ctx, outcomeFailed)
	if logger == nil {
		logger = h.fallback
	}
	logger.Error("Exception while logging", failure)
}

func (h *ErrorHandler) ignores(err error) bool {
	for _, m := range h.ignored {
		if m(err) {
			return true
		}
	}
	return false
}

func (h *ErrorHandler) write(ctx context.Context, req Request, trace Trace) (logger Logger, failure Trace, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			failure = CaptureTrace(ctx, r)
			ok = false
		}
	}()

	if len(h.hiddenCookies) > 0 {
		req = req.WithHiddenCookies(h.hiddenCookies, HiddenPlaceholder)
	}
	if h.getLogger == nil {
		panic("exclog: no logger factory configured")
	}
	logger = h.getLogger(LoggerName)
	message := h.getMessage(req)
	logger.Error(message, trace)
	return logger, Trace{}, true
}
