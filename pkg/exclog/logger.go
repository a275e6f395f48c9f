package exclog

import (
	"log/slog"

	"go.uber.org/zap"
)

// LoggerName is the name passed to the logger factory.
const LoggerName = "exc_logger"

// Logger receives formatted failure messages.
type Logger interface {
	Error(message string, trace Trace)
}

// LoggerFactory returns the logger registered under name.
type LoggerFactory func(name string) Logger

// ZapLoggerFactory returns a factory producing named children of base.
func ZapLoggerFactory(base *zap.Logger) LoggerFactory {
	return func(name string) Logger {
		return &zapLogger{log: base.Named(name)}
	}
}

type zapLogger struct {
	log *zap.Logger
}

func (l *zapLogger) Error(message string, trace Trace) {
	l.log.Error(message, traceFields(trace)...)
}

func traceFields(trace Trace) []zap.Field {
	fields := []zap.Field{
		zap.String("incident_id", trace.ID),
		zap.Error(trace.Err),
		zap.ByteString("stack", trace.Stack),
	}
	if trace.TraceID != "" {
		fields = append(fields, zap.String("trace_id", trace.TraceID))
	}
	return fields
}

// SlogLoggerFactory returns a factory writing through the default slog logger.
func SlogLoggerFactory() LoggerFactory {
	return func(name string) Logger {
		return &slogLogger{log: slog.Default().With(slog.String("logger", name))}
	}
}

type slogLogger struct {
	log *slog.Logger
}

func (l *slogLogger) Error(message string, trace Trace) {
	attrs := []any{
		slog.String("incident_id", trace.ID),
		slog.Any("error", trace.Err),
		slog.String("stack", string(trace.Stack)),
	}
	if trace.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", trace.TraceID))
	}
	l.log.Error(message, attrs...)
}
