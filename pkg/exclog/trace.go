package exclog

import (
	"context"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Trace describes a single failure: the error, the stack at the point of failure and
// correlation identifiers. It is passed explicitly instead of being read from ambient state.
type Trace struct {
	// ID identifies the incident across the primary and fallback log entries.
	ID string
	// Err is the failure. Recovered panic values that are not errors are wrapped in
	// *PanicError.
	Err error
	// Stack of the goroutine where the failure was captured.
	Stack []byte
	// TraceID of the request span, empty when the request is not traced.
	TraceID string
}

// CaptureTrace builds a Trace from a value returned by recover. It must be called from the
// deferred function that recovered, so that Stack still shows the panicking frames.
func CaptureTrace(ctx context.Context, recovered any) Trace {
	err, ok := recovered.(error)
	if !ok {
		err = &PanicError{Value: recovered}
	}
	return newTrace(ctx, err, debug.Stack())
}

// NewTrace builds a Trace for err with the caller's stack.
func NewTrace(ctx context.Context, err error) Trace {
	return newTrace(ctx, err, debug.Stack())
}

func newTrace(ctx context.Context, err error, stack []byte) Trace {
	t := Trace{
		ID:    uuid.NewString(),
		Err:   err,
		Stack: stack,
	}
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			t.TraceID = sc.TraceID().String()
		}
	}
	return t
}
