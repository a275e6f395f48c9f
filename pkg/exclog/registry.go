package exclog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const builtinsPrefix = "builtins."

// Matcher reports whether err belongs to an ignored error type.
type Matcher func(err error) bool

// MatchType matches errors that have a T in their chain.
func MatchType[T error]() Matcher {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// MatchIs matches errors that wrap target.
func MatchIs(target error) Matcher {
	return func(err error) bool {
		return errors.Is(err, target)
	}
}

// MatchAny matches every non-nil error.
func MatchAny() Matcher {
	return func(err error) bool {
		return err != nil
	}
}

// Registry maps configuration names to matchers, logger factories and message
// strategies. It is filled during setup and only read once settings are resolved.
type Registry struct {
	mu       sync.RWMutex
	matchers map[string]Matcher
	loggers  map[string]LoggerFactory
	messages map[string]MessageFunc
}

// NewRegistry creates a registry with the builtin names. The "zap" logger factory
// produces named children of log.
func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{
		matchers: map[string]Matcher{},
		loggers:  map[string]LoggerFactory{},
		messages: map[string]MessageFunc{},
	}

	r.RegisterMatcher(builtinsPrefix+"error", MatchAny())
	r.RegisterMatcher(builtinsPrefix+"PanicError", MatchType[*PanicError]())
	r.RegisterMatcher(builtinsPrefix+"Canceled", MatchIs(context.Canceled))
	r.RegisterMatcher(builtinsPrefix+"DeadlineExceeded", MatchIs(context.DeadlineExceeded))
	r.RegisterMatcher(builtinsPrefix+"EOF", MatchIs(io.EOF))
	r.RegisterMatcher(builtinsPrefix+"ErrAbortHandler", MatchIs(http.ErrAbortHandler))
	r.RegisterMatcher(DefaultIgnore, MatchType[*HTTPError]())

	r.RegisterMessage("exclog.URLMessage", URLMessage)
	r.RegisterMessage("exclog.VerboseMessage", VerboseMessage)

	r.RegisterLoggerFactory(DefaultLoggerFactory, ZapLoggerFactory(log))
	r.RegisterLoggerFactory("slog", SlogLoggerFactory())

	return r
}

// RegisterMatcher registers an ignore matcher under name.
func (r *Registry) RegisterMatcher(name string, m Matcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchers[name] = m
}

// RegisterLoggerFactory registers a logger factory under name.
func (r *Registry) RegisterLoggerFactory(name string, f LoggerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers[name] = f
}

// RegisterMessage registers a message strategy under name.
func (r *Registry) RegisterMessage(name string, f MessageFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[name] = f
}

// Matchers resolves names to matchers, in order.
func (r *Registry) Matchers(names []string) ([]Matcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Matcher, 0, len(names))
	for _, name := range names {
		m, ok := r.matchers[r.qualify(name)]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownName)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoggerFactory resolves a logger factory by name.
func (r *Registry) LoggerFactory(name string) (LoggerFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.loggers[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownName)
	}
	return f, nil
}

// Message resolves a message strategy by name.
func (r *Registry) Message(name string) (MessageFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.messages[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownName)
	}
	return f, nil
}

// qualify maps a bare builtin name such as "EOF" to "builtins.EOF".
func (r *Registry) qualify(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if _, ok := r.matchers[builtinsPrefix+name]; ok {
		return builtinsPrefix + name
	}
	return name
}

// SplitNames flattens values that hold one name, or several separated by commas or
// whitespace. Empty items and duplicates are dropped; order is kept.
func SplitNames(values ...string) []string {
	var names []string
	for _, v := range values {
		names = append(names, strings.FieldsFunc(v, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})...)
	}
	return lo.Uniq(lo.Compact(names))
}
