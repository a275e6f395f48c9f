package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Well-known middleware names used in ordering constraints.
const (
	AccessLogName   = "access-log"
	ExcLogName      = "exclog"
	ExcViewName     = "excview"
	TransactionName = "tm"
)

// ErrOrderCycle is returned when Over/Under constraints contradict each other.
var ErrOrderCycle = errors.New("middleware ordering constraints form a cycle")

// Middleware represents an HTTP middleware with ordering hints.
// Over lists middlewares this one must wrap, Under lists middlewares that must wrap this
// one; names that are not registered are ignored. Remaining ties are broken by Priority
// (lower = outer), then by Name.
type Middleware struct {
	Name     string
	Priority int
	Over     []string
	Under    []string
	Handler  func(http.Handler) http.Handler
}

// Order returns the middlewares with a Handler, outermost first.
func Order(mws []Middleware) ([]Middleware, error) {
	active := lo.Filter(mws, func(m Middleware, _ int) bool { return m.Handler != nil })

	index := make(map[string]int, len(active))
	for i, m := range active {
		if m.Name == "" {
			continue
		}
		if _, dup := index[m.Name]; dup {
			return nil, fmt.Errorf("duplicate middleware %q", m.Name)
		}
		index[m.Name] = i
	}

	inner := make([][]int, len(active))
	indegree := make([]int, len(active))
	wrap := func(outer, in int) {
		inner[outer] = append(inner[outer], in)
		indegree[in]++
	}
	for i, m := range active {
		for _, name := range m.Over {
			if j, ok := index[name]; ok && j != i {
				wrap(i, j)
			}
		}
		for _, name := range m.Under {
			if j, ok := index[name]; ok && j != i {
				wrap(j, i)
			}
		}
	}

	less := func(a, b int) bool {
		if active[a].Priority != active[b].Priority {
			return active[a].Priority < active[b].Priority
		}
		if active[a].Name != active[b].Name {
			return active[a].Name < active[b].Name
		}
		return a < b
	}

	var ready []int
	for i := range active {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]Middleware, 0, len(active))
	for len(ready) > 0 {
		sort.Slice(ready, func(x, y int) bool { return less(ready[x], ready[y]) })
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, active[i])
		for _, j := range inner[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}

	if len(ordered) != len(active) {
		return nil, ErrOrderCycle
	}
	return ordered, nil
}

// Chain wraps h with mws in the order computed by Order.
func Chain(mws []Middleware, h http.Handler) (http.Handler, error) {
	ordered, err := Order(mws)
	if err != nil {
		return nil, err
	}
	return apply(ordered, h), nil
}

// apply wraps h with already ordered middlewares, outermost first.
func apply(ordered []Middleware, h http.Handler) http.Handler {
	for i := len(ordered) - 1; i >= 0; i-- {
		h = ordered[i].Handler(h)
	}
	return h
}

// requestFields returns common request fields for logging.
func requestFields(r *http.Request) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.String("client_ip", r.RemoteAddr),
	}
}
