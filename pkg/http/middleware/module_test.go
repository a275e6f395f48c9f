package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sokol111/exclog/pkg/exclog"
	"github.com/Sokol111/exclog/pkg/http/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestApp(t *testing.T, cfg exclog.Config, routes func(mux *http.ServeMux)) http.Handler {
	t.Helper()
	var h http.Handler
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(zap.NewNop(), server.Config{}),
		fx.Provide(http.NewServeMux),
		exclog.NewExcLogModule(exclog.WithConfig(cfg)),
		NewMiddlewareModule(),
		fx.Invoke(routes),
		fx.Populate(&h),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return h
}

func TestMiddlewareModule_PanicIsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := newTestApp(t, exclog.Config{LoggerFactory: exclog.ZapLoggerFactory(zap.New(core))}, func(mux *http.ServeMux) {
		mux.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic(errors.New("boom")) })
		mux.HandleFunc("/missing", func(http.ResponseWriter, *http.Request) { panic(exclog.NewHTTPError(http.StatusNotFound)) })
		mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, exclog.LoggerName, entry.LoggerName)
	assert.Equal(t, "http://example.com/boom", entry.Message)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestMiddlewareModule_RecordedError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := newTestApp(t, exclog.Config{LoggerFactory: exclog.ZapLoggerFactory(zap.New(core))}, func(mux *http.ServeMux) {
		mux.HandleFunc("/recorded", func(w http.ResponseWriter, r *http.Request) {
			exclog.RecordError(r.Context(), errors.New("handled failure"))
			w.WriteHeader(http.StatusBadGateway)
		})
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recorded", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "handled failure", logs.All()[0].ContextMap()["error"])
}

func TestProvideHandler_OrdersAndLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mux := http.NewServeMux()
	mux.Handle("/", okHandler())

	h, err := provideHandler(mwIn{
		Mux: mux,
		Middlewares: []Middleware{
			{Name: "inner", Priority: 20, Handler: tagging("inner")},
			{Name: "disabled", Priority: 1},
			{Name: "outer", Priority: 10, Handler: tagging("outer")},
		},
	}, zap.New(core))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, rec.Header().Values("X-Chain"))
	entries := logs.FilterMessage("http middleware chain").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"outer", "inner"}, entries[0].ContextMap()["order"])
}
