package main

import (
	"errors"
	"net/http"

	"github.com/Sokol111/exclog/pkg/exclog"
)

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})
	mux.HandleFunc("/missing", func(http.ResponseWriter, *http.Request) {
		panic(exclog.NewHTTPError(http.StatusNotFound))
	})
	mux.HandleFunc("/redirect", func(http.ResponseWriter, *http.Request) {
		panic(exclog.Redirect(http.StatusSeeOther, "/ok"))
	})
	mux.HandleFunc("/recorded", func(w http.ResponseWriter, r *http.Request) {
		exclog.RecordError(r.Context(), errors.New("upstream unavailable"))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
}
