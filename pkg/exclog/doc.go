// Package exclog logs failures of HTTP requests.
//
// An [ErrorHandler] observes every request passing through its [ErrorHandler.Middleware]:
// panics unwinding through the pipeline, and failures an inner exception view already
// turned into a response but attached to the request with [Record] or [RecordError].
// Failures that match the configured ignore set are dropped; everything else is formatted
// into a diagnostic message and written to the logger named "exc_logger".
//
// Configuration is resolved once, at setup, from names looked up in a [Registry]:
//
//	reg := exclog.NewRegistry(log)
//	settings, err := exclog.Resolve(exclog.Config{
//		ExtraInfo:     true,
//		HiddenCookies: []string{"session"},
//	}, reg)
//	if err != nil {
//		return err
//	}
//	handler := exclog.NewErrorHandler(settings)
//	http.ListenAndServe(":8080", handler.Middleware(mux))
package exclog
