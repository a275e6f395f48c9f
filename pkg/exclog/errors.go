package exclog

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that carries an HTTP status. It plays the role of the pipeline's
// HTTP exception: handlers panic with it (or record it) to short-circuit into a non-200
// response such as a redirect or a 404. It is ignored by default.
type HTTPError struct {
	Status   int
	Message  string
	Location string
}

// NewHTTPError creates an HTTPError with the status text as message.
func NewHTTPError(status int) *HTTPError {
	return &HTTPError{Status: status, Message: http.StatusText(status)}
}

// Redirect creates an HTTPError for a redirect to location.
func Redirect(status int, location string) *HTTPError {
	return &HTTPError{Status: status, Message: http.StatusText(status), Location: location}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// PanicError wraps a recovered panic value that is not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ConfigError reports a setting that could not be resolved.
type ConfigError struct {
	Setting string
	Name    string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("exclog.%s: %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("exclog.%s: cannot resolve %q: %v", e.Setting, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnknownName is returned when a name is not registered.
	ErrUnknownName = errors.New("name is not registered")

	// ErrUndecodable marks request data that is not valid UTF-8 or not correctly escaped.
	ErrUndecodable = errors.New("undecodable request data")
)
