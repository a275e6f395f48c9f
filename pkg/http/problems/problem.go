package problems

import (
	"encoding/json"
	"net/http"
)

// Problem represents RFC7807 Problem Details for HTTP APIs
type Problem struct {
	Type       string       `json:"type,omitempty"`
	Title      string       `json:"title"`
	Status     int          `json:"status"`
	Detail     string       `json:"detail,omitempty"`
	Instance   string       `json:"instance,omitempty"`
	TraceID    string       `json:"traceId,omitempty"`
	IncidentID string       `json:"incidentId,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`

	// Location is sent as a header for redirects.
	Location string `json:"-"`
}

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// New creates a new Problem with the given status and detail
func New(status int, detail string) *Problem {
	return &Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Write sends p as an application/problem+json response.
func Write(w http.ResponseWriter, p *Problem) {
	if p.Location != "" {
		w.Header().Set("Location", p.Location)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
