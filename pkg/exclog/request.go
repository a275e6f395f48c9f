package exclog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Request is the view of an HTTP request the formatters need.
type Request interface {
	// URL reconstructs the request URL. It fails with ErrUndecodable when the path or the
	// query contain bytes that are not valid UTF-8.
	URL() (string, error)
	// HostURL returns scheme and host, e.g. "https://example.com".
	HostURL() string
	// Environ returns a CGI style description of the request.
	Environ() map[string]string
	// Cookies returns cookie values by name.
	Cookies() map[string]string
	// Params returns query and form parameters.
	Params() (url.Values, error)
	// UnauthenticatedUserID returns the identity claimed by the request, unverified.
	UnauthenticatedUserID() any
	// WithHiddenCookies returns a copy whose cookie values for names are replaced with
	// placeholder, both in Cookies and in the HTTP_COOKIE entry of Environ.
	WithHiddenCookies(names []string, placeholder string) Request
}

// IdentityFunc extracts the unauthenticated user identity from a request.
type IdentityFunc func(r *http.Request) any

// RequestOptions configure NewHTTPRequest.
type RequestOptions struct {
	// ScriptName is the mount prefix of the application.
	ScriptName string
	// Identity overrides DefaultIdentity.
	Identity IdentityFunc
}

// NewHTTPRequest adapts r to Request.
func NewHTTPRequest(r *http.Request, opts RequestOptions) Request {
	if opts.Identity == nil {
		opts.Identity = DefaultIdentity
	}
	return &httpRequest{
		raw:     r,
		opts:    opts,
		cookies: r.Cookies(),
		params:  &lazyParams{},
	}
}

type httpRequest struct {
	raw     *http.Request
	opts    RequestOptions
	cookies []*http.Cookie
	// cookieHeader replaces the Cookie header in Environ once cookies were rewritten.
	cookieHeader *string
	// params is shared with clones so the body is read at most once.
	params *lazyParams
}

type lazyParams struct {
	once   sync.Once
	values url.Values
	err    error
}

func (r *httpRequest) HostURL() string {
	return r.scheme() + "://" + r.host()
}

func (r *httpRequest) URL() (string, error) {
	path := r.opts.ScriptName + r.raw.URL.Path
	query := r.raw.URL.RawQuery
	if !utf8.ValidString(path) || !utf8.ValidString(query) {
		return "", fmt.Errorf("url: %w", ErrUndecodable)
	}
	u := r.HostURL() + (&url.URL{Path: r.opts.ScriptName}).EscapedPath() + r.raw.URL.EscapedPath()
	if query != "" {
		u += "?" + query
	}
	return u, nil
}

func (r *httpRequest) Environ() map[string]string {
	req := r.raw
	env := map[string]string{
		"REQUEST_METHOD":  req.Method,
		"SCRIPT_NAME":     r.opts.ScriptName,
		"PATH_INFO":       req.URL.Path,
		"QUERY_STRING":    req.URL.RawQuery,
		"SERVER_PROTOCOL": req.Proto,
		"REMOTE_ADDR":     req.RemoteAddr,
		"HTTP_HOST":       r.host(),
		"wsgi.url_scheme": r.scheme(),
	}
	host, port, err := net.SplitHostPort(r.host())
	if err != nil {
		host, port = r.host(), lo.Ternary(r.scheme() == "https", "443", "80")
	}
	env["SERVER_NAME"] = host
	env["SERVER_PORT"] = port
	if req.ContentLength > 0 {
		env["CONTENT_LENGTH"] = fmt.Sprint(req.ContentLength)
	}

	for name, values := range req.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		switch key {
		case "HTTP_CONTENT_TYPE":
			key = "CONTENT_TYPE"
		case "HTTP_CONTENT_LENGTH":
			key = "CONTENT_LENGTH"
		}
		env[key] = strings.Join(values, ", ")
	}
	if r.cookieHeader != nil {
		env["HTTP_COOKIE"] = *r.cookieHeader
	}
	return env
}

func (r *httpRequest) Cookies() map[string]string {
	return lo.SliceToMap(r.cookies, func(c *http.Cookie) (string, string) {
		return c.Name, c.Value
	})
}

func (r *httpRequest) Params() (url.Values, error) {
	p := r.params
	p.once.Do(func() {
		p.values, p.err = parseParams(r.raw)
	})
	return p.values, p.err
}

func (r *httpRequest) UnauthenticatedUserID() any {
	return r.opts.Identity(r.raw)
}

func (r *httpRequest) WithHiddenCookies(names []string, placeholder string) Request {
	hidden := lo.SliceToMap(names, func(name string) (string, struct{}) {
		return name, struct{}{}
	})
	clone := *r
	clone.cookies = lo.Map(r.cookies, func(c *http.Cookie, _ int) *http.Cookie {
		if _, ok := hidden[c.Name]; !ok {
			return c
		}
		return &http.Cookie{Name: c.Name, Value: placeholder}
	})
	header := strings.Join(lo.Map(clone.cookies, func(c *http.Cookie, _ int) string {
		return c.Name + "=" + c.Value
	}), "; ")
	clone.cookieHeader = &header
	return &clone
}

func (r *httpRequest) scheme() string {
	if r.raw.TLS != nil {
		return "https"
	}
	if proto := r.raw.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return lo.Ternary(r.raw.URL.Scheme != "", r.raw.URL.Scheme, "http")
}

func (r *httpRequest) host() string {
	return lo.Ternary(r.raw.Host != "", r.raw.Host, r.raw.URL.Host)
}

// parseParams merges query and form values without touching the original request.
func parseParams(req *http.Request) (url.Values, error) {
	form := req.Form
	if form == nil {
		clone := req.Clone(req.Context())
		if err := clone.ParseForm(); err != nil {
			var escapeErr url.EscapeError
			if errors.As(err, &escapeErr) {
				return nil, fmt.Errorf("params: %w: %w", ErrUndecodable, err)
			}
			return nil, fmt.Errorf("params: %w", err)
		}
		form = clone.Form
	}
	for key, values := range form {
		if !utf8.ValidString(key) || lo.SomeBy(values, func(v string) bool { return !utf8.ValidString(v) }) {
			return nil, fmt.Errorf("params: %w", ErrUndecodable)
		}
	}
	return form, nil
}

type identityKey struct{}

// WithUnauthenticatedUserID returns a context carrying id as the request identity.
func WithUnauthenticatedUserID(ctx context.Context, id any) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// DefaultIdentity returns the identity stored with WithUnauthenticatedUserID, else the
// basic auth user name, else nil.
func DefaultIdentity(r *http.Request) any {
	if id := r.Context().Value(identityKey{}); id != nil {
		return id
	}
	if user, _, ok := r.BasicAuth(); ok {
		return user
	}
	return nil
}
