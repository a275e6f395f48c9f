package exclog

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRequest struct {
	url       string
	urlErr    error
	hostURL   string
	environ   map[string]string
	cookies   map[string]string
	params    url.Values
	paramsErr error
	user      any
}

func newFakeRequest() *fakeRequest {
	return &fakeRequest{
		url:     "http://example.com/items?id=7",
		hostURL: "http://example.com",
		environ: map[string]string{
			"REQUEST_METHOD": "GET",
			"SCRIPT_NAME":    "",
			"PATH_INFO":      "/items",
			"QUERY_STRING":   "id=7",
		},
		cookies: map[string]string{},
		params:  url.Values{"id": {"7"}},
	}
}

func (r *fakeRequest) URL() (string, error) { return r.url, r.urlErr }
func (r *fakeRequest) HostURL() string { return r.hostURL }
func (r *fakeRequest) Environ() map[string]string { return r.environ }
func (r *fakeRequest) Cookies() map[string]string { return r.cookies }
func (r *fakeRequest) Params() (url.Values, error) { return r.params, r.paramsErr }
func (r *fakeRequest) UnauthenticatedUserID() any { return r.user }
func (r *fakeRequest) WithHiddenCookies(names []string, placeholder string) Request {
	clone := *r
	clone.cookies = map[string]string{}
	for k, v := range r.cookies {
		clone.cookies[k] = v
	}
	for _, name := range names {
		if _, ok := clone.cookies[name]; ok {
			clone.cookies[name] = placeholder
		}
	}
	return &clone
}

func TestURLMessage(t *testing.T) {
	t.Run("returns the url", func(t *testing.T) {
		assert.Equal(t, "http://example.com/items?id=7", URLMessage(newFakeRequest()))
	})

	t.Run("falls back to environ when url cannot be decoded", func(t *testing.T) {
		req := newFakeRequest()
		req.urlErr = ErrUndecodable
		req.environ["SCRIPT_NAME"] = "/app"
		req.environ["PATH_INFO"] = "/caf\xff"

		msg := URLMessage(req)

		assert.Equal(t, `could not decode url: "http://example.com/app/caf\xff?id=7"`, msg)
	})

	t.Run("fallback omits empty query", func(t *testing.T) {
		req := newFakeRequest()
		req.urlErr = ErrUndecodable
		req.environ["QUERY_STRING"] = ""

		assert.Equal(t, `could not decode url: "http://example.com/items"`, URLMessage(req))
	})
}

func TestVerboseMessage(t *testing.T) {
	t.Run("sections in order", func(t *testing.T) {
		req := newFakeRequest()
		req.user = "alice"

		msg := VerboseMessage(req)

		titles := []string{"\nURL\n", "\nENVIRONMENT\n", "\nPARAMETERS\n", "\nUNAUTHENTICATED USER\n"}
		last := -1
		for _, title := range titles {
			idx := strings.Index(msg, title)
			assert.Greater(t, idx, last, "section %q out of order", strings.TrimSpace(title))
			last = idx
		}
		assert.Contains(t, msg, "http://example.com/items?id=7")
		assert.Contains(t, msg, "REQUEST_METHOD: GET")
		assert.Contains(t, msg, "PATH_INFO: /items")
		assert.Contains(t, msg, "id:")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(msg), "alice"))
	})

	t.Run("undecodable params", func(t *testing.T) {
		req := newFakeRequest()
		req.paramsErr = errors.Join(errors.New("params"), ErrUndecodable)

		msg := VerboseMessage(req)

		assert.Contains(t, msg, "PARAMETERS\n\ncould not decode params\n")
		assert.Contains(t, msg, "ENVIRONMENT")
		assert.Contains(t, msg, "UNAUTHENTICATED USER")
	})

	t.Run("params io error", func(t *testing.T) {
		req := newFakeRequest()
		req.paramsErr = errors.New("connection reset")

		msg := VerboseMessage(req)

		assert.Contains(t, msg, "IOError while decoding params: connection reset")
	})

	t.Run("undecodable url keeps other sections", func(t *testing.T) {
		req := newFakeRequest()
		req.urlErr = ErrUndecodable

		msg := VerboseMessage(req)

		assert.Contains(t, msg, "could not decode url:")
		assert.Contains(t, msg, "REQUEST_METHOD: GET")
	})

	t.Run("non string user uses debug representation", func(t *testing.T) {
		req := newFakeRequest()
		req.user = 42

		msg := VerboseMessage(req)

		_, user, _ := strings.Cut(msg, "UNAUTHENTICATED USER\n\n")
		assert.Contains(t, user, "int")
		assert.Contains(t, user, "42")
	})
}
