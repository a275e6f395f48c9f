package exclog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"
)

// MessageFunc formats the diagnostic message for a failed request. Implementations run
// while a failure is being handled and must not panic on malformed requests.
type MessageFunc func(req Request) string

var reprConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// URLMessage returns the request URL only.
func URLMessage(req Request) string {
	u, err := req.URL()
	if err == nil {
		return u
	}
	env := req.Environ()
	u = req.HostURL() + env["SCRIPT_NAME"] + env["PATH_INFO"]
	if qs := env["QUERY_STRING"]; qs != "" {
		u += "?" + qs
	}
	return fmt.Sprintf("could not decode url: %q", u)
}

// VerboseMessage returns the URL, the environment, the parameters and the unauthenticated
// user of the request, each in its own section.
func VerboseMessage(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		b.WriteString("\n")
		b.WriteString(title)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n\n")
	}

	section("URL", URLMessage(req))
	section("ENVIRONMENT", pretty(req.Environ()))
	section("PARAMETERS", formatParams(req))
	section("UNAUTHENTICATED USER", formatUser(req.UnauthenticatedUserID()))
	return b.String()
}

func formatParams(req Request) string {
	params, err := req.Params()
	switch {
	case errors.Is(err, ErrUndecodable):
		return "could not decode params"
	case err != nil:
		return fmt.Sprintf("IOError while decoding params: %v", err)
	}
	return pretty(map[string][]string(params))
}

func formatUser(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	return reprConfig.Sprintf("%#v", id)
}

// pretty renders v as block YAML; map keys come out sorted.
func pretty(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return reprConfig.Sdump(v)
	}
	return string(out)
}
