package exclog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve_Defaults(t *testing.T) {
	s, err := Resolve(Config{}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	require.Equal(t, 1, s.IgnoreCount())
	assert.True(t, s.ignored[0](NewHTTPError(404)))
	assert.False(t, s.ignored[0](errors.New("boom")))
	assert.Empty(t, s.HiddenCookies())
	assert.NotNil(t, s.getLogger)

	req := newFakeRequest()
	assert.Equal(t, "http://example.com/items?id=7", s.getMessage(req))
}

func TestResolve_EmptyIgnoreDisablesDefault(t *testing.T) {
	s, err := Resolve(Config{Ignore: []string{}}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	assert.Equal(t, 0, s.IgnoreCount())
}

func TestResolve_IgnoreNamesAndMatchers(t *testing.T) {
	s, err := Resolve(Config{
		Ignore:         []string{"EOF, Canceled"},
		IgnoreMatchers: []Matcher{MatchType[quotaError](), nil},
	}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	assert.Equal(t, 3, s.IgnoreCount())
	assert.True(t, s.ignored[2](quotaError{}))
}

func TestResolve_ExtraInfo(t *testing.T) {
	s, err := Resolve(Config{ExtraInfo: true}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	assert.Contains(t, s.getMessage(newFakeRequest()), "UNAUTHENTICATED USER")
}

func TestResolve_GetMessageOverridesExtraInfo(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.RegisterMessage("app.shortMessage", func(Request) string { return "short" })

	s, err := Resolve(Config{ExtraInfo: true, GetMessage: "app.shortMessage"}, reg)

	require.NoError(t, err)
	assert.Equal(t, "short", s.getMessage(newFakeRequest()))
}

func TestResolve_ResolvedValuesTakePrecedence(t *testing.T) {
	logger := &recordingLogger{}
	s, err := Resolve(Config{
		GetMessage:    "app.missing",
		GetLogger:     "app.missing",
		Message:       func(Request) string { return "direct" },
		LoggerFactory: func(string) Logger { return logger },
	}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	assert.Equal(t, "direct", s.getMessage(newFakeRequest()))
	assert.Same(t, logger, s.getLogger(LoggerName))
}

func TestResolve_HiddenCookies(t *testing.T) {
	s, err := Resolve(Config{HiddenCookies: []string{"session, csrf", "session"}}, NewRegistry(zap.NewNop()))

	require.NoError(t, err)
	assert.Equal(t, []string{"session", "csrf"}, s.HiddenCookies())
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		setting string
	}{
		{name: "unknown ignore", cfg: Config{Ignore: []string{"app.NoSuchError"}}, setting: "ignore"},
		{name: "unknown message", cfg: Config{GetMessage: "app.noSuchMessage"}, setting: "get_message"},
		{name: "unknown logger factory", cfg: Config{GetLogger: "logging.getLogger"}, setting: "getLogger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg, NewRegistry(zap.NewNop()))

			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.setting, cfgErr.Setting)
			assert.ErrorIs(t, err, ErrUnknownName)
		})
	}
}
