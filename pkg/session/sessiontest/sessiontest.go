// Package sessiontest starts browser sessions scoped to a single test.
package sessiontest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrhq/pwsession/pkg/session"
)

// EnableEnv must be set to a non-empty value for real-browser tests to run.
const EnableEnv = "PWSESSION_E2E"

type config struct {
	browser string
	opts    session.Options
}

// Option customises Start.
type Option func(*config)

// WithBrowser requests a specific engine instead of the environment default.
func WithBrowser(name string) Option {
	return func(c *config) { c.browser = name }
}

// WithOptions replaces the bootstrapper options.
func WithOptions(opts session.Options) Option {
	return func(c *config) { c.opts = opts }
}

// SkipUnlessEnabled skips t unless EnableEnv is set, so unit test runs never
// download or launch browsers.
func SkipUnlessEnabled(t testing.TB) {
	t.Helper()
	if os.Getenv(EnableEnv) == "" {
		t.Skipf("set %s=1 to run browser tests", EnableEnv)
	}
}

// Start bootstraps a session and closes it when t and its subtests finish,
// whether they pass or fail. Bootstrap errors fail t immediately.
func Start(t testing.TB, opts ...Option) *session.Session {
	t.Helper()

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	s, err := session.New(cfg.opts).Start(context.Background(), cfg.browser)
	require.NoError(t, err, "failed to start browser session")

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close browser session: %v", err)
		}
	})
	return s
}
