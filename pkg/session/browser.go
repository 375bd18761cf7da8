package session

import (
	"os"
	"strings"
)

// BrowserNameEnv is the environment variable consulted when no browser name
// is passed to Start.
const BrowserNameEnv = "Playwright.BrowserName"

// Browser identifies one of the browser engines Playwright can launch.
type Browser string

const (
	// Chromium is the Chromium-based engine and the default selection.
	Chromium Browser = "chromium"

	// Firefox is the Firefox-based engine
	Firefox Browser = "firefox"

	// WebKit is the WebKit-based engine
	WebKit Browser = "webkit"
)

// DefaultBrowser is used when neither an explicit name nor BrowserNameEnv is set.
const DefaultBrowser = Chromium

// Browsers lists every supported engine in a stable order.
var Browsers = []Browser{Chromium, Firefox, WebKit}

// String returns the engine name.
func (b Browser) String() string {
	return string(b)
}

// Valid reports whether b is a known engine.
func (b Browser) Valid() bool {
	switch b {
	case Chromium, Firefox, WebKit:
		return true
	}
	return false
}

// ParseBrowser converts a case-insensitive engine name into a Browser.
func ParseBrowser(name string) (Browser, error) {
	b := Browser(strings.ToLower(strings.TrimSpace(name)))
	if !b.Valid() {
		return "", &InvalidBrowserError{Name: name}
	}
	return b, nil
}

// Environment is a snapshot of environment variables. Resolution reads from a
// snapshot rather than the live process environment so it can be tested
// without mutating global state.
type Environment map[string]string

// EnvironmentFromOS captures the current process environment.
func EnvironmentFromOS() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}

// Get returns the value of key, or "" when it is unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// ResolveBrowser picks the engine to launch. The explicit name wins, then
// BrowserNameEnv from env, then fallback. An empty fallback means
// DefaultBrowser. The result depends only on the three inputs.
func ResolveBrowser(explicit string, env Environment, fallback Browser) (Browser, error) {
	name := strings.TrimSpace(explicit)
	if name == "" {
		name = strings.TrimSpace(env.Get(BrowserNameEnv))
	}
	if name == "" {
		if fallback == "" {
			fallback = DefaultBrowser
		}
		name = string(fallback)
	}
	return ParseBrowser(name)
}
