package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_Success(t *testing.T) {
	h := newHarness()

	s, err := New(h.options()).Start(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, s.Browser)

	assert.Equal(t, Chromium, s.Selection)
	assert.True(t, s.Headless)
	assert.Equal(t, Chromium, s.Browser.(*fakeBrowser).engine)
	assert.Equal(t, []string{"install", "create", "launch:chromium"}, h.rec.list())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, h.driver.stopCount())
}

func TestStart_SelectsEngine(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		env      Environment
		want     Browser
	}{
		{name: "explicit mixed case", explicit: "Chromium", env: Environment{}, want: Chromium},
		{name: "explicit upper case", explicit: "FIREFOX", env: Environment{}, want: Firefox},
		{name: "explicit webkit", explicit: "webkit", env: Environment{}, want: WebKit},
		{name: "environment", env: Environment{BrowserNameEnv: "webkit"}, want: WebKit},
		{name: "explicit beats environment", explicit: "firefox", env: Environment{BrowserNameEnv: "webkit"}, want: Firefox},
		{name: "default", env: Environment{}, want: Chromium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.env = tt.env

			s, err := New(h.options()).Start(context.Background(), tt.explicit)
			require.NoError(t, err)
			defer s.Close()

			assert.Equal(t, tt.want, s.Selection)
			assert.Equal(t, tt.want, s.Browser.(*fakeBrowser).engine)
			assert.Len(t, h.driver.types[tt.want].launchOptions(), 1)
		})
	}
}

func TestStart_HeadlessFollowsDebugger(t *testing.T) {
	for _, attached := range []bool{false, true} {
		h := newHarness()
		h.attached = attached

		s, err := New(h.options()).Start(context.Background(), "chromium")
		require.NoError(t, err)

		opts := h.driver.types[Chromium].launchOptions()
		require.Len(t, opts, 1)
		require.NotNil(t, opts[0].Headless)
		assert.Equal(t, !attached, *opts[0].Headless)
		assert.Equal(t, !attached, s.Headless)

		require.NoError(t, s.Close())
	}
}

func TestStart_InvalidBrowser(t *testing.T) {
	h := newHarness()

	s, err := New(h.options()).Start(context.Background(), "opera")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidBrowser)
	assert.Contains(t, err.Error(), "opera")

	for _, b := range Browsers {
		assert.Empty(t, h.driver.types[b].launchOptions(), "no launch expected for %s", b)
	}
	assert.Equal(t, []string{"install", "create", "stop"}, h.rec.list())
}

func TestStart_InstallFailure(t *testing.T) {
	h := newHarness()
	h.installCode = 3

	s, err := New(h.options()).Start(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, s)

	var installErr *InstallError
	require.True(t, errors.As(err, &installErr))
	assert.Equal(t, 3, installErr.ExitCode)
	assert.ErrorIs(t, err, ErrInstallation)
	assert.Equal(t, []string{"install"}, h.rec.list(), "driver must not be created")
}

func TestStart_InstallCannotRun(t *testing.T) {
	h := newHarness()
	h.installErr = errBoom

	_, err := New(h.options()).Start(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"install"}, h.rec.list())
}

func TestStart_DriverErrorPropagates(t *testing.T) {
	h := newHarness()
	h.driverErr = errBoom

	_, err := New(h.options()).Start(context.Background(), "")
	assert.Same(t, errBoom, err)
}

func TestStart_CreateTimeout(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	opts := h.options()
	opts.CreateTimeout = 20 * time.Millisecond
	opts.NewDriver = func() (Driver, error) {
		h.rec.add("create")
		<-release
		return nil, errBoom
	}

	start := time.Now()
	_, err := New(opts).Start(context.Background(), "")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, PhaseCreatingSession, timeoutErr.Phase)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"install", "create"}, h.rec.list())
}

func TestStart_LateDriverIsStopped(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})

	opts := h.options()
	opts.CreateTimeout = 10 * time.Millisecond
	opts.NewDriver = func() (Driver, error) {
		<-release
		return h.driver, nil
	}

	_, err := New(opts).Start(context.Background(), "")
	require.ErrorIs(t, err, ErrTimeout)

	close(release)
	assert.Eventually(t, func() bool { return h.driver.stopCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStart_LaunchTimeout(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	h.driver.types[Firefox].launch = func() (playwright.Browser, error) {
		<-release
		return nil, errBoom
	}

	opts := h.options()
	opts.LaunchTimeout = 20 * time.Millisecond

	s, err := New(opts).Start(context.Background(), "firefox")
	require.Error(t, err)
	assert.Nil(t, s)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, PhaseLaunchingBrowser, timeoutErr.Phase)
	assert.Contains(t, err.Error(), "launching browser")
	assert.Equal(t, 1, h.driver.stopCount(), "driver must be released on failure")
}

func TestStart_LaunchErrorUnchanged(t *testing.T) {
	h := newHarness()
	h.driver.types[WebKit].launch = func() (playwright.Browser, error) {
		return nil, errBoom
	}

	_, err := New(h.options()).Start(context.Background(), "webkit")
	assert.Same(t, errBoom, err)
	assert.Equal(t, 1, h.driver.stopCount())
}

func TestStart_CallerCancellation(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	opts := h.options()
	opts.NewDriver = func() (Driver, error) {
		<-release
		return nil, errBoom
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(opts).Start(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestStart_ConcurrentSessionsAreIndependent(t *testing.T) {
	const workers = 8

	var wg sync.WaitGroup
	sessions := make([]*Session, workers)
	harnesses := make([]*harness, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		harnesses[i] = newHarness()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = New(harnesses[i].options()).Start(context.Background(), Browsers[i%len(Browsers)].String())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, Browsers[i%len(Browsers)], sessions[i].Selection)
		require.NoError(t, sessions[i].Close())
		assert.Equal(t, 1, harnesses[i].driver.stopCount())
	}
}

func TestNew_Defaults(t *testing.T) {
	b := New(Options{Environment: Environment{}})

	assert.Equal(t, DefaultCreateTimeout, b.opts.CreateTimeout)
	assert.Equal(t, DefaultLaunchTimeout, b.opts.LaunchTimeout)
	assert.Equal(t, DefaultBrowser, b.opts.DefaultBrowser)
	assert.NotNil(t, b.opts.Installer)
	assert.NotNil(t, b.opts.NewDriver)
	assert.NotNil(t, b.opts.Debugger)
	assert.NotNil(t, b.opts.Logger)
}

func TestStart_ReadsProcessEnvironmentPerCall(t *testing.T) {
	t.Setenv(BrowserNameEnv, "")

	h := newHarness()
	opts := h.options()
	opts.Environment = nil
	b := New(opts)

	t.Setenv(BrowserNameEnv, "webkit")
	s, err := b.Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, WebKit, s.Selection)
	require.NoError(t, s.Close())

	t.Setenv(BrowserNameEnv, "firefox")
	h.driver = newFakeDriver(h.rec)
	s, err = b.Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Firefox, s.Selection)
	require.NoError(t, s.Close())
}

func TestStart_TimeoutReportsCallerDeadline(t *testing.T) {
	h := newHarness()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	opts := h.options()
	opts.NewDriver = func() (Driver, error) {
		<-release
		return nil, errBoom
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(opts).Start(ctx, "")

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, PhaseCreatingSession, timeoutErr.Phase)
	assert.LessOrEqual(t, timeoutErr.After, 20*time.Millisecond)
	assert.Less(t, timeoutErr.After, DefaultCreateTimeout)
}
