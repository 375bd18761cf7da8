package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pwsession/pkg/debugger"
	"github.com/entrhq/pwsession/pkg/logging"
)

// Default deadlines for the two suspending steps of Start.
const (
	DefaultCreateTimeout = 5 * time.Minute
	DefaultLaunchTimeout = 5 * time.Minute
)

// Installer ensures the driver and browser binaries are present. It returns
// the exit status of the install command; 0 means success. A non-nil error
// means the command could not be run at all.
type Installer interface {
	Install(ctx context.Context) (int, error)
}

// InstallerFunc adapts a plain function to Installer.
type InstallerFunc func(ctx context.Context) (int, error)

// Install calls f.
func (f InstallerFunc) Install(ctx context.Context) (int, error) {
	return f(ctx)
}

// Driver is a running Playwright driver instance.
type Driver interface {
	// BrowserType returns the launcher for b.
	BrowserType(b Browser) playwright.BrowserType

	// Stop shuts the driver down along with every browser it launched.
	Stop() error
}

// DriverFactory starts a new Driver. It may block for a long time.
type DriverFactory func() (Driver, error)

// Logger is the subset of *logging.Logger used by the bootstrapper.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Options configures a Bootstrapper. Zero fields are filled by New.
type Options struct {
	// Installer ensures binaries are installed. Default: PlaywrightInstaller.
	Installer Installer

	// NewDriver starts the driver. Default: PlaywrightDriverFactory.
	NewDriver DriverFactory

	// Debugger decides headed mode. Default: debugger.Process().
	Debugger debugger.Detector

	// Environment is consulted for BrowserNameEnv. A nil map means the process
	// environment, read afresh on every Start.
	Environment Environment

	// DefaultBrowser applies when neither a name nor the env var is set.
	DefaultBrowser Browser

	CreateTimeout time.Duration
	LaunchTimeout time.Duration

	Logger Logger
}

// Bootstrapper starts Sessions. It holds no mutable state and may be shared
// by concurrent callers.
type Bootstrapper struct {
	opts Options
}

// New creates a Bootstrapper, filling unset options with defaults.
func New(opts Options) *Bootstrapper {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Installer == nil {
		installer := &PlaywrightInstaller{}
		if w, ok := opts.Logger.(interface{ Writer() io.Writer }); ok {
			installer.Output = w.Writer()
		}
		opts.Installer = installer
	}
	if opts.NewDriver == nil {
		opts.NewDriver = PlaywrightDriverFactory(nil)
	}
	if opts.Debugger == nil {
		opts.Debugger = debugger.Process()
	}
	if opts.DefaultBrowser == "" {
		opts.DefaultBrowser = DefaultBrowser
	}
	if opts.CreateTimeout <= 0 {
		opts.CreateTimeout = DefaultCreateTimeout
	}
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = DefaultLaunchTimeout
	}
	return &Bootstrapper{opts: opts}
}

// Start installs binaries, starts a driver, resolves which engine to use and
// launches it. browserName may be empty, in which case BrowserNameEnv and then
// the default browser apply.
//
// On success the caller owns the Session and must Close it. On failure no
// Session is returned and any driver started along the way has been stopped.
func (b *Bootstrapper) Start(ctx context.Context, browserName string) (*Session, error) {
	log := b.opts.Logger

	log.Debugf("installing playwright binaries")
	code, err := b.opts.Installer.Install(ctx)
	if err != nil {
		log.Errorf("install command failed to run: %v", err)
		return nil, fmt.Errorf("failed to run playwright install: %w", err)
	}
	if code != 0 {
		log.Errorf("install exited with code %d", code)
		return nil, &InstallError{ExitCode: code}
	}

	log.Debugf("creating playwright driver (timeout %s)", b.opts.CreateTimeout)
	driver, err := withDeadline[Driver](ctx, b.opts.CreateTimeout, PhaseCreatingSession, b.opts.NewDriver, stopLate(log))
	if err != nil {
		log.Errorf("driver creation failed: %v", err)
		return nil, err
	}

	env := b.opts.Environment
	if env == nil {
		env = EnvironmentFromOS()
	}
	selection, err := ResolveBrowser(browserName, env, b.opts.DefaultBrowser)
	if err != nil {
		log.Errorf("browser selection failed: %v", err)
		return nil, b.abort(driver, err)
	}

	headless := !b.opts.Debugger.Attached()
	log.Infof("launching %s (headless=%t, timeout %s)", selection, headless, b.opts.LaunchTimeout)

	browserType := driver.BrowserType(selection)
	if browserType == nil {
		return nil, b.abort(driver, fmt.Errorf("driver has no launcher for %s", selection))
	}

	launch := func() (playwright.Browser, error) {
		return browserType.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(headless),
		})
	}
	browser, err := withDeadline[playwright.Browser](ctx, b.opts.LaunchTimeout, PhaseLaunchingBrowser, launch, closeLate(log))
	if err != nil {
		log.Errorf("launch failed: %v", err)
		return nil, b.abort(driver, err)
	}

	log.Infof("%s ready", selection)
	return newSession(driver, browser, selection, headless, log), nil
}

// abort stops a driver whose bootstrap failed. err is returned unchanged; a
// stop failure is only logged.
func (b *Bootstrapper) abort(driver Driver, err error) error {
	if stopErr := driver.Stop(); stopErr != nil {
		b.opts.Logger.Warnf("failed to stop driver after error: %v", stopErr)
	}
	return err
}

// Start bootstraps a session with default options.
func Start(ctx context.Context, browserName string) (*Session, error) {
	return New(Options{}).Start(ctx, browserName)
}

type outcome[T any] struct {
	val T
	err error
}

// withDeadline runs fn and waits at most d for it, or less when ctx expires
// sooner. fn cannot be interrupted, so on timeout a successful late result is
// handed to release instead of being leaked. TimeoutError.After reports the
// limit that actually applied.
func withDeadline[T any](ctx context.Context, d time.Duration, phase string, fn func() (T, error), release func(T)) (T, error) {
	limit := d
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			limit = remaining
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.err == nil {
				release(r.val)
			}
		}()

		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, &TimeoutError{Phase: phase, After: limit}
		}
		return zero, ctx.Err()
	}
}

func stopLate(log Logger) func(Driver) {
	return func(d Driver) {
		if err := d.Stop(); err != nil {
			log.Warnf("failed to stop driver that started after timeout: %v", err)
		}
	}
}

func closeLate(log Logger) func(playwright.Browser) {
	return func(b playwright.Browser) {
		if err := b.Close(); err != nil {
			log.Warnf("failed to close browser that launched after timeout: %v", err)
		}
	}
}
