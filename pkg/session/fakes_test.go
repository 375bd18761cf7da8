package session

import (
	"context"
	"errors"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pwsession/pkg/debugger"
)

// recorder captures the order in which collaborators are invoked.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeBrowser struct {
	playwright.Browser
	engine Browser
}

type fakeBrowserType struct {
	playwright.BrowserType
	engine Browser
	rec    *recorder
	launch func() (playwright.Browser, error)

	mu      sync.Mutex
	options []playwright.BrowserTypeLaunchOptions
}

func (f *fakeBrowserType) Launch(options ...playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	f.rec.add("launch:" + f.engine.String())
	f.mu.Lock()
	f.options = append(f.options, options...)
	f.mu.Unlock()

	if f.launch != nil {
		return f.launch()
	}
	return &fakeBrowser{engine: f.engine}, nil
}

func (f *fakeBrowserType) launchOptions() []playwright.BrowserTypeLaunchOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]playwright.BrowserTypeLaunchOptions(nil), f.options...)
}

type fakeDriver struct {
	rec     *recorder
	types   map[Browser]*fakeBrowserType
	stopErr error

	mu    sync.Mutex
	stops int
}

func newFakeDriver(rec *recorder) *fakeDriver {
	d := &fakeDriver{rec: rec, types: make(map[Browser]*fakeBrowserType)}
	for _, b := range Browsers {
		d.types[b] = &fakeBrowserType{engine: b, rec: rec}
	}
	return d
}

func (d *fakeDriver) BrowserType(b Browser) playwright.BrowserType {
	bt, ok := d.types[b]
	if !ok {
		return nil
	}
	return bt
}

func (d *fakeDriver) Stop() error {
	d.rec.add("stop")
	d.mu.Lock()
	d.stops++
	d.mu.Unlock()
	return d.stopErr
}

func (d *fakeDriver) stopCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stops
}

// harness wires fakes into Options.
type harness struct {
	rec         *recorder
	driver      *fakeDriver
	installCode int
	installErr  error
	driverErr   error
	attached    bool
	env         Environment
}

func newHarness() *harness {
	rec := &recorder{}
	return &harness{
		rec:    rec,
		driver: newFakeDriver(rec),
		env:    Environment{},
	}
}

func (h *harness) options() Options {
	return Options{
		Installer: InstallerFunc(func(ctx context.Context) (int, error) {
			h.rec.add("install")
			return h.installCode, h.installErr
		}),
		NewDriver: func() (Driver, error) {
			h.rec.add("create")
			if h.driverErr != nil {
				return nil, h.driverErr
			}
			return h.driver, nil
		},
		Debugger:    debugger.DetectorFunc(func() bool { return h.attached }),
		Environment: h.env,
	}
}

var errBoom = errors.New("boom")
