package main

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pwsession/pkg/debugger"
	"github.com/entrhq/pwsession/pkg/session"
)

type fakePage struct {
	playwright.Page
}

func (fakePage) Goto(string, ...playwright.PageGotoOptions) (playwright.Response, error) {
	return nil, nil
}

func (fakePage) Content() (string, error) {
	return `<html><head><title>Fake</title></head><body><h1>ok</h1><a href="/x">x</a></body></html>`, nil
}

type fakeBrowser struct {
	playwright.Browser
}

func (fakeBrowser) NewPage(...playwright.BrowserNewPageOptions) (playwright.Page, error) {
	return fakePage{}, nil
}

type fakeBrowserType struct {
	playwright.BrowserType
}

func (fakeBrowserType) Launch(...playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	return fakeBrowser{}, nil
}

type fakeDriver struct {
	stopErr error
	stops   int
}

func (d *fakeDriver) BrowserType(session.Browser) playwright.BrowserType {
	return fakeBrowserType{}
}

func (d *fakeDriver) Stop() error {
	d.stops++
	return d.stopErr
}

func useFakeSession(t *testing.T, d *fakeDriver) {
	t.Helper()

	orig := smokeOptions
	t.Cleanup(func() { smokeOptions = orig })

	smokeOptions = func(a *app) session.Options {
		return session.Options{
			Installer:   session.InstallerFunc(func(context.Context) (int, error) { return 0, nil }),
			NewDriver:   func() (session.Driver, error) { return d, nil },
			Debugger:    debugger.Static(false),
			Environment: session.Environment{},
			Logger:      a.logger,
		}
	}
}

func TestSmokeCommand(t *testing.T) {
	d := &fakeDriver{}
	useFakeSession(t, d)

	out, err := execute(t, "smoke", "--browser", "firefox")
	require.NoError(t, err)

	assert.Contains(t, out, "firefox")
	assert.Contains(t, out, `"Fake"`)
	assert.Contains(t, out, "1 headings, 1 links, 0 forms")
	assert.Contains(t, out, "session closed cleanly")
	assert.Equal(t, 1, d.stops)
}

func TestSmokeCommand_CloseFailure(t *testing.T) {
	d := &fakeDriver{stopErr: errors.New("driver still running")}
	useFakeSession(t, d)

	out, err := execute(t, "smoke")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "driver still running")
	assert.Contains(t, out, `"Fake"`)
	assert.NotContains(t, out, "session closed cleanly")
	assert.Equal(t, 1, d.stops)
}
