package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightInstaller downloads the Playwright driver and then runs the
// driver's "install" command as a subprocess, reporting its exit code.
type PlaywrightInstaller struct {
	// Browsers restricts installation to the named engines. Empty installs all.
	Browsers []string

	// DriverDirectory overrides where the driver is stored.
	DriverDirectory string

	// Verbose enables driver download progress output.
	Verbose bool

	// Output receives driver and subprocess output. Nil discards it.
	Output io.Writer
}

func (i *PlaywrightInstaller) output() io.Writer {
	if i.Output == nil {
		return io.Discard
	}
	return i.Output
}

// Install implements Installer. Cancelling ctx kills the subprocess.
func (i *PlaywrightInstaller) Install(ctx context.Context) (int, error) {
	opts := &playwright.RunOptions{
		DriverDirectory:     i.DriverDirectory,
		SkipInstallBrowsers: true,
		Verbose:             i.Verbose,
		Stdout:              i.output(),
		Stderr:              i.output(),
	}

	if err := playwright.Install(opts); err != nil {
		return -1, fmt.Errorf("failed to download playwright driver: %w", err)
	}

	driver, err := playwright.NewDriver(opts)
	if err != nil {
		return -1, fmt.Errorf("failed to locate playwright driver: %w", err)
	}

	cmd := driver.Command(append([]string{"install"}, i.Browsers...)...)
	cmd.Stdout = i.output()
	cmd.Stderr = i.output()

	return runInstall(ctx, cmd)
}

// runInstall runs cmd and converts its termination into an exit code.
func runInstall(ctx context.Context, cmd *exec.Cmd) (int, error) {
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	select {
	case err := <-waitErr:
		return exitCode(err)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-waitErr
		return -1, ctx.Err()
	}
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// playwrightDriver adapts *playwright.Playwright to Driver.
type playwrightDriver struct {
	pw *playwright.Playwright
}

func (d *playwrightDriver) BrowserType(b Browser) playwright.BrowserType {
	switch b {
	case Chromium:
		return d.pw.Chromium
	case Firefox:
		return d.pw.Firefox
	case WebKit:
		return d.pw.WebKit
	}
	return nil
}

func (d *playwrightDriver) Stop() error {
	return d.pw.Stop()
}

// PlaywrightDriverFactory returns a DriverFactory that starts the Playwright
// driver with opts. Browsers are expected to be installed already, so a nil
// opts skips the install check.
func PlaywrightDriverFactory(opts *playwright.RunOptions) DriverFactory {
	if opts == nil {
		opts = &playwright.RunOptions{SkipInstallBrowsers: true, Stdout: io.Discard, Stderr: io.Discard}
	}
	return func() (Driver, error) {
		pw, err := playwright.Run(opts)
		if err != nil {
			return nil, err
		}
		return &playwrightDriver{pw: pw}, nil
	}
}
