// Package session bootstraps Playwright browser sessions for end-to-end UI tests.
//
// A bootstrap call produces a Session holding a running Playwright driver and
// one launched browser, or fails fast with a diagnosable error.
//
// # Bootstrap Sequence
//
// Start performs these steps strictly in order:
//
//  1. Install: run the driver's install command; a non-zero exit code fails with *InstallError
//  2. Create driver: start the Playwright driver, bounded by CreateTimeout
//  3. Select browser: explicit name, then the Playwright.BrowserName variable, then chromium
//  4. Decide mode: headless unless a debugger is attached to the process
//  5. Launch: start the selected engine, bounded by LaunchTimeout
//
// A timed-out step fails with *TimeoutError naming the phase. An unknown browser
// name fails with *InvalidBrowserError before any launch is attempted. Other
// driver and launch errors are returned unchanged. Nothing is retried.
//
// # Disposal
//
// The caller owns the returned Session and must Close it on every exit path:
//
//	s, err := session.Start(ctx, "firefox")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	page, err := s.NewPage()
//
// With wraps the same pattern, and the sessiontest package registers Close as a
// test cleanup.
package session
