package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Session pairs a running Playwright driver with the browser it launched.
// The browser is only valid until Close is called.
type Session struct {
	// Browser is the launched browser.
	Browser playwright.Browser

	// Selection is the engine that was launched.
	Selection Browser

	// Headless reports whether the browser runs without a visible window.
	Headless bool

	driver    Driver
	log       Logger
	closeOnce sync.Once
	closeErr  error
}

func newSession(driver Driver, browser playwright.Browser, selection Browser, headless bool, log Logger) *Session {
	return &Session{
		Browser:   browser,
		Selection: selection,
		Headless:  headless,
		driver:    driver,
		log:       log,
	}
}

// NewPage opens a page in a fresh context of the session's browser.
func (s *Session) NewPage() (playwright.Page, error) {
	page, err := s.Browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// Close stops the driver, which terminates the browser process. It is safe
// to call more than once; later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := s.driver.Stop(); err != nil {
			s.closeErr = fmt.Errorf("failed to stop playwright: %w", err)
			s.log.Warnf("closing %s session: %v", s.Selection, err)
			return
		}
		s.log.Infof("%s session closed", s.Selection)
	})
	return s.closeErr
}

// With starts a session, passes it to fn and closes it afterwards, even when
// fn fails or panics. A close error is joined with fn's error.
func With(ctx context.Context, b *Bootstrapper, browserName string, fn func(*Session) error) (err error) {
	s, err := b.Start(ctx, browserName)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(s)
}
