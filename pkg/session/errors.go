package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrInstallation   = errors.New("playwright installation failed")
	ErrTimeout        = errors.New("playwright operation timed out")
	ErrInvalidBrowser = errors.New("invalid browser name")
)

// Phases reported by TimeoutError.
const (
	PhaseCreatingSession  = "creating session"
	PhaseLaunchingBrowser = "launching browser"
)

// InstallError reports a non-zero exit status from the install subprocess.
type InstallError struct {
	ExitCode int
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("playwright exited with code %d", e.ExitCode)
}

// Is matches ErrInstallation.
func (e *InstallError) Is(target error) bool {
	return target == ErrInstallation
}

// TimeoutError reports that a bounded step did not finish before its deadline.
type TimeoutError struct {
	Phase string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout %s after %s", e.Phase, e.After)
}

// Is matches ErrTimeout and context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// InvalidBrowserError reports a browser name outside the supported set.
type InvalidBrowserError struct {
	Name string
}

func (e *InvalidBrowserError) Error() string {
	valid := make([]string, len(Browsers))
	for i, b := range Browsers {
		valid[i] = b.String()
	}
	return fmt.Sprintf("unknown browser %q: valid values are %s", e.Name, strings.Join(valid, ", "))
}

// Is matches ErrInvalidBrowser.
func (e *InvalidBrowserError) Is(target error) bool {
	return target == ErrInvalidBrowser
}
