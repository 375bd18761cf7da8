package config

import (
	"io"

	"github.com/playwright-community/playwright-go"
)

func (c *Config) runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		DriverDirectory:     c.DriverDirectory,
		SkipInstallBrowsers: true,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
}
