package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pwsession/pkg/logging"
	"github.com/entrhq/pwsession/pkg/session"
)

// Config holds the bootstrap settings that may be set from a YAML file
type Config struct {
	// Browser is the engine used when neither an argument nor
	// Playwright.BrowserName selects one.
	Browser string `yaml:"browser" json:"browser"`

	// InstallBrowsers limits which engines the install step downloads. Empty installs all.
	InstallBrowsers []string `yaml:"install_browsers" json:"install_browsers"`

	// InstallVerbose shows driver download progress
	InstallVerbose bool `yaml:"install_verbose" json:"install_verbose"`

	// DriverDirectory overrides where the Playwright driver is cached
	DriverDirectory string `yaml:"driver_directory" json:"driver_directory"`

	CreateTimeout time.Duration `yaml:"create_timeout" json:"create_timeout"`
	LaunchTimeout time.Duration `yaml:"launch_timeout" json:"launch_timeout"`

	// EnvFiles are .env files overlaid on the process environment, in order
	EnvFiles []string `yaml:"env_files" json:"env_files"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Dir is the log directory. Empty means ~/.pwsession/logs.
	Dir string `yaml:"dir" json:"dir"`

	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Browser:       session.DefaultBrowser.String(),
		CreateTimeout: session.DefaultCreateTimeout,
		LaunchTimeout: session.DefaultLaunchTimeout,
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// DefaultPath returns ~/.pwsession/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pwsession", "config.yaml"), nil
}

// Load reads path on top of DefaultConfig. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path atomically, creating the directory when needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Browser != "" {
		if _, err := session.ParseBrowser(c.Browser); err != nil {
			return fmt.Errorf("browser: %w", err)
		}
	}

	for _, name := range c.InstallBrowsers {
		if _, err := session.ParseBrowser(name); err != nil {
			return fmt.Errorf("install_browsers: %w", err)
		}
	}

	if c.CreateTimeout < 0 {
		return fmt.Errorf("create_timeout cannot be negative")
	}
	if c.LaunchTimeout < 0 {
		return fmt.Errorf("launch_timeout cannot be negative")
	}

	if _, err := logging.ParseVerbosity(c.Logging.Verbosity); err != nil {
		return err
	}
	return nil
}

// Level returns the logging level for the configured verbosity.
func (c *Config) Level() logging.Level {
	level, err := logging.ParseVerbosity(c.Logging.Verbosity)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

// SessionOptions builds bootstrapper options from the configuration. env is
// the environment snapshot used for browser selection.
func (c *Config) SessionOptions(env session.Environment, logger *logging.Logger) session.Options {
	var browser session.Browser
	if b, err := session.ParseBrowser(c.Browser); err == nil {
		browser = b
	}

	installer := &session.PlaywrightInstaller{
		Browsers:        c.InstallBrowsers,
		DriverDirectory: c.DriverDirectory,
		Verbose:         c.InstallVerbose,
	}
	if logger != nil {
		installer.Output = logger.Writer()
	}

	opts := session.Options{
		Installer:      installer,
		NewDriver:      session.PlaywrightDriverFactory(c.runOptions()),
		Environment:    env,
		DefaultBrowser: browser,
		CreateTimeout:  c.CreateTimeout,
		LaunchTimeout:  c.LaunchTimeout,
	}
	if logger != nil {
		opts.Logger = logger
	}
	return opts
}
