package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/pwsession/pkg/config"
	"github.com/entrhq/pwsession/pkg/logging"
	"github.com/entrhq/pwsession/pkg/session"
)

var (
	configPath string
	envFiles   []string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pwsession",
		Short:         "Bootstrap Playwright browser sessions for UI tests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (YAML, default ~/.pwsession/config.yaml)")
	cmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", nil, "Read environment variables from a .env file (repeatable)")

	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(installCmd())
	cmd.AddCommand(smokeCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pwsession v%s\n", version)
		},
	})

	return cmd
}

// app bundles what every browser-facing command needs.
type app struct {
	cfg    *config.Config
	env    session.Environment
	logger *logging.Logger
}

func loadApp(component string) (*app, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	env, err := config.LoadEnvironment(append(cfg.EnvFiles, envFiles...)...)
	if err != nil {
		return nil, err
	}

	// A fallback logger is still usable; the warning is already on stderr.
	logger, _ := logging.NewLogger(component, cfg.Logging.Dir, cfg.Level())

	return &app{cfg: cfg, env: env, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Close()
}

// exitStatus maps bootstrap failures to distinct process exit codes.
func exitStatus(err error) int {
	var installErr *session.InstallError
	switch {
	case errors.As(err, &installErr):
		return 3
	case errors.Is(err, session.ErrTimeout):
		return 4
	case errors.Is(err, session.ErrInvalidBrowser):
		return 2
	default:
		return 1
	}
}
