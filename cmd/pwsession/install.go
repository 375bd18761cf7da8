package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/pwsession/pkg/session"
)

func installCmd() *cobra.Command {
	var browsers []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the Playwright driver and browser binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("install")
			if err != nil {
				return err
			}
			defer a.close()

			if len(browsers) == 0 {
				browsers = a.cfg.InstallBrowsers
			}
			for _, name := range browsers {
				if _, err := session.ParseBrowser(name); err != nil {
					return err
				}
			}

			installer := &session.PlaywrightInstaller{
				Browsers:        browsers,
				DriverDirectory: a.cfg.DriverDirectory,
				Verbose:         true,
				Output:          os.Stderr,
			}

			code, err := installer.Install(cmd.Context())
			if err != nil {
				return err
			}
			if code != 0 {
				return &session.InstallError{ExitCode: code}
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ playwright binaries installed"))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&browsers, "browser", nil, "Browsers to install (default: config install_browsers, or all)")
	return cmd
}
