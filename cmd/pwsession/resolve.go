package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/pwsession/pkg/session"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [browser]",
		Short: "Show which browser engine a bootstrap would launch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("resolve")
			if err != nil {
				return err
			}
			defer a.close()

			explicit := ""
			if len(args) > 0 {
				explicit = args[0]
			}

			fallback, _ := session.ParseBrowser(a.cfg.Browser)
			selection, err := session.ResolveBrowser(explicit, a.env, fallback)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render("browser:"), valueStyle.Render(selection.String()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render("source: "), source(explicit, a.env))
			return nil
		},
	}
}

func source(explicit string, env session.Environment) string {
	switch {
	case explicit != "":
		return "argument"
	case env.Get(session.BrowserNameEnv) != "":
		return session.BrowserNameEnv
	default:
		return "default"
	}
}
