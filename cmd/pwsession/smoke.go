package main

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/entrhq/pwsession/pkg/probe"
	"github.com/entrhq/pwsession/pkg/session"
)

const defaultSmokeURL = "data:text/html,<title>pwsession</title><h1>ready</h1>"

// smokeOptions builds the bootstrapper options for the smoke command.
var smokeOptions = func(a *app) session.Options {
	return a.cfg.SessionOptions(a.env, a.logger)
}

func smokeCmd() *cobra.Command {
	var (
		browser string
		url     string
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Bootstrap a session, load a page and close the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp("smoke")
			if err != nil {
				return err
			}
			defer a.close()

			b := session.New(smokeOptions(a))
			out := cmd.OutOrStdout()

			err = session.With(cmd.Context(), b, browser, func(s *session.Session) error {
				fmt.Fprintf(out, "%s %s (headless=%t)\n", labelStyle.Render("launched:"), valueStyle.Render(s.Selection.String()), s.Headless)

				page, err := s.NewPage()
				if err != nil {
					return err
				}

				if _, err := page.Goto(url, playwright.PageGotoOptions{
					WaitUntil: playwright.WaitUntilStateLoad,
				}); err != nil {
					return fmt.Errorf("navigation failed: %w", err)
				}

				content, err := page.Content()
				if err != nil {
					return fmt.Errorf("failed to read page content: %w", err)
				}

				summary, err := probe.Summarize(content)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s %q\n", labelStyle.Render("title:   "), summary.Title)
				fmt.Fprintf(out, "%s %d headings, %d links, %d forms\n", labelStyle.Render("content: "), summary.Headings, summary.Links, summary.Forms)
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, okStyle.Render("✓ session closed cleanly"))
			return nil
		},
	}

	cmd.Flags().StringVar(&browser, "browser", "", "Browser engine: chromium, firefox or webkit (default: $Playwright.BrowserName, then config)")
	cmd.Flags().StringVar(&url, "url", defaultSmokeURL, "Page to load")
	return cmd
}
