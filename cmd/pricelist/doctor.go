package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/selftest"
)

func doctorCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check environment health",
		Long: `Diagnose the pricelist environment.

Checks:
  - Pricing source loads and validates
  - Chrome/Chromium is available for scrape
  - TTY availability`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start(audit.CategoryDoctor, "doctor")
			event.Set("source", pricingSrc)

			report := runDoctor(cmd.Context(), cmd.OutOrStdout(), pricingSrc, env.BrowserBin, verbose)
			event.Set("status", report.Health.Status)

			if !report.IsHealthy() {
				auditLogger.LogError(event, fmt.Errorf("environment %s", report.Health.Status))
				os.Exit(1)
			}
			auditLogger.LogSuccess(event)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostics")
	return cmd
}

// runDoctor prints the selftest report for source and browserBin.
func runDoctor(ctx context.Context, w io.Writer, source, browserBin string, verbose bool) *selftest.Environment {
	report := selftest.Check(ctx, pricing.NewLoader(), source, browserBin)
	if verbose {
		fmt.Fprint(w, report.Summary())
	} else {
		fmt.Fprintln(w, report.QuickCheck())
	}
	return report
}
