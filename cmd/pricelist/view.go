package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/tui"
)

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Interactive price list",
		Long: `Open the interactive price list.

Keys:
  tab       Switch between cards and table
  /         Search model and provider names
  1-9       Toggle provider N
  n p i o   Sort by name, provider, input or output price
  r         Reset sort
  q         Quit

Falls back to 'pricelist list' when stdout is not a terminal.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runView(cmd)
		},
	}
}

func runView(cmd *cobra.Command) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		runListCmd(cmd, listOptions{})
		return
	}

	event := auditLogger.Start(audit.CategoryView, "tui")
	m := mode(event)
	event.Set("mode", string(m)).Set("source", pricingSrc)

	if err := tui.Run(pricing.NewLoader(), pricingSrc, m); err != nil {
		exitOnError(event, err)
	}
	auditLogger.LogSuccess(event)
}
