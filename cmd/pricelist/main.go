// Package main provides the pricelist CLI entrypoint.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/config"
	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/view"
)

var (
	version     = "0.1.0"
	pretty      = true
	pricingSrc  string
	viewFlag    string
	env         *config.Env
	auditLogger *audit.Logger
	logFile     *os.File
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pricelist",
		Short: "Browse AI model API prices",
		Long: `pricelist: compare API prices across AI model providers.

Usage modes:
  pricelist            Interactive price list (plain listing when not a terminal)
  pricelist <command>  Run a specific command (see below)

Prices come from pricing.json (--pricing or PRICELIST_PRICING, path or URL).`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env = config.Load()
			if !cmd.Flags().Changed("pricing") {
				pricingSrc = env.Pricing
			}
			if !cmd.Flags().Changed("view") {
				viewFlag = env.View
			}
			initLogging(isInteractive(cmd))
			auditLogger = audit.Global()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
			if logFile != nil {
				logFile.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			runView(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&pricingSrc, "pricing", config.DefaultPricing, "Pricing document path or URL")
	rootCmd.PersistentFlags().StringVar(&viewFlag, "view", config.DefaultView, "Presentation: cards or table")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Colorize output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "browse", Title: "Browse:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)

	viewC := viewCmd()
	viewC.GroupID = "browse"
	rootCmd.AddCommand(viewC)

	list := listCmd()
	list.GroupID = "browse"
	rootCmd.AddCommand(list)

	serve := serveCmd()
	serve.GroupID = "browse"
	rootCmd.AddCommand(serve)

	scrapeC := scrapeCmd()
	scrapeC.GroupID = "data"
	rootCmd.AddCommand(scrapeC)

	check := checkCmd()
	check.GroupID = "data"
	rootCmd.AddCommand(check)

	doctor := doctorCmd()
	doctor.GroupID = "data"
	rootCmd.AddCommand(doctor)

	// Ungrouped
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// isInteractive reports whether cmd will take over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	if cmd.Name() != "pricelist" && cmd.Name() != "view" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// initLogging sends logs to PRICELIST_LOG_FILE when set. Without it the
// interactive view discards logs, since stderr would corrupt the screen.
func initLogging(interactive bool) {
	switch {
	case env.LogFile != "":
		f, err := os.OpenFile(env.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
			logging.Init(env.LogLevel)
			return
		}
		logFile = f
		logging.InitTo(env.LogLevel, f)
	case interactive:
		logging.InitTo(env.LogLevel, io.Discard)
	default:
		logging.Init(env.LogLevel)
	}
}

// mode resolves --view (or PRICELIST_VIEW) and exits on a bad value.
func mode(event *audit.AuditEvent) view.Mode {
	m, err := view.ParseMode(viewFlag)
	if err != nil {
		exitOnError(event, err)
	}
	return m
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show pricelist version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricelist version %s\n", version)
		},
	}
}
