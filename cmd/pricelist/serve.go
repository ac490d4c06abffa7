package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/metrics"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pricing.json and the HTML price list",
		Long: `Start the web server.

Routes:
  /               HTML price list (?provider=&q=&sort=&dir=&view=)
  /pricing.json   The pricing document
  /metrics        Prometheus metrics
  /health         Pricing source health (JSON, 503 when unreadable)
  /health-check   Liveness`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start(audit.CategoryServe, "serve")
			if !cmd.Flags().Changed("addr") {
				addr = env.Addr
			}
			m := mode(event)
			event.Set("addr", addr).Set("source", pricingSrc)

			srv := web.New(web.Options{Addr: addr, Pricing: pricingSrc, Mode: m}, pricing.NewLoader(), metrics.Global())

			ctx, stop := signalContext()
			defer stop()
			if err := srv.Run(ctx); err != nil {
				stop()
				exitOnError(event, err)
			}
			auditLogger.LogSuccess(event)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
