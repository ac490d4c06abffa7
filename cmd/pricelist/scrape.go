package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/metrics"
	"github.com/joss/pricelist/internal/render"
	"github.com/joss/pricelist/internal/scrape"
)

func scrapeCmd() *cobra.Command {
	var (
		out      string
		headless bool
		bin      string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Capture provider pricing pages as raw text",
		Long: `Open the OpenAI, Anthropic, Gemini and Grok pricing pages in a headless
browser and write their visible text to raw-pricing-data.json.

Prices are not extracted; use the output to update pricing.json by hand.
A page that fails is recorded as {"error": ...} and does not stop the others.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start(audit.CategoryScrape, "scrape")
			if !cmd.Flags().Changed("out") {
				out = env.ScrapeOut
			}
			if !cmd.Flags().Changed("headless") {
				headless = env.Headless
			}
			if !cmd.Flags().Changed("browser") {
				bin = env.BrowserBin
			}
			event.Set("out", out)

			capturer, err := scrape.NewRodCapturer(scrape.RodOptions{
				Bin:       bin,
				Headless:  headless,
				UserAgent: scrape.DefaultUserAgent,
			})
			if err != nil {
				logging.New("scrape").Error("browser_launch_failed", map[string]any{"bin": bin}, err)
				exitOnError(event, err)
			}

			ctx, stop := signalContext()
			report, err := runScrape(ctx, cmd.OutOrStdout(), capturer, out)
			stop()
			if err != nil {
				exitOnError(event, err)
			}

			event.Set("failures", report.Failures())
			if n := report.Failures(); n > 0 {
				auditLogger.LogWarning(event, fmt.Sprintf("%d of %d pages failed", n, len(scrape.DefaultTargets)))
				return
			}
			auditLogger.LogSuccess(event)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "raw-pricing-data.json", "Output file")
	cmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	cmd.Flags().StringVar(&bin, "browser", "", "Chrome binary (default: auto-detect)")
	return cmd
}

// summaryErrWidth bounds a failure in the summary; the full text is in the report.
const summaryErrWidth = 100

// runScrape captures every target, closes the browser, then writes the
// report and prints a summary.
func runScrape(ctx context.Context, w io.Writer, c scrape.Capturer, out string) (scrape.Report, error) {
	report := scrape.New(c, scrape.WithMetrics(metrics.Global())).Run(ctx)
	if closer, ok := c.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logging.New("scrape").Warn("browser_close_failed", nil, err)
		}
	}
	if err := scrape.WriteReport(out, report); err != nil {
		return report, err
	}

	r := render.NewWriter(w)
	r.Header("Scrape results")
	for _, t := range scrape.DefaultTargets {
		res, _ := report.Get(t.ID)
		if res.Failed() {
			r.Item("%s %-18s %s", render.BoolIcon(false), t.Name, render.Truncate(res.Error, summaryErrWidth))
			continue
		}
		r.Item("%s %-18s %d chars", render.BoolIcon(true), t.Name, len([]rune(res.RawText)))
	}
	r.Line()
	r.Println("Saved to %s", out)
	return report, nil
}
