package selftest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/joss/pricelist/internal/pricing"
)

// Environment describes what this machine can run.
type Environment struct {
	HasTTY bool
	Source string
	Health *HealthStatus
}

// Check probes the pricing source and the scraper browser.
func Check(ctx context.Context, loader *pricing.Loader, source, browserBin string) *Environment {
	return &Environment{
		HasTTY: term.IsTerminal(int(os.Stdout.Fd())),
		Source: source,
		Health: CheckHealth(ctx, Checks(loader, source, browserBin)),
	}
}

// Checks is the standard component set.
func Checks(loader *pricing.Loader, source, browserBin string) map[string]ComponentCheck {
	return map[string]ComponentCheck{
		"pricing": PricingCheck(loader, source),
		"browser": BrowserCheck(browserBin),
	}
}

// IsHealthy is false when any component errored.
func (e *Environment) IsHealthy() bool {
	return e.Health.Status != "unhealthy"
}

// CanView reports whether the price list can be shown.
func (e *Environment) CanView() bool {
	return e.Health.Components["pricing"].Status != StatusError
}

// CanScrape reports whether a browser is available.
func (e *Environment) CanScrape() bool {
	return e.Health.Components["browser"].Status == StatusOK
}

// Summary returns a human-readable report.
func (e *Environment) Summary() string {
	var sb strings.Builder

	sb.WriteString("PRICELIST ENVIRONMENT CHECK\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n")

	ttyStatus := "No (list output will be used)"
	if e.HasTTY {
		ttyStatus = "Yes (interactive view available)"
	}
	sb.WriteString(fmt.Sprintf("TTY:          %s\n", ttyStatus))
	sb.WriteString(fmt.Sprintf("Source:       %s\n", e.Source))

	names := make([]string, 0, len(e.Health.Components))
	for name := range e.Health.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("\nCOMPONENTS\n")
	for _, name := range names {
		c := e.Health.Components[name]
		line := fmt.Sprintf("  %s %-10s %s", icon(c.Status), name, c.Status)
		if c.Detail != "" {
			line += " (" + c.Detail + ")"
		}
		sb.WriteString(line + "\n")
		if c.Error != "" {
			sb.WriteString("      " + c.Error + "\n")
		}
	}

	sb.WriteString("\nCAPABILITIES\n")
	sb.WriteString(fmt.Sprintf("  %s view/list/serve\n", boolIcon(e.CanView())))
	sb.WriteString(fmt.Sprintf("  %s scrape\n", boolIcon(e.CanScrape())))
	return sb.String()
}

// QuickCheck returns a one-line status.
func (e *Environment) QuickCheck() string {
	var problems []string
	for _, name := range []string{"pricing", "browser"} {
		if c, ok := e.Health.Components[name]; ok && c.Status != StatusOK {
			problems = append(problems, name+" "+c.Status)
		}
	}
	if len(problems) == 0 {
		return "✓ Environment OK"
	}
	return "✗ " + strings.Join(problems, ", ")
}

func icon(status string) string {
	switch status {
	case StatusOK:
		return "✓"
	case StatusDegraded:
		return "!"
	}
	return "✗"
}

func boolIcon(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
