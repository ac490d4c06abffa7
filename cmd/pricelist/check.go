package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/render"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [glob...]",
		Short: "Validate pricing documents",
		Long: `Parse and validate pricing documents.

Arguments are doublestar globs or URLs; the default is the --pricing source.
Exits non-zero when any document fails to parse or has issues.

Examples:
  pricelist check
  pricelist check 'data/**/*.json'
  pricelist check https://example.com/pricing.json`,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start(audit.CategoryCheck, "check")
			if len(args) == 0 {
				args = []string{pricingSrc}
			}
			event.Set("patterns", args)

			problems, err := runCheck(cmd.Context(), cmd.OutOrStdout(), args)
			if err != nil {
				exitOnError(event, err)
			}
			event.Set("problems", problems)
			if problems > 0 {
				exitOnError(event, fmt.Errorf("%d problem(s) found", problems))
			}
			auditLogger.LogSuccess(event)
		},
	}
}

// runCheck validates every document matched by patterns and returns the
// number of problems found. Only a bad pattern or no matches is an error.
func runCheck(ctx context.Context, w io.Writer, patterns []string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var sources []string
	for _, p := range patterns {
		if pricing.IsURL(p) {
			sources = append(sources, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return 0, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		sources = append(sources, matches...)
	}
	if len(sources) == 0 {
		return 0, fmt.Errorf("no documents match %v", patterns)
	}

	loader := pricing.NewLoader()
	r := render.NewWriter(w)
	problems := 0
	for _, src := range sources {
		r.Println("%s:", src)
		doc, err := loader.Load(ctx, src)
		if err != nil {
			r.Item("%s %v", render.BoolIcon(false), err)
			problems++
			continue
		}

		issues := pricing.Validate(doc)
		if len(issues) == 0 {
			r.Item("%s %d providers, %d models", render.BoolIcon(true), len(doc.Providers), doc.ModelCount())
			continue
		}
		r.Item("%s %d issue(s)", render.BoolIcon(false), len(issues))
		for _, issue := range issues {
			r.Nested("%s", issue)
		}
		problems += len(issues)
	}

	if problems == 0 {
		r.Line()
		r.Println("All %d document(s) OK", len(sources))
	}
	return problems, nil
}
