package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joss/pricelist/internal/audit"
	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/render"
	"github.com/joss/pricelist/internal/view"
)

type listOptions struct {
	providers []string
	search    string
	sort      string
	desc      bool
	json      bool
}

// jsonRow is one row of list --json output.
type jsonRow struct {
	Provider     string  `json:"provider"`
	ProviderName string  `json:"providerName"`
	Model        string  `json:"model"`
	InputPrice   float64 `json:"inputPrice"`
	OutputPrice  float64 `json:"outputPrice"`
	Unit         string  `json:"unit"`
	Notes        string  `json:"notes,omitempty"`
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the price list",
		Long: `Print the filtered, sorted price list.

Examples:
  pricelist list                                # every model, cards
  pricelist list --view table                   # table, cheapest input first
  pricelist list --provider openai -p gemini    # two providers
  pricelist list --search claude --sort output --desc
  pricelist list --json`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runListCmd(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.providers, "provider", "p", nil, "Only these provider ids (repeatable)")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Case-insensitive match on model or provider name")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by name, provider, input or output")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output rows as JSON")
	return cmd
}

func runListCmd(cmd *cobra.Command, opts listOptions) {
	event := auditLogger.Start(audit.CategoryView, "list")
	m := mode(event)
	event.Set("mode", string(m)).Set("source", pricingSrc)

	err := runList(cmd.Context(), cmd.OutOrStdout(), pricingSrc, m, opts)
	if err != nil {
		exitOnError(event, err)
	}
	auditLogger.LogSuccess(event)
}

// runList loads source and writes the view. A load failure still prints the
// failure message before the error is returned.
func runList(ctx context.Context, w io.Writer, source string, m view.Mode, opts listOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	state, err := listState(ctx, source, m, opts)
	if err != nil && state.LoadErr == nil {
		return err
	}

	vm := view.Render(state)
	if opts.json && !vm.Failed {
		return writeJSON(w, view.Apply(state.Rows, state.Spec))
	}
	fmt.Fprint(w, render.New(pretty).View(vm))
	return state.LoadErr
}

func listState(ctx context.Context, source string, m view.Mode, opts listOptions) (view.State, error) {
	log := logging.New("list")

	doc, err := pricing.NewLoader().Load(ctx, source)
	if err != nil {
		return view.FailedState(err, m), err
	}

	state := view.NewState(doc, m)
	if len(opts.providers) > 0 {
		state = view.Reduce(state, view.SetProviders{IDs: opts.providers})
	}
	if opts.search != "" {
		state = view.Reduce(state, view.SetSearch{Text: opts.search})
	}

	sort := state.Spec.Sort
	if opts.sort != "" {
		key, err := view.ParseSortKey(opts.sort)
		if err != nil {
			return state, err
		}
		sort = view.Sort{Key: key, Ascending: true}
	}
	if opts.desc {
		sort.Ascending = false
	}
	state = view.Reduce(state, view.SetSort{Sort: sort})

	log.Debug("list_state", map[string]any{
		"providers": len(opts.providers),
		"search":    opts.search,
		"sort":      string(sort.Key),
	})
	return state, nil
}

func writeJSON(w io.Writer, rows []pricing.Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, jsonRow{
			Provider:     r.ProviderID,
			ProviderName: r.ProviderName,
			Model:        r.ModelName,
			InputPrice:   r.InputPrice,
			OutputPrice:  r.OutputPrice,
			Unit:         r.Unit,
			Notes:        r.Notes,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
