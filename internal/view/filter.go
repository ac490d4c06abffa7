package view

import (
	"strings"

	"github.com/joss/pricelist/internal/pricing"
)

// Spec is the full set of user inputs that shape the displayed rows.
type Spec struct {
	// Selection holds the provider IDs to show. A missing ID is hidden.
	Selection map[string]bool
	Search    string
	Sort      Sort
}

// SelectAll returns a selection containing every id.
func SelectAll(ids []string) map[string]bool {
	sel := make(map[string]bool, len(ids))
	for _, id := range ids {
		sel[id] = true
	}
	return sel
}

// Apply filters by provider, then by search text, then sorts.
// rows is never modified; the result is a new slice.
func Apply(rows []pricing.Row, spec Spec) []pricing.Row {
	needle := strings.ToLower(spec.Search)

	out := make([]pricing.Row, 0, len(rows))
	for _, r := range rows {
		if !spec.Selection[r.ProviderID] {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		out = append(out, r)
	}

	sortRows(out, spec.Sort)
	return out
}

func matches(r pricing.Row, needle string) bool {
	return strings.Contains(strings.ToLower(r.ModelName), needle) ||
		strings.Contains(strings.ToLower(r.ProviderName), needle)
}
