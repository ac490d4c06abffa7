package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joss/pricelist/internal/pricing"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortNone        SortKey = ""
	SortName        SortKey = "name"
	SortProvider    SortKey = "provider"
	SortInputPrice  SortKey = "inputPrice"
	SortOutputPrice SortKey = "outputPrice"
)

// SortKeys lists the sortable columns in display order.
var SortKeys = []SortKey{SortName, SortProvider, SortInputPrice, SortOutputPrice}

// Label is the column heading for the key.
func (k SortKey) Label() string {
	switch k {
	case SortName:
		return "Model"
	case SortProvider:
		return "Provider"
	case SortInputPrice:
		return "Input"
	case SortOutputPrice:
		return "Output"
	default:
		return "Default"
	}
}

// ParseSortKey accepts the canonical keys plus a few short aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default":
		return SortNone, nil
	case "name", "model":
		return SortName, nil
	case "provider":
		return SortProvider, nil
	case "inputprice", "input", "input_price":
		return SortInputPrice, nil
	case "outputprice", "output", "output_price":
		return SortOutputPrice, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// Sort is the current column and direction.
type Sort struct {
	Key       SortKey
	Ascending bool
}

// Indicator is the arrow shown next to the active column.
func (s Sort) Indicator() string {
	if s.Key == SortNone {
		return ""
	}
	if s.Ascending {
		return "▲"
	}
	return "▼"
}

// ToggleSort flips direction when key is already active and resets to ascending otherwise.
func ToggleSort(cur Sort, key SortKey) Sort {
	if cur.Key == key {
		return Sort{Key: key, Ascending: !cur.Ascending}
	}
	return Sort{Key: key, Ascending: true}
}

// sortRows stable-sorts rows in place.
func sortRows(rows []pricing.Row, s Sort) {
	if s.Key == SortNone {
		return
	}

	var compare func(a, b pricing.Row) int
	switch s.Key {
	case SortName:
		c := collate.New(language.English)
		compare = func(a, b pricing.Row) int { return c.CompareString(a.ModelName, b.ModelName) }
	case SortProvider:
		c := collate.New(language.English)
		compare = func(a, b pricing.Row) int { return c.CompareString(a.ProviderName, b.ProviderName) }
	case SortInputPrice:
		compare = func(a, b pricing.Row) int { return cmp.Compare(a.InputPrice, b.InputPrice) }
	case SortOutputPrice:
		compare = func(a, b pricing.Row) int { return cmp.Compare(a.OutputPrice, b.OutputPrice) }
	default:
		return
	}

	if s.Ascending {
		slices.SortStableFunc(rows, compare)
		return
	}
	slices.SortStableFunc(rows, func(a, b pricing.Row) int { return compare(b, a) })
}
