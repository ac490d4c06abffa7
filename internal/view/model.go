package view

import (
	"fmt"

	"github.com/joss/pricelist/internal/pricing"
)

// ViewModel is a fully computed screen, ready for any renderer.
type ViewModel struct {
	Mode        Mode
	LastUpdated string
	Providers   []ProviderOption
	Search      string
	Sort        Sort
	Rows        []RowView
	Total       int

	// Empty is set when valid data was filtered down to nothing.
	Empty bool
	// Failed is set when the document did not load; no rows are shown.
	Failed  bool
	Message string
}

// RowView is a display-formatted row.
type RowView struct {
	ProviderID   string
	ProviderName string
	ModelName    string
	Input        string
	Output       string
	Unit         string
	Notes        string
	HasNotes     bool
}

// Render computes the view model for s.
func Render(s State) ViewModel {
	vm := ViewModel{
		Mode:        s.Mode,
		LastUpdated: formatUpdated(s),
		Providers:   s.Providers,
		Search:      s.Spec.Search,
		Sort:        s.Spec.Sort,
		Total:       len(s.Rows),
	}

	if s.LoadErr != nil {
		vm.Failed = true
		vm.Message = FailedMessage
		return vm
	}

	rows := Apply(s.Rows, s.Spec)
	if len(rows) == 0 {
		vm.Empty = true
		vm.Message = EmptyMessage
		return vm
	}

	vm.Rows = make([]RowView, 0, len(rows))
	for _, r := range rows {
		vm.Rows = append(vm.Rows, NewRowView(r))
	}
	return vm
}

// NewRowView formats prices to two decimals and fills the notes placeholder.
func NewRowView(r pricing.Row) RowView {
	rv := RowView{
		ProviderID:   r.ProviderID,
		ProviderName: r.ProviderName,
		ModelName:    r.ModelName,
		Input:        FormatPrice(r.InputPrice),
		Output:       FormatPrice(r.OutputPrice),
		Unit:         r.Unit,
		Notes:        NotesPlaceholder,
	}
	if r.HasNotes() {
		rv.Notes = r.Notes
		rv.HasNotes = true
	}
	return rv
}

// FormatPrice renders a price as dollars with two decimals.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func formatUpdated(s State) string {
	if s.LastUpdated.IsZero() {
		return lastUpdatedUnknown
	}
	return s.LastUpdated.Format("Jan 2, 2006 15:04 MST")
}
