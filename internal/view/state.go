// Package view holds the price list state and the pure filter, search and sort pipeline
// shared by every front end.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/joss/pricelist/internal/pricing"
)

// Mode selects the presentation.
type Mode string

const (
	ModeCards Mode = "cards"
	ModeTable Mode = "table"
)

// ParseMode maps a flag or query value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cards", "card", "grid":
		return ModeCards, nil
	case "table":
		return ModeTable, nil
	}
	return ModeCards, fmt.Errorf("unknown view mode %q", s)
}

// DefaultSort is the initial sort for a mode: cards keep document order,
// the table starts cheapest input first.
func DefaultSort(m Mode) Sort {
	if m == ModeTable {
		return Sort{Key: SortInputPrice, Ascending: true}
	}
	return Sort{Key: SortNone, Ascending: true}
}

// User-visible messages
const (
	FailedMessage      = "Failed to load pricing data. Please try again later."
	EmptyMessage       = "No models match your filters."
	NotesPlaceholder   = "—"
	lastUpdatedUnknown = "unknown"
)

// ProviderOption is one provider checkbox.
type ProviderOption struct {
	ID       string
	Name     string
	Selected bool
}

// State is everything a front end needs to render the price list.
// Rows is the full unfiltered set and is never modified.
type State struct {
	Rows        []pricing.Row
	Providers   []ProviderOption
	Spec        Spec
	Mode        Mode
	LastUpdated time.Time
	LoadErr     error
}

// NewState builds the initial state for a loaded document.
func NewState(doc *pricing.Document, mode Mode) State {
	providers := make([]ProviderOption, 0, len(doc.Providers))
	for _, p := range doc.Providers {
		providers = append(providers, ProviderOption{ID: p.ID, Name: p.Name, Selected: true})
	}
	return State{
		Rows:      pricing.Flatten(doc),
		Providers: providers,
		Spec: Spec{
			Selection: SelectAll(doc.ProviderIDs()),
			Sort:      DefaultSort(mode),
		},
		Mode:        mode,
		LastUpdated: doc.LastUpdated,
	}
}

// FailedState is the state shown when the document could not be loaded.
func FailedState(err error, mode Mode) State {
	return State{Mode: mode, LoadErr: err, Spec: Spec{Sort: DefaultSort(mode)}}
}

// Event is a user input notification.
type Event interface {
	isEvent()
}

// ToggleProvider flips one provider checkbox.
type ToggleProvider struct{ ID string }

// SetProviders replaces the selection. Unknown IDs are ignored.
type SetProviders struct{ IDs []string }

// SetSearch replaces the search text.
type SetSearch struct{ Text string }

// SelectSort is the sort selector: the chosen key, always ascending.
type SelectSort struct{ Key SortKey }

// ClickHeader is a column header click: same key flips, new key starts ascending.
type ClickHeader struct{ Key SortKey }

// SetSort sets key and direction explicitly.
type SetSort struct{ Sort Sort }

// SetMode switches presentation without touching filters.
type SetMode struct{ Mode Mode }

func (ToggleProvider) isEvent() {}
func (SetProviders) isEvent()   {}
func (SetSearch) isEvent()      {}
func (SelectSort) isEvent()     {}
func (ClickHeader) isEvent()    {}
func (SetSort) isEvent()        {}
func (SetMode) isEvent()        {}

// Dispatch applies ev and returns the next state with its rendered view model.
func Dispatch(s State, ev Event) (State, ViewModel) {
	next := Reduce(s, ev)
	return next, Render(next)
}

// Reduce is the state transition half of Dispatch.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case ToggleProvider:
		if !s.hasProvider(e.ID) {
			return s
		}
		sel := cloneSelection(s.Spec.Selection)
		sel[e.ID] = !sel[e.ID]
		s.setSelection(sel)
	case SetProviders:
		sel := make(map[string]bool, len(e.IDs))
		for _, id := range e.IDs {
			if s.hasProvider(id) {
				sel[id] = true
			}
		}
		s.setSelection(sel)
	case SetSearch:
		s.Spec.Search = e.Text
	case SelectSort:
		s.Spec.Sort = Sort{Key: e.Key, Ascending: true}
	case ClickHeader:
		s.Spec.Sort = ToggleSort(s.Spec.Sort, e.Key)
	case SetSort:
		s.Spec.Sort = e.Sort
	case SetMode:
		s.Mode = e.Mode
	}
	return s
}

func (s State) hasProvider(id string) bool {
	for _, p := range s.Providers {
		if p.ID == id {
			return true
		}
	}
	return false
}

// setSelection installs sel and rebuilds the checkbox list without aliasing the old one.
func (s *State) setSelection(sel map[string]bool) {
	providers := make([]ProviderOption, len(s.Providers))
	for i, p := range s.Providers {
		p.Selected = sel[p.ID]
		providers[i] = p
	}
	s.Providers = providers
	s.Spec.Selection = sel
}

func cloneSelection(sel map[string]bool) map[string]bool {
	out := make(map[string]bool, len(sel))
	for k, v := range sel {
		if v {
			out[k] = true
		}
	}
	return out
}
