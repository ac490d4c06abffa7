package web

import (
	"net/url"
	"strings"

	"github.com/joss/pricelist/internal/render"
	"github.com/joss/pricelist/internal/view"
)

// filteredParam marks a submitted filter form, so an empty provider list
// means "none selected" rather than "not specified".
const filteredParam = "filtered"

type header struct {
	Label string
	URL   string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type page struct {
	VM             view.ViewModel
	Mode           string
	SortKey        string
	SortDir        string
	SortOptions    []sortOption
	Headers        []header
	OtherModeURL   string
	OtherModeLabel string
}

// applyQuery replays the request's query parameters as view events.
func applyQuery(s view.State, q url.Values) (view.State, error) {
	if _, ok := q[filteredParam]; ok || len(q["provider"]) > 0 {
		s = view.Reduce(s, view.SetProviders{IDs: q["provider"]})
	}
	if search := q.Get("q"); search != "" {
		s = view.Reduce(s, view.SetSearch{Text: search})
	}
	if raw, ok := q["sort"]; ok {
		key, err := view.ParseSortKey(raw[0])
		if err != nil {
			return s, err
		}
		s = view.Reduce(s, view.SetSort{Sort: view.Sort{
			Key:       key,
			Ascending: !strings.EqualFold(q.Get("dir"), "desc"),
		}})
	}
	return s, nil
}

func newPage(vm view.ViewModel, q url.Values) page {
	p := page{
		VM:      vm,
		Mode:    string(vm.Mode),
		SortKey: string(vm.Sort.Key),
		SortDir: direction(vm.Sort),
	}

	p.SortOptions = append(p.SortOptions, sortOption{
		Value:    "none",
		Label:    view.SortNone.Label(),
		Selected: vm.Sort.Key == view.SortNone,
	})
	for _, k := range view.SortKeys {
		p.SortOptions = append(p.SortOptions, sortOption{
			Value:    string(k),
			Label:    k.Label(),
			Selected: vm.Sort.Key == k,
		})
	}

	for _, k := range render.TableColumns {
		p.Headers = append(p.Headers, header{
			Label: render.HeaderLabel(k, vm.Sort),
			URL:   linkTo(q, vm.Mode, view.ToggleSort(vm.Sort, k)),
		})
	}

	other := view.ModeTable
	if vm.Mode == view.ModeTable {
		other = view.ModeCards
	}
	p.OtherModeURL = linkTo(q, other, view.DefaultSort(other))
	p.OtherModeLabel = "Switch to " + string(other)
	return p
}

func (p page) outcome() string {
	switch {
	case p.VM.Failed:
		return "failed"
	case p.VM.Empty:
		return "empty"
	}
	return "ok"
}

// linkTo keeps filters and search from q and replaces mode and sort.
func linkTo(q url.Values, mode view.Mode, s view.Sort) string {
	next := url.Values{}
	for _, id := range q["provider"] {
		next.Add("provider", id)
	}
	if _, ok := q[filteredParam]; ok {
		next.Set(filteredParam, "1")
	}
	if search := q.Get("q"); search != "" {
		next.Set("q", search)
	}
	next.Set("view", string(mode))
	if s.Key != view.SortNone {
		next.Set("sort", string(s.Key))
		next.Set("dir", direction(s))
	}
	return "/?" + next.Encode()
}

func direction(s view.Sort) string {
	if s.Ascending {
		return "asc"
	}
	return "desc"
}
