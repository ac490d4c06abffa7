package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/view"
)

type changedMsg struct{}

// watcher reports writes to a local pricing file. The parent directory is
// watched so editors that replace the file by rename are still seen.
type watcher struct {
	fs     *fsnotify.Watcher
	name   string
	events chan struct{}
}

func newWatcher(source string) (*watcher, error) {
	if pricing.IsURL(source) {
		return nil, nil
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &watcher{fs: fw, name: abs, events: make(chan struct{}, 1)}
	logging.SafeGo("tui", w.loop)
	return w, nil
}

func (w *watcher) loop() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.name || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// wait blocks until the next change. A nil watcher never fires.
func (w *watcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.events; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (w *watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.fs.Close()
}

// carryOver replays the user's filters and sort from prev onto a freshly
// loaded state. Providers that disappeared from the document are dropped.
func carryOver(prev, next view.State) view.State {
	if prev.LoadErr != nil || prev.Rows == nil {
		return next
	}
	for _, p := range prev.Providers {
		if !p.Selected {
			next = view.Reduce(next, view.ToggleProvider{ID: p.ID})
		}
	}
	next = view.Reduce(next, view.SetSearch{Text: prev.Spec.Search})
	return view.Reduce(next, view.SetSort{Sort: prev.Spec.Sort})
}
