// Package tui provides the interactive terminal price list using Bubble Tea.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/view"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(cardWidth)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

const (
	cardWidth    = 34
	headerHeight = 5
	footerHeight = 2
)

// sortKeys maps key presses to sort columns.
var sortKeys = map[string]view.SortKey{
	"n": view.SortName,
	"p": view.SortProvider,
	"i": view.SortInputPrice,
	"o": view.SortOutputPrice,
}

// Model is the price list TUI model
type Model struct {
	loader *pricing.Loader
	source string
	mode   view.Mode

	state  view.State
	vm     view.ViewModel
	loaded bool

	// Components
	spinner   spinner.Model
	search    textinput.Model
	viewport  viewport.Model
	searching bool
	width     int
	height    int
	quitting  bool

	watch *watcher
	log   *logging.Logger
}

// Message types
type docMsg struct{ doc *pricing.Document }
type errMsg struct{ err error }

// New creates the model; the document is loaded by Init.
func New(loader *pricing.Loader, source string, mode view.Mode) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search models..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		loader:   loader,
		source:   source,
		mode:     mode,
		spinner:  s,
		search:   ti,
		viewport: viewport.New(80, 20),
		width:    80,
		log:      logging.New("tui"),
	}
}

// Init starts the spinner and the document load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.watch.wait())
}

func (m Model) load() tea.Cmd {
	loader, source := m.loader, m.source
	return func() tea.Msg {
		doc, err := loader.Load(context.Background(), source)
		if err != nil {
			return errMsg{err}
		}
		return docMsg{doc}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerHeight-footerHeight)
		m.refresh()
		return m, nil

	case docMsg:
		next := view.NewState(msg.doc, m.mode)
		if m.loaded {
			next = carryOver(m.state, next)
		}
		m.loaded = true
		m.state = next
		m.vm = view.Render(m.state)
		m.refresh()
		return m, nil

	case errMsg:
		m.log.Error("pricing_load_failed", map[string]any{"source": m.source}, msg.err)
		m.loaded = true
		m.state = view.FailedState(msg.err, m.mode)
		m.vm = view.Render(m.state)
		m.refresh()
		return m, nil

	case changedMsg:
		m.log.Info("pricing_reload", map[string]any{"source": m.source})
		return m, tea.Batch(m.load(), m.watch.wait())

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		next := view.ModeTable
		if m.state.Mode == view.ModeTable {
			next = view.ModeCards
		}
		m.mode = next
		m.dispatch(view.SetMode{Mode: next})
		return m, nil
	case "/":
		if m.vm.Failed {
			return m, nil
		}
		m.searching = true
		return m, m.search.Focus()
	case "r":
		m.dispatch(view.SetSort{Sort: view.DefaultSort(m.state.Mode)})
		return m, nil
	}

	if k, ok := sortKeys[key]; ok {
		if m.state.Mode == view.ModeTable {
			m.dispatch(view.ClickHeader{Key: k})
		} else {
			m.dispatch(view.SelectSort{Key: k})
		}
		return m, nil
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.state.Providers) {
		m.dispatch(view.ToggleProvider{ID: m.state.Providers[n-1].ID})
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateSearch feeds keys to the search box and filters as the user types.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.state.Spec.Search {
		m.dispatch(view.SetSearch{Text: m.search.Value()})
	}
	return m, cmd
}

func (m *Model) dispatch(ev view.Event) {
	if !m.loaded {
		return
	}
	m.state, m.vm = view.Dispatch(m.state, ev)
	m.refresh()
}

func (m *Model) refresh() {
	if !m.loaded {
		return
	}
	m.viewport.SetContent(m.body())
	m.viewport.GotoTop()
}

// Run starts the TUI. A local pricing file is reloaded whenever it changes.
func Run(loader *pricing.Loader, source string, mode view.Mode) error {
	m := New(loader, source, mode)
	w, err := newWatcher(source)
	if err != nil {
		m.log.Warn("pricing_watch_failed", map[string]any{"source": source}, err)
	}
	m.watch = w
	defer w.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
