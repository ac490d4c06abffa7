package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/view"
)

const testPricing = "../pricing/testdata/pricing.json"

func init() {
	logging.InitTo("error", io.Discard)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func loaded(t *testing.T, mode view.Mode) Model {
	t.Helper()
	m := New(pricing.NewLoader(), testPricing, mode)
	msg := m.load()()
	require.IsType(t, docMsg{}, msg)
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 60}, msg)
}

func modelNames(vm view.ViewModel) []string {
	names := make([]string, 0, len(vm.Rows))
	for _, r := range vm.Rows {
		names = append(names, r.ModelName)
	}
	return names
}

func TestLoading(t *testing.T) {
	m := New(pricing.NewLoader(), testPricing, view.ModeCards)
	assert.Contains(t, m.View(), "Loading pricing data")

	m = loaded(t, view.ModeCards)
	assert.Len(t, m.vm.Rows, 6)
	out := m.View()
	assert.Contains(t, out, "Last updated: Jan 15, 2025 00:00 UTC")
	assert.Contains(t, out, "[x] 1 OpenAI")
	assert.Contains(t, out, "GPT-4o mini")
	assert.Contains(t, out, "Cheapest OpenAI chat model")
}

func TestLoadFailure(t *testing.T) {
	m := New(pricing.NewLoader(), "testdata/missing.json", view.ModeCards)
	msg := m.load()()
	require.IsType(t, errMsg{}, msg)

	m = send(t, m, msg)
	assert.True(t, m.vm.Failed)
	assert.Contains(t, m.View(), view.FailedMessage)

	// search is unavailable without data
	m = send(t, m, runes("/"))
	assert.False(t, m.searching)
}

func TestToggleProvider(t *testing.T) {
	m := loaded(t, view.ModeCards)

	m = send(t, m, runes("2"))
	assert.False(t, m.state.Spec.Selection["anthropic"])
	assert.Len(t, m.vm.Rows, 3)
	assert.Contains(t, m.View(), "[ ] 2 Anthropic")

	m = send(t, m, runes("2"))
	assert.Len(t, m.vm.Rows, 6)

	// out of range keys are ignored
	m = send(t, m, runes("9"))
	assert.Len(t, m.vm.Rows, 6)
}

func TestSearch(t *testing.T) {
	m := loaded(t, view.ModeCards)

	m = send(t, m, runes("/"))
	require.True(t, m.searching)

	m = send(t, m, runes("h"), runes("a"), runes("i"), runes("k"), runes("u"))
	assert.Equal(t, "haiku", m.vm.Search)
	assert.Equal(t, []string{"Claude 3.5 Haiku"}, modelNames(m.vm))

	// q types into the box instead of quitting
	m = send(t, m, runes("q"))
	assert.True(t, m.vm.Empty)
	assert.Contains(t, m.View(), view.EmptyMessage)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	assert.Equal(t, "haikuq", m.vm.Search)
}

func TestSortKeysCards(t *testing.T) {
	m := loaded(t, view.ModeCards)
	assert.Equal(t, view.SortNone, m.vm.Sort.Key)

	m = send(t, m, runes("i"))
	assert.Equal(t, view.Sort{Key: view.SortInputPrice, Ascending: true}, m.vm.Sort)
	assert.Equal(t, "Gemini 1.5 Flash", m.vm.Rows[0].ModelName)

	// the selector never flips direction
	m = send(t, m, runes("i"))
	assert.True(t, m.vm.Sort.Ascending)

	m = send(t, m, runes("r"))
	assert.Equal(t, view.SortNone, m.vm.Sort.Key)
	assert.Equal(t, "GPT-4o", m.vm.Rows[0].ModelName)
}

func TestSortKeysTable(t *testing.T) {
	m := loaded(t, view.ModeTable)
	assert.Equal(t, view.Sort{Key: view.SortInputPrice, Ascending: true}, m.vm.Sort)
	assert.Contains(t, m.View(), "Input ▲")

	m = send(t, m, runes("i"))
	assert.False(t, m.vm.Sort.Ascending)
	assert.Equal(t, "Claude 3 Opus", m.vm.Rows[0].ModelName)
	assert.Contains(t, m.View(), "Input ▼")

	m = send(t, m, runes("o"))
	assert.Equal(t, view.Sort{Key: view.SortOutputPrice, Ascending: true}, m.vm.Sort)
}

func TestTabSwitchesMode(t *testing.T) {
	m := loaded(t, view.ModeCards)
	m = send(t, m, runes("2"), tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, view.ModeTable, m.vm.Mode)
	assert.Len(t, m.vm.Rows, 3, "filters survive a mode switch")
	out := m.View()
	assert.Contains(t, out, "Notes")
	assert.Contains(t, out, view.NotesPlaceholder)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, view.ModeCards, m.vm.Mode)
}

func TestQuit(t *testing.T) {
	m := loaded(t, view.ModeCards)
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestCardsWrapToWidth(t *testing.T) {
	m := loaded(t, view.ModeCards)
	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 200})

	for _, line := range strings.Split(m.body(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40)
	}
}

func TestReloadKeepsFilters(t *testing.T) {
	m := loaded(t, view.ModeTable)
	m = send(t, m, runes("2"), runes("o"), runes("o"))
	require.False(t, m.state.Spec.Selection["anthropic"])
	require.Equal(t, view.Sort{Key: view.SortOutputPrice, Ascending: false}, m.vm.Sort)

	m = send(t, m, m.load()())
	assert.False(t, m.state.Spec.Selection["anthropic"])
	assert.True(t, m.state.Spec.Selection["openai"])
	assert.Equal(t, view.Sort{Key: view.SortOutputPrice, Ascending: false}, m.vm.Sort)
	assert.Len(t, m.vm.Rows, 3)
}

func TestWatcherSeesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := newWatcher(path)
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"providers":{}}`), 0o644))
	select {
	case <-w.events:
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcherSkipsURLs(t *testing.T) {
	w, err := newWatcher("https://example.com/pricing.json")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Nil(t, w.wait())
	assert.NoError(t, w.Close())
}
