package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joss/pricelist/internal/render"
	"github.com/joss/pricelist/internal/view"
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.loaded {
		return fmt.Sprintf("\n  %s Loading pricing data...", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) header() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Model Pricing"))
	b.WriteString("  " + infoStyle.Render("Last updated: "+m.vm.LastUpdated) + "\n")

	if m.vm.Failed {
		b.WriteString("\n\n\n")
		return b.String()
	}

	boxes := make([]string, 0, len(m.vm.Providers))
	for i, p := range m.vm.Providers {
		box := fmt.Sprintf("[ ] %d %s", i+1, p.Name)
		if p.Selected {
			box = activeStyle.Render(fmt.Sprintf("[x] %d %s", i+1, p.Name))
		}
		boxes = append(boxes, box)
	}
	b.WriteString(strings.Join(boxes, "  ") + "\n")

	if m.searching {
		b.WriteString(m.search.View() + "\n")
	} else if m.vm.Search != "" {
		b.WriteString(infoStyle.Render("search: "+m.vm.Search) + "\n")
	} else {
		b.WriteString(infoStyle.Render("search: (press /)") + "\n")
	}

	status := fmt.Sprintf("%s │ %d of %d models │ sort: %s %s",
		m.vm.Mode, len(m.vm.Rows), m.vm.Total, m.vm.Sort.Key.Label(), m.vm.Sort.Indicator())
	b.WriteString(statusBarStyle.Render(strings.TrimSpace(status)) + "\n")
	return b.String()
}

func (m Model) footer() string {
	if m.searching {
		return helpStyle.Render("  enter/esc: done")
	}
	return helpStyle.Render("  tab: cards/table │ /: search │ 1-9: providers │ n/p/i/o: sort │ r: reset │ q: quit")
}

// body is the scrollable viewport content for the current view model.
func (m Model) body() string {
	switch {
	case m.vm.Failed:
		return "\n  " + errorStyle.Render(m.vm.Message)
	case m.vm.Empty:
		return "\n  " + warnStyle.Render(m.vm.Message)
	case m.vm.Mode == view.ModeTable:
		return m.table()
	default:
		return m.cards()
	}
}

func (m Model) cards() string {
	perRow := max(1, m.width/(cardWidth+2))

	var rows []string
	var line []string
	for _, r := range m.vm.Rows {
		line = append(line, card(r))
		if len(line) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func card(r view.RowView) string {
	lines := []string{
		badgeStyle.Render(r.ProviderName),
		lipgloss.NewStyle().Bold(true).Render(r.ModelName),
		fmt.Sprintf("%-7s %s", "Input", r.Input),
		fmt.Sprintf("%-7s %s", "Output", r.Output),
		infoStyle.Render(r.Unit),
	}
	if r.HasNotes {
		lines = append(lines, infoStyle.Italic(true).Render(r.Notes))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) table() string {
	headers := make([]string, 0, len(render.TableColumns)+2)
	for _, k := range render.TableColumns {
		headers = append(headers, render.HeaderLabel(k, m.vm.Sort))
	}
	headers = append(headers, "Unit", "Notes")

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return activeStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range m.vm.Rows {
		t.Row(r.ModelName, r.ProviderName, r.Input, r.Output, r.Unit, r.Notes)
	}
	return t.Render()
}
