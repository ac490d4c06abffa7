package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/joss/pricelist/internal/view"
)

// Renderer formats price list view models for the terminal.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// View renders vm in its own mode, with the header line.
func (r *Renderer) View(vm view.ViewModel) string {
	var sb strings.Builder
	r.header(&sb, vm)

	switch {
	case vm.Failed:
		sb.WriteString(r.message(vm.Message, true))
	case vm.Empty:
		sb.WriteString(r.message(vm.Message, false))
	case vm.Mode == view.ModeTable:
		sb.WriteString(r.Table(vm))
	default:
		sb.WriteString(r.Cards(vm))
	}
	return sb.String()
}

func (r *Renderer) header(sb *strings.Builder, vm view.ViewModel) {
	title := "AI Model Pricing"
	if r.pretty {
		title = color.CyanString(title)
	}
	fmt.Fprintf(sb, "%s  (last updated %s)\n", title, vm.LastUpdated)

	if vm.Failed {
		sb.WriteString("\n")
		return
	}

	fmt.Fprintf(sb, "Showing %d of %d models", len(vm.Rows), vm.Total)
	if vm.Search != "" {
		fmt.Fprintf(sb, " matching %q", vm.Search)
	}
	if vm.Sort.Key != view.SortNone {
		fmt.Fprintf(sb, ", sorted by %s %s", vm.Sort.Key.Label(), vm.Sort.Indicator())
	}
	sb.WriteString("\n\n")
}

func (r *Renderer) message(msg string, failed bool) string {
	if !r.pretty {
		return msg + "\n"
	}
	if failed {
		return color.RedString(msg) + "\n"
	}
	return color.YellowString(msg) + "\n"
}

// Cards renders one block per row. Rows without notes get no notes line.
func (r *Renderer) Cards(vm view.ViewModel) string {
	var sb strings.Builder
	for _, row := range vm.Rows {
		badge := "[" + row.ProviderName + "]"
		name := row.ModelName
		if r.pretty {
			badge = color.MagentaString(badge)
			name = color.New(color.Bold).Sprint(name)
		}
		fmt.Fprintf(&sb, "%s %s\n", badge, name)
		fmt.Fprintf(&sb, "  %-7s %s\n", "Input", row.Input)
		fmt.Fprintf(&sb, "  %-7s %s\n", "Output", row.Output)
		fmt.Fprintf(&sb, "  %-7s %s\n", "Unit", r.dim(row.Unit))
		if row.HasNotes {
			fmt.Fprintf(&sb, "  %s\n", r.dim(row.Notes))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Table renders the sortable table; the active column carries the direction arrow.
func (r *Renderer) Table(vm view.ViewModel) string {
	headers := make([]string, 0, len(view.SortKeys)+2)
	for _, k := range TableColumns {
		headers = append(headers, HeaderLabel(k, vm.Sort))
	}
	headers = append(headers, "Unit", "Notes")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	if r.pretty {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}

	for _, row := range vm.Rows {
		t.Row(row.ModelName, row.ProviderName, row.Input, row.Output, row.Unit, row.Notes)
	}
	return t.Render() + "\n"
}

// TableColumns is the sortable column order in the table.
var TableColumns = []view.SortKey{view.SortName, view.SortProvider, view.SortInputPrice, view.SortOutputPrice}

// HeaderLabel is a column title with the sort arrow when it is the active key.
func HeaderLabel(k view.SortKey, s view.Sort) string {
	if s.Key == k {
		return k.Label() + " " + s.Indicator()
	}
	return k.Label()
}

func (r *Renderer) dim(s string) string {
	if r.pretty {
		return color.HiBlackString(s)
	}
	return s
}
