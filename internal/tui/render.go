package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/contextbench/leaderboard/internal/domain/view"
)

var (
	colorAccent = lipgloss.Color("39")
	colorGood   = lipgloss.Color("42")
	colorGold   = lipgloss.Color("220")
	colorDim    = lipgloss.Color("245")
	colorBorder = lipgloss.Color("238")
	colorError  = lipgloss.Color("203")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	podiumStyle  = cellStyle.Foreground(colorGold).Bold(true)
	extremeStyle = cellStyle.Foreground(colorGood).Bold(true)
	cursorStyle  = cellStyle.Reverse(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	tabStyle     = lipgloss.NewStyle().Padding(0, 2).Foreground(colorDim)
	activeTab    = tabStyle.Foreground(colorAccent).Bold(true).Underline(true)
)

const barWidth = 10

// RenderTable draws t as a bordered terminal table. The row at cursor is
// highlighted; pass -1 for none.
func RenderTable(t view.Table, cursor int) string {
	if t.Empty {
		return dimStyle.Render(t.Placeholder)
	}

	headers := make([]string, 0, len(t.Headers)+2)
	headers = append(headers, "#", "Model")
	for _, h := range t.Headers {
		headers = append(headers, h.Label+arrow(h.Sorted))
	}
	if t.Sort == view.ModelColumn {
		headers[1] += arrow(t.Direction)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := make([]string, 0, len(r.Cells)+2)
		name := r.DisplayName
		if r.Expanded {
			name = "▾ " + name
		} else if t.Expandable {
			name = "▸ " + name
		}
		cells = append(cells, strconv.Itoa(r.Rank), name)
		for _, c := range r.Cells {
			text := c.Text
			if c.Bar > 0 {
				text += " " + bar(c.Bar)
			}
			cells = append(cells, text)
		}
		rows = append(rows, cells)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == cursor:
				return cursorStyle
			case col == 0 && t.Rows[row].Podium:
				return podiumStyle
			case col >= 2 && t.Rows[row].Cells[col-2].Extremal:
				return extremeStyle
			}
			return cellStyle
		})
	return tbl.Render()
}

// renderGroups prints the column groups of grouped layouts on one line.
func renderGroups(t view.Table) string {
	if len(t.Groups) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.Groups))
	for _, g := range t.Groups {
		parts = append(parts, g.Label+" ("+strconv.Itoa(g.Span)+")")
	}
	return dimStyle.Render("Groups: " + strings.Join(parts, " · "))
}

// renderPanels lists the expanded rows' retrieval patterns and dynamics.
func renderPanels(t view.Table) string {
	var b strings.Builder
	for _, r := range t.Rows {
		if r.Panel == nil {
			continue
		}
		b.WriteString(headerStyle.Render(r.DisplayName))
		b.WriteString("\n")
		b.WriteString(panelColumn("Retrieval Patterns", r.Panel.Patterns))
		b.WriteString("\n")
		b.WriteString(panelColumn("Retrieval Dynamics", r.Panel.Dynamics))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func panelColumn(title string, items []view.PanelItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Label+": "+it.Text)
	}
	return "  " + dimStyle.Render(title+"  ") + strings.Join(parts, "  |  ")
}

func arrow(dir string) string {
	switch dir {
	case "asc":
		return " ▲"
	case "desc":
		return " ▼"
	}
	return ""
}

func bar(pct float64) string {
	n := int(pct/100*barWidth + 0.5)
	n = max(0, min(n, barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}
