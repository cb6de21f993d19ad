package cmd

import (
	"strings"

	"citizenhub/internal/complaint"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(12)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	priorityStyles = map[complaint.Priority]lipgloss.Style{
		complaint.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true),
		complaint.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706")),
		complaint.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
	}
)

// maxCellRunes keeps descriptions on one table line.
const maxCellRunes = 48

func renderPriority(p complaint.Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}

// renderRecord shows one complaint as a label/value block.
func renderRecord(rec complaint.Record) string {
	rows := [][2]string{
		{"Name", rec.Name},
		{"Category", rec.Category},
		{"Department", rec.Department},
		{"Priority", renderPriority(rec.Priority)},
		{"Status", string(rec.Status)},
		{"Sentiment", string(rec.Sentiment)},
		{"Description", rec.Description},
	}
	if rec.Image != "" {
		rows = append(rows, [2]string{"Image", rec.Image})
	}

	lines := []string{titleStyle.Render("📋 Complaint #" + rec.IDString())}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(row[0]), row[1]))
	}
	return strings.Join(lines, "\n")
}

// renderTable lists complaints with one row each.
func renderTable(records []complaint.Record) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "Name", "Department", "Priority", "Status", "Sentiment", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, rec := range records {
		t.Row(
			rec.IDString(),
			rec.Name,
			rec.Department,
			renderPriority(rec.Priority),
			string(rec.Status),
			string(rec.Sentiment),
			shorten(rec.Description, maxCellRunes),
		)
	}
	return t.Render()
}

func shorten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
