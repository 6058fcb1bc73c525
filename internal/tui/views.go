package tui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/query"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// The Render* functions draw the four project projections as plain lipgloss
// text. They are shared by the TUI project screen and the `view` CLI command.

func taskMeta(t model.Task) string {
	parts := make([]string, 0, 2)
	if t.Priority != model.PriorityNone {
		parts = append(parts, lipgloss.NewStyle().Foreground(priorityColor(t.Priority)).Render(string(t.Priority)))
	}
	if due := formatDueLabel(t.DueDate); due != "" {
		parts = append(parts, styleMuted().Render(due))
	}
	return strings.Join(parts, " ")
}

// RenderBoard draws one column per status.
func RenderBoard(cols []query.Column, width int, selectedID string) string {
	n := len(cols)
	if n == 0 {
		return ""
	}
	gap := 2
	colW := (width - gap*(n-1)) / n
	if colW < 12 {
		colW = 12
	}

	rendered := make([]string, 0, n*2)
	for i, col := range cols {
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(statusColor(col.Status)).
			Render(truncate(fmt.Sprintf("%s (%d)", col.Label, len(col.Tasks)), colW))

		lines := []string{header, styleMuted().Render(strings.Repeat("─", colW))}
		if len(col.Tasks) == 0 {
			lines = append(lines, styleMuted().Render("(empty)"))
		}
		for _, t := range col.Tasks {
			title := truncate(t.Title, colW-2)
			if t.ID == selectedID {
				lines = append(lines, styleSelected().Width(colW).Render("▸ "+title))
			} else {
				lines = append(lines, "  "+title)
			}
			if meta := taskMeta(t); meta != "" {
				lines = append(lines, "  "+truncate(meta, colW-2))
			}
		}
		col := lipgloss.NewStyle().Width(colW).Render(strings.Join(lines, "\n"))
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", gap))
		}
		rendered = append(rendered, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderList draws one row per task: status, title, priority, due.
func RenderList(tasks []model.Task, width int, selectedID string) string {
	if len(tasks) == 0 {
		return styleMuted().Render("No tasks.")
	}
	const statusW, prioW, dueW = 12, 8, 10
	titleW := width - statusW - prioW - dueW - 4
	if titleW < 10 {
		titleW = 10
	}
	var b strings.Builder
	head := padRight("STATUS", statusW) + " " + padRight("TITLE", titleW) + " " + padRight("PRIORITY", prioW) + " " + "DUE"
	b.WriteString(styleMuted().Render(head))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Short()
		}
		status := lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(padRight(t.Status.Label(), statusW))
		row := status + " " + padRight(t.Title, titleW) + " " + padRight(string(t.Priority), prioW) + " " + due
		b.WriteString("\n")
		if t.ID == selectedID {
			b.WriteString(styleSelected().Render(xansi.Strip(row)))
		} else {
			b.WriteString(row)
		}
	}
	return b.String()
}

// RenderCalendar draws a Monday-first month grid with up to two task titles
// per day; undated tasks are counted below the grid.
func RenderCalendar(m query.Month, width int, selectedID string) string {
	cellW := width / 7
	if cellW < 6 {
		cellW = 6
	}
	const perDay = 2

	var b strings.Builder
	title := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n")
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		b.WriteString(styleMuted().Render(padRight(wd, cellW)))
	}

	if len(m.Days) == 0 {
		return b.String()
	}
	offset := (int(m.Days[0].Date.Time().Weekday()) + 6) % 7
	cells := make([]*query.Day, offset, offset+len(m.Days))
	for i := range m.Days {
		cells = append(cells, &m.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	for week := 0; week < len(cells)/7; week++ {
		row := cells[week*7 : week*7+7]
		for line := 0; line <= perDay; line++ {
			b.WriteString("\n")
			for _, d := range row {
				b.WriteString(calendarCellLine(d, line, perDay, cellW, selectedID))
			}
		}
	}
	if len(m.Undated) > 0 {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render(fmt.Sprintf("%d without due date", len(m.Undated))))
	}
	return b.String()
}

func calendarCellLine(d *query.Day, line, perDay, cellW int, selectedID string) string {
	if d == nil {
		return strings.Repeat(" ", cellW)
	}
	if line == 0 {
		return padRight(fmt.Sprintf("%2d", d.Date.Day), cellW)
	}
	idx := line - 1
	if idx >= len(d.Tasks) {
		return strings.Repeat(" ", cellW)
	}
	if idx == perDay-1 && len(d.Tasks) > perDay {
		return styleMuted().Render(padRight(fmt.Sprintf("+%d", len(d.Tasks)-idx), cellW))
	}
	t := d.Tasks[idx]
	txt := padRight(t.Title, cellW-1) + " "
	if t.ID == selectedID {
		return styleSelected().Render(txt)
	}
	return lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(txt)
}

// RenderTimeline draws each span as a bar scaled to the overall date range.
func RenderTimeline(spans []query.Span, width int, selectedID string) string {
	if len(spans) == 0 {
		return styleMuted().Render("No tasks.")
	}
	const labelW, rangeW = 22, 16
	barW := width - labelW - rangeW - 2
	if barW < 10 {
		barW = 10
	}

	first, last := spans[0].Start, spans[0].End
	for _, s := range spans {
		if s.Start.Before(first) {
			first = s.Start
		}
		if last.Before(s.End) {
			last = s.End
		}
	}
	total := query.Span{Start: first, End: last}.Days()

	var b strings.Builder
	b.WriteString(styleMuted().Render(padRight("", labelW+1) + padRight(first.Short(), barW/2) + padRight(last.Short(), barW-barW/2)))
	for _, s := range spans {
		off := (query.Span{Start: first, End: s.Start}.Days() - 1) * barW / total
		n := s.Days() * barW / total
		if n < 1 {
			n = 1
		}
		if off+n > barW {
			n = barW - off
		}
		bar := strings.Repeat(" ", off) + lipgloss.NewStyle().Foreground(statusColor(s.Task.Status)).Render(strings.Repeat("█", n))
		label := padRight(s.Task.Title, labelW)
		if s.Task.ID == selectedID {
			label = styleSelected().Render(label)
		}
		b.WriteString("\n")
		b.WriteString(label + " " + padRight(bar, barW) + " " + styleMuted().Render(formatSpanLabel(s.Start, s.End)))
	}
	return b.String()
}
