package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
	"taskdeck/internal/query"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	header := m.viewHeader()
	footer := m.viewFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch m.overlay {
	case overlaySearch:
		body = m.viewSearch()
	case overlayNotifications:
		body = m.viewNotifications()
	case overlayConfirmDelete:
		p, _ := m.pc.Project(m.projectID)
		body = lipgloss.NewStyle().Foreground(colorWarn).Render(
			fmt.Sprintf("Delete %q and all of its tasks? (y/n)", p.Title))
	default:
		body = m.viewScreen(bodyH)
	}
	return header + "\n" + normalizePane(body, m.width, bodyH) + "\n" + footer
}

func (m appModel) viewHeader() string {
	left := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("taskdeck")
	if m.screen == screenProject {
		if p, ok := m.pc.Project(m.projectID); ok {
			left += styleMuted().Render(" / ") + lipgloss.NewStyle().Bold(true).Render(p.Title)
		}
	}

	right := []string{styleMuted().Render("ctrl+k search")}
	if badge := query.BadgeLabel(m.pc.GetUnreadNotificationCount()); badge != "" {
		right = append(right, lipgloss.NewStyle().
			Foreground(colorAccentFg).
			Background(colorBadgeBg).
			Padding(0, 1).
			Render(badge))
	}
	right = append(right, lipgloss.NewStyle().Bold(true).Render(m.pc.UserInitials()))
	r := strings.Join(right, " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + r
}

func (m appModel) viewFooter() string {
	var help string
	switch {
	case m.overlay == overlaySearch:
		help = "type to search · ↑/↓ move · enter open · esc close"
	case m.overlay == overlayNotifications:
		help = "enter mark read · R mark all read · x delete · esc close"
	case m.screen == screenProject:
		help = "tab view · j/k move · enter details · s status · D delete · esc back · q quit"
	case m.screen == screenNewProject:
		help = "enter create · esc cancel"
	case m.screen == screenSignedOut:
		help = "q quit"
	default:
		help = "j/k move · enter open · c new project · n notifications · L sign out · q quit"
	}
	out := styleMuted().Render(truncate(help, m.width))
	if m.flash != "" {
		out = lipgloss.NewStyle().Foreground(colorWarn).Render(truncate(m.flash, m.width)) + "\n" + out
	}
	return out
}

func (m appModel) viewScreen(height int) string {
	switch m.screen {
	case screenProject:
		return m.viewProject(height)
	case screenNewProject:
		return styleHeading().Render("New project") + "\n\n" + m.titleInput.View()
	case screenSignedOut:
		return "Signed out.\n\n" + styleMuted().Render("Run `taskdeck auth login <email>` to sign in again.")
	default:
		return m.viewDashboard()
	}
}

func (m appModel) viewDashboard() string {
	st := m.pc.Dashboard()
	var b strings.Builder
	b.WriteString(styleHeading().Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Tasks %d · Done %d (%d%%) · In progress %d · Blocked %d · Active projects %d",
		st.TotalTasks, st.Completed, st.CompletionRate, st.InProgress, st.Blocked, st.ActiveProjects))
	b.WriteString("\n\n")

	projects := m.pc.Projects()
	if len(projects) == 0 {
		b.WriteString(styleMuted().Render("No projects yet. Press c to create one."))
	}
	for i, p := range projects {
		n := len(query.ProjectTasks(m.pc.Store(), p.ID))
		row := padRight(p.Title, 32) + " " + padRight(string(p.Status), 10) + " " + fmt.Sprintf("%d task(s)", n)
		if i == m.dashCursor {
			b.WriteString(styleSelected().Render("▸ " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if loads := m.pc.Workload(); len(loads) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Team"))
		for _, l := range loads {
			b.WriteString("\n  ")
			b.WriteString(padRight(l.Member.Name, 24))
			b.WriteString(styleMuted().Render(fmt.Sprintf("%d active", l.ActiveTasks)))
		}
	}
	return b.String()
}

func (m appModel) viewProject(height int) string {
	tabs := make([]string, 0, len(model.ViewTypes))
	for i, v := range model.ViewTypes {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.view {
			tabs = append(tabs, styleSelected().Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styleMuted().Padding(0, 1).Render(label))
		}
	}

	task, hasDetail := m.pc.CurrentTask()
	mainW := m.width
	if hasDetail && m.width > detailWidth+30 {
		mainW = m.width - detailWidth - 1
	} else {
		hasDetail = false
	}

	cursorID := ""
	if tasks := m.visibleTasks(); m.cursor < len(tasks) {
		cursorID = tasks[m.cursor].ID
	}

	var content string
	switch m.view {
	case model.ViewList:
		content = RenderList(m.pc.List(m.projectID, query.SortCreated), mainW, cursorID)
	case model.ViewCalendar:
		content = RenderCalendar(m.pc.Calendar(m.projectID, m.month), mainW, cursorID)
	case model.ViewTimeline:
		content = RenderTimeline(m.pc.Timeline(m.projectID), mainW, cursorID)
	default:
		content = RenderBoard(m.pc.Board(m.projectID), mainW, cursorID)
	}
	main := strings.Join(tabs, " ") + "\n\n" + content
	if !hasDetail {
		return main
	}
	left := normalizePane(main, mainW, height)
	right := normalizePane(m.viewDetail(task), detailWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, styleMuted().Render("│"), right)
}

func (m appModel) viewDetail(t model.Task) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncate(t.Title, detailWidth)),
		lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(t.Status.Label()),
	}
	if t.Priority != model.PriorityNone {
		lines = append(lines, "Priority: "+string(t.Priority))
	}
	if names := query.AssigneeNames(m.pc.Store(), t); len(names) > 0 {
		lines = append(lines, "Assignees: "+strings.Join(names, ", "))
	}
	if due := formatDueLabel(t.DueDate); due != "" {
		lines = append(lines, due)
	}
	if len(t.Tags) > 0 {
		lines = append(lines, styleMuted().Render("#"+strings.Join(t.Tags, " #")))
	}
	if md := renderMarkdown(t.Description, detailWidth-2); md != "" {
		lines = append(lines, "", md)
	}
	lines = append(lines, "", styleMuted().Render("esc close"))
	return strings.Join(lines, "\n")
}

func (m appModel) viewSearch() string {
	var b strings.Builder
	b.WriteString(styleHeading().Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	q := m.search.Value()
	results := m.pc.SearchTasks(q)
	if strings.TrimSpace(q) == "" {
		b.WriteString(styleMuted().Render("Start typing to search tasks."))
		if recent := m.recentTasks(); len(recent) > 0 {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Bold(true).Render("Recently opened"))
			for _, t := range recent {
				b.WriteString("\n  " + t.Title)
			}
		}
		return b.String()
	}
	if len(results) == 0 {
		b.WriteString(styleMuted().Render("No results."))
		return b.String()
	}
	for i, t := range results {
		p, _ := m.pc.Project(t.ProjectID)
		row := padRight(t.Title, 40) + " " + styleMuted().Render(p.Title)
		if i == m.searchCursor {
			b.WriteString(styleSelected().Render("▸ " + padRight(t.Title, 40) + " " + p.Title))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) recentTasks() []model.Task {
	out := make([]model.Task, 0, len(m.ui.RecentTaskIDs))
	for _, id := range m.ui.RecentTaskIDs {
		if t, ok := m.pc.Task(id); ok {
			out = append(out, t)
		}
	}
	return out
}

func (m appModel) viewNotifications() string {
	var b strings.Builder
	b.WriteString(styleHeading().Render("Notifications"))
	b.WriteString("\n\n")
	ns := query.Recent(m.pc.Notifications(), notificationLimit)
	if len(ns) == 0 {
		b.WriteString(styleMuted().Render("No notifications."))
		return b.String()
	}
	for i, n := range ns {
		mark := "  "
		if !n.Read {
			mark = lipgloss.NewStyle().Foreground(colorBadgeBg).Render("● ")
		}
		row := padRight(n.Title, 24) + " " + n.Message + " " + styleMuted().Render(n.Timestamp.Format("Jan 2 15:04"))
		if i == m.notifCursor {
			row = styleSelected().Render(xansi.Strip(row))
		}
		b.WriteString(mark + row + "\n")
	}
	return b.String()
}
