package tui

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"
	"taskdeck/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenDashboard screen = iota
	screenProject
	screenNewProject
	screenSignedOut
)

type overlay int

const (
	overlayNone overlay = iota
	overlaySearch
	overlayNotifications
	overlayConfirmDelete
)

const (
	defaultWidth      = 100
	defaultHeight     = 30
	notificationLimit = 10
	detailWidth       = 40
)

type Options struct {
	Context     *projectctx.Context
	UIState     *store.UIState
	DefaultView model.ViewType
	Now         func() time.Time
}

type appModel struct {
	pc          *projectctx.Context
	nav         *router
	ui          *store.UIState
	defaultView model.ViewType
	now         func() time.Time

	width  int
	height int

	screen  screen
	overlay overlay

	dashCursor int

	projectID string
	view      model.ViewType
	cursor    int
	month     time.Time

	search       textinput.Model
	searchCursor int
	notifCursor  int
	titleInput   textinput.Model

	flash string
}

func newAppModel(opts Options) appModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	def := opts.DefaultView
	if !def.Valid() {
		def = model.ViewKanban
	}
	ui := opts.UIState
	if ui == nil {
		ui = &store.UIState{Version: 1}
	}

	search := textinput.New()
	search.Placeholder = "Search tasks or projects…"
	search.Prompt = "› "
	search.CharLimit = 200
	search.SetValue(opts.Context.SearchQuery())

	title := textinput.New()
	title.Placeholder = "Project title"
	title.Prompt = "› "
	title.CharLimit = 120

	m := appModel{
		pc:          opts.Context,
		nav:         &router{},
		ui:          ui,
		defaultView: def,
		now:         now,
		width:       defaultWidth,
		height:      defaultHeight,
		search:      search,
		titleInput:  title,
		month:       now(),
	}
	m.pc.SetNavigator(m.nav)

	ui.Prune(
		func(id string) bool { _, ok := m.pc.Project(id); return ok },
		func(id string) bool { _, ok := m.pc.Task(id); return ok },
	)
	if ui.Screen == "project" && ui.ProjectID != "" {
		m.mount(projectctx.Route{Kind: projectctx.RouteProject, ProjectID: ui.ProjectID})
	}
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case viewReadyMsg:
		msg.onReady()
		m.syncCursorToSelection()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.overlay {
		case overlaySearch:
			m, cmd = m.updateSearch(msg)
		case overlayNotifications:
			m, cmd = m.updateNotifications(msg)
		case overlayConfirmDelete:
			m, cmd = m.updateConfirmDelete(msg)
		default:
			m, cmd = m.updateScreen(msg)
		}
		return m.flushNavigation(cmd)
	}
	return m, nil
}

// flushNavigation mounts every route queued by the navigator and schedules
// the view-ready callbacks to run after the mount has rendered.
func (m appModel) flushNavigation(cmd tea.Cmd) (appModel, tea.Cmd) {
	reqs := m.nav.take()
	if len(reqs) == 0 {
		return m, cmd
	}
	cmds := []tea.Cmd{cmd}
	for _, r := range reqs {
		m.mount(r.route)
		cmds = append(cmds, viewReadyCmd(r.onReady))
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) mount(r projectctx.Route) {
	if m.screen == screenProject && (r.Kind != projectctx.RouteProject || r.ProjectID != m.projectID) {
		m.pc.LeaveProject()
		m.projectID = ""
	}
	m.overlay = overlayNone
	switch r.Kind {
	case projectctx.RouteProject:
		if _, ok := m.pc.Project(r.ProjectID); !ok {
			m.flash = "Project not found: " + r.ProjectID
			m.screen = screenDashboard
			m.ui.Screen, m.ui.ProjectID = "dashboard", ""
			return
		}
		m.screen = screenProject
		m.projectID = r.ProjectID
		m.view = m.ui.ViewFor(r.ProjectID, m.defaultView)
		m.cursor = 0
		m.ui.Screen, m.ui.ProjectID = "project", r.ProjectID
		m.pc.EnterProject(r.ProjectID)
	case projectctx.RouteNewProject:
		m.screen = screenNewProject
		m.titleInput.SetValue("")
		m.titleInput.Focus()
	case projectctx.RouteAuth:
		m.screen = screenSignedOut
	default:
		m.screen = screenDashboard
		m.ui.Screen, m.ui.ProjectID = "dashboard", ""
		m.clampDashCursor()
	}
}

func (m appModel) updateScreen(msg tea.KeyMsg) (appModel, tea.Cmd) {
	if m.screen == screenNewProject {
		return m.updateNewProject(msg)
	}
	switch msg.String() {
	case "ctrl+k":
		m.overlay = overlaySearch
		m.searchCursor = 0
		cmd := m.search.Focus()
		return m, cmd
	case "n":
		if m.screen == screenSignedOut {
			break
		}
		m.overlay = overlayNotifications
		m.notifCursor = 0
		return m, nil
	case "q":
		return m, tea.Quit
	}
	switch m.screen {
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenProject:
		return m.updateProject(msg)
	}
	return m, nil
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (appModel, tea.Cmd) {
	projects := m.pc.Projects()
	switch msg.String() {
	case "up", "k":
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case "down", "j":
		if m.dashCursor < len(projects)-1 {
			m.dashCursor++
		}
	case "enter":
		if len(projects) == 0 {
			break
		}
		m.clampDashCursor()
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteProject, ProjectID: projects[m.dashCursor].ID}))
	case "c":
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteNewProject}))
	case "L":
		m.setErr(m.pc.SignOut(context.Background()))
	}
	return m, nil
}

func (m appModel) updateNewProject(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.titleInput.Blur()
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteDashboard}))
		return m, nil
	case "enter":
		p, err := m.pc.CreateProject(store.ProjectInput{Title: m.titleInput.Value()})
		if err != nil {
			m.setErr(err)
			return m, nil
		}
		m.titleInput.Blur()
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteProject, ProjectID: p.ID}))
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m appModel) updateProject(msg tea.KeyMsg) (appModel, tea.Cmd) {
	tasks := m.visibleTasks()
	switch msg.String() {
	case "tab":
		m.setView(nextView(m.view, 1))
	case "shift+tab":
		m.setView(nextView(m.view, -1))
	case "1", "2", "3", "4":
		m.setView(model.ViewTypes[int(msg.Runes[0]-'1')])
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "[":
		m.month = m.month.AddDate(0, -1, 0)
		m.cursor = 0
	case "]":
		m.month = m.month.AddDate(0, 1, 0)
		m.cursor = 0
	case "enter":
		if m.cursor < len(tasks) {
			id := tasks[m.cursor].ID
			m.pc.SetCurrentTaskID(&id)
		}
	case "s":
		if m.cursor < len(tasks) {
			t := tasks[m.cursor]
			next := nextStatus(t.Status)
			if _, err := m.pc.UpdateTask(t.ID, store.TaskPatch{Status: &next}); err != nil {
				m.setErr(err)
			} else {
				m.flash = fmt.Sprintf("%s → %s", t.Title, next.Label())
			}
		}
	case "D":
		m.overlay = overlayConfirmDelete
	case "esc":
		if m.pc.Selection().CurrentTaskID != nil {
			m.pc.SetCurrentTaskID(nil)
			break
		}
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteDashboard}))
	}
	return m, nil
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		p, _ := m.pc.Project(m.projectID)
		n := m.pc.DeleteProject(m.projectID)
		m.overlay = overlayNone
		m.flash = fmt.Sprintf("Deleted %q and %d task(s)", p.Title, n)
		m.setErr(m.pc.Navigate(projectctx.Route{Kind: projectctx.RouteDashboard}))
	case "n", "N", "esc":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (appModel, tea.Cmd) {
	results := m.pc.SearchTasks(m.search.Value())
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		m.search.Blur()
		return m, nil
	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.searchCursor < len(results)-1 {
			m.searchCursor++
		}
		return m, nil
	case "enter":
		if m.searchCursor >= len(results) {
			return m, nil
		}
		t := results[m.searchCursor]
		m.overlay = overlayNone
		m.search.Blur()
		m.search.SetValue("")
		m.pc.SetSearchQuery("")
		m.ui.TouchTask(t.ID)
		m.setErr(m.pc.OpenTask(t.ProjectID, t.ID))
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.pc.SetSearchQuery(m.search.Value())
	if n := len(m.pc.SearchTasks(m.search.Value())); m.searchCursor >= n {
		m.searchCursor = max(0, n-1)
	}
	return m, cmd
}

func (m appModel) updateNotifications(msg tea.KeyMsg) (appModel, tea.Cmd) {
	ns := query.Recent(m.pc.Notifications(), notificationLimit)
	switch msg.String() {
	case "esc", "n":
		m.overlay = overlayNone
	case "ctrl+k":
		m.overlay = overlaySearch
		cmd := m.search.Focus()
		return m, cmd
	case "up", "k":
		if m.notifCursor > 0 {
			m.notifCursor--
		}
	case "down", "j":
		if m.notifCursor < len(ns)-1 {
			m.notifCursor++
		}
	case "enter":
		if m.notifCursor < len(ns) {
			m.pc.MarkNotificationRead(ns[m.notifCursor].ID)
		}
	case "R":
		m.pc.MarkAllNotificationsRead()
	case "x":
		if m.notifCursor < len(ns) {
			m.pc.DeleteNotification(ns[m.notifCursor].ID)
			if m.notifCursor > 0 && m.notifCursor >= len(ns)-1 {
				m.notifCursor--
			}
		}
	}
	return m, nil
}

func (m *appModel) setView(v model.ViewType) {
	m.view = v
	m.cursor = 0
	m.ui.SetView(m.projectID, v)
}

func (m *appModel) setErr(err error) {
	if err != nil {
		m.flash = "Error: " + err.Error()
	}
}

func (m *appModel) clampDashCursor() {
	n := len(m.pc.Projects())
	if m.dashCursor >= n {
		m.dashCursor = n - 1
	}
	if m.dashCursor < 0 {
		m.dashCursor = 0
	}
}

// syncCursorToSelection moves the cursor onto the selected task when it is
// visible in the current view.
func (m *appModel) syncCursorToSelection() {
	id, ok := m.pc.Selection().TaskID()
	if !ok {
		return
	}
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// visibleTasks lists the project's tasks in the order the active view draws
// them; the cursor indexes into it.
func (m appModel) visibleTasks() []model.Task {
	if m.projectID == "" {
		return nil
	}
	var out []model.Task
	switch m.view {
	case model.ViewList:
		out = m.pc.List(m.projectID, query.SortCreated)
	case model.ViewCalendar:
		cal := m.pc.Calendar(m.projectID, m.month)
		for _, d := range cal.Days {
			out = append(out, d.Tasks...)
		}
		out = append(out, cal.Undated...)
	case model.ViewTimeline:
		for _, s := range m.pc.Timeline(m.projectID) {
			out = append(out, s.Task)
		}
	default:
		for _, c := range m.pc.Board(m.projectID) {
			out = append(out, c.Tasks...)
		}
	}
	return out
}

func nextView(v model.ViewType, step int) model.ViewType {
	n := len(model.ViewTypes)
	for i, x := range model.ViewTypes {
		if x == v {
			return model.ViewTypes[((i+step)%n+n)%n]
		}
	}
	return model.ViewTypes[0]
}

func nextStatus(s model.TaskStatus) model.TaskStatus {
	for i, x := range model.TaskStatuses {
		if x == s {
			return model.TaskStatuses[(i+1)%len(model.TaskStatuses)]
		}
	}
	return model.StatusTodo
}
