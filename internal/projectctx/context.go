// Package projectctx is the single surface views talk to. It wires the entity
// store, query engine and selection coordinator together and owns the
// collaborators for authentication and navigation.
package projectctx

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/query"
	"taskdeck/internal/selection"
	"taskdeck/internal/store"

	"github.com/sirupsen/logrus"
)

var ErrNoNavigator = errors.New("no navigator configured")

type Options struct {
	Store     *store.Store
	Selection *selection.Coordinator
	Auth      Authenticator
	Navigator Navigator
	Logger    *logrus.Logger
}

type Context struct {
	store *store.Store
	sel   *selection.Coordinator
	auth  Authenticator
	nav   Navigator
	log   *logrus.Logger

	mu          sync.Mutex
	searchQuery string
}

// New wires the collaborators. A missing store or coordinator is created;
// the coordinator is registered as the store's removal observer.
func New(opts Options) *Context {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	st := opts.Store
	if st == nil {
		st = store.New(store.Options{Logger: log})
	}
	sel := opts.Selection
	if sel == nil {
		sel = selection.New(log)
	}
	st.SetObserver(sel)
	return &Context{store: st, sel: sel, auth: opts.Auth, nav: opts.Navigator, log: log}
}

// SetNavigator swaps the navigator; the TUI installs its own after the
// program model exists.
func (c *Context) SetNavigator(n Navigator) {
	c.mu.Lock()
	c.nav = n
	c.mu.Unlock()
}

func (c *Context) Store() *store.Store { return c.store }

func (c *Context) Projects() []model.Project           { return c.store.Projects() }
func (c *Context) Tasks() []model.Task                 { return c.store.Tasks() }
func (c *Context) TeamMembers() []model.TeamMember     { return c.store.TeamMembers() }
func (c *Context) Notifications() []model.Notification { return c.store.Notifications() }

func (c *Context) Project(id string) (model.Project, bool) { return c.store.Project(id) }
func (c *Context) Task(id string) (model.Task, bool)       { return c.store.Task(id) }

func (c *Context) SearchTasks(q string) []model.Task { return query.SearchTasks(c.store, q) }

func (c *Context) SearchQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchQuery
}

func (c *Context) SetSearchQuery(q string) {
	c.mu.Lock()
	c.searchQuery = q
	c.mu.Unlock()
}

// Selection

func (c *Context) Selection() model.Selection          { return c.sel.Current() }
func (c *Context) SetCurrentProjectID(id *string)      { c.sel.SetCurrentProjectID(id) }
func (c *Context) SetCurrentTaskID(id *string)         { c.sel.SetCurrentTaskID(id) }
func (c *Context) Coordinator() *selection.Coordinator { return c.sel }

// CurrentTask resolves the selected task. A dangling id reports false.
func (c *Context) CurrentTask() (model.Task, bool) {
	id, ok := c.sel.Current().TaskID()
	if !ok {
		return model.Task{}, false
	}
	return c.store.Task(id)
}

// EnterProject is called when a project view mounts.
func (c *Context) EnterProject(id string) {
	c.sel.SetCurrentProjectID(&id)
}

// LeaveProject is called when a project view unmounts. The task cell is left
// alone.
func (c *Context) LeaveProject() {
	c.sel.SetCurrentProjectID(nil)
}

// OpenTask navigates to the task's project and selects the task once the
// project view reports it is ready. A failed navigation drops the pending
// selection.
func (c *Context) OpenTask(projectID, taskID string) error {
	c.mu.Lock()
	nav := c.nav
	c.mu.Unlock()
	if nav == nil {
		return ErrNoNavigator
	}
	ticket := c.sel.Defer(taskID)
	if err := nav.Navigate(Route{Kind: RouteProject, ProjectID: projectID}, func() { ticket.Apply() }); err != nil {
		ticket.Cancel()
		c.log.WithError(err).WithFields(logrus.Fields{"project": projectID, "task": taskID}).Warn("open task: navigation failed")
		return err
	}
	return nil
}

func (c *Context) Navigate(r Route) error {
	c.mu.Lock()
	nav := c.nav
	c.mu.Unlock()
	if nav == nil {
		return ErrNoNavigator
	}
	return nav.Navigate(r, nil)
}

// Mutations

func (c *Context) CreateProject(in store.ProjectInput) (model.Project, error) {
	return c.store.CreateProject(in)
}

func (c *Context) UpdateProject(id string, patch store.ProjectPatch) (model.Project, error) {
	return c.store.UpdateProject(id, patch)
}

// DeleteProject cascades to the project's tasks and clears any selection
// pointing into them. Unknown ids are a no-op.
func (c *Context) DeleteProject(id string) int {
	return c.store.DeleteProject(id)
}

func (c *Context) CreateTask(in store.TaskInput) (model.Task, error) {
	return c.store.CreateTask(in)
}

func (c *Context) UpdateTask(id string, patch store.TaskPatch) (model.Task, error) {
	return c.store.UpdateTask(id, patch)
}

func (c *Context) DeleteTask(id string) bool {
	return c.store.DeleteTask(id)
}

// Notifications

func (c *Context) MarkNotificationRead(id string) { c.store.MarkNotificationRead(id) }
func (c *Context) MarkAllNotificationsRead()      { c.store.MarkAllNotificationsRead() }
func (c *Context) DeleteNotification(id string)   { c.store.DeleteNotification(id) }

// GetUnreadNotificationCount is recomputed on every call.
func (c *Context) GetUnreadNotificationCount() int {
	return query.UnreadCount(c.store.Notifications())
}

// Projections

func (c *Context) Board(projectID string) []query.Column { return query.Board(c.store, projectID) }
func (c *Context) List(projectID string, key query.SortKey) []model.Task {
	return query.List(c.store, projectID, key)
}
func (c *Context) Calendar(projectID string, month time.Time) query.Month {
	return query.Calendar(c.store, projectID, month)
}
func (c *Context) Timeline(projectID string) []query.Span { return query.Timeline(c.store, projectID) }
func (c *Context) Dashboard() query.Stats                 { return query.Dashboard(c.store) }
func (c *Context) Workload() []query.MemberLoad           { return query.Workload(c.store) }

// Session

func (c *Context) CurrentUser() (User, bool) {
	if c.auth == nil {
		return User{}, false
	}
	return c.auth.CurrentUser()
}

// UserInitials is the first two characters of the signed-in email, upper-cased,
// or "U" when nobody is signed in.
func (c *Context) UserInitials() string {
	u, ok := c.CurrentUser()
	email := strings.TrimSpace(u.Email)
	if !ok || email == "" {
		return "U"
	}
	r := []rune(email)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// SignOut signs out and then routes to the auth screen. The navigation is
// skipped when signing out fails.
func (c *Context) SignOut(ctx context.Context) error {
	if c.auth != nil {
		if err := c.auth.SignOut(ctx); err != nil {
			c.log.WithError(err).Warn("sign out failed")
			return err
		}
	}
	c.mu.Lock()
	nav := c.nav
	c.mu.Unlock()
	if nav == nil {
		return nil
	}
	return nav.Navigate(Route{Kind: RouteAuth}, nil)
}
