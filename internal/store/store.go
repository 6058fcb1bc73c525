package store

import (
	"strings"
	"sync"
	"time"

	"taskdeck/internal/model"

	"github.com/sirupsen/logrus"
)

const DefaultNotificationRetention = 50

// RemovalObserver is told which entities a delete removed, after the store
// lock has been released. The selection coordinator uses it to clear cells
// that pointed into the removed subtree.
type RemovalObserver interface {
	EntitiesRemoved(projectIDs, taskIDs []string)
}

type Options struct {
	Logger *logrus.Logger
	// NotificationRetention caps the notification collection (newest kept).
	NotificationRetention int
	// Transitions restricts status changes; nil allows any transition.
	Transitions model.TransitionTable
	Observer    RemovalObserver
	Now         func() time.Time
}

// Store is the in-memory source of truth for projects, tasks, team members
// and notifications. Collections keep insertion order; notifications are
// newest-first.
type Store struct {
	mu sync.RWMutex

	projects      []model.Project
	tasks         []model.Task
	members       []model.TeamMember
	notifications []model.Notification

	seq         int
	retention   int
	transitions model.TransitionTable
	observer    RemovalObserver
	log         *logrus.Logger
	now         func() time.Time
}

// State is a full copy of the store contents.
type State struct {
	Projects      []model.Project      `json:"projects"`
	Tasks         []model.Task         `json:"tasks"`
	TeamMembers   []model.TeamMember   `json:"teamMembers"`
	Notifications []model.Notification `json:"notifications"`
}

func New(opts Options) *Store {
	s := &Store{
		retention:   opts.NotificationRetention,
		transitions: opts.Transitions,
		observer:    opts.Observer,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if s.retention <= 0 {
		s.retention = DefaultNotificationRetention
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetLevel(logrus.WarnLevel)
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// SetObserver replaces the removal observer. It exists because the facade
// builds the selection coordinator after the store.
func (s *Store) SetObserver(o RemovalObserver) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

func (s *Store) SetTransitions(t model.TransitionTable) {
	s.mu.Lock()
	s.transitions = t
	s.mu.Unlock()
}

var projectPalette = []string{"#6366f1", "#22c55e", "#f59e0b", "#ef4444", "#06b6d4", "#a855f7"}

type ProjectInput struct {
	Title       string
	Description string
	Color       string
	Status      model.ProjectStatus
}

type ProjectPatch struct {
	Title       *string
	Description *string
	Color       *string
	Status      *model.ProjectStatus
}

func (s *Store) CreateProject(in ProjectInput) (model.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Project{}, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	status := in.Status
	if status == "" {
		status = model.ProjectActive
	}
	if !status.Valid() {
		return model.Project{}, ValidationError{Field: "status", Reason: string(status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = projectPalette[len(s.projects)%len(projectPalette)]
	}
	p := model.Project{
		ID:          s.nextID("proj"),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		Status:      status,
		CreatedAt:   s.now(),
	}
	s.projects = append(s.projects, p)
	s.log.WithFields(logrus.Fields{"project": p.ID}).Debug("project created")
	return p, nil
}

func (s *Store) UpdateProject(id string, patch ProjectPatch) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.projectIndex(id)
	if idx < 0 {
		return model.Project{}, NotFoundError{Kind: "project", ID: id}
	}
	next := s.projects[idx]
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return model.Project{}, ValidationError{Field: "title", Reason: "must not be empty"}
		}
		next.Title = t
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil {
		next.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return model.Project{}, ValidationError{Field: "status", Reason: string(*patch.Status)}
		}
		next.Status = *patch.Status
	}
	s.projects[idx] = next
	s.log.WithFields(logrus.Fields{"project": id}).Debug("project updated")
	return next, nil
}

// DeleteProject removes the project and every task it owns. Unknown ids are a
// no-op. It returns the number of tasks removed.
func (s *Store) DeleteProject(id string) int {
	s.mu.Lock()
	idx := s.projectIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return 0
	}
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)

	var removed []string
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID == id {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	// Zero the tail so removed tasks are not pinned by the backing array.
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = model.Task{}
	}
	s.tasks = kept
	obs := s.observer
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"project": id, "removed_tasks": len(removed)}).Debug("project deleted")
	if obs != nil {
		obs.EntitiesRemoved([]string{id}, removed)
	}
	return len(removed)
}

type TaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      model.TaskStatus
	AssigneeIDs []string
	StartDate   *model.Date
	DueDate     *model.Date
	Priority    model.Priority
	Tags        []string
}

// TaskPatch carries partial updates. Nil fields are left unchanged.
type TaskPatch struct {
	ProjectID      *string
	Title          *string
	Description    *string
	Status         *model.TaskStatus
	AssigneeIDs    *[]string
	StartDate      *model.Date
	ClearStartDate bool
	DueDate        *model.Date
	ClearDueDate   bool
	Priority       *model.Priority
	Tags           *[]string
}

func (s *Store) CreateTask(in TaskInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.Valid() {
		return model.Task{}, ValidationError{Field: "status", Reason: string(status)}
	}
	if !in.Priority.Valid() {
		return model.Task{}, ValidationError{Field: "priority", Reason: string(in.Priority)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projectIndex(in.ProjectID) < 0 {
		s.log.WithFields(logrus.Fields{"project": in.ProjectID}).Warn("create task rejected: unknown project")
		return model.Task{}, InvalidReferenceError{Kind: "project", ID: in.ProjectID, Field: "projectId"}
	}
	assignees := dedupe(in.AssigneeIDs)
	if err := s.checkMembersLocked(assignees); err != nil {
		return model.Task{}, err
	}

	now := s.now()
	t := model.Task{
		ID:          s.nextID("task"),
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		AssigneeIDs: assignees,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Tags:        normalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t = t.Clone()
	s.tasks = append(s.tasks, t)
	for _, mid := range assignees {
		s.notifyAssignedLocked(t, mid)
	}
	s.log.WithFields(logrus.Fields{"task": t.ID, "project": t.ProjectID}).Debug("task created")
	return t.Clone(), nil
}

// UpdateTask validates the whole patch before writing any field.
func (s *Store) UpdateTask(id string, patch TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	prev := s.tasks[idx]
	next := prev.Clone()

	if patch.ProjectID != nil {
		if s.projectIndex(*patch.ProjectID) < 0 {
			s.log.WithFields(logrus.Fields{"task": id, "project": *patch.ProjectID}).Warn("update task rejected: unknown project")
			return model.Task{}, InvalidReferenceError{Kind: "project", ID: *patch.ProjectID, Field: "projectId"}
		}
		next.ProjectID = *patch.ProjectID
	}
	if patch.AssigneeIDs != nil {
		ids := dedupe(*patch.AssigneeIDs)
		if err := s.checkMembersLocked(ids); err != nil {
			return model.Task{}, err
		}
		next.AssigneeIDs = ids
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return model.Task{}, ValidationError{Field: "title", Reason: "must not be empty"}
		}
		next.Title = t
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return model.Task{}, ValidationError{Field: "status", Reason: string(*patch.Status)}
		}
		if !s.transitions.Allows(prev.Status, *patch.Status) {
			return model.Task{}, InvalidTransitionError{From: prev.Status, To: *patch.Status}
		}
		next.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return model.Task{}, ValidationError{Field: "priority", Reason: string(*patch.Priority)}
		}
		next.Priority = *patch.Priority
	}
	if patch.ClearStartDate {
		next.StartDate = nil
	} else if patch.StartDate != nil {
		d := *patch.StartDate
		next.StartDate = &d
	}
	if patch.ClearDueDate {
		next.DueDate = nil
	} else if patch.DueDate != nil {
		d := *patch.DueDate
		next.DueDate = &d
	}
	if patch.Tags != nil {
		next.Tags = normalizeTags(*patch.Tags)
	}
	next.UpdatedAt = s.now()
	s.tasks[idx] = next

	if next.Status != prev.Status {
		s.notifyLocked("Status changed",
			next.Title+" moved from "+prev.Status.Label()+" to "+next.Status.Label(), next.ID)
	}
	for _, mid := range next.AssigneeIDs {
		if !prev.HasAssignee(mid) {
			s.notifyAssignedLocked(next, mid)
		}
	}
	s.log.WithFields(logrus.Fields{"task": id}).Debug("task updated")
	return next.Clone(), nil
}

// DeleteTask removes a task; unknown ids are a no-op.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	idx := s.taskIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	obs := s.observer
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"task": id}).Debug("task deleted")
	if obs != nil {
		obs.EntitiesRemoved(nil, []string{id})
	}
	return true
}

// AddTeamMember registers a member from the external member source. An empty
// ID gets a generated one; an existing ID is replaced in place.
func (s *Store) AddTeamMember(m model.TeamMember) (model.TeamMember, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return model.TeamMember{}, ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(m.Initials) == "" {
		m.Initials = model.InitialsFor(m.Name)
	}
	m.Role = strings.TrimSpace(m.Role)

	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(m.ID) == "" {
		m.ID = s.nextID("mem")
	}
	if idx := s.memberIndex(m.ID); idx >= 0 {
		s.members[idx] = m
		return m, nil
	}
	s.members = append(s.members, m)
	return m, nil
}

// RemoveTeamMember drops the member and strips it from every task's assignees.
func (s *Store) RemoveTeamMember(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.memberIndex(id)
	if idx < 0 {
		return false
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)
	for i := range s.tasks {
		if !s.tasks[i].HasAssignee(id) {
			continue
		}
		out := make([]string, 0, len(s.tasks[i].AssigneeIDs))
		for _, a := range s.tasks[i].AssigneeIDs {
			if a != id {
				out = append(out, a)
			}
		}
		s.tasks[i].AssigneeIDs = out
	}
	return true
}

func (s *Store) Projects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project{}, s.projects...)
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) TeamMembers() []model.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TeamMember{}, s.members...)
}

func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.projectIndex(id); idx >= 0 {
		return s.projects[idx], true
	}
	return model.Project{}, false
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.taskIndex(id); idx >= 0 {
		return s.tasks[idx].Clone(), true
	}
	return model.Task{}, false
}

func (s *Store) TeamMember(id string) (model.TeamMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.memberIndex(id); idx >= 0 {
		return s.members[idx], true
	}
	return model.TeamMember{}, false
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Projects:      append([]model.Project{}, s.projects...),
		Tasks:         make([]model.Task, len(s.tasks)),
		TeamMembers:   append([]model.TeamMember{}, s.members...),
		Notifications: append([]model.Notification{}, s.notifications...),
	}
	for i, t := range s.tasks {
		st.Tasks[i] = t.Clone()
	}
	return st
}

// Restore replaces the store contents. Tasks pointing at unknown projects are
// dropped and unknown assignees are pruned, so a damaged snapshot cannot break
// referential integrity.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append([]model.Project{}, st.Projects...)
	s.members = append([]model.TeamMember{}, st.TeamMembers...)
	s.tasks = s.tasks[:0]
	for _, t := range st.Tasks {
		if s.projectIndex(t.ProjectID) < 0 {
			s.log.WithFields(logrus.Fields{"task": t.ID, "project": t.ProjectID}).Warn("restore: dropping task with unknown project")
			continue
		}
		t = t.Clone()
		kept := t.AssigneeIDs[:0]
		for _, a := range t.AssigneeIDs {
			if s.memberIndex(a) >= 0 {
				kept = append(kept, a)
			}
		}
		t.AssigneeIDs = kept
		s.tasks = append(s.tasks, t)
	}
	s.notifications = append([]model.Notification{}, st.Notifications...)
	if len(s.notifications) > s.retention {
		s.notifications = s.notifications[:s.retention]
	}
}

func (s *Store) checkMembersLocked(ids []string) error {
	for _, id := range ids {
		if s.memberIndex(id) < 0 {
			s.log.WithFields(logrus.Fields{"member": id}).Warn("rejected unknown assignee")
			return InvalidReferenceError{Kind: "team member", ID: id, Field: "assigneeIds"}
		}
	}
	return nil
}

func (s *Store) projectIndex(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) memberIndex(id string) int {
	for i := range s.members {
		if s.members[i].ID == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := dedupe(tags)
	if len(out) == 0 {
		return nil
	}
	return out
}
