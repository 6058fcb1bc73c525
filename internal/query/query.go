// Package query holds the read side of the project context: search, filters
// and the projections behind the board, list, calendar and timeline views.
//
// Every function recomputes from the Source it is given; nothing is cached,
// so results always reflect the latest mutations.
package query

import (
	"strings"

	"taskdeck/internal/model"
)

// Source is the read-only view of the entity store.
type Source interface {
	Projects() []model.Project
	Tasks() []model.Task
	TeamMembers() []model.TeamMember
	Notifications() []model.Notification
}

// SearchTasks matches q case-insensitively against task titles and the title
// of each task's project. A blank query returns nothing rather than every
// task. Results keep store insertion order.
func SearchTasks(src Source, q string) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return []model.Task{}
	}
	projectTitles := map[string]string{}
	for _, p := range src.Projects() {
		projectTitles[p.ID] = strings.ToLower(p.Title)
	}
	out := []model.Task{}
	for _, t := range src.Tasks() {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(projectTitles[t.ProjectID], needle) {
			out = append(out, t)
		}
	}
	return out
}

type Filter struct {
	ProjectID  string
	Statuses   []model.TaskStatus
	AssigneeID string
	Tag        string
}

func (f Filter) match(t model.Task) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if t.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.AssigneeID != "" && !t.HasAssignee(f.AssigneeID) {
		return false
	}
	if f.Tag != "" {
		ok := false
		for _, tag := range t.Tags {
			if strings.EqualFold(tag, f.Tag) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func FilterTasks(src Source, f Filter) []model.Task {
	out := []model.Task{}
	for _, t := range src.Tasks() {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

func ProjectTasks(src Source, projectID string) []model.Task {
	return FilterTasks(src, Filter{ProjectID: projectID})
}

func ActiveProjects(src Source) []model.Project {
	out := []model.Project{}
	for _, p := range src.Projects() {
		if p.Status == model.ProjectActive {
			out = append(out, p)
		}
	}
	return out
}

// ProjectByID is a convenience lookup for views holding only a Source.
func ProjectByID(src Source, id string) (model.Project, bool) {
	for _, p := range src.Projects() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func TaskByID(src Source, id string) (model.Task, bool) {
	for _, t := range src.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// AssigneeNames resolves member ids to names, skipping unknown ids.
func AssigneeNames(src Source, t model.Task) []string {
	byID := map[string]string{}
	for _, m := range src.TeamMembers() {
		byID[m.ID] = m.Name
	}
	out := make([]string, 0, len(t.AssigneeIDs))
	for _, id := range t.AssigneeIDs {
		if name, ok := byID[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
