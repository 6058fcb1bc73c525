package store

import (
	"errors"
	"fmt"
	"sort"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	EntityKind string `json:"entityKind,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

var ErrDoctorIssuesFound = errors.New("doctor: issues found")

// Doctor checks a saved snapshot for broken references and values the store
// would never produce itself. Errors mean the snapshot was edited or written
// by something else; warnings are allowed states worth knowing about.
func Doctor(p Persisted) DoctorReport {
	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, kind, id, format string, args ...any) {
		issues = append(issues, DoctorIssue{
			Level:      level,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			EntityKind: kind,
			EntityID:   id,
		})
	}

	ids := map[string]string{}
	seen := func(kind, id string) {
		if prev, ok := ids[id]; ok {
			add(DoctorIssueLevelError, "duplicate_id", kind, id, "id %s is used by a %s and a %s", id, prev, kind)
			return
		}
		ids[id] = kind
	}

	projects := map[string]bool{}
	for _, pr := range p.State.Projects {
		seen("project", pr.ID)
		projects[pr.ID] = true
		if !pr.Status.Valid() {
			add(DoctorIssueLevelError, "invalid_status", "project", pr.ID, "project %s has unknown status %q", pr.ID, pr.Status)
		}
	}
	members := map[string]bool{}
	for _, m := range p.State.TeamMembers {
		seen("member", m.ID)
		members[m.ID] = true
	}
	tasks := map[string]bool{}
	for _, t := range p.State.Tasks {
		seen("task", t.ID)
		tasks[t.ID] = true
		if !projects[t.ProjectID] {
			add(DoctorIssueLevelError, "dangling_project", "task", t.ID, "task %s references missing project %s", t.ID, t.ProjectID)
		}
		for _, id := range t.AssigneeIDs {
			if !members[id] {
				add(DoctorIssueLevelError, "dangling_assignee", "task", t.ID, "task %s references missing member %s", t.ID, id)
			}
		}
		if !t.Status.Valid() {
			add(DoctorIssueLevelError, "invalid_status", "task", t.ID, "task %s has unknown status %q", t.ID, t.Status)
		}
		if !t.Priority.Valid() {
			add(DoctorIssueLevelError, "invalid_priority", "task", t.ID, "task %s has unknown priority %q", t.ID, t.Priority)
		}
		if t.StartDate != nil && t.DueDate != nil && t.DueDate.Before(*t.StartDate) {
			add(DoctorIssueLevelWarn, "due_before_start", "task", t.ID, "task %s is due %s before it starts %s", t.ID, t.DueDate, t.StartDate)
		}
	}

	for _, n := range p.State.Notifications {
		if n.RelatedTaskID != nil && !tasks[*n.RelatedTaskID] {
			add(DoctorIssueLevelWarn, "stale_notification", "notification", n.ID, "notification %s refers to deleted task %s", n.ID, *n.RelatedTaskID)
		}
	}
	if id, ok := p.Selection.ProjectID(); ok && !projects[id] {
		add(DoctorIssueLevelWarn, "dangling_selection", "project", id, "current project %s does not exist; it is cleared on load", id)
	}
	if id, ok := p.Selection.TaskID(); ok && !tasks[id] {
		add(DoctorIssueLevelWarn, "dangling_selection", "task", id, "current task %s does not exist; it is cleared on load", id)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return levelRank(issues[i].Level) < levelRank(issues[j].Level)
	})
	return DoctorReport{Issues: issuesOrEmpty(issues)}
}

func levelRank(l DoctorIssueLevel) int {
	if l == DoctorIssueLevelError {
		return 0
	}
	return 1
}

func issuesOrEmpty(xs []DoctorIssue) []DoctorIssue {
	if xs == nil {
		return []DoctorIssue{}
	}
	return xs
}
