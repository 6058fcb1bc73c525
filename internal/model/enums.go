package model

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectArchived, ProjectCompleted}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	default:
		return false
	}
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid project status: %q (expected active|archived|completed)", s)
	}
	return st, nil
}

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskStatuses is also the board column order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	default:
		return false
	}
}

func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "doing", "in_progress", "inprogress":
		norm = string(StatusInProgress)
	}
	st := TaskStatus(norm)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status: %q (expected todo|in-progress|done|blocked)", s)
	}
	return st, nil
}

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting; higher is more urgent and unset is lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParsePriority(s string) (Priority, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "none" {
		norm = ""
	}
	p := Priority(norm)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority: %q (expected low|medium|high|urgent|none)", s)
	}
	return p, nil
}

type ViewType string

const (
	ViewKanban   ViewType = "kanban"
	ViewList     ViewType = "list"
	ViewCalendar ViewType = "calendar"
	ViewTimeline ViewType = "timeline"
)

// ViewTypes is the tab order of the project screen.
var ViewTypes = []ViewType{ViewKanban, ViewList, ViewCalendar, ViewTimeline}

func (v ViewType) Valid() bool {
	switch v {
	case ViewKanban, ViewList, ViewCalendar, ViewTimeline:
		return true
	default:
		return false
	}
}

func (v ViewType) Label() string {
	switch v {
	case ViewKanban:
		return "Kanban"
	case ViewList:
		return "List"
	case ViewCalendar:
		return "Calendar"
	case ViewTimeline:
		return "Timeline"
	default:
		return string(v)
	}
}

func ParseViewType(s string) (ViewType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "board" {
		norm = string(ViewKanban)
	}
	v := ViewType(norm)
	if !v.Valid() {
		return "", fmt.Errorf("invalid view: %q (expected kanban|list|calendar|timeline)", s)
	}
	return v, nil
}

// TransitionTable lists the allowed target statuses per source status.
// A nil table allows every transition.
type TransitionTable map[TaskStatus][]TaskStatus

func (t TransitionTable) Allows(from, to TaskStatus) bool {
	if t == nil || from == to {
		return true
	}
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseTransitionTable converts a config map like {"todo": ["in-progress"]}.
func ParseTransitionTable(raw map[string][]string) (TransitionTable, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := TransitionTable{}
	for from, tos := range raw {
		f, err := ParseTaskStatus(from)
		if err != nil {
			return nil, err
		}
		for _, to := range tos {
			s, err := ParseTaskStatus(to)
			if err != nil {
				return nil, err
			}
			out[f] = append(out[f], s)
		}
	}
	return out, nil
}
