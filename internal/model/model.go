package model

import (
	"strings"
	"time"
)

type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string        `json:"color" yaml:"color"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	CreatedAt   time.Time     `json:"createdAt" yaml:"createdAt"`
}

type Task struct {
	ID          string     `json:"id" yaml:"id"`
	ProjectID   string     `json:"projectId" yaml:"projectId"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      TaskStatus `json:"status" yaml:"status"`
	AssigneeIDs []string   `json:"assigneeIds" yaml:"assigneeIds"`

	// StartDate only feeds the timeline projection; when unset the timeline
	// starts the span at CreatedAt.
	StartDate *Date    `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	DueDate   *Date    `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority  Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	out := t
	out.AssigneeIDs = append([]string{}, t.AssigneeIDs...)
	if t.Tags != nil {
		out.Tags = append([]string{}, t.Tags...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.StartDate != nil {
		d := *t.StartDate
		out.StartDate = &d
	}
	return out
}

// HasAssignee reports whether memberID is one of the task's assignees.
func (t Task) HasAssignee(memberID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

type TeamMember struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Initials string `json:"initials" yaml:"initials"`
	Role     string `json:"role" yaml:"role"`
}

// RoleLabel renders a role id like "product-manager" as "product manager".
func (m TeamMember) RoleLabel() string {
	return strings.ReplaceAll(m.Role, "-", " ")
}

// InitialsFor derives up to two upper-case initials from a display name.
func InitialsFor(name string) string {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		r := []rune(fields[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

type Notification struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Message       string    `json:"message" yaml:"message"`
	Read          bool      `json:"read" yaml:"read"`
	RelatedTaskID *string   `json:"relatedTaskId,omitempty" yaml:"relatedTaskId,omitempty"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
}

// Selection is the process-wide "currently viewed" state. A nil field means none.
type Selection struct {
	CurrentProjectID *string `json:"currentProjectId" yaml:"currentProjectId"`
	CurrentTaskID    *string `json:"currentTaskId" yaml:"currentTaskId"`
}

func (s Selection) ProjectID() (string, bool) {
	if s.CurrentProjectID == nil {
		return "", false
	}
	return *s.CurrentProjectID, true
}

func (s Selection) TaskID() (string, bool) {
	if s.CurrentTaskID == nil {
		return "", false
	}
	return *s.CurrentTaskID, true
}
