package store

import (
	"testing"

	"taskdeck/internal/model"
)

func hasIssue(r DoctorReport, code string) bool {
	for _, it := range r.Issues {
		if it.Code == code {
			return true
		}
	}
	return false
}

func TestDoctor_CleanSnapshot(t *testing.T) {
	s := New(Options{})
	p, err := s.CreateProject(ProjectInput{Title: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := s.CreateTask(TaskInput{ProjectID: p.ID, Title: "T"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	r := Doctor(Persisted{State: s.Snapshot()})
	if len(r.Issues) != 0 || r.HasErrors() {
		t.Fatalf("expected no issues; got %#v", r.Issues)
	}
}

func TestDoctor_DetectsBrokenReferences(t *testing.T) {
	start := model.Date{Year: 2025, Month: 3, Day: 5}
	due := model.Date{Year: 2025, Month: 3, Day: 1}
	gone := "task-gone"
	missing := "proj-missing"
	st := State{
		Projects: []model.Project{{ID: "proj-1", Title: "A", Status: model.ProjectActive}},
		Tasks: []model.Task{
			{ID: "task-1", ProjectID: "proj-x", Title: "orphan", Status: model.StatusTodo},
			{ID: "task-2", ProjectID: "proj-1", Title: "ghost assignee", Status: model.StatusTodo, AssigneeIDs: []string{"mem-x"}},
			{ID: "task-3", ProjectID: "proj-1", Title: "backwards", Status: "later", StartDate: &start, DueDate: &due},
			{ID: "proj-1", ProjectID: "proj-1", Title: "dup", Status: model.StatusTodo},
		},
		Notifications: []model.Notification{{ID: "n1", RelatedTaskID: &gone}},
	}
	r := Doctor(Persisted{State: st, Selection: model.Selection{CurrentProjectID: &missing}})
	if !r.HasErrors() {
		t.Fatalf("expected errors")
	}
	for _, code := range []string{"dangling_project", "dangling_assignee", "invalid_status", "due_before_start", "duplicate_id", "stale_notification", "dangling_selection"} {
		if !hasIssue(r, code) {
			t.Fatalf("expected %s; got %#v", code, r.Issues)
		}
	}
	if r.Issues[0].Level != DoctorIssueLevelError || r.Issues[len(r.Issues)-1].Level != DoctorIssueLevelWarn {
		t.Fatalf("expected errors before warnings; got %#v", r.Issues)
	}
}

func TestDoctor_WarningsOnlyIsNotAnError(t *testing.T) {
	gone := "task-gone"
	r := Doctor(Persisted{State: State{Notifications: []model.Notification{{ID: "n1", RelatedTaskID: &gone}}}})
	if r.HasErrors() || len(r.Issues) != 1 {
		t.Fatalf("expected a single warning; got %#v", r.Issues)
	}
}
