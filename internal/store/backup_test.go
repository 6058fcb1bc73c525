package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/model"
)

func TestBackupJSONLRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(Options{Now: func() time.Time { return now }})
	ann, err := s.AddTeamMember(model.TeamMember{Name: "Ann Lee"})
	if err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	p, err := s.CreateProject(ProjectInput{Title: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	due := model.Date{Year: 2025, Month: 3, Day: 4}
	first, err := s.CreateTask(TaskInput{ProjectID: p.ID, Title: "First", AssigneeIDs: []string{ann.ID}, DueDate: &due})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask(TaskInput{ProjectID: p.ID, Title: "Second"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	in := Persisted{
		State:       s.Snapshot(),
		Selection:   model.Selection{CurrentProjectID: &p.ID, CurrentTaskID: &first.ID},
		SearchQuery: "fir",
	}
	path := filepath.Join(t.TempDir(), "backup.jsonl")
	if err := WriteBackupJSONL(path, in); err != nil {
		t.Fatalf("WriteBackupJSONL: %v", err)
	}

	out, err := ReadBackupJSONL(path)
	if err != nil {
		t.Fatalf("ReadBackupJSONL: %v", err)
	}
	if len(out.State.Tasks) != 2 || out.State.Tasks[0].ID != first.ID || out.State.Tasks[1].Title != "Second" {
		t.Fatalf("unexpected tasks: %+v", out.State.Tasks)
	}
	if out.State.Tasks[0].DueDate == nil || *out.State.Tasks[0].DueDate != due {
		t.Fatalf("due date lost: %+v", out.State.Tasks[0].DueDate)
	}
	if len(out.State.Notifications) != 1 || len(out.State.TeamMembers) != 1 {
		t.Fatalf("unexpected counts: %+v", out.State)
	}
	if id, _ := out.Selection.TaskID(); id != first.ID || out.SearchQuery != "fir" {
		t.Fatalf("unexpected ui state: %+v %q", out.Selection, out.SearchQuery)
	}
}

func TestReadBackupJSONL_ReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.jsonl")
	body := `{"kind":"project","data":{"id":"proj-1","title":"A","status":"active"}}` + "\n" + `{"kind":"widget","data":{}}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ReadBackupJSONL(path)
	if err == nil || !strings.Contains(err.Error(), "backup.jsonl:2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}
