package store

import (
	"context"
	"testing"
	"time"

	"taskdeck/internal/model"
)

func TestDisk_SaveLoadRoundTripKeepsOrderAndSelection(t *testing.T) {
	ctx := context.Background()
	d := Disk{Dir: t.TempDir()}

	if v, err := d.SchemaVersion(ctx); err != nil || v != 0 {
		t.Fatalf("expected empty snapshot version 0, got %d (%v)", v, err)
	}

	s := newTestStore(t)
	m, _ := s.AddTeamMember(model.TeamMember{Name: "Ann"})
	p := mustProject(t, s, "Alpha")
	due, _ := model.ParseDate("2025-03-14")
	mustTask(t, s, TaskInput{ProjectID: p.ID, Title: "zeta", AssigneeIDs: []string{m.ID}, DueDate: &due})
	mustTask(t, s, TaskInput{ProjectID: p.ID, Title: "alpha"})

	in := Persisted{
		State:       s.Snapshot(),
		Selection:   model.Selection{CurrentProjectID: strPtr(p.ID)},
		SearchQuery: "doc",
	}
	if err := d.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := d.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.State.Tasks) != 2 || out.State.Tasks[0].Title != "zeta" || out.State.Tasks[1].Title != "alpha" {
		t.Fatalf("expected insertion order preserved, got %+v", out.State.Tasks)
	}
	if out.State.Tasks[0].DueDate == nil || out.State.Tasks[0].DueDate.String() != "2025-03-14" {
		t.Fatalf("expected due date round-trip, got %v", out.State.Tasks[0].DueDate)
	}
	if id, ok := out.Selection.ProjectID(); !ok || id != p.ID {
		t.Fatalf("expected current project %s, got %v", p.ID, out.Selection.CurrentProjectID)
	}
	if out.Selection.CurrentTaskID != nil {
		t.Fatalf("expected no current task, got %v", *out.Selection.CurrentTaskID)
	}
	if out.SearchQuery != "doc" {
		t.Fatalf("expected search query restored, got %q", out.SearchQuery)
	}
	if len(out.State.Notifications) != 1 {
		t.Fatalf("expected the assignment notification, got %d", len(out.State.Notifications))
	}
	if v, err := d.SchemaVersion(ctx); err != nil || v != 1 {
		t.Fatalf("expected version 1, got %d (%v)", v, err)
	}
}

func TestDisk_SaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	d := Disk{Dir: t.TempDir()}
	now := time.Now().UTC()

	first := Persisted{State: State{Projects: []model.Project{
		{ID: "proj-a", Title: "A", Status: model.ProjectActive, CreatedAt: now},
		{ID: "proj-b", Title: "B", Status: model.ProjectActive, CreatedAt: now},
	}}}
	if err := d.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := Persisted{State: State{Projects: []model.Project{
		{ID: "proj-b", Title: "B", Status: model.ProjectArchived, CreatedAt: now},
	}}}
	if err := d.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := d.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.State.Projects) != 1 || out.State.Projects[0].Status != model.ProjectArchived {
		t.Fatalf("expected only archived proj-b, got %+v", out.State.Projects)
	}
}
