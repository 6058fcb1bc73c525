package query

import (
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

func newFixture(t *testing.T) (*store.Store, model.Project, model.Task, model.Task) {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := store.New(store.Options{Now: func() time.Time { return now }})
	p, err := s.CreateProject(store.ProjectInput{Title: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	t1, err := s.CreateTask(store.TaskInput{ProjectID: p.ID, Title: "Design doc"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	t2, err := s.CreateTask(store.TaskInput{ProjectID: p.ID, Title: "Ship it"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return s, p, t1, t2
}

func ids(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchTasks_MatchesTaskAndProjectTitles(t *testing.T) {
	s, p, t1, t2 := newFixture(t)

	if got := ids(SearchTasks(s, "doc")); !sameIDs(got, []string{t1.ID}) {
		t.Fatalf("search doc: got %v", got)
	}
	if got := ids(SearchTasks(s, "alpha")); !sameIDs(got, []string{t1.ID, t2.ID}) {
		t.Fatalf("search alpha: got %v", got)
	}
	if got := ids(SearchTasks(s, "DESIGN")); !sameIDs(got, []string{t1.ID}) {
		t.Fatalf("search is case-insensitive: got %v", got)
	}

	s.DeleteProject(p.ID)
	if got := SearchTasks(s, "doc"); len(got) != 0 {
		t.Fatalf("expected no results after delete, got %v", ids(got))
	}
}

func TestSearchTasks_BlankQueryReturnsEmpty(t *testing.T) {
	s, _, _, _ := newFixture(t)
	for _, q := range []string{"", "   ", "\t"} {
		got := SearchTasks(s, q)
		if got == nil || len(got) != 0 {
			t.Fatalf("query %q: expected empty non-nil slice, got %v", q, got)
		}
	}
}

func TestBadgeLabel(t *testing.T) {
	cases := map[int]string{0: "", -1: "", 1: "1", 9: "9", 10: "9+", 42: "9+"}
	for n, want := range cases {
		if got := BadgeLabel(n); got != want {
			t.Fatalf("BadgeLabel(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRecent_CapsAndCopies(t *testing.T) {
	ns := []model.Notification{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Recent(ns, 2)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected %+v", got)
	}
	got[0].ID = "x"
	if ns[0].ID != "a" {
		t.Fatalf("Recent must not alias the input")
	}
	if len(Recent(ns, 0)) != 3 {
		t.Fatalf("limit 0 means no cap")
	}
}

func TestBoard_GroupsByStatusInColumnOrder(t *testing.T) {
	s, p, t1, t2 := newFixture(t)
	done := model.StatusDone
	if _, err := s.UpdateTask(t2.ID, store.TaskPatch{Status: &done}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	cols := Board(s, p.ID)
	if len(cols) != len(model.TaskStatuses) {
		t.Fatalf("expected %d columns, got %d", len(model.TaskStatuses), len(cols))
	}
	if cols[0].Status != model.StatusTodo || !sameIDs(ids(cols[0].Tasks), []string{t1.ID}) {
		t.Fatalf("todo column: %+v", cols[0])
	}
	if cols[2].Status != model.StatusDone || !sameIDs(ids(cols[2].Tasks), []string{t2.ID}) {
		t.Fatalf("done column: %+v", cols[2])
	}
	if cols[3].Tasks == nil {
		t.Fatalf("empty columns should carry an empty slice")
	}
}

func TestList_SortByDuePutsUndatedLast(t *testing.T) {
	s, p, t1, t2 := newFixture(t)
	d := model.Date{Year: 2025, Month: time.March, Day: 10}
	if _, err := s.UpdateTask(t2.ID, store.TaskPatch{DueDate: &d}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got := ids(List(s, p.ID, SortDue)); !sameIDs(got, []string{t2.ID, t1.ID}) {
		t.Fatalf("due sort: got %v", got)
	}
	if got := ids(List(s, p.ID, SortCreated)); !sameIDs(got, []string{t1.ID, t2.ID}) {
		t.Fatalf("created sort: got %v", got)
	}

	urgent := model.PriorityUrgent
	if _, err := s.UpdateTask(t2.ID, store.TaskPatch{Priority: &urgent}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got := ids(List(s, p.ID, SortPriority)); !sameIDs(got, []string{t2.ID, t1.ID}) {
		t.Fatalf("priority sort: got %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(""); err != nil || k != SortCreated {
		t.Fatalf("blank: %v %v", k, err)
	}
	if k, err := ParseSortKey(" Due "); err != nil || k != SortDue {
		t.Fatalf("due: %v %v", k, err)
	}
	if _, err := ParseSortKey("size"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCalendar_BucketsByDueDay(t *testing.T) {
	s, p, t1, t2 := newFixture(t)
	d := model.Date{Year: 2025, Month: time.February, Day: 28}
	if _, err := s.UpdateTask(t1.ID, store.TaskPatch{DueDate: &d}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	m := Calendar(s, p.ID, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC))
	if len(m.Days) != 28 {
		t.Fatalf("expected 28 days in Feb 2025, got %d", len(m.Days))
	}
	if !sameIDs(ids(m.Days[27].Tasks), []string{t1.ID}) {
		t.Fatalf("expected task on the 28th, got %+v", m.Days[27])
	}
	if !sameIDs(ids(m.Undated), []string{t2.ID}) {
		t.Fatalf("expected undated t2, got %v", ids(m.Undated))
	}
}

func TestTimeline_StartsAtCreationAndOrdersByStart(t *testing.T) {
	s, p, t1, t2 := newFixture(t)
	start := model.Date{Year: 2025, Month: time.February, Day: 20}
	due := model.Date{Year: 2025, Month: time.February, Day: 24}
	if _, err := s.UpdateTask(t2.ID, store.TaskPatch{StartDate: &start, DueDate: &due}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	spans := Timeline(s, p.ID)
	if len(spans) != 2 || spans[0].Task.ID != t2.ID || spans[1].Task.ID != t1.ID {
		t.Fatalf("unexpected order: %+v", spans)
	}
	if spans[0].Days() != 5 {
		t.Fatalf("expected 5-day span, got %d", spans[0].Days())
	}
	created := model.Date{Year: 2025, Month: time.March, Day: 1}
	if spans[1].Start != created || spans[1].End != created {
		t.Fatalf("expected single-day span at creation, got %+v", spans[1])
	}
}

func TestDashboard_CountsAndRate(t *testing.T) {
	s, _, t1, t2 := newFixture(t)
	ann, err := s.AddTeamMember(model.TeamMember{Name: "Ann Lee"})
	if err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	done := model.StatusDone
	blocked := model.StatusBlocked
	assignees := []string{ann.ID}
	if _, err := s.UpdateTask(t1.ID, store.TaskPatch{Status: &done, AssigneeIDs: &assignees}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if _, err := s.UpdateTask(t2.ID, store.TaskPatch{Status: &blocked, AssigneeIDs: &assignees}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	st := Dashboard(s)
	if st.TotalTasks != 2 || st.Completed != 1 || st.Blocked != 1 || st.CompletionRate != 50 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ActiveProjects != 1 || st.TeamMemberCount != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.UnreadNotifs != len(s.Notifications()) {
		t.Fatalf("expected every notification unread, got %d", st.UnreadNotifs)
	}

	load := Workload(s)
	if len(load) != 1 || load[0].ActiveTasks != 1 {
		t.Fatalf("expected one open task for Ann, got %+v", load)
	}
}

func TestDashboard_EmptyStoreHasZeroRate(t *testing.T) {
	s := store.New(store.Options{})
	if st := Dashboard(s); st.CompletionRate != 0 || st.TotalTasks != 0 {
		t.Fatalf("unexpected %+v", st)
	}
}
