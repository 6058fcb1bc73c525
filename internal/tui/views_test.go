package tui

import (
	"strings"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"
	"taskdeck/internal/store"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func datePtr(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return &d
}

func seededContext(t *testing.T) (*projectctx.Context, model.Project) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	pc := projectctx.New(projectctx.Options{
		Store: store.New(store.Options{Now: func() time.Time { return testNow }}),
	})
	p, err := pc.CreateProject(store.ProjectInput{Title: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	for _, in := range []store.TaskInput{
		{ProjectID: p.ID, Title: "Write brief", DueDate: datePtr(t, "2025-03-04"), Priority: model.PriorityHigh},
		{ProjectID: p.ID, Title: "Review", Status: model.StatusInProgress, StartDate: datePtr(t, "2025-03-02"), DueDate: datePtr(t, "2025-03-06")},
		{ProjectID: p.ID, Title: "Someday"},
	} {
		if _, err := pc.CreateTask(in); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}
	return pc, p
}

func TestRenderBoard_ColumnsAndCounts(t *testing.T) {
	pc, p := seededContext(t)
	out := xansi.Strip(RenderBoard(pc.Board(p.ID), 100, ""))
	for _, want := range []string{"To Do (2)", "In Progress (1)", "Done (0)", "Blocked (0)", "Write brief", "due Mar 4", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in board:\n%s", want, out)
		}
	}
}

func TestRenderList_SortedByDue(t *testing.T) {
	pc, p := seededContext(t)
	out := xansi.Strip(RenderList(pc.List(p.ID, query.SortDue), 90, ""))
	brief := strings.Index(out, "Write brief")
	review := strings.Index(out, "Review")
	someday := strings.Index(out, "Someday")
	if brief < 0 || review < 0 || someday < 0 || !(brief < review && review < someday) {
		t.Fatalf("unexpected order:\n%s", out)
	}
	if got := RenderList(nil, 80, ""); !strings.Contains(got, "No tasks.") {
		t.Fatalf("expected empty placeholder, got %q", got)
	}
}

func TestRenderCalendar_MonthGrid(t *testing.T) {
	pc, p := seededContext(t)
	out := xansi.Strip(RenderCalendar(pc.Calendar(p.ID, testNow), 98, ""))
	for _, want := range []string{"March 2025", "Mon", "Sun", "31", "Write brief", "1 without due date"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in calendar:\n%s", want, out)
		}
	}
}

func TestRenderTimeline_Spans(t *testing.T) {
	pc, p := seededContext(t)
	out := xansi.Strip(RenderTimeline(pc.Timeline(p.ID), 100, ""))
	if !strings.Contains(out, "Mar 2 – Mar 6") {
		t.Fatalf("expected span label:\n%s", out)
	}
	if !strings.Contains(out, "█") {
		t.Fatalf("expected bars:\n%s", out)
	}
	if got := RenderTimeline(nil, 80, ""); !strings.Contains(got, "No tasks.") {
		t.Fatalf("expected empty placeholder, got %q", got)
	}
}

func TestNormalizePane_PadsAndTruncates(t *testing.T) {
	got := normalizePane("abcdef\nx", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if w := xansi.StringWidth(ln); w != 4 {
			t.Fatalf("expected width 4, got %d for %q", w, ln)
		}
	}
}
