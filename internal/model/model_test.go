package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTaskStatus_Aliases(t *testing.T) {
	for in, want := range map[string]TaskStatus{
		"todo":        StatusTodo,
		" Done ":      StatusDone,
		"doing":       StatusInProgress,
		"in_progress": StatusInProgress,
		"BLOCKED":     StatusBlocked,
	} {
		got, err := ParseTaskStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseTaskStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseTaskStatus("later"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestPriority_RankAndParse(t *testing.T) {
	if !(PriorityUrgent.Rank() > PriorityHigh.Rank() && PriorityLow.Rank() > PriorityNone.Rank()) {
		t.Fatalf("unexpected rank order")
	}
	p, err := ParsePriority("none")
	if err != nil || p != PriorityNone {
		t.Fatalf("ParsePriority(none) = %q, %v", p, err)
	}
	if _, err := ParsePriority("critical"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseViewType_BoardAlias(t *testing.T) {
	v, err := ParseViewType("board")
	if err != nil || v != ViewKanban {
		t.Fatalf("ParseViewType(board) = %q, %v", v, err)
	}
	if _, err := ParseViewType("gantt"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTransitionTable(t *testing.T) {
	var open TransitionTable
	if !open.Allows(StatusDone, StatusTodo) {
		t.Fatalf("nil table must allow every transition")
	}

	tbl, err := ParseTransitionTable(map[string][]string{"todo": {"in-progress"}, "in-progress": {"done"}})
	if err != nil {
		t.Fatalf("ParseTransitionTable: %v", err)
	}
	if !tbl.Allows(StatusTodo, StatusInProgress) || tbl.Allows(StatusTodo, StatusDone) {
		t.Fatalf("unexpected table behaviour: %+v", tbl)
	}
	if !tbl.Allows(StatusBlocked, StatusBlocked) {
		t.Fatalf("same-status updates are always allowed")
	}
	if _, err := ParseTransitionTable(map[string][]string{"todo": {"later"}}); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

func TestDate_JSONAndOrdering(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	b, err := json.Marshal(d)
	if err != nil || string(b) != `"2025-02-28"` {
		t.Fatalf("Marshal = %s, %v", b, err)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil || back != d {
		t.Fatalf("Unmarshal = %+v, %v", back, err)
	}
	if d.Short() != "Feb 28" {
		t.Fatalf("Short = %q", d.Short())
	}
	next := DateOf(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC))
	if !d.Before(next) || next.Before(d) {
		t.Fatalf("unexpected ordering")
	}
	if _, err := ParseDate("2025-02-30"); err == nil {
		t.Fatalf("expected invalid date")
	}
}

func TestInitialsFor(t *testing.T) {
	for in, want := range map[string]string{
		"Ann Lee":          "AL",
		"ada":              "AD",
		"Mary Jane Watson": "MW",
		"  ":               "",
		"Ø":                "Ø",
	} {
		if got := InitialsFor(in); got != want {
			t.Fatalf("InitialsFor(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestTaskClone_DoesNotShare(t *testing.T) {
	due := Date{Year: 2025, Month: 3, Day: 4}
	orig := Task{AssigneeIDs: []string{"m1"}, Tags: []string{"x"}, DueDate: &due}
	c := orig.Clone()
	c.AssigneeIDs[0] = "m2"
	c.Tags[0] = "y"
	c.DueDate.Day = 9
	if orig.AssigneeIDs[0] != "m1" || orig.Tags[0] != "x" || orig.DueDate.Day != 4 {
		t.Fatalf("clone shares state with original: %+v", orig)
	}
}
