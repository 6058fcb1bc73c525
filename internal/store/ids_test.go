package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	id, err := newRandomID("proj", 8)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "proj-") {
		t.Fatalf("expected proj prefix, got %q", id)
	}
	if got := len(strings.TrimPrefix(id, "proj-")); got != 8 {
		t.Fatalf("expected suffix len 8, got %d (%q)", got, id)
	}
}

func TestNextID_TaskIDsStartShort(t *testing.T) {
	s := New(Options{})
	s.mu.Lock()
	id := s.nextID("task")
	s.mu.Unlock()
	if got := len(strings.TrimPrefix(id, "task-")); got != 4 {
		t.Fatalf("expected 4 char task suffix, got %q", id)
	}
}
