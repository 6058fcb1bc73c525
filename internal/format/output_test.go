package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID    string   `json:"id"`
	Tags  []string `json:"tags,omitempty"`
	Count int      `json:"count"`
}

func TestWrite_JSONAndYAMLShareFieldNames(t *testing.T) {
	v := map[string]any{"data": sample{ID: "task-1", Count: 2}}

	var js bytes.Buffer
	if err := Write(&js, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := strings.TrimSpace(js.String()); got != `{"data":{"id":"task-1","count":2}}` {
		t.Fatalf("unexpected json %s", got)
	}

	var ym bytes.Buffer
	if err := Write(&ym, v, "YAML", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	out := ym.String()
	if !strings.Contains(out, "id: task-1") || !strings.Contains(out, "count: 2") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
	if strings.Contains(out, "tags") {
		t.Fatalf("omitempty field leaked into yaml:\n%s", out)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("toml") || !Valid("") || !Valid("yml") {
		t.Fatalf("Valid mismatch")
	}
}
