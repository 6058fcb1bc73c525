package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps tests away from the user's config and session.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_DIR", "")
	t.Setenv("TASKDECK_FORMAT", "")
	return t.TempDir()
}

func mustRunJSON(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, append([]string{"--dir", dir}, args...))
	if err != nil {
		t.Fatalf("command failed: taskdeck %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got %#v", env["data"])
	}
	return m
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	l, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data array; got %#v", env["data"])
	}
	return l
}

func idsOf(items []any) []string {
	out := []string{}
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			if id, _ := m["id"].(string); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

type seeded struct {
	projectID string
	docID     string
	shipID    string
}

func seedAlpha(t *testing.T, dir string) seeded {
	t.Helper()
	p := dataMap(t, mustRunJSON(t, dir, "projects", "create", "--title", "Alpha"))
	pid, _ := p["id"].(string)
	if pid == "" {
		t.Fatalf("expected project id; got %#v", p)
	}
	doc := dataMap(t, mustRunJSON(t, dir, "tasks", "create", "--project", pid, "--title", "Design doc"))
	ship := dataMap(t, mustRunJSON(t, dir, "tasks", "create", "--project", pid, "--title", "Ship it", "--due", "2025-03-04"))
	return seeded{projectID: pid, docID: doc["id"].(string), shipID: ship["id"].(string)}
}

func TestSearchAndCascadeAcrossInvocations(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)

	if got := idsOf(dataList(t, mustRunJSON(t, dir, "tasks", "search", "doc"))); len(got) != 1 || got[0] != s.docID {
		t.Fatalf("search doc: %v", got)
	}
	if got := idsOf(dataList(t, mustRunJSON(t, dir, "tasks", "search", "ALPHA"))); len(got) != 2 || got[0] != s.docID || got[1] != s.shipID {
		t.Fatalf("search alpha: %v", got)
	}
	sel := dataMap(t, mustRunJSON(t, dir, "select", "show"))
	if sel["searchQuery"] != "ALPHA" {
		t.Fatalf("expected search query persisted; got %#v", sel["searchQuery"])
	}

	del := dataMap(t, mustRunJSON(t, dir, "projects", "delete", s.projectID))
	if del["removedTasks"] != float64(2) || del["deleted"] != true {
		t.Fatalf("unexpected delete result: %#v", del)
	}
	if got := dataList(t, mustRunJSON(t, dir, "tasks", "search", "doc")); len(got) != 0 {
		t.Fatalf("expected no results after delete; got %v", got)
	}
	again := dataMap(t, mustRunJSON(t, dir, "projects", "delete", s.projectID))
	if again["deleted"] != false || again["removedTasks"] != float64(0) {
		t.Fatalf("expected no-op delete; got %#v", again)
	}
}

func TestOpenTaskSelectsProjectAndTask(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)

	open := dataMap(t, mustRunJSON(t, dir, "tasks", "open", s.shipID))
	if open["route"] != "/projects/"+s.projectID {
		t.Fatalf("unexpected route: %#v", open["route"])
	}
	sel, _ := open["selection"].(map[string]any)
	if sel["currentProjectId"] != s.projectID || sel["currentTaskId"] != s.shipID {
		t.Fatalf("unexpected selection: %#v", sel)
	}

	// Deleting the project clears both cells in the saved snapshot.
	mustRunJSON(t, dir, "projects", "delete", s.projectID)
	shown := dataMap(t, mustRunJSON(t, dir, "select", "show"))
	after, _ := shown["selection"].(map[string]any)
	if after["currentProjectId"] != nil || after["currentTaskId"] != nil {
		t.Fatalf("expected selection cleared; got %#v", after)
	}
}

func TestSelectValidatesAndClears(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)

	if _, stderr, err := runCLI(t, []string{"--dir", dir, "select", "project", "proj-missing"}); err == nil {
		t.Fatalf("expected not found error")
	} else if !strings.Contains(string(stderr), "project not found") {
		t.Fatalf("expected error on stderr; got %q", string(stderr))
	}

	mustRunJSON(t, dir, "select", "project", s.projectID)
	mustRunJSON(t, dir, "select", "task", s.docID)
	cleared := dataMap(t, mustRunJSON(t, dir, "select", "clear", "--project"))
	if cleared["currentProjectId"] != nil || cleared["currentTaskId"] != s.docID {
		t.Fatalf("expected only project cleared; got %#v", cleared)
	}
}

func TestNotificationsUnreadFlow(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)
	ann := dataMap(t, mustRunJSON(t, dir, "members", "add", "--name", "Ann Lee", "--role", "designer"))
	annID := ann["id"].(string)

	mustRunJSON(t, dir, "tasks", "create", "--project", s.projectID, "--title", "N1", "--assignee", annID)
	mustRunJSON(t, dir, "tasks", "create", "--project", s.projectID, "--title", "N2", "--assignee", annID)

	unread := dataMap(t, mustRunJSON(t, dir, "notifications", "unread"))
	if unread["unread"] != float64(2) || unread["badge"] != "2" {
		t.Fatalf("unexpected unread: %#v", unread)
	}
	list := dataList(t, mustRunJSON(t, dir, "notifications", "list"))
	ids := idsOf(list)
	if len(ids) != 2 {
		t.Fatalf("expected 2 notifications; got %v", ids)
	}
	mustRunJSON(t, dir, "notifications", "read", ids[1])
	mustRunJSON(t, dir, "notifications", "read", "missing")
	if got := dataMap(t, mustRunJSON(t, dir, "notifications", "unread"))["unread"]; got != float64(1) {
		t.Fatalf("expected 1 unread; got %#v", got)
	}
	mustRunJSON(t, dir, "notifications", "read-all")
	if got := dataMap(t, mustRunJSON(t, dir, "notifications", "unread"))["badge"]; got != "" {
		t.Fatalf("expected empty badge; got %#v", got)
	}

	members := dataList(t, mustRunJSON(t, dir, "members", "list"))
	if len(members) != 1 || members[0].(map[string]any)["activeTasks"] != float64(2) {
		t.Fatalf("unexpected workload: %#v", members)
	}
}

func TestTaskValidationErrors(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)

	cases := [][]string{
		{"tasks", "create", "--project", "proj-missing", "--title", "X"},
		{"tasks", "create", "--project", s.projectID, "--title", "X", "--assignee", "mem-missing"},
		{"tasks", "create", "--project", s.projectID, "--title", "X", "--status", "later"},
		{"tasks", "update", "task-missing", "--title", "X"},
		{"tasks", "show", "task-missing"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, append([]string{"--dir", dir}, args...)); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}

	upd := dataMap(t, mustRunJSON(t, dir, "tasks", "update", s.shipID, "--status", "doing", "--clear-due"))
	if upd["status"] != "in-progress" {
		t.Fatalf("expected in-progress; got %#v", upd["status"])
	}
	if _, ok := upd["dueDate"]; ok {
		t.Fatalf("expected due date cleared; got %#v", upd["dueDate"])
	}
}

func TestViewRendersTextAndData(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)

	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "view", "board", "--project", s.projectID, "--width", "100"})
	if err != nil {
		t.Fatalf("view board: %v\n%s", err, string(stderr))
	}
	out := string(stdout)
	for _, want := range []string{"To Do (2)", "Design doc", "Ship it"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in board:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain text when writing to a buffer")
	}

	cal := dataMap(t, mustRunJSON(t, dir, "view", "calendar", "--project", s.projectID, "--month", "2025-03", "--data"))
	if days, _ := cal["days"].([]any); len(days) != 31 {
		t.Fatalf("expected 31 days in March; got %d", len(days))
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "view", "gantt", "--project", s.projectID}); err == nil {
		t.Fatalf("expected unknown view error")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "view", "list"}); err == nil {
		t.Fatalf("expected error without a current project")
	}
}

func TestFormatYAMLAndUnknown(t *testing.T) {
	dir := isolate(t)
	seedAlpha(t, dir)

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "projects", "list"})
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "data:") || !strings.Contains(string(stdout), "title: Alpha") {
		t.Fatalf("unexpected yaml:\n%s", string(stdout))
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "projects", "list"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestAuthLoginWhoamiLogout(t *testing.T) {
	dir := isolate(t)

	if _, _, err := runCLI(t, []string{"--dir", dir, "auth", "whoami"}); err == nil {
		t.Fatalf("expected not signed in")
	}
	login := dataMap(t, mustRunJSON(t, dir, "auth", "login", "Ada@Example.com"))
	if login["email"] != "ada@example.com" || login["initials"] != "AD" {
		t.Fatalf("unexpected login: %#v", login)
	}
	who := dataMap(t, mustRunJSON(t, dir, "auth", "whoami"))
	if who["email"] != "ada@example.com" {
		t.Fatalf("unexpected whoami: %#v", who)
	}
	out := dataMap(t, mustRunJSON(t, dir, "auth", "logout"))
	if out["route"] != "/auth" {
		t.Fatalf("expected auth route; got %#v", out["route"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "auth", "whoami"}); err == nil {
		t.Fatalf("expected signed out")
	}
}

func TestDoctorReportsCounts(t *testing.T) {
	dir := isolate(t)
	seedAlpha(t, dir)

	env := mustRunJSON(t, dir, "doctor", "--fail")
	data := dataMap(t, env)
	if data["projects"] != float64(1) || data["tasks"] != float64(2) {
		t.Fatalf("unexpected counts: %#v", data)
	}
	if v, _ := data["schemaVersion"].(float64); v < 1 {
		t.Fatalf("expected schema version; got %#v", data["schemaVersion"])
	}
	if _, ok := env["_hints"]; !ok {
		t.Fatalf("expected hints")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	path := dir + "/config.yaml"

	mustRunJSON(t, dir, "config", "init", "--path", path)
	if _, _, err := runCLI(t, []string{"--dir", dir, "config", "init", "--path", path}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	show := mustRunJSON(t, dir, "config", "show")
	meta, _ := show["meta"].(map[string]any)
	if meta["dataDir"] != dir {
		t.Fatalf("expected --dir to win; got %#v", meta["dataDir"])
	}
}

func TestBackupExportImport(t *testing.T) {
	dir := isolate(t)
	s := seedAlpha(t, dir)
	path := t.TempDir() + "/backup.jsonl"

	exp := dataMap(t, mustRunJSON(t, dir, "backup", "export", path))
	if exp["tasks"] != float64(2) {
		t.Fatalf("unexpected export: %#v", exp)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "backup", "import", path}); err == nil {
		t.Fatalf("expected refusal to import over existing data")
	}

	fresh := t.TempDir()
	imp := dataMap(t, mustRunJSON(t, fresh, "backup", "import", path))
	if imp["projects"] != float64(1) || imp["tasks"] != float64(2) {
		t.Fatalf("unexpected import: %#v", imp)
	}
	shown := dataMap(t, mustRunJSON(t, fresh, "tasks", "show", s.docID))
	if shown["projectTitle"] != "Alpha" {
		t.Fatalf("expected imported task; got %#v", shown)
	}
}
