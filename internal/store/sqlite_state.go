package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "taskdeck.sqlite"

// Disk persists store snapshots to <Dir>/taskdeck.sqlite. It is the adapter
// the CLI uses to carry state between invocations; the in-memory Store does
// not depend on it.
type Disk struct {
	Dir string
}

// Persisted is everything a CLI invocation needs to resume: entity state plus
// the UI state owned by the project context.
type Persisted struct {
	State       State
	Selection   model.Selection
	SearchQuery string
}

func (d Disk) Path() string {
	return filepath.Join(d.Dir, sqliteFileName)
}

func (d Disk) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", d.Path())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Load returns an empty snapshot when the file does not exist yet.
func (d Disk) Load(ctx context.Context) (Persisted, error) {
	db, err := d.open(ctx)
	if err != nil {
		return Persisted{}, err
	}
	defer db.Close()

	var out Persisted
	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return v
	}
	if v := strings.TrimSpace(readMeta("current_project_id")); v != "" {
		out.Selection.CurrentProjectID = &v
	}
	if v := strings.TrimSpace(readMeta("current_task_id")); v != "" {
		out.Selection.CurrentTaskID = &v
	}
	out.SearchQuery = readMeta("search_query")

	if out.State.Projects, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY position`); err != nil {
		return Persisted{}, err
	}
	if out.State.Tasks, err = readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY position`); err != nil {
		return Persisted{}, err
	}
	if out.State.TeamMembers, err = readJSONRows[model.TeamMember](ctx, db, `SELECT json FROM members ORDER BY position`); err != nil {
		return Persisted{}, err
	}
	if out.State.Notifications, err = readJSONRows[model.Notification](ctx, db, `SELECT json FROM notifications ORDER BY position`); err != nil {
		return Persisted{}, err
	}
	return out, nil
}

// Save replaces the stored snapshot in one transaction.
func (d Disk) Save(ctx context.Context, p Persisted) error {
	db, err := d.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":            "1",
		"current_project_id": derefOr(p.Selection.CurrentProjectID),
		"current_task_id":    derefOr(p.Selection.CurrentTaskID),
		"search_query":       p.SearchQuery,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, t := range []string{"projects", "tasks", "members", "notifications"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i, pr := range p.State.Projects {
		raw, _ := json.Marshal(pr)
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, position, title, status, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			pr.ID, i, pr.Title, string(pr.Status), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, t := range p.State.Tasks {
		raw, _ := json.Marshal(t)
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id, position, project_id, title, status, due_date, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.ProjectID, t.Title, string(t.Status), due, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, m := range p.State.TeamMembers {
		raw, _ := json.Marshal(m)
		if _, err := tx.ExecContext(ctx, `INSERT INTO members(id, position, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			m.ID, i, m.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, n := range p.State.Notifications {
		raw, _ := json.Marshal(n)
		if _, err := tx.ExecContext(ctx, `INSERT INTO notifications(id, position, read, ts_unixms, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			n.ID, i, boolToInt(n.Read), n.Timestamp.UTC().UnixMilli(), string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			due_date TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			read INTEGER NOT NULL,
			ts_unixms INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SchemaVersion reads the stored snapshot version; 0 means no snapshot yet.
func (d Disk) SchemaVersion(ctx context.Context) (int, error) {
	db, err := d.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'version'`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
