package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"taskdeck/internal/model"
)

// backupRecord is one line of a backup file. Kind selects how Data decodes.
type backupRecord struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

const (
	backupKindProject      = "project"
	backupKindTask         = "task"
	backupKindMember       = "member"
	backupKindNotification = "notification"
	backupKindSelection    = "selection"
	backupKindSearch       = "search"
)

// BackupFile is a JSONL backup with the same Load/Save shape as Disk.
type BackupFile struct {
	Path string
}

func (b BackupFile) Load(ctx context.Context) (Persisted, error) {
	if err := ctx.Err(); err != nil {
		return Persisted{}, err
	}
	return ReadBackupJSONL(b.Path)
}

func (b BackupFile) Save(ctx context.Context, p Persisted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteBackupJSONL(b.Path, p)
}

// WriteBackupJSONL writes p as a JSONL stream, one entity per line, in store
// order so a restore keeps list and board ordering.
func WriteBackupJSONL(path string, p Persisted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	write := func(kind string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return enc.Encode(backupRecord{Kind: kind, Data: b})
	}
	for _, pr := range p.State.Projects {
		if err := write(backupKindProject, pr); err != nil {
			return err
		}
	}
	for _, m := range p.State.TeamMembers {
		if err := write(backupKindMember, m); err != nil {
			return err
		}
	}
	for _, t := range p.State.Tasks {
		if err := write(backupKindTask, t); err != nil {
			return err
		}
	}
	for _, n := range p.State.Notifications {
		if err := write(backupKindNotification, n); err != nil {
			return err
		}
	}
	if err := write(backupKindSelection, p.Selection); err != nil {
		return err
	}
	if err := write(backupKindSearch, p.SearchQuery); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBackupJSONL reads a file written by WriteBackupJSONL. Unknown kinds are
// an error so a newer backup is not silently truncated.
func ReadBackupJSONL(path string) (Persisted, error) {
	f, err := os.Open(path)
	if err != nil {
		return Persisted{}, err
	}
	defer f.Close()

	out := Persisted{State: State{
		Projects:      []model.Project{},
		Tasks:         []model.Task{},
		TeamMembers:   []model.TeamMember{},
		Notifications: []model.Notification{},
	}}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec backupRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return Persisted{}, fmt.Errorf("parse backup %s:%d: %w", path, line, err)
		}
		if err := decodeBackupRecord(rec, &out); err != nil {
			return Persisted{}, fmt.Errorf("parse backup %s:%d: %w", path, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Persisted{}, err
	}
	return out, nil
}

func decodeBackupRecord(rec backupRecord, out *Persisted) error {
	switch rec.Kind {
	case backupKindProject:
		var v model.Project
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return err
		}
		out.State.Projects = append(out.State.Projects, v)
	case backupKindTask:
		var v model.Task
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return err
		}
		out.State.Tasks = append(out.State.Tasks, v)
	case backupKindMember:
		var v model.TeamMember
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return err
		}
		out.State.TeamMembers = append(out.State.TeamMembers, v)
	case backupKindNotification:
		var v model.Notification
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return err
		}
		out.State.Notifications = append(out.State.Notifications, v)
	case backupKindSelection:
		return json.Unmarshal(rec.Data, &out.Selection)
	case backupKindSearch:
		return json.Unmarshal(rec.Data, &out.SearchQuery)
	default:
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	return nil
}
