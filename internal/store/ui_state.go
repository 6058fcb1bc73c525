package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskdeck/internal/model"
)

const uiStateFileName = "tui_state.json"

// UIState stores small TUI preferences for restoring the last screen on
// relaunch. It is best effort: a missing or corrupt file loads as defaults.
type UIState struct {
	Version int `json:"version"`

	// Screen is one of: dashboard|project
	Screen    string `json:"screen,omitempty"`
	ProjectID string `json:"projectId,omitempty"`

	// Per-project view tab.
	ProjectView map[string]model.ViewType `json:"projectView,omitempty"`

	// RecentTaskIDs lists tasks opened from search, newest first.
	RecentTaskIDs []string `json:"recentTaskIds,omitempty"`
}

const maxRecentTasks = 10

func UIStatePath(dir string) string {
	return filepath.Join(dir, uiStateFileName)
}

func LoadUIState(dir string) (*UIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(UIStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	for id, v := range st.ProjectView {
		if !v.Valid() {
			delete(st.ProjectView, id)
		}
	}
	return &st, nil
}

func SaveUIState(dir string, st *UIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(UIStatePath(dir), b, 0o644)
}

// ViewFor returns the remembered view for a project, or def.
func (st *UIState) ViewFor(projectID string, def model.ViewType) model.ViewType {
	if st == nil {
		return def
	}
	if v, ok := st.ProjectView[projectID]; ok {
		return v
	}
	return def
}

func (st *UIState) SetView(projectID string, v model.ViewType) {
	if st.ProjectView == nil {
		st.ProjectView = map[string]model.ViewType{}
	}
	st.ProjectView[projectID] = v
}

// TouchTask moves id to the front of the recent list.
func (st *UIState) TouchTask(id string) {
	out := []string{id}
	for _, x := range st.RecentTaskIDs {
		if x != id {
			out = append(out, x)
		}
	}
	if len(out) > maxRecentTasks {
		out = out[:maxRecentTasks]
	}
	st.RecentTaskIDs = out
}

// Prune drops entries for projects and tasks that no longer exist.
func (st *UIState) Prune(projectExists, taskExists func(string) bool) {
	for id := range st.ProjectView {
		if !projectExists(id) {
			delete(st.ProjectView, id)
		}
	}
	kept := st.RecentTaskIDs[:0]
	for _, id := range st.RecentTaskIDs {
		if taskExists(id) {
			kept = append(kept, id)
		}
	}
	st.RecentTaskIDs = kept
	if st.ProjectID != "" && !projectExists(st.ProjectID) {
		st.ProjectID = ""
		st.Screen = "dashboard"
	}
}
