package tui

import (
	"fmt"

	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive UI. dir holds the small UI state file that
// remembers the last screen and per-project views; entity state is saved by
// the caller.
func Run(pc *projectctx.Context, dir string, defaultView model.ViewType) error {
	ApplyColorProfile()

	ui, err := store.LoadUIState(dir)
	if err != nil {
		return err
	}
	m := newAppModel(Options{Context: pc, UIState: ui, DefaultView: defaultView})
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		ui = fm.ui
	}
	if err := store.SaveUIState(dir, ui); err != nil {
		return fmt.Errorf("save ui state: %w", err)
	}
	return nil
}
