package projectctx

import (
	"context"
	"fmt"

	"taskdeck/internal/store"

	"github.com/sirupsen/logrus"
)

// Snapshotter is implemented by store.Disk.
type Snapshotter interface {
	Load(ctx context.Context) (store.Persisted, error)
	Save(ctx context.Context, p store.Persisted) error
}

// Load replaces the context state with the saved snapshot. Selection cells
// that point at entities missing from the snapshot are cleared.
func (c *Context) Load(ctx context.Context, disk Snapshotter) error {
	p, err := disk.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	c.store.Restore(p.State)

	sel := p.Selection
	if id, ok := sel.ProjectID(); ok {
		if _, found := c.store.Project(id); !found {
			sel.CurrentProjectID = nil
		}
	}
	if id, ok := sel.TaskID(); ok {
		if _, found := c.store.Task(id); !found {
			sel.CurrentTaskID = nil
		}
	}
	c.sel.Restore(sel)
	c.SetSearchQuery(p.SearchQuery)

	c.log.WithFields(logrus.Fields{
		"projects": len(p.State.Projects),
		"tasks":    len(p.State.Tasks),
	}).Debug("state loaded")
	return nil
}

func (c *Context) Save(ctx context.Context, disk Snapshotter) error {
	p := store.Persisted{
		State:       c.store.Snapshot(),
		Selection:   c.sel.Current(),
		SearchQuery: c.SearchQuery(),
	}
	if err := disk.Save(ctx, p); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
