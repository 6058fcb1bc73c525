// Package selection tracks the current project and current task shared by
// every view. The two cells are independent: changing one never touches the
// other. Both are cleared when the store reports their entity removed.
package selection

import (
	"sort"
	"sync"

	"taskdeck/internal/model"

	"github.com/sirupsen/logrus"
)

type Coordinator struct {
	mu      sync.Mutex
	project *string
	task    *string

	// gen is bumped by every direct task selection and every deferral; a
	// Ticket only applies while its generation is still current.
	gen uint64

	subs    map[int]func(model.Selection)
	nextSub int
	log     *logrus.Logger
}

func New(logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Coordinator{subs: map[int]func(model.Selection){}, log: logger}
}

// Restore seeds both cells without notifying subscribers.
func (c *Coordinator) Restore(sel model.Selection) {
	c.mu.Lock()
	c.project = clonePtr(sel.CurrentProjectID)
	c.task = clonePtr(sel.CurrentTaskID)
	c.mu.Unlock()
}

func (c *Coordinator) Current() model.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Coordinator) SetCurrentProjectID(id *string) {
	c.mu.Lock()
	changed := !samePtr(c.project, id)
	c.project = clonePtr(id)
	c.mu.Unlock()
	if changed {
		c.log.WithFields(logrus.Fields{"project": deref(id)}).Debug("current project changed")
		c.publish()
	}
}

// SetCurrentTaskID sets the task cell without checking the id exists, and
// supersedes any pending deferred selection.
func (c *Coordinator) SetCurrentTaskID(id *string) {
	c.mu.Lock()
	c.gen++
	changed := !samePtr(c.task, id)
	c.task = clonePtr(id)
	c.mu.Unlock()
	if changed {
		c.log.WithFields(logrus.Fields{"task": deref(id)}).Debug("current task changed")
		c.publish()
	}
}

// EntitiesRemoved clears any cell that points at a removed entity.
func (c *Coordinator) EntitiesRemoved(projectIDs, taskIDs []string) {
	c.mu.Lock()
	changed := false
	if c.project != nil && contains(projectIDs, *c.project) {
		c.project = nil
		changed = true
	}
	if c.task != nil && contains(taskIDs, *c.task) {
		c.task = nil
		changed = true
	}
	c.mu.Unlock()
	if changed {
		c.log.WithFields(logrus.Fields{"projects": len(projectIDs), "tasks": len(taskIDs)}).Debug("selection cleared by removal")
		c.publish()
	}
}

// Subscribe registers fn to run synchronously after every change. The
// returned func removes it.
func (c *Coordinator) Subscribe(fn func(model.Selection)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) publish() {
	c.mu.Lock()
	sel := c.currentLocked()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	fns := make([]func(model.Selection), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, c.subs[id])
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(sel)
	}
}

func (c *Coordinator) currentLocked() model.Selection {
	return model.Selection{CurrentProjectID: clonePtr(c.project), CurrentTaskID: clonePtr(c.task)}
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
