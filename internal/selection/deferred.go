package selection

import "github.com/sirupsen/logrus"

// Ticket is a pending task selection waiting for the target view to mount.
// Navigators call Apply from their view-ready callback.
type Ticket struct {
	c      *Coordinator
	gen    uint64
	taskID string
}

// Defer registers taskID as the pending selection. Any earlier pending
// ticket is superseded, as is this one by a later Defer or SetCurrentTaskID.
func (c *Coordinator) Defer(taskID string) Ticket {
	c.mu.Lock()
	c.gen++
	t := Ticket{c: c, gen: c.gen, taskID: taskID}
	c.mu.Unlock()
	c.log.WithFields(logrus.Fields{"task": taskID}).Debug("task selection deferred")
	return t
}

func (t Ticket) TaskID() string { return t.taskID }

// Apply sets the current task if the ticket is still the newest selection
// request. It reports whether it did. Applying twice is a no-op.
func (t Ticket) Apply() bool {
	c := t.c
	if c == nil {
		return false
	}
	c.mu.Lock()
	if c.gen != t.gen {
		c.mu.Unlock()
		c.log.WithFields(logrus.Fields{"task": t.taskID}).Debug("deferred selection superseded")
		return false
	}
	c.gen++
	changed := c.task == nil || *c.task != t.taskID
	id := t.taskID
	c.task = &id
	c.mu.Unlock()
	if changed {
		c.publish()
	}
	return true
}

// Cancel drops the ticket if it is still pending.
func (t Ticket) Cancel() {
	c := t.c
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.gen == t.gen {
		c.gen++
	}
	c.mu.Unlock()
}
