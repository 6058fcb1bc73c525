package store

import (
	"taskdeck/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifications are created only from mutation paths in this package; views
// can read them and change read-state, never create them.

func (s *Store) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notification{}, s.notifications...)
}

// MarkNotificationRead is a no-op for unknown ids: a notification that is gone
// by the time it is clicked counts as resolved.
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

func (s *Store) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

func (s *Store) DeleteNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

func (s *Store) UnreadNotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, nt := range s.notifications {
		if !nt.Read {
			n++
		}
	}
	return n
}

func (s *Store) notifyAssignedLocked(t model.Task, memberID string) {
	name := memberID
	if idx := s.memberIndex(memberID); idx >= 0 {
		name = s.members[idx].Name
	}
	s.notifyLocked("Task assigned", t.Title+" was assigned to "+name, t.ID)
}

// notifyLocked prepends a notification and drops the oldest ones past the
// retention limit, read or not.
func (s *Store) notifyLocked(title, message, taskID string) {
	n := model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Timestamp: s.now(),
	}
	if taskID != "" {
		id := taskID
		n.RelatedTaskID = &id
	}
	s.notifications = append([]model.Notification{n}, s.notifications...)
	if len(s.notifications) > s.retention {
		dropped := len(s.notifications) - s.retention
		s.notifications = s.notifications[:s.retention]
		s.log.WithFields(logrus.Fields{"dropped": dropped}).Debug("notifications truncated")
	}
}
