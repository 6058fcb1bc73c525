package query

import (
	"strconv"

	"taskdeck/internal/model"
)

// UnreadCount is recomputed on every call; the collection is bounded by the
// store's retention limit.
func UnreadCount(ns []model.Notification) int {
	n := 0
	for _, nt := range ns {
		if !nt.Read {
			n++
		}
	}
	return n
}

// BadgeLabel renders the header badge: empty for zero, "9+" past nine.
func BadgeLabel(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > 9:
		return "9+"
	default:
		return strconv.Itoa(unread)
	}
}

// Recent returns at most limit notifications, newest first.
func Recent(ns []model.Notification, limit int) []model.Notification {
	if limit <= 0 || len(ns) <= limit {
		return append([]model.Notification{}, ns...)
	}
	return append([]model.Notification{}, ns[:limit]...)
}
