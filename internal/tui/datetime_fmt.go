package tui

import (
	"fmt"

	"taskdeck/internal/model"
)

func formatDueLabel(d *model.Date) string {
	if d == nil {
		return ""
	}
	return "due " + d.Short()
}

func formatSpanLabel(start, end model.Date) string {
	if start == end {
		return start.Short()
	}
	return fmt.Sprintf("%s – %s", start.Short(), end.Short())
}
