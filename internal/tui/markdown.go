package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type descriptionKey struct {
	style string
	width int
}

// descriptionRenderers holds one glamour renderer per style and wrap width.
// Building a renderer parses a full style sheet, and the detail panel
// re-renders on every keypress.
var descriptionRenderers = struct {
	sync.Mutex
	m map[descriptionKey]*glamour.TermRenderer
}{m: map[descriptionKey]*glamour.TermRenderer{}}

// renderMarkdown renders a task description for the detail panel. It falls
// back to the raw text when glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	key := descriptionKey{style: descriptionStyle(), width: max(width, 10)}

	descriptionRenderers.Lock()
	r, ok := descriptionRenderers.m[key]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(key.style),
			glamour.WithWordWrap(key.width),
		)
		if err != nil {
			descriptionRenderers.Unlock()
			return md
		}
		descriptionRenderers.m[key] = r
	}
	descriptionRenderers.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// descriptionStyle picks a glamour standard style. TASKDECK_TUI_MD_STYLE
// overrides it; a colorless profile always renders as notty.
func descriptionStyle() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("TASKDECK_TUI_MD_STYLE"))); v {
	case "light", "dark":
		return v
	case "notty", "ascii":
		return "notty"
	}
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
