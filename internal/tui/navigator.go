package tui

import (
	"fmt"
	"sync"

	"taskdeck/internal/projectctx"

	tea "github.com/charmbracelet/bubbletea"
)

// navRequest is a route change the model has not mounted yet.
type navRequest struct {
	route   projectctx.Route
	onReady func()
}

// router is the TUI's projectctx.Navigator. Navigate only queues the request;
// the model mounts the target screen on its next Update and then reports the
// view as ready with a viewReadyMsg.
type router struct {
	mu      sync.Mutex
	pending []navRequest
}

func (r *router) Navigate(route projectctx.Route, onReady func()) error {
	switch route.Kind {
	case projectctx.RouteDashboard, projectctx.RouteProject, projectctx.RouteAuth, projectctx.RouteNewProject:
	default:
		return fmt.Errorf("tui: unsupported route %s", route)
	}
	r.mu.Lock()
	r.pending = append(r.pending, navRequest{route: route, onReady: onReady})
	r.mu.Unlock()
	return nil
}

func (r *router) take() []navRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

type viewReadyMsg struct {
	onReady func()
}

func viewReadyCmd(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg { return viewReadyMsg{onReady: fn} }
}
