package projectctx

import (
	"context"
	"fmt"
	"strings"
)

type User struct {
	Email string `json:"email" yaml:"email"`
}

// Authenticator is the sign-in collaborator. SignOut may block.
type Authenticator interface {
	CurrentUser() (User, bool)
	SignOut(ctx context.Context) error
}

type RouteKind string

const (
	RouteDashboard  RouteKind = "dashboard"
	RouteProject    RouteKind = "project"
	RouteAuth       RouteKind = "auth"
	RouteSettings   RouteKind = "settings"
	RouteNewProject RouteKind = "new-project"
)

type Route struct {
	Kind      RouteKind
	ProjectID string
}

func (r Route) String() string {
	switch r.Kind {
	case RouteDashboard:
		return "/"
	case RouteProject:
		return "/projects/" + r.ProjectID
	case RouteAuth:
		return "/auth"
	case RouteSettings:
		return "/settings"
	case RouteNewProject:
		return "/projects/new"
	default:
		return string(r.Kind)
	}
}

// ParseRoute accepts the paths produced by Route.String.
func ParseRoute(path string) (Route, error) {
	p := strings.TrimSpace(path)
	switch p {
	case "", "/":
		return Route{Kind: RouteDashboard}, nil
	case "/auth":
		return Route{Kind: RouteAuth}, nil
	case "/settings":
		return Route{Kind: RouteSettings}, nil
	case "/projects/new":
		return Route{Kind: RouteNewProject}, nil
	}
	if id, ok := strings.CutPrefix(p, "/projects/"); ok && id != "" && !strings.Contains(id, "/") {
		return Route{Kind: RouteProject, ProjectID: id}, nil
	}
	return Route{}, fmt.Errorf("unknown route: %q", path)
}

// Navigator changes the active view. onReady, when non-nil, must be called
// once the target view has mounted; it may be called synchronously.
type Navigator interface {
	Navigate(r Route, onReady func()) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(r Route, onReady func()) error

func (f NavigatorFunc) Navigate(r Route, onReady func()) error { return f(r, onReady) }
