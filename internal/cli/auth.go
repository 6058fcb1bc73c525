package cli

import (
	"taskdeck/internal/auth"
	"taskdeck/internal/projectctx"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Local sign-in",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthWhoamiCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in as email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.session().SignIn(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				return map[string]any{"data": map[string]any{"email": u.Email, "initials": pc.UserInitials()}}, nil
			})
		},
	}
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and return to the sign-in route",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				if err := pc.SignOut(cmd.Context()); err != nil {
					return nil, err
				}
				route := projectctx.Route{Kind: projectctx.RouteAuth}
				if app.lastRoute != nil {
					route = *app.lastRoute
				}
				return map[string]any{"data": map[string]any{"signedOut": true, "route": route.String()}}, nil
			})
		},
	}
	return cmd
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				u, ok := pc.CurrentUser()
				if !ok {
					return nil, auth.ErrNotSignedIn
				}
				return map[string]any{"data": map[string]any{"email": u.Email, "initials": pc.UserInitials()}}, nil
			})
		},
	}
	return cmd
}
