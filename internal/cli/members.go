package cli

import (
	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"

	"github.com/spf13/cobra"
)

func newMembersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Team member commands",
	}
	cmd.AddCommand(newMembersListCmd(app))
	cmd.AddCommand(newMembersAddCmd(app))
	cmd.AddCommand(newMembersRemoveCmd(app))
	return cmd
}

func newMembersListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List team members with their active task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				return map[string]any{"data": query.Workload(pc.Store())}, nil
			})
		},
	}
	return cmd
}

func newMembersAddCmd(app *App) *cobra.Command {
	var name, role, initials string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				m, err := pc.Store().AddTeamMember(model.TeamMember{Name: name, Role: role, Initials: initials})
				if err != nil {
					return nil, err
				}
				return map[string]any{"data": m}, nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "", "Role id (e.g. product-manager)")
	cmd.Flags().StringVar(&initials, "initials", "", "Initials (default: derived from name)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMembersRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a team member and unassign them from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				return map[string]any{
					"data": map[string]any{"id": args[0], "removed": pc.Store().RemoveTeamMember(args[0])},
				}, nil
			})
		},
	}
	return cmd
}
