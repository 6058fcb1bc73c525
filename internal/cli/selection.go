package cli

import (
	"taskdeck/internal/projectctx"
	"taskdeck/internal/store"

	"github.com/spf13/cobra"
)

func newSelectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Current project/task selection",
	}
	cmd.AddCommand(newSelectProjectCmd(app))
	cmd.AddCommand(newSelectTaskCmd(app))
	cmd.AddCommand(newSelectClearCmd(app))
	cmd.AddCommand(newSelectShowCmd(app))
	return cmd
}

func newSelectProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <project-id>",
		Short: "Set the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				if _, ok := pc.Project(args[0]); !ok {
					return nil, store.NotFoundError{Kind: "project", ID: args[0]}
				}
				pc.SetCurrentProjectID(&args[0])
				return map[string]any{"data": pc.Selection()}, nil
			})
		},
	}
	return cmd
}

func newSelectTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Set the current task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				if _, ok := pc.Task(args[0]); !ok {
					return nil, store.NotFoundError{Kind: "task", ID: args[0]}
				}
				pc.SetCurrentTaskID(&args[0])
				return map[string]any{"data": pc.Selection()}, nil
			})
		},
	}
	return cmd
}

func newSelectClearCmd(app *App) *cobra.Command {
	var projectOnly, taskOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				if !taskOnly {
					pc.SetCurrentProjectID(nil)
				}
				if !projectOnly {
					pc.SetCurrentTaskID(nil)
				}
				return map[string]any{"data": pc.Selection()}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&projectOnly, "project", false, "Only clear the current project")
	cmd.Flags().BoolVar(&taskOnly, "task", false, "Only clear the current task")
	cmd.MarkFlagsMutuallyExclusive("project", "task")
	return cmd
}

func newSelectShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current selection with the selected entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				sel := pc.Selection()
				out := map[string]any{"selection": sel, "searchQuery": pc.SearchQuery()}
				if id, ok := sel.ProjectID(); ok {
					if p, found := pc.Project(id); found {
						out["project"] = p
					}
				}
				if t, ok := pc.CurrentTask(); ok {
					out["task"] = detailFor(pc, t)
				}
				return map[string]any{"data": out}, nil
			})
		},
	}
	return cmd
}
