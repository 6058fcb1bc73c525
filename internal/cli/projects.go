package cli

import (
	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"
	"taskdeck/internal/store"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var status string
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				projects := pc.Projects()
				if activeOnly {
					projects = query.ActiveProjects(pc.Store())
				}
				if status != "" {
					st, err := model.ParseProjectStatus(status)
					if err != nil {
						return nil, err
					}
					filtered := []model.Project{}
					for _, p := range projects {
						if p.Status == st {
							filtered = append(filtered, p)
						}
					}
					projects = filtered
				}
				return map[string]any{"data": projects}, nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active|archived|completed)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active projects")
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var title, description, color, status string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				in := store.ProjectInput{Title: title, Description: description, Color: color}
				if status != "" {
					st, err := model.ParseProjectStatus(status)
					if err != nil {
						return nil, err
					}
					in.Status = st
				}
				p, err := pc.CreateProject(in)
				if err != nil {
					return nil, err
				}
				if use {
					pc.EnterProject(p.ID)
				}
				return map[string]any{"data": p}, nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&color, "color", "", "Display color (default: next palette color)")
	cmd.Flags().StringVar(&status, "status", "", "Status (active|archived|completed)")
	cmd.Flags().BoolVar(&use, "use", false, "Make this the current project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var title, description, color, status string

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				var patch store.ProjectPatch
				if cmd.Flags().Changed("title") {
					patch.Title = &title
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if cmd.Flags().Changed("color") {
					patch.Color = &color
				}
				if cmd.Flags().Changed("status") {
					st, err := model.ParseProjectStatus(status)
					if err != nil {
						return nil, err
					}
					patch.Status = &st
				}
				p, err := pc.UpdateProject(args[0], patch)
				if err != nil {
					return nil, err
				}
				return map[string]any{"data": p}, nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	cmd.Flags().StringVar(&status, "status", "", "Status (active|archived|completed)")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				_, existed := pc.Project(args[0])
				removed := pc.DeleteProject(args[0])
				return map[string]any{
					"data": map[string]any{
						"id":           args[0],
						"deleted":      existed,
						"removedTasks": removed,
					},
				}, nil
			})
		},
	}
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				p, ok := pc.Project(args[0])
				if !ok {
					return nil, store.NotFoundError{Kind: "project", ID: args[0]}
				}
				tasks := query.ProjectTasks(pc.Store(), p.ID)
				done := 0
				for _, t := range tasks {
					if t.Status == model.StatusDone {
						done++
					}
				}
				return map[string]any{
					"data": map[string]any{
						"project": p,
						"tasks":   tasks,
					},
					"meta": map[string]any{
						"tasks":     len(tasks),
						"completed": done,
					},
				}, nil
			})
		},
	}
	return cmd
}
