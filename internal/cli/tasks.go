package cli

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"
	"taskdeck/internal/store"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksSearchCmd(app))
	cmd.AddCommand(newTasksOpenCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID, assigneeID, tag string
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				f := query.Filter{ProjectID: projectID, AssigneeID: assigneeID, Tag: tag}
				for _, s := range statuses {
					st, err := model.ParseTaskStatus(s)
					if err != nil {
						return nil, err
					}
					f.Statuses = append(f.Statuses, st)
				}
				return map[string]any{"data": query.FilterTasks(pc.Store(), f)}, nil
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only tasks in this project")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only tasks with these statuses (repeatable)")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "Only tasks assigned to this member id")
	cmd.Flags().StringVar(&tag, "tag", "", "Only tasks with this tag")
	return cmd
}

// taskFlags are shared by create and update.
type taskFlags struct {
	projectID   string
	title       string
	description string
	status      string
	priority    string
	assignees   []string
	tags        []string
	start       string
	due         string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.description, "description", "", "Task description (markdown)")
	cmd.Flags().StringVar(&f.status, "status", "", "Status (todo|in-progress|done|blocked)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (low|medium|high|urgent|none)")
	cmd.Flags().StringSliceVar(&f.assignees, "assignee", nil, "Assignee member id (repeatable)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
}

func parseOptionalDate(s string) (*model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				projectID := f.projectID
				if projectID == "" {
					id, ok := pc.Selection().ProjectID()
					if !ok {
						return nil, fmt.Errorf("no project: pass --project or run `taskdeck select project <id>`")
					}
					projectID = id
				}
				in := store.TaskInput{
					ProjectID:   projectID,
					Title:       f.title,
					Description: f.description,
					AssigneeIDs: f.assignees,
					Tags:        f.tags,
				}
				var err error
				if f.status != "" {
					if in.Status, err = model.ParseTaskStatus(f.status); err != nil {
						return nil, err
					}
				}
				if in.Priority, err = model.ParsePriority(f.priority); err != nil {
					return nil, err
				}
				if in.StartDate, err = parseOptionalDate(f.start); err != nil {
					return nil, err
				}
				if in.DueDate, err = parseOptionalDate(f.due); err != nil {
					return nil, err
				}
				t, err := pc.CreateTask(in)
				if err != nil {
					return nil, err
				}
				return map[string]any{"data": t}, nil
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var f taskFlags
	var clearStart, clearDue bool

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				changed := cmd.Flags().Changed
				patch := store.TaskPatch{ClearStartDate: clearStart, ClearDueDate: clearDue}
				if changed("project") {
					patch.ProjectID = &f.projectID
				}
				if changed("title") {
					patch.Title = &f.title
				}
				if changed("description") {
					patch.Description = &f.description
				}
				if changed("status") {
					st, err := model.ParseTaskStatus(f.status)
					if err != nil {
						return nil, err
					}
					patch.Status = &st
				}
				if changed("priority") {
					p, err := model.ParsePriority(f.priority)
					if err != nil {
						return nil, err
					}
					patch.Priority = &p
				}
				if changed("assignee") {
					patch.AssigneeIDs = &f.assignees
				}
				if changed("tag") {
					patch.Tags = &f.tags
				}
				if changed("start") {
					d, err := parseOptionalDate(f.start)
					if err != nil {
						return nil, err
					}
					patch.StartDate = d
				}
				if changed("due") {
					d, err := parseOptionalDate(f.due)
					if err != nil {
						return nil, err
					}
					patch.DueDate = d
				}
				t, err := pc.UpdateTask(args[0], patch)
				if err != nil {
					return nil, err
				}
				return map[string]any{"data": t}, nil
			})
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				return map[string]any{
					"data": map[string]any{"id": args[0], "deleted": pc.DeleteTask(args[0])},
				}, nil
			})
		},
	}
	return cmd
}

type taskDetail struct {
	model.Task
	ProjectTitle  string   `json:"projectTitle"`
	AssigneeNames []string `json:"assigneeNames"`
}

func detailFor(pc *projectctx.Context, t model.Task) taskDetail {
	p, _ := pc.Project(t.ProjectID)
	return taskDetail{Task: t, ProjectTitle: p.Title, AssigneeNames: query.AssigneeNames(pc.Store(), t)}
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				t, ok := pc.Task(args[0])
				if !ok {
					return nil, store.NotFoundError{Kind: "task", ID: args[0]}
				}
				return map[string]any{"data": detailFor(pc, t)}, nil
			})
		},
	}
	return cmd
}

type fuzzyTasks struct {
	tasks  []model.Task
	titles map[string]string
}

func (f fuzzyTasks) Len() int { return len(f.tasks) }

func (f fuzzyTasks) String(i int) string {
	return f.tasks[i].Title + " " + f.titles[f.tasks[i].ProjectID]
}

func newTasksSearchCmd(app *App) *cobra.Command {
	var useFuzzy bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by title or project title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				pc.SetSearchQuery(q)
				results := pc.SearchTasks(q)
				if useFuzzy && strings.TrimSpace(q) != "" {
					src := fuzzyTasks{tasks: pc.Tasks(), titles: map[string]string{}}
					for _, p := range pc.Projects() {
						src.titles[p.ID] = p.Title
					}
					results = []model.Task{}
					for _, m := range fuzzy.FindFrom(q, src) {
						results = append(results, src.tasks[m.Index])
					}
				}
				return map[string]any{
					"data": results,
					"meta": map[string]any{"query": q, "count": len(results), "fuzzy": useFuzzy},
				}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&useFuzzy, "fuzzy", false, "Rank by fuzzy match instead of substring")
	return cmd
}

func newTasksOpenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <task-id>",
		Short: "Open a task: navigate to its project and select it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				t, ok := pc.Task(args[0])
				if !ok {
					return nil, store.NotFoundError{Kind: "task", ID: args[0]}
				}
				if err := pc.OpenTask(t.ProjectID, t.ID); err != nil {
					return nil, err
				}
				route := ""
				if app.lastRoute != nil {
					route = app.lastRoute.String()
				}
				return map[string]any{
					"data": map[string]any{
						"task":      detailFor(pc, t),
						"selection": pc.Selection(),
						"route":     route,
					},
				}, nil
			})
		},
	}
	return cmd
}
