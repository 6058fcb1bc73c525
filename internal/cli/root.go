package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"taskdeck/internal/auth"
	"taskdeck/internal/config"
	"taskdeck/internal/format"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/store"
	"taskdeck/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log *logrus.Logger

	// lastRoute is where the most recent navigation in this invocation went.
	lastRoute *projectctx.Route
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "taskdeck (local-first) project and task tracker",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskdeck

  # Scriptable commands
  taskdeck projects create --title "Website relaunch"
  taskdeck tasks search doc

  # Direct task lookup (shortcut for: taskdeck tasks show <task-id>)
  taskdeck task-k3f9a2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		app.log = cfg.Logger()
		if strings.TrimSpace(app.Dir) == "" {
			app.Dir = cfg.DataDir
		}
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unsupported format: %q (expected json|yaml)", app.Format))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKDECK_DIR", ""), "Path to the data dir (overrides data_dir from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKDECK_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newMembersCmd(app))
	cmd.AddCommand(newNotificationsCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	pc, disk, err := loadContext(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := tui.Run(pc, app.Dir, app.cfg.DefaultView()); err != nil {
		return writeErr(cmd, err)
	}
	if err := pc.Save(cmd.Context(), disk); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func (app *App) session() auth.Session {
	return auth.Session{Dir: app.Dir, Log: app.log}
}

// navigator is used outside the TUI. There is no screen to mount: entering a
// project route sets the current project, any other route leaves it, and the
// destination is ready immediately.
func (app *App) navigator(pc *projectctx.Context) projectctx.Navigator {
	return projectctx.NavigatorFunc(func(r projectctx.Route, onReady func()) error {
		app.lastRoute = &r
		app.log.WithField("route", r.String()).Debug("navigate")
		if r.Kind == projectctx.RouteProject {
			pc.EnterProject(r.ProjectID)
		} else {
			pc.LeaveProject()
		}
		if onReady != nil {
			onReady()
		}
		return nil
	})
}

// loadContext builds a project context from config and the snapshot in the
// data dir.
func loadContext(ctx context.Context, app *App) (*projectctx.Context, store.Disk, error) {
	transitions, err := app.cfg.Transitions()
	if err != nil {
		return nil, store.Disk{}, err
	}
	st := store.New(store.Options{
		Logger:                app.log,
		NotificationRetention: app.cfg.Notifications.Retention,
		Transitions:           transitions,
	})
	pc := projectctx.New(projectctx.Options{
		Store:  st,
		Auth:   app.session(),
		Logger: app.log,
	})
	pc.SetNavigator(app.navigator(pc))
	disk := store.Disk{Dir: app.Dir}
	if err := pc.Load(ctx, disk); err != nil {
		return nil, disk, err
	}
	return pc, disk, nil
}

// mutate loads the context, applies fn, saves the snapshot and writes fn's
// result.
func mutate(cmd *cobra.Command, app *App, fn func(pc *projectctx.Context) (any, error)) error {
	pc, disk, err := loadContext(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := fn(pc)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := pc.Save(cmd.Context(), disk); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out)
}

// read loads the context and writes fn's result without saving.
func read(cmd *cobra.Command, app *App, fn func(pc *projectctx.Context) (any, error)) error {
	pc, _, err := loadContext(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := fn(pc)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
