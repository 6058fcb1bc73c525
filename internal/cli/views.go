package cli

import (
	"fmt"
	"io"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"
	"taskdeck/internal/store"
	"taskdeck/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type viewOpts struct {
	projectID string
	month     string
	sort      string
	width     int
	data      bool
}

func newViewCmd(app *App) *cobra.Command {
	var o viewOpts

	cmd := &cobra.Command{
		Use:       "view <board|list|calendar|timeline>",
		Short:     "Render a project projection as text",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"board", "list", "calendar", "timeline"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, _, err := loadContext(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			projectID := o.projectID
			if projectID == "" {
				id, ok := pc.Selection().ProjectID()
				if !ok {
					return writeErr(cmd, fmt.Errorf("no project: pass --project or run `taskdeck select project <id>`"))
				}
				projectID = id
			}
			if _, ok := pc.Project(projectID); !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "project", ID: projectID})
			}

			data, text, err := renderView(cmd.OutOrStdout(), pc, args[0], projectID, o)
			if err != nil {
				return writeErr(cmd, err)
			}
			if o.data {
				return writeOut(cmd, app, map[string]any{"data": data})
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text+"\n")
			return err
		},
	}

	cmd.Flags().StringVar(&o.projectID, "project", "", "Project id (default: current project)")
	cmd.Flags().StringVar(&o.month, "month", "", "Calendar month (YYYY-MM, default: this month)")
	cmd.Flags().StringVar(&o.sort, "sort", "", "List sort (created|due|priority|title)")
	cmd.Flags().IntVar(&o.width, "width", 100, "Render width in columns")
	cmd.Flags().BoolVar(&o.data, "data", false, "Write the projection as structured output instead of text")
	return cmd
}

// renderView returns the projection and its text rendering. Colors follow the
// output: a pipe or buffer gets plain text.
func renderView(out io.Writer, pc *projectctx.Context, kind, projectID string, o viewOpts) (any, string, error) {
	lipgloss.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
	switch kind {
	case "board", string(model.ViewKanban):
		cols := pc.Board(projectID)
		return cols, tui.RenderBoard(cols, o.width, ""), nil
	case "list":
		key, err := query.ParseSortKey(o.sort)
		if err != nil {
			return nil, "", err
		}
		tasks := pc.List(projectID, key)
		return tasks, tui.RenderList(tasks, o.width, ""), nil
	case "calendar":
		month := time.Now()
		if o.month != "" {
			m, err := time.Parse("2006-01", o.month)
			if err != nil {
				return nil, "", fmt.Errorf("invalid month %q (expected YYYY-MM)", o.month)
			}
			month = m
		}
		cal := pc.Calendar(projectID, month)
		return cal, tui.RenderCalendar(cal, o.width, ""), nil
	case "timeline":
		spans := pc.Timeline(projectID)
		return spans, tui.RenderTimeline(spans, o.width, ""), nil
	default:
		return nil, "", fmt.Errorf("unknown view %q (expected board|list|calendar|timeline)", kind)
	}
}
