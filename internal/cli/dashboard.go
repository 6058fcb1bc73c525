package cli

import (
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"

	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show task statistics and team workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				return map[string]any{
					"data": map[string]any{
						"stats":    pc.Dashboard(),
						"projects": query.ActiveProjects(pc.Store()),
						"workload": pc.Workload(),
					},
				}, nil
			})
		},
	}
	return cmd
}
