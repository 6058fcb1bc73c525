package cli

import (
	"fmt"

	"taskdeck/internal/projectctx"
	"taskdeck/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the full state as JSONL",
	}
	cmd.AddCommand(newBackupExportCmd(app))
	cmd.AddCommand(newBackupImportCmd(app))
	return cmd
}

func newBackupExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write projects, tasks, members, notifications and selection to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				if err := pc.Save(cmd.Context(), store.BackupFile{Path: args[0]}); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{"path": args[0], "projects": len(pc.Projects()), "tasks": len(pc.Tasks())},
				}, nil
			})
		},
	}
	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the current state with a JSONL backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				if len(pc.Projects()) > 0 && !force {
					return nil, fmt.Errorf("data dir is not empty (use --force to replace it)")
				}
				p, err := store.ReadBackupJSONL(args[0])
				if err != nil {
					return nil, err
				}
				if r := store.Doctor(p); r.HasErrors() {
					return nil, fmt.Errorf("backup has %d issue(s); first: %s", len(r.Issues), r.Issues[0].Message)
				}
				if err := pc.Load(cmd.Context(), store.BackupFile{Path: args[0]}); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{"path": args[0], "projects": len(pc.Projects()), "tasks": len(pc.Tasks())},
				}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing data")
	return cmd
}
