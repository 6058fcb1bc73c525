package cli

import (
	"taskdeck/internal/store"

	"github.com/spf13/cobra"
)

type doctorReport struct {
	DataDir       string `json:"dataDir"`
	StatePath     string `json:"statePath"`
	SchemaVersion int    `json:"schemaVersion"`
	Projects      int    `json:"projects"`
	Tasks         int    `json:"tasks"`
	TeamMembers   int    `json:"teamMembers"`
	Notifications int    `json:"notifications"`
	SignedIn      bool   `json:"signedIn"`

	store.DoctorReport
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the saved state for broken references",
		RunE: func(cmd *cobra.Command, args []string) error {
			disk := store.Disk{Dir: app.Dir}
			// Read the raw snapshot: loading it into a context would already
			// repair dangling selection.
			p, err := disk.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			version, err := disk.SchemaVersion(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			_, signedIn := app.session().CurrentUser()

			report := doctorReport{
				DataDir:       app.Dir,
				StatePath:     disk.Path(),
				SchemaVersion: version,
				Projects:      len(p.State.Projects),
				Tasks:         len(p.State.Tasks),
				TeamMembers:   len(p.State.TeamMembers),
				Notifications: len(p.State.Notifications),
				SignedIn:      signedIn,
				DoctorReport:  store.Doctor(p),
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			hints := []string{"taskdeck dashboard"}
			if !signedIn {
				hints = append(hints, "taskdeck auth login <email>")
			}
			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
