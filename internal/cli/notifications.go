package cli

import (
	"taskdeck/internal/projectctx"
	"taskdeck/internal/query"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "Notification commands",
	}
	cmd.AddCommand(newNotificationsListCmd(app))
	cmd.AddCommand(newNotificationsReadCmd(app))
	cmd.AddCommand(newNotificationsReadAllCmd(app))
	cmd.AddCommand(newNotificationsDeleteCmd(app))
	cmd.AddCommand(newNotificationsUnreadCmd(app))
	return cmd
}

func newNotificationsListCmd(app *App) *cobra.Command {
	var limit int
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				ns := pc.Notifications()
				if unreadOnly {
					kept := ns[:0]
					for _, n := range ns {
						if !n.Read {
							kept = append(kept, n)
						}
					}
					ns = kept
				}
				return map[string]any{
					"data": query.Recent(ns, limit),
					"meta": map[string]any{"unread": pc.GetUnreadNotificationCount(), "total": len(pc.Notifications())},
				}, nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum notifications to show (0 = all)")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only unread notifications")
	return cmd
}

func newNotificationsReadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				pc.MarkNotificationRead(args[0])
				return map[string]any{"data": map[string]any{"unread": pc.GetUnreadNotificationCount()}}, nil
			})
		},
	}
	return cmd
}

func newNotificationsReadAllCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				pc.MarkAllNotificationsRead()
				return map[string]any{"data": map[string]any{"unread": pc.GetUnreadNotificationCount()}}, nil
			})
		},
	}
	return cmd
}

func newNotificationsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <notification-id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, func(pc *projectctx.Context) (any, error) {
				pc.DeleteNotification(args[0])
				return map[string]any{"data": map[string]any{"total": len(pc.Notifications())}}, nil
			})
		},
	}
	return cmd
}

func newNotificationsUnreadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Show the unread notification count and badge label",
		RunE: func(cmd *cobra.Command, args []string) error {
			return read(cmd, app, func(pc *projectctx.Context) (any, error) {
				n := pc.GetUnreadNotificationCount()
				return map[string]any{"data": map[string]any{"unread": n, "badge": query.BadgeLabel(n)}}, nil
			})
		},
	}
	return cmd
}
