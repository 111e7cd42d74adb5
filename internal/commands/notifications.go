package commands

import (
	"github.com/spf13/cobra"
)

var (
	notifPage       int
	notifLimit      int
	notifUnreadOnly bool
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Read and follow the notification feed",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE:  runNotificationsList,
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread count",
	RunE:  runNotificationsUnread,
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE:  runNotificationsReadAll,
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live push notifications",
	Long: `Opens the persistent push stream and prints toasts as events arrive.
The unread badge count is refetched from the server after every recognized
event. Interrupt to stop watching.`,
	RunE: runNotificationsWatch,
}

func init() {
	notificationsListCmd.Flags().IntVar(&notifPage, "page", 1, "Page (one-based)")
	notificationsListCmd.Flags().IntVar(&notifLimit, "limit", 10, "Page size")
	notificationsListCmd.Flags().BoolVar(&notifUnreadOnly, "unread-only", false, "Only unread notifications")

	notificationsCmd.AddCommand(notificationsListCmd, notificationsUnreadCmd,
		notificationsReadAllCmd, notificationsWatchCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}

	page, err := app.Notifications.List(cmd.Context(), notifPage, notifLimit, notifUnreadOnly)
	if err != nil {
		app.Toasts.Error("Failed to load notifications", "")
		return err
	}

	if len(page.Notifications) == 0 {
		app.Toasts.Info("No notifications")
		return nil
	}
	for _, n := range page.Notifications {
		marker := " "
		if !n.Read {
			marker = "●"
		}
		app.Toasts.Info("%s %s: %s (%s)", marker, n.Title, n.Message, n.CreatedAt)
	}
	app.Toasts.Info("\n%d unread of %d total", page.UnreadCount, page.Pagination.Total)
	return nil
}

func runNotificationsUnread(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}

	count, err := app.Notifications.UnreadCount(cmd.Context())
	if err != nil {
		app.Toasts.Error("Failed to fetch unread count", "")
		return err
	}
	app.Toasts.Info("%d unread notifications", count)
	return nil
}

func runNotificationsReadAll(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}

	if err := app.Notifications.MarkAllRead(cmd.Context()); err != nil {
		app.Toasts.Error("Failed to mark notifications as read", "")
		return err
	}
	app.Toasts.Success("All notifications marked as read", "")
	return nil
}

func runNotificationsWatch(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	ctx := cmd.Context()

	// The bell badge consumer: refetch the count whenever the channel says
	// it may have changed.
	cancel := app.Channel.OnUnreadCountChange(func() {
		count, err := app.Notifications.UnreadCount(ctx)
		if err != nil {
			return
		}
		app.Toasts.Info("Unread notifications: %d", count)
	})
	defer cancel()

	if err := app.Channel.Connect(); err != nil {
		return err
	}
	defer app.Channel.Disconnect()

	app.Toasts.Info("Watching for notifications (interrupt to stop)...")
	<-ctx.Done()
	return nil
}
