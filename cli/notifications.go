// ABOUTME: Notification CLI commands
// ABOUTME: Lists notifications and marks them read
package cli

import (
	"context"
	"fmt"

	"github.com/harperreed/adda/api"
)

func NotificationsListCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("notifications list")
	unread := fs.Bool("unread", false, "Only unread notifications")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := app.Client.Notifications.List(ctx, api.NotificationFilter{
		Paging:     api.Paging{Page: *page, Limit: *limit},
		UnreadOnly: *unread,
	})
	if err != nil {
		return err
	}
	if len(result.Items) == 0 {
		app.println("No notifications")
		return nil
	}

	w := app.table()
	_, _ = fmt.Fprintln(w, " \tDATE\tTITLE\tMESSAGE\tID")
	for _, n := range result.Items {
		mark := " "
		if !n.IsRead {
			mark = "●"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, shortDate(n.CreatedAt), n.Title, n.Message, n.ID)
	}
	return w.Flush()
}

func NotificationsReadCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("notification ID required")
	}
	for _, id := range args {
		if err := app.Client.Notifications.MarkRead(ctx, id); err != nil {
			return err
		}
	}
	app.printf("✓ Marked %d read\n", len(args))
	return nil
}

func NotificationsReadAllCommand(ctx context.Context, app *App, _ []string) error {
	if err := app.Client.Notifications.MarkAllRead(ctx); err != nil {
		return err
	}
	app.println("✓ All notifications marked read")
	return nil
}
