// ABOUTME: Interactive terminal UI command
// ABOUTME: Starts the bubbletea interface with the configured search debounce
package cli

import (
	"context"

	"github.com/harperreed/adda/search"
	"github.com/harperreed/adda/tui"
)

func TUICommand(ctx context.Context, app *App, _ []string) error {
	delay := search.DefaultDelay
	if app.Config != nil {
		delay = app.Config.SearchDebounce()
	}
	return tui.Run(ctx, app.Client, tui.WithSearchDelay(delay))
}
