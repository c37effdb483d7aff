// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the dashboard and lead transfer graph
package cli

import (
	"context"
	"os"

	"github.com/harperreed/adda/handlers"
	"github.com/harperreed/adda/viz"
)

// VizGraphCommand renders the lead transfer network.
func VizGraphCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("viz graph")
	output := fs.String("output", "", "Output file (default: stdout)")
	scope := fs.String("scope", "both", "mine, received or both")
	if err := fs.Parse(args); err != nil {
		return err
	}

	leads, err := handlers.TransferLeads(ctx, app.Client, *scope)
	if err != nil {
		return err
	}
	dot, err := viz.NewTransferGraph(leads).Generate(ctx)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}
	app.println(dot)
	return nil
}

func DashboardCommand(ctx context.Context, app *App, _ []string) error {
	stats, err := viz.GenerateDashboardStats(ctx, app.Client)
	if err != nil {
		return err
	}
	app.printf("%s", viz.RenderDashboard(stats))
	return nil
}
