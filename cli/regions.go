// ABOUTME: Region CLI commands
// ABOUTME: Lists regions, finds the nearest ones to a point and shows one region
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

func RegionsListCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("regions list")
	state := fs.String("state", "", "Filter by state")
	city := fs.String("city", "", "Filter by city")
	search := fs.String("search", "", "Search by name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	regions, err := app.Client.Regions.List(ctx, api.RegionFilter{State: *state, City: *city, Search: *search})
	if err != nil {
		return err
	}
	printRegions(app, regions, false)
	return nil
}

// RegionsNearestCommand takes latitude and longitude as positional arguments.
func RegionsNearestCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("regions nearest")
	limit := fs.Int("limit", 5, "Maximum regions to return")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: regions nearest [--limit N] <latitude> <longitude>")
	}

	lat, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", fs.Arg(0))
	}
	lng, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", fs.Arg(1))
	}

	regions, err := app.Client.Regions.Nearest(ctx, lat, lng, *limit)
	if err != nil {
		return err
	}
	printRegions(app, regions, true)
	return nil
}

func printRegions(app *App, regions []models.Region, distance bool) {
	if len(regions) == 0 {
		app.println("No regions found")
		return
	}

	w := app.table()
	if distance {
		_, _ = fmt.Fprintln(w, "NAME\tCITY\tSTATE\tBROKERS\tDISTANCE\tID")
		_, _ = fmt.Fprintln(w, "----\t----\t-----\t-------\t--------\t--")
	} else {
		_, _ = fmt.Fprintln(w, "NAME\tCITY\tSTATE\tBROKERS\tID")
		_, _ = fmt.Fprintln(w, "----\t----\t-----\t-------\t--")
	}
	for _, r := range regions {
		if distance {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f km\t%s\n", r.Name, r.City, r.State, r.BrokerCount, r.DistanceKm, r.ID)
		} else {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Name, r.City, r.State, r.BrokerCount, r.ID)
		}
	}
	_ = w.Flush()
}

func RegionsShowCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("region ID required")
	}
	r, err := app.Client.Regions.Get(ctx, args[0])
	if err != nil {
		return err
	}

	app.printf("%s (ID: %s)\n", r.Name, r.ID)
	app.printf("  Location: %s, %s\n", r.City, r.State)
	if r.CenterLocation != nil {
		if lat, lng, ok := r.CenterLocation.LatLng(); ok {
			app.printf("  Center: %.4f, %.4f\n", lat, lng)
		}
	}
	app.printf("  Brokers: %d\n", r.BrokerCount)
	if r.Description != "" {
		app.printf("  %s\n", r.Description)
	}
	return nil
}
