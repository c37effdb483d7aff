// ABOUTME: Address lookup CLI commands
// ABOUTME: Autocompletes Indian addresses and resolves a place to coordinates
package cli

import (
	"context"
	"fmt"
	"strings"
)

func PlacesSearchCommand(ctx context.Context, app *App, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search text required")
	}
	pc, err := app.placesClient(ctx)
	if err != nil {
		return err
	}

	predictions, err := pc.Autocomplete(ctx, query)
	if err != nil {
		return err
	}
	if len(predictions) == 0 {
		app.println("No matching addresses")
		return nil
	}

	w := app.table()
	_, _ = fmt.Fprintln(w, "ADDRESS\tPLACE ID")
	for _, p := range predictions {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", p.Description, p.PlaceID)
	}
	return w.Flush()
}

func PlacesDetailsCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("place ID required")
	}
	pc, err := app.placesClient(ctx)
	if err != nil {
		return err
	}

	d, err := pc.Details(ctx, args[0])
	if err != nil {
		return err
	}
	app.printf("%s\n", dash(d.Name))
	app.printf("  Address: %s\n", d.FormattedAddress)
	app.printf("  Coordinates: %.6f, %.6f\n", d.Latitude, d.Longitude)
	if d.City != "" {
		app.printf("  City: %s\n", d.City)
	}
	if d.State != "" {
		app.printf("  State: %s\n", d.State)
	}
	if d.PostalCode != "" {
		app.printf("  PIN: %s\n", d.PostalCode)
	}
	return nil
}
