// ABOUTME: Broker directory CLI commands
// ABOUTME: Lists brokers by region or city and shows a broker with their ratings
package cli

import (
	"context"
	"fmt"

	"github.com/harperreed/adda/api"
)

func BrokersListCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("brokers list")
	region := fs.String("region", "", "Filter by region ID")
	city := fs.String("city", "", "Filter by city")
	search := fs.String("search", "", "Search by name or firm")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := app.Client.Brokers.List(ctx, api.BrokerFilter{
		Paging:   api.Paging{Page: *page, Limit: *limit},
		RegionID: *region,
		City:     *city,
		Search:   *search,
	})
	if err != nil {
		return err
	}
	if len(result.Items) == 0 {
		app.println("No brokers found")
		return nil
	}

	w := app.table()
	_, _ = fmt.Fprintln(w, "NAME\tFIRM\tCITY\tRATING\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t----\t------\t--")
	for _, b := range result.Items {
		rating := "-"
		if b.Rating > 0 {
			rating = fmt.Sprintf("%.1f", b.Rating)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.Name, dash(b.FirmName), dash(b.City), rating, b.ID)
	}
	return w.Flush()
}

func BrokersShowCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("broker ID required")
	}
	b, err := app.Client.Brokers.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printBroker(app, b)

	ratings, err := app.Client.Ratings.ForBroker(ctx, b.ID)
	if err != nil {
		app.Logger.Warn("could not load ratings", "broker", b.ID, "error", err)
		return nil
	}
	if ratings.Count > 0 {
		app.printf("  Reviews: %.1f ★ from %d\n", ratings.Average, ratings.Count)
	}
	return nil
}
