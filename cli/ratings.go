// ABOUTME: Broker rating CLI commands
// ABOUTME: Rates another broker and lists a broker's reviews
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/adda/api"
)

// RatingsAddCommand rates a broker. Flags must come before the broker ID.
func RatingsAddCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("ratings add")
	stars := fs.Int("stars", 0, "Rating from 1 to 5 (required)")
	review := fs.String("review", "", "Written review")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("broker ID required")
	}

	r, err := app.Client.Ratings.Submit(ctx, api.RatingInput{BrokerID: fs.Arg(0), Rating: *stars, Review: *review})
	if err != nil {
		return err
	}
	app.printf("✓ Rated %s %s\n", fs.Arg(0), strings.Repeat("★", r.Rating))
	return nil
}

func RatingsListCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("broker ID required")
	}
	summary, err := app.Client.Ratings.ForBroker(ctx, args[0])
	if err != nil {
		return err
	}
	if summary.Count == 0 {
		app.println("No ratings yet")
		return nil
	}

	app.printf("Average %.1f ★ from %d ratings\n\n", summary.Average, summary.Count)
	w := app.table()
	_, _ = fmt.Fprintln(w, "DATE\tBY\tRATING\tREVIEW")
	for _, r := range summary.Ratings {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortDate(r.CreatedAt), dash(r.Rater.Label()), strings.Repeat("★", r.Rating), r.Review)
	}
	return w.Flush()
}
