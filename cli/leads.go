// ABOUTME: Lead CLI commands
// ABOUTME: List, inspect, create, update, delete and share leads; show lead metrics
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

func leadFilterFlags(app *App, name string, args []string) (api.LeadFilter, bool, error) {
	fs := app.flags(name)
	status := fs.String("status", "", "Filter by status (New, Assigned, In Progress, Closed, Rejected)")
	search := fs.String("search", "", "Search by customer name or phone")
	requirement := fs.String("requirement", "", "Filter by requirement (Buy, Rent, Sell)")
	propertyType := fs.String("type", "", "Filter by property type")
	region := fs.String("region", "", "Filter by primary region ID")
	all := fs.Bool("all", false, "Include leads created by other brokers")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	if err := fs.Parse(args); err != nil {
		return api.LeadFilter{}, false, err
	}

	return api.LeadFilter{
		Paging:       api.Paging{Page: *page, Limit: *limit},
		Status:       *status,
		Search:       *search,
		Requirement:  *requirement,
		PropertyType: *propertyType,
		RegionID:     *region,
	}, *all, nil
}

// LeadsListCommand lists the broker's own leads.
func LeadsListCommand(ctx context.Context, app *App, args []string) error {
	filter, all, err := leadFilterFlags(app, "leads list", args)
	if err != nil {
		return err
	}
	if !all {
		filter.CreatedBy, err = app.Client.Session().GetBrokerID(ctx)
		if err != nil {
			return err
		}
	}

	page, err := app.Client.Leads.List(ctx, filter)
	if err != nil {
		return err
	}
	printLeads(app, page)
	return nil
}

// LeadsTransferredCommand lists leads shared with the broker.
func LeadsTransferredCommand(ctx context.Context, app *App, args []string) error {
	filter, _, err := leadFilterFlags(app, "leads transferred", args)
	if err != nil {
		return err
	}
	page, err := app.Client.Leads.Transferred(ctx, filter)
	if err != nil {
		return err
	}
	printLeads(app, page)
	return nil
}

func printLeads(app *App, page *models.Page[models.Lead]) {
	if len(page.Items) == 0 {
		app.println("No leads found")
		return
	}

	w := app.table()
	_, _ = fmt.Fprintln(w, "CUSTOMER\tPHONE\tNEED\tTYPE\tBUDGET\tREGION\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "--------\t-----\t----\t----\t------\t------\t------\t--")
	for _, l := range page.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.CustomerName, l.CustomerPhone, l.Requirement, l.PropertyType,
			l.BudgetLabel(), dash(l.RegionLabel()), l.Status, l.ID)
	}
	_ = w.Flush()

	p := page.Pagination
	app.printf("\nPage %d of %d (%d total)\n", p.Page, max(p.TotalPages, 1), p.Total)
}

func LeadsShowCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("lead ID required")
	}
	l, err := app.Client.Leads.Get(ctx, args[0])
	if err != nil {
		return err
	}

	app.printf("%s (ID: %s)\n", l.CustomerName, l.ID)
	app.printf("  Phone: %s\n", l.CustomerPhone)
	if l.CustomerEmail != "" {
		app.printf("  Email: %s\n", l.CustomerEmail)
	}
	app.printf("  Requirement: %s %s\n", l.Requirement, l.PropertyType)
	app.printf("  Budget: %s\n", l.BudgetLabel())
	app.printf("  Region: %s\n", dash(l.RegionLabel()))
	app.printf("  Status: %s\n", l.Status)
	if l.CreatedBy != nil {
		app.printf("  Created by: %s on %s\n", l.CreatedBy.Label(), shortDate(l.CreatedAt))
	}
	if l.Notes != "" {
		app.printf("  Notes: %s\n", l.Notes)
	}
	if len(l.Transfers) > 0 {
		app.println("  Transfers:")
		for _, t := range l.Transfers {
			to := "all brokers"
			switch {
			case t.ToBroker != nil:
				to = t.ToBroker.Label()
			case t.Region != nil:
				to = "region " + t.Region.Label()
			}
			line := fmt.Sprintf("    %s  %s → %s", shortDate(t.CreatedAt), t.FromBroker.Label(), to)
			if t.Notes != "" {
				line += "  \"" + t.Notes + "\""
			}
			app.println(line)
		}
	}
	return nil
}

func leadInputFlags(app *App, name string, args []string) (api.LeadInput, []string, error) {
	fs := app.flags(name)
	customer := fs.String("name", "", "Customer name (required)")
	phone := fs.String("phone", "", "Customer phone (required)")
	email := fs.String("email", "", "Customer email")
	requirement := fs.String("requirement", models.RequirementBuy, "Buy, Rent or Sell")
	propertyType := fs.String("type", models.PropertyTypeResidential, "Residential, Commercial, Plot or Other")
	budget := fs.Float64("budget", 0, "Budget in rupees")
	region := fs.String("region", "", "Primary region ID (required)")
	secondary := fs.String("secondary-region", "", "Secondary region ID")
	status := fs.String("status", "", "Lead status")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return api.LeadInput{}, nil, err
	}

	return api.LeadInput{
		CustomerName:    *customer,
		CustomerPhone:   *phone,
		CustomerEmail:   *email,
		Requirement:     *requirement,
		PropertyType:    *propertyType,
		Budget:          *budget,
		PrimaryRegion:   *region,
		SecondaryRegion: *secondary,
		Status:          *status,
		Notes:           *notes,
	}, fs.Args(), nil
}

func LeadsAddCommand(ctx context.Context, app *App, args []string) error {
	in, _, err := leadInputFlags(app, "leads add", args)
	if err != nil {
		return err
	}
	l, err := app.Client.Leads.Create(ctx, in)
	if err != nil {
		return err
	}
	app.printf("✓ Lead created: %s (ID: %s)\n", l.CustomerName, l.ID)
	return nil
}

// LeadsUpdateCommand replaces a lead. Flags must come before the lead ID.
func LeadsUpdateCommand(ctx context.Context, app *App, args []string) error {
	in, rest, err := leadInputFlags(app, "leads update", args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return fmt.Errorf("lead ID required")
	}
	l, err := app.Client.Leads.Update(ctx, rest[0], in)
	if err != nil {
		return err
	}
	app.printf("✓ Lead updated: %s (%s)\n", l.CustomerName, l.Status)
	return nil
}

func LeadsDeleteCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("lead ID required")
	}
	if err := app.Client.Leads.Delete(ctx, args[0]); err != nil {
		return err
	}
	app.printf("✓ Lead deleted: %s\n", args[0])
	return nil
}

// LeadsShareCommand transfers a lead. Flags must come before the lead ID.
func LeadsShareCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("leads share")
	to := fs.String("to", "", "Comma-separated broker IDs")
	region := fs.String("region", "", "Share with every broker in this region")
	everyone := fs.Bool("all", false, "Share with all brokers")
	notes := fs.String("notes", "", "Notes for the receiving brokers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("lead ID required")
	}

	req := api.ShareRequest{ShareType: models.ShareIndividual, ToBrokers: splitList(*to), Notes: *notes}
	switch {
	case *everyone:
		req.ShareType, req.ToBrokers = models.ShareAll, nil
	case *region != "":
		req.ShareType, req.RegionID, req.ToBrokers = models.ShareRegion, *region, nil
	}

	l, err := app.Client.Leads.Share(ctx, fs.Arg(0), req)
	if err != nil {
		return err
	}
	app.printf("✓ Lead shared: %s → %s\n", l.CustomerName, strings.Join(l.SharedWith(), ", "))
	return nil
}

func LeadsMetricsCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("leads metrics")
	broker := fs.String("broker", "", "Broker ID (default: you)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := app.Client.Leads.Metrics(ctx, *broker)
	if err != nil {
		return err
	}
	w := app.table()
	_, _ = fmt.Fprintf(w, "Total leads\t%d\n", m.TotalLeads)
	_, _ = fmt.Fprintf(w, "New\t%d\n", m.NewLeads)
	_, _ = fmt.Fprintf(w, "Closed\t%d\n", m.ClosedLeads)
	_, _ = fmt.Fprintf(w, "Shared by me\t%d\n", m.TransfersByMe)
	_, _ = fmt.Fprintf(w, "Shared with me\t%d\n", m.TransfersToMe)
	return w.Flush()
}
