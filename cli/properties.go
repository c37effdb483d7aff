// ABOUTME: Property listing CLI commands
// ABOUTME: Lists, shows, creates with image uploads and deletes listings
package cli

import (
	"context"
	"fmt"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

func PropertiesListCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("properties list")
	mine := fs.Bool("mine", false, "Only my listings")
	broker := fs.String("broker", "", "Listings by this broker ID")
	status := fs.String("status", "", "Filter by status (Active, Sold, Rented, Pending)")
	propertyType := fs.String("type", "", "Filter by property type")
	region := fs.String("region", "", "Filter by region ID")
	city := fs.String("city", "", "Filter by city")
	search := fs.String("search", "", "Search title and address")
	minPrice := fs.Float64("min-price", 0, "Minimum price in rupees")
	maxPrice := fs.Float64("max-price", 0, "Maximum price in rupees")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := api.PropertyFilter{
		Paging:       api.Paging{Page: *page, Limit: *limit},
		BrokerID:     *broker,
		Status:       *status,
		PropertyType: *propertyType,
		RegionID:     *region,
		City:         *city,
		Search:       *search,
		MinPrice:     *minPrice,
		MaxPrice:     *maxPrice,
	}
	if *mine {
		id, err := app.Client.Session().GetBrokerID(ctx)
		if err != nil {
			return err
		}
		filter.BrokerID = id
	}

	result, err := app.Client.Properties.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(result.Items) == 0 {
		app.println("No properties found")
		return nil
	}

	w := app.table()
	_, _ = fmt.Fprintln(w, "TITLE\tPRICE\tTYPE\tSIZE\tLOCATION\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "-----\t-----\t----\t----\t--------\t------\t--")
	for i := range result.Items {
		v := result.Items[i].Display()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Title, v.Price, v.Type, dash(v.Size), dash(v.Location), v.Status, v.ID)
	}
	_ = w.Flush()

	p := result.Pagination
	app.printf("\nPage %d of %d (%d total)\n", p.Page, max(p.TotalPages, 1), p.Total)
	return nil
}

func PropertiesShowCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("property ID required")
	}
	p, err := app.Client.Properties.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printProperty(app, p)
	return nil
}

func printProperty(app *App, p *models.Property) {
	v := p.Display()
	app.printf("%s (ID: %s)\n", v.Title, v.ID)
	app.printf("  Price: %s\n", v.Price)
	app.printf("  Type: %s\n", v.Type)
	if v.Size != "" {
		app.printf("  Size: %s\n", v.Size)
	}
	if p.Bedrooms > 0 || p.Bathrooms > 0 {
		app.printf("  Rooms: %d bed, %d bath\n", p.Bedrooms, p.Bathrooms)
	}
	if p.Address != "" {
		app.printf("  Address: %s\n", p.Address)
	}
	app.printf("  Location: %s\n", dash(v.Location))
	app.printf("  Status: %s\n", v.Status)
	if v.Broker != "" {
		app.printf("  Listed by: %s\n", v.Broker)
	}
	if len(p.Amenities) > 0 {
		app.printf("  Amenities: %v\n", p.Amenities)
	}
	if len(p.Images) > 0 {
		app.printf("  Images: %d\n", len(p.Images))
	}
	if p.Description != "" {
		app.printf("\n%s\n", p.Description)
	}
}

// PropertiesAddCommand creates a listing; --image may be repeated.
func PropertiesAddCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("properties add")
	title := fs.String("title", "", "Listing title (required)")
	description := fs.String("description", "", "Description")
	propertyType := fs.String("type", models.PropertyTypeResidential, "Residential, Commercial, Plot or Other")
	subtype := fs.String("subtype", "", "Subtype, e.g. Apartment or Villa")
	price := fs.Float64("price", 0, "Price in rupees (required)")
	size := fs.Float64("size", 0, "Built-up size")
	sizeUnit := fs.String("size-unit", "sq ft", "Size unit")
	bedrooms := fs.Int("bedrooms", 0, "Bedrooms")
	bathrooms := fs.Int("bathrooms", 0, "Bathrooms")
	address := fs.String("address", "", "Street address")
	city := fs.String("city", "", "City (required)")
	region := fs.String("region", "", "Region ID (required)")
	amenities := fs.String("amenities", "", "Comma-separated amenities")
	var images repeated
	fs.Var(&images, "image", "Image file path (repeatable, up to 10)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := api.PropertyInput{
		Title:        *title,
		Description:  *description,
		PropertyType: *propertyType,
		Subtype:      *subtype,
		Price:        *price,
		Size:         *size,
		SizeUnit:     *sizeUnit,
		Bedrooms:     *bedrooms,
		Bathrooms:    *bathrooms,
		Address:      *address,
		City:         *city,
		RegionID:     *region,
		Amenities:    splitList(*amenities),
	}
	for _, path := range images {
		in.Images = append(in.Images, api.FileUpload{Path: path})
	}

	p, err := app.Client.Properties.Create(ctx, in)
	if err != nil {
		return err
	}
	app.printf("✓ Property listed: %s at %s (ID: %s)\n", p.Title, models.FormatINR(p.Price), p.ID)
	return nil
}

func PropertiesDeleteCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("property ID required")
	}
	if err := app.Client.Properties.Delete(ctx, args[0]); err != nil {
		return err
	}
	app.printf("✓ Property deleted: %s\n", args[0])
	return nil
}
