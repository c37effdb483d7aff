// ABOUTME: Broker profile CLI commands
// ABOUTME: Shows the logged-in broker and completes the profile with document uploads
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

func ProfileShowCommand(ctx context.Context, app *App, _ []string) error {
	b, err := app.Client.Brokers.Me(ctx)
	if err != nil {
		return err
	}
	printBroker(app, b)
	return nil
}

func printBroker(app *App, b *models.Broker) {
	app.printf("%s (ID: %s)\n", dashDefault(b.Name, "Unnamed broker"), b.ID)
	app.printf("  Phone: %s\n", b.Phone)
	if b.Email != "" {
		app.printf("  Email: %s\n", b.Email)
	}
	if b.FirmName != "" {
		app.printf("  Firm: %s\n", b.FirmName)
	}
	if b.City != "" {
		app.printf("  Location: %s, %s\n", b.City, b.State)
	}
	if len(b.Regions) > 0 {
		var names []string
		for _, r := range b.Regions {
			names = append(names, r.Label())
		}
		app.printf("  Regions: %s\n", strings.Join(names, ", "))
	}
	if b.YearsOfExperience > 0 {
		app.printf("  Experience: %d years\n", b.YearsOfExperience)
	}
	if b.Rating > 0 {
		app.printf("  Rating: %.1f ★\n", b.Rating)
	}
	if !b.IsProfileComplete {
		app.println("  Profile incomplete")
	}
}

// ProfileCompleteCommand submits the profile form with optional documents.
func ProfileCompleteCommand(ctx context.Context, app *App, args []string) error {
	fs := app.flags("profile complete")
	name := fs.String("name", "", "Full name (required)")
	email := fs.String("email", "", "Email address (required)")
	firm := fs.String("firm", "", "Firm name (required)")
	license := fs.String("license", "", "RERA or license number")
	address := fs.String("address", "", "Office address (required)")
	city := fs.String("city", "", "City (required)")
	state := fs.String("state", "", "State (required)")
	regions := fs.String("regions", "", "Comma-separated region IDs, 1 to 3 (required)")
	specs := fs.String("specializations", "", "Comma-separated specializations")
	years := fs.Int("years", 0, "Years of experience")
	image := fs.String("image", "", "Profile photo path")
	aadhar := fs.String("aadhar", "", "Aadhaar card image path")
	pan := fs.String("pan", "", "PAN card image path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.ProfileRequest{
		Name:              *name,
		Email:             *email,
		FirmName:          *firm,
		LicenseNumber:     *license,
		Address:           *address,
		City:              *city,
		State:             *state,
		Regions:           splitList(*regions),
		Specializations:   splitList(*specs),
		YearsOfExperience: *years,
	}
	docs := map[string]string{"brokerImage": *image, "aadharCard": *aadhar, "panCard": *pan}
	for _, field := range []string{"brokerImage", "aadharCard", "panCard"} {
		if path := docs[field]; path != "" {
			req.Documents = append(req.Documents, api.FileUpload{Field: field, Path: path})
		}
	}

	b, err := app.Client.Auth.CompleteProfile(ctx, req)
	if err != nil {
		return err
	}
	app.println("✓ Profile completed")
	printBroker(app, b)
	return nil
}

func ProfileCheckEmailCommand(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("email required")
	}
	ok, err := app.Client.Auth.CheckEmail(ctx, args[0])
	if err != nil {
		return err
	}
	if ok {
		app.printf("✓ %s is available\n", args[0])
	} else {
		app.printf("✗ %s is already registered\n", args[0])
	}
	return nil
}
