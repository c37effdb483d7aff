// ABOUTME: Legal text CLI command
// ABOUTME: Prints the bundled terms of service or privacy policy
package cli

import (
	"context"

	"github.com/harperreed/adda/legal"
)

func LegalCommand(_ context.Context, app *App, args []string) error {
	name := legal.Terms
	if len(args) > 0 {
		name = args[0]
	}
	text, err := legal.Text(name)
	if err != nil {
		return err
	}
	app.printf("%s", text)
	return nil
}
