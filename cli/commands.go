// ABOUTME: Command table and dispatch
// ABOUTME: Maps "group subcommand" pairs to command functions
package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/adda/legal"
)

// Version is reported by --version and the MCP server.
var Version = "0.1.0"

// ErrUsage means the arguments did not name a command.
var ErrUsage = errors.New("usage")

// standalone commands take no subcommand.
var standalone = map[string]CommandFunc{
	"dashboard": DashboardCommand,
	"mcp":       MCPCommand,
	"tui":       TUICommand,
}

var groups = map[string]map[string]CommandFunc{
	"auth": {
		"login":    AuthLoginCommand,
		"verify":   AuthVerifyCommand,
		"register": AuthRegisterCommand,
		"logout":   AuthLogoutCommand,
		"whoami":   AuthWhoamiCommand,
	},
	"profile": {
		"show":        ProfileShowCommand,
		"complete":    ProfileCompleteCommand,
		"check-email": ProfileCheckEmailCommand,
	},
	"leads": {
		"list":        LeadsListCommand,
		"transferred": LeadsTransferredCommand,
		"show":        LeadsShowCommand,
		"add":         LeadsAddCommand,
		"update":      LeadsUpdateCommand,
		"delete":      LeadsDeleteCommand,
		"share":       LeadsShareCommand,
		"metrics":     LeadsMetricsCommand,
	},
	"properties": {
		"list":   PropertiesListCommand,
		"show":   PropertiesShowCommand,
		"add":    PropertiesAddCommand,
		"delete": PropertiesDeleteCommand,
	},
	"regions": {
		"list":    RegionsListCommand,
		"nearest": RegionsNearestCommand,
		"show":    RegionsShowCommand,
	},
	"brokers": {
		"list": BrokersListCommand,
		"show": BrokersShowCommand,
	},
	"notifications": {
		"list":     NotificationsListCommand,
		"read":     NotificationsReadCommand,
		"read-all": NotificationsReadAllCommand,
	},
	"ratings": {
		"add":  RatingsAddCommand,
		"list": RatingsListCommand,
	},
	"places": {
		"search":  PlacesSearchCommand,
		"details": PlacesDetailsCommand,
	},
	"legal": {
		legal.Terms:   legalDocument(legal.Terms),
		legal.Privacy: legalDocument(legal.Privacy),
	},
	"viz": {
		"transfers": VizGraphCommand,
	},
}

func legalDocument(name string) CommandFunc {
	return func(ctx context.Context, app *App, _ []string) error {
		return LegalCommand(ctx, app, []string{name})
	}
}

// Lookup finds the command named by args and returns it with the remaining
// arguments.
func Lookup(args []string) (CommandFunc, []string, error) {
	if len(args) == 0 {
		return nil, nil, ErrUsage
	}
	if cmd, ok := standalone[args[0]]; ok {
		return cmd, args[1:], nil
	}

	subs, ok := groups[args[0]]
	if !ok {
		return nil, nil, fmt.Errorf("unknown command: %s", args[0])
	}
	if len(args) < 2 {
		return nil, nil, fmt.Errorf("%s requires a subcommand (%s)", args[0], joinKeys(subs))
	}
	cmd, ok := subs[args[1]]
	if !ok {
		return nil, nil, fmt.Errorf("unknown %s subcommand: %s (want %s)", args[0], args[1], joinKeys(subs))
	}
	return cmd, args[2:], nil
}

// Run dispatches args to the matching command.
func Run(ctx context.Context, app *App, args []string) error {
	cmd, rest, err := Lookup(args)
	if err != nil {
		return err
	}
	return cmd(ctx, app, rest)
}

func joinKeys(m map[string]CommandFunc) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
