// ABOUTME: MCP server subcommand
// ABOUTME: Serves Broker Adda tools, resources and prompts over stdio
package cli

import (
	"context"

	"github.com/harperreed/adda/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer registers every tool, resource and prompt against app's client.
func NewMCPServer(ctx context.Context, app *App, version string) *mcp.Server {
	leadHandlers := handlers.NewLeadHandlers(app.Client)
	propertyHandlers := handlers.NewPropertyHandlers(app.Client)
	notificationHandlers := handlers.NewNotificationHandlers(app.Client)
	vizHandlers := handlers.NewVizHandlers(app.Client)
	resourceHandlers := handlers.NewResourceHandlers(app.Client)
	promptHandlers := handlers.NewPromptHandlers(app.Client)

	pc, err := app.placesClient(ctx)
	if err != nil {
		app.Logger.Debug("address autocomplete disabled", "error", err)
	}
	placeHandlers := handlers.NewPlaceHandlers(pc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "adda",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_leads",
		Description: "List leads created by the logged-in broker, with optional status, requirement and region filters",
	}, leadHandlers.ListLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_transferred_leads",
		Description: "List leads other brokers have shared with the logged-in broker",
	}, leadHandlers.ListTransferredLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_lead",
		Description: "Get a lead with its transfer history",
	}, leadHandlers.GetLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Create a new customer lead",
	}, leadHandlers.CreateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "share_lead",
		Description: "Share a lead with specific brokers, every broker in a region, or all brokers",
	}, leadHandlers.ShareLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lead_metrics",
		Description: "Lead counts and transfer totals for a broker",
	}, leadHandlers.LeadMetrics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_properties",
		Description: "Search property listings by broker, type, region, city and price",
	}, propertyHandlers.ListProperties)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_property",
		Description: "Get a property listing",
	}, propertyHandlers.GetProperty)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_regions",
		Description: "List regions, optionally filtered by state or city",
	}, propertyHandlers.ListRegions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "nearest_regions",
		Description: "Find the regions closest to a latitude and longitude",
	}, propertyHandlers.NearestRegions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_notifications",
		Description: "List notifications and the unread count",
	}, notificationHandlers.ListNotifications)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "autocomplete_address",
		Description: "Suggest Indian addresses for a partial query",
	}, placeHandlers.AutocompleteAddress)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transfer_graph",
		Description: "Render the lead transfer network as a Graphviz document",
	}, vizHandlers.TransferGraph)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, rt := range resourceHandlers.ResourceTemplates() {
		server.AddResourceTemplate(rt, resourceHandlers.ReadResource)
	}
	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, app *App, _ []string) error {
	app.Logger.Info("Starting Broker Adda MCP server")
	return NewMCPServer(ctx, app, Version).Run(ctx, &mcp.StdioTransport{})
}
