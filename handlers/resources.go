// ABOUTME: MCP resource handlers for exposing Broker Adda data
// ABOUTME: Provides read-only access to leads, listings, regions and the dashboard via adda:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "adda://"

type ResourceHandlers struct {
	client *api.Client
}

func NewResourceHandlers(client *api.Client) *ResourceHandlers {
	return &ResourceHandlers{client: client}
}

// Resources lists the fixed URIs ReadResource serves.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: resourceScheme + "leads", Name: "leads", Description: "Leads I created", MIMEType: "application/json"},
		{URI: resourceScheme + "leads/transferred", Name: "transferred-leads", Description: "Leads shared with me", MIMEType: "application/json"},
		{URI: resourceScheme + "properties", Name: "properties", Description: "My active listings", MIMEType: "application/json"},
		{URI: resourceScheme + "regions", Name: "regions", Description: "All regions", MIMEType: "application/json"},
		{URI: resourceScheme + "dashboard", Name: "dashboard", Description: "Dashboard overview", MIMEType: "text/plain"},
	}
}

// ResourceTemplates lists the by-id URIs ReadResource serves.
func (h *ResourceHandlers) ResourceTemplates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{URITemplate: resourceScheme + "leads/{id}", Name: "lead", Description: "One lead with its transfers", MIMEType: "application/json"},
		{URITemplate: resourceScheme + "properties/{id}", Name: "property", Description: "One property listing", MIMEType: "application/json"},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "leads":
		if len(parts) == 1 {
			id, err := h.client.Session().GetBrokerID(ctx)
			if err != nil {
				return nil, err
			}
			page, err := h.client.Leads.List(ctx, api.LeadFilter{Paging: api.Paging{Limit: 100}, CreatedBy: id})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, leadListToOutput(page))
		}
		if parts[1] == "transferred" {
			page, err := h.client.Leads.Transferred(ctx, api.LeadFilter{Paging: api.Paging{Limit: 100}})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, leadListToOutput(page))
		}
		lead, err := h.client.Leads.Get(ctx, parts[1])
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, leadToOutput(lead))

	case "properties":
		if len(parts) > 1 {
			p, err := h.client.Properties.Get(ctx, parts[1])
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, propertyToOutput(p))
		}
		id, err := h.client.Session().GetBrokerID(ctx)
		if err != nil {
			return nil, err
		}
		page, err := h.client.Properties.List(ctx, api.PropertyFilter{Paging: api.Paging{Limit: 100}, BrokerID: id})
		if err != nil {
			return nil, err
		}
		out := make([]PropertyOutput, len(page.Items))
		for i := range page.Items {
			out[i] = propertyToOutput(&page.Items[i])
		}
		return jsonResource(uri, out)

	case "regions":
		regions, err := h.client.Regions.List(ctx, api.RegionFilter{})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, regionsToOutput(regions))

	case "dashboard":
		stats, err := viz.GenerateDashboardStats(ctx, h.client)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "text/plain", Text: viz.RenderDashboard(stats)},
		}}, nil

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{URI: uri, MIMEType: "application/json", Text: string(data)},
	}}, nil
}
