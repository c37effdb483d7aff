// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the transfer_graph tool for agents
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	client *api.Client
}

func NewVizHandlers(client *api.Client) *VizHandlers {
	return &VizHandlers{client: client}
}

type TransferGraphInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"mine (leads I created, default), received (leads shared with me) or both"`
}

type TransferGraphOutput struct {
	Scope     string `json:"scope"`
	DOTSource string `json:"dot_source"`
	LeadCount int    `json:"lead_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) TransferGraph(ctx context.Context, _ *mcp.CallToolRequest, input TransferGraphInput) (*mcp.CallToolResult, TransferGraphOutput, error) {
	if input.Scope == "" {
		input.Scope = "mine"
	}

	leads, err := TransferLeads(ctx, h.client, input.Scope)
	if err != nil {
		return nil, TransferGraphOutput{}, err
	}

	g := viz.NewTransferGraph(leads)
	dot, err := g.Generate(ctx)
	if err != nil {
		return nil, TransferGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, TransferGraphOutput{
		Scope:     input.Scope,
		DOTSource: dot,
		LeadCount: len(leads),
		EdgeCount: g.Edges(),
	}, nil
}

const graphPageSize = 100

// TransferLeads collects the leads a transfer graph is drawn from.
func TransferLeads(ctx context.Context, client *api.Client, scope string) ([]models.Lead, error) {
	var leads []models.Lead

	if scope == "mine" || scope == "both" {
		id, err := client.Session().GetBrokerID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session: %w", err)
		}
		page, err := client.Leads.List(ctx, api.LeadFilter{Paging: api.Paging{Limit: graphPageSize}, CreatedBy: id})
		if err != nil {
			return nil, err
		}
		leads = append(leads, page.Items...)
	}

	if scope == "received" || scope == "both" {
		page, err := client.Leads.Transferred(ctx, api.LeadFilter{Paging: api.Paging{Limit: graphPageSize}})
		if err != nil {
			return nil, err
		}
		leads = append(leads, page.Items...)
	}

	if scope != "mine" && scope != "received" && scope != "both" {
		return nil, fmt.Errorf("unknown scope: %s (valid: mine, received, both)", scope)
	}
	return leads, nil
}
