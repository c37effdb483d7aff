// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements list_leads, get_lead, create_lead, share_lead, list_transferred_leads and lead_metrics
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LeadHandlers struct {
	client *api.Client
}

func NewLeadHandlers(client *api.Client) *LeadHandlers {
	return &LeadHandlers{client: client}
}

type TransferOutput struct {
	From      string `json:"from"`
	To        string `json:"to"`
	ShareType string `json:"share_type"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

type LeadOutput struct {
	ID            string           `json:"id"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	Requirement   string           `json:"requirement"`
	PropertyType  string           `json:"property_type"`
	Budget        string           `json:"budget"`
	Status        string           `json:"status"`
	Regions       string           `json:"regions,omitempty"`
	CreatedBy     string           `json:"created_by,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Transfers     []TransferOutput `json:"transfers,omitempty"`
	CreatedAt     string           `json:"created_at"`
}

type LeadListOutput struct {
	Leads      []LeadOutput `json:"leads"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
}

type ListLeadsInput struct {
	Status       string `json:"status,omitempty" jsonschema:"Lead status: New, Assigned, In Progress, Closed, Rejected"`
	Search       string `json:"search,omitempty" jsonschema:"Search by customer name or phone"`
	Requirement  string `json:"requirement,omitempty" jsonschema:"Buy, Rent or Sell"`
	PropertyType string `json:"property_type,omitempty" jsonschema:"Residential, Commercial, Plot or Other"`
	RegionID     string `json:"region_id,omitempty" jsonschema:"Primary region ID"`
	AllBrokers   bool   `json:"all_brokers,omitempty" jsonschema:"Include leads created by other brokers"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Results per page (default 10)"`
}

func (in ListLeadsInput) filter() api.LeadFilter {
	return api.LeadFilter{
		Paging:       api.Paging{Page: in.Page, Limit: in.Limit},
		Status:       in.Status,
		Search:       in.Search,
		Requirement:  in.Requirement,
		PropertyType: in.PropertyType,
		RegionID:     in.RegionID,
	}
}

func (h *LeadHandlers) ListLeads(ctx context.Context, _ *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, LeadListOutput, error) {
	filter := input.filter()
	if !input.AllBrokers {
		id, err := h.client.Session().GetBrokerID(ctx)
		if err != nil {
			return nil, LeadListOutput{}, fmt.Errorf("failed to read session: %w", err)
		}
		filter.CreatedBy = id
	}

	page, err := h.client.Leads.List(ctx, filter)
	if err != nil {
		return nil, LeadListOutput{}, err
	}
	return nil, leadListToOutput(page), nil
}

func (h *LeadHandlers) ListTransferredLeads(ctx context.Context, _ *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, LeadListOutput, error) {
	page, err := h.client.Leads.Transferred(ctx, input.filter())
	if err != nil {
		return nil, LeadListOutput{}, err
	}
	return nil, leadListToOutput(page), nil
}

type GetLeadInput struct {
	ID string `json:"id" jsonschema:"Lead ID (required)"`
}

func (h *LeadHandlers) GetLead(ctx context.Context, _ *mcp.CallToolRequest, input GetLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == "" {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	lead, err := h.client.Leads.Get(ctx, input.ID)
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

type CreateLeadInput struct {
	CustomerName    string  `json:"customer_name" jsonschema:"Customer name (required)"`
	CustomerPhone   string  `json:"customer_phone" jsonschema:"10-digit Indian mobile number (required)"`
	CustomerEmail   string  `json:"customer_email,omitempty" jsonschema:"Customer email"`
	Requirement     string  `json:"requirement" jsonschema:"Buy, Rent or Sell (required)"`
	PropertyType    string  `json:"property_type" jsonschema:"Residential, Commercial, Plot or Other (required)"`
	Budget          float64 `json:"budget,omitempty" jsonschema:"Budget in rupees"`
	PrimaryRegion   string  `json:"primary_region" jsonschema:"Primary region ID (required)"`
	SecondaryRegion string  `json:"secondary_region,omitempty" jsonschema:"Secondary region ID"`
	Notes           string  `json:"notes,omitempty" jsonschema:"Notes about the customer"`
}

func (h *LeadHandlers) CreateLead(ctx context.Context, _ *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	lead, err := h.client.Leads.Create(ctx, api.LeadInput{
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		Requirement:     input.Requirement,
		PropertyType:    input.PropertyType,
		Budget:          input.Budget,
		PrimaryRegion:   input.PrimaryRegion,
		SecondaryRegion: input.SecondaryRegion,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

type ShareLeadInput struct {
	ID        string   `json:"id" jsonschema:"Lead ID (required)"`
	ShareType string   `json:"share_type,omitempty" jsonschema:"individual (default), region or all"`
	ToBrokers []string `json:"to_brokers,omitempty" jsonschema:"Broker IDs for individual shares"`
	RegionID  string   `json:"region_id,omitempty" jsonschema:"Region ID for region shares"`
	Notes     string   `json:"notes,omitempty" jsonschema:"Notes for the receiving brokers"`
}

func (h *LeadHandlers) ShareLead(ctx context.Context, _ *mcp.CallToolRequest, input ShareLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == "" {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	lead, err := h.client.Leads.Share(ctx, input.ID, api.ShareRequest{
		ShareType: input.ShareType,
		ToBrokers: input.ToBrokers,
		RegionID:  input.RegionID,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

type LeadMetricsInput struct {
	BrokerID string `json:"broker_id,omitempty" jsonschema:"Broker ID (default: the logged-in broker)"`
}

type LeadMetricsOutput struct {
	TotalLeads    int `json:"total_leads"`
	NewLeads      int `json:"new_leads"`
	ClosedLeads   int `json:"closed_leads"`
	TransfersByMe int `json:"transfers_by_me"`
	TransfersToMe int `json:"transfers_to_me"`
}

func (h *LeadHandlers) LeadMetrics(ctx context.Context, _ *mcp.CallToolRequest, input LeadMetricsInput) (*mcp.CallToolResult, LeadMetricsOutput, error) {
	m, err := h.client.Leads.Metrics(ctx, input.BrokerID)
	if err != nil {
		return nil, LeadMetricsOutput{}, err
	}
	return nil, LeadMetricsOutput{
		TotalLeads:    m.TotalLeads,
		NewLeads:      m.NewLeads,
		ClosedLeads:   m.ClosedLeads,
		TransfersByMe: m.TransfersByMe,
		TransfersToMe: m.TransfersToMe,
	}, nil
}

func leadListToOutput(page *models.Page[models.Lead]) LeadListOutput {
	out := LeadListOutput{
		Leads:      make([]LeadOutput, len(page.Items)),
		Page:       page.Pagination.Page,
		TotalPages: page.Pagination.TotalPages,
		Total:      page.Pagination.Total,
	}
	for i := range page.Items {
		out.Leads[i] = leadToOutput(&page.Items[i])
	}
	return out
}

func leadToOutput(l *models.Lead) LeadOutput {
	out := LeadOutput{
		ID:            l.ID,
		CustomerName:  l.CustomerName,
		CustomerPhone: l.CustomerPhone,
		CustomerEmail: l.CustomerEmail,
		Requirement:   l.Requirement,
		PropertyType:  l.PropertyType,
		Budget:        l.BudgetLabel(),
		Status:        l.Status,
		Regions:       l.RegionLabel(),
		CreatedBy:     l.CreatedBy.Label(),
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}

	for _, t := range l.Transfers {
		to := "all brokers"
		switch {
		case t.ToBroker != nil:
			to = t.ToBroker.Label()
		case t.Region != nil:
			to = "region " + t.Region.Label()
		}
		out.Transfers = append(out.Transfers, TransferOutput{
			From:      t.FromBroker.Label(),
			To:        to,
			ShareType: t.ShareType,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}

	return out
}
