// ABOUTME: MCP prompt handlers for reusable broker workflows
// ABOUTME: Provides lead-summary and share-suggestions prompt templates
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/adda/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	client *api.Client
}

func NewPromptHandlers(client *api.Client) *PromptHandlers {
	return &PromptHandlers{client: client}
}

// Prompts lists the templates GetPrompt renders.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	leadArg := []*mcp.PromptArgument{{Name: "lead_id", Description: "Lead ID", Required: true}}
	return []*mcp.Prompt{
		{Name: "lead-summary", Description: "Summarize a lead and suggest next steps", Arguments: leadArg},
		{Name: "share-suggestions", Description: "Suggest brokers and regions to share a lead with", Arguments: leadArg},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "lead-summary":
		return h.leadSummary(ctx, request.Params.Arguments)
	case "share-suggestions":
		return h.shareSuggestions(ctx, request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) leadSummary(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id := args["lead_id"]
	if id == "" {
		return nil, fmt.Errorf("lead_id is required")
	}
	lead, err := h.client.Leads.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.WriteString("Please summarize this real estate lead:\n\n")
	text.WriteString(fmt.Sprintf("Customer: %s (%s)\n", lead.CustomerName, lead.CustomerPhone))
	text.WriteString(fmt.Sprintf("Looking to: %s %s\n", lead.Requirement, lead.PropertyType))
	text.WriteString(fmt.Sprintf("Budget: %s\n", lead.BudgetLabel()))
	if r := lead.RegionLabel(); r != "" {
		text.WriteString(fmt.Sprintf("Regions: %s\n", r))
	}
	text.WriteString(fmt.Sprintf("Status: %s\n", lead.Status))
	if shared := lead.SharedWith(); len(shared) > 0 {
		text.WriteString(fmt.Sprintf("Shared with: %s\n", strings.Join(shared, ", ")))
	}
	if lead.Notes != "" {
		text.WriteString(fmt.Sprintf("\nNotes: %s\n", lead.Notes))
	}
	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A one-paragraph summary of what the customer wants")
	text.WriteString("\n2. The next action the broker should take")

	return userPrompt(fmt.Sprintf("Summary for lead: %s", lead.CustomerName), text.String()), nil
}

func (h *PromptHandlers) shareSuggestions(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id := args["lead_id"]
	if id == "" {
		return nil, fmt.Errorf("lead_id is required")
	}
	lead, err := h.client.Leads.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	filter := api.BrokerFilter{Paging: api.Paging{Limit: 20}}
	if lead.PrimaryRegion != nil {
		filter.RegionID = lead.PrimaryRegion.ID
	}
	brokers, err := h.client.Brokers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("I want to share a lead for %s, who wants to %s a %s property",
		lead.CustomerName, strings.ToLower(lead.Requirement), strings.ToLower(lead.PropertyType)))
	if r := lead.RegionLabel(); r != "" {
		text.WriteString(" in " + r)
	}
	text.WriteString(fmt.Sprintf(" with a budget of %s.\n\n", lead.BudgetLabel()))

	if len(brokers.Items) > 0 {
		text.WriteString("Brokers working in the area:\n")
		for _, b := range brokers.Items {
			line := fmt.Sprintf("- %s (%s)", b.Name, b.ID)
			if b.FirmName != "" {
				line += ", " + b.FirmName
			}
			if b.Rating > 0 {
				line += fmt.Sprintf(", rated %.1f", b.Rating)
			}
			text.WriteString(line + "\n")
		}
	}
	text.WriteString("\nWhich brokers should receive this lead, or should it go to the whole region? Explain briefly.")

	return userPrompt(fmt.Sprintf("Share suggestions for lead: %s", lead.CustomerName), text.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
