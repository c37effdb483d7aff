// ABOUTME: Notification and address MCP tool handlers
// ABOUTME: Implements list_notifications and autocomplete_address
package handlers

import (
	"context"
	"time"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/places"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type NotificationHandlers struct {
	client *api.Client
}

func NewNotificationHandlers(client *api.Client) *NotificationHandlers {
	return &NotificationHandlers{client: client}
}

type ListNotificationsInput struct {
	UnreadOnly bool `json:"unread_only,omitempty" jsonschema:"Only unread notifications"`
	Limit      int  `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type NotificationOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	LeadID    string `json:"lead_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type NotificationListOutput struct {
	Notifications []NotificationOutput `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func (h *NotificationHandlers) ListNotifications(ctx context.Context, _ *mcp.CallToolRequest, input ListNotificationsInput) (*mcp.CallToolResult, NotificationListOutput, error) {
	page, err := h.client.Notifications.List(ctx, api.NotificationFilter{
		Paging:     api.Paging{Limit: input.Limit},
		UnreadOnly: input.UnreadOnly,
	})
	if err != nil {
		return nil, NotificationListOutput{}, err
	}
	unread, err := h.client.Notifications.UnreadCount(ctx)
	if err != nil {
		return nil, NotificationListOutput{}, err
	}

	out := NotificationListOutput{Notifications: make([]NotificationOutput, len(page.Items)), Unread: unread}
	for i, n := range page.Items {
		out.Notifications[i] = notificationToOutput(n)
	}
	return nil, out, nil
}

func notificationToOutput(n models.Notification) NotificationOutput {
	out := NotificationOutput{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RelatedLead != nil {
		out.LeadID = n.RelatedLead.ID
	}
	return out
}

// PlaceHandlers needs a configured places client; a nil client reports
// places.ErrNotConfigured from every tool.
type PlaceHandlers struct {
	places *places.Client
}

func NewPlaceHandlers(pc *places.Client) *PlaceHandlers {
	return &PlaceHandlers{places: pc}
}

type AutocompleteAddressInput struct {
	Query string `json:"query" jsonschema:"Partial address in India, at least 3 characters"`
}

type AutocompleteAddressOutput struct {
	Predictions []models.PlacePrediction `json:"predictions"`
}

func (h *PlaceHandlers) AutocompleteAddress(ctx context.Context, _ *mcp.CallToolRequest, input AutocompleteAddressInput) (*mcp.CallToolResult, AutocompleteAddressOutput, error) {
	if h.places == nil {
		return nil, AutocompleteAddressOutput{}, places.ErrNotConfigured
	}
	predictions, err := h.places.Autocomplete(ctx, input.Query)
	if err != nil {
		return nil, AutocompleteAddressOutput{}, err
	}
	return nil, AutocompleteAddressOutput{Predictions: predictions}, nil
}
