// ABOUTME: Property and region MCP tool handlers
// ABOUTME: Implements list_properties, get_property, list_regions and nearest_regions
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PropertyHandlers struct {
	client *api.Client
}

func NewPropertyHandlers(client *api.Client) *PropertyHandlers {
	return &PropertyHandlers{client: client}
}

type PropertyOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Type     string `json:"type"`
	Size     string `json:"size,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
	Broker   string `json:"broker,omitempty"`
}

type ListPropertiesInput struct {
	BrokerID     string  `json:"broker_id,omitempty" jsonschema:"Listings by this broker"`
	Status       string  `json:"status,omitempty" jsonschema:"Active, Sold, Rented or Pending"`
	PropertyType string  `json:"property_type,omitempty" jsonschema:"Residential, Commercial, Plot or Other"`
	RegionID     string  `json:"region_id,omitempty" jsonschema:"Region ID"`
	City         string  `json:"city,omitempty" jsonschema:"City"`
	Search       string  `json:"search,omitempty" jsonschema:"Search listing titles"`
	MinPrice     float64 `json:"min_price,omitempty" jsonschema:"Minimum price in rupees"`
	MaxPrice     float64 `json:"max_price,omitempty" jsonschema:"Maximum price in rupees"`
	Page         int     `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	Limit        int     `json:"limit,omitempty" jsonschema:"Results per page (default 10)"`
}

type PropertyListOutput struct {
	Properties []PropertyOutput `json:"properties"`
	Total      int              `json:"total"`
}

func (h *PropertyHandlers) ListProperties(ctx context.Context, _ *mcp.CallToolRequest, input ListPropertiesInput) (*mcp.CallToolResult, PropertyListOutput, error) {
	page, err := h.client.Properties.List(ctx, api.PropertyFilter{
		Paging:       api.Paging{Page: input.Page, Limit: input.Limit},
		BrokerID:     input.BrokerID,
		Status:       input.Status,
		PropertyType: input.PropertyType,
		RegionID:     input.RegionID,
		City:         input.City,
		Search:       input.Search,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
	})
	if err != nil {
		return nil, PropertyListOutput{}, err
	}

	out := PropertyListOutput{Properties: make([]PropertyOutput, len(page.Items)), Total: page.Pagination.Total}
	for i := range page.Items {
		out.Properties[i] = propertyToOutput(&page.Items[i])
	}
	return nil, out, nil
}

type GetPropertyInput struct {
	ID string `json:"id" jsonschema:"Property ID (required)"`
}

func (h *PropertyHandlers) GetProperty(ctx context.Context, _ *mcp.CallToolRequest, input GetPropertyInput) (*mcp.CallToolResult, PropertyOutput, error) {
	if input.ID == "" {
		return nil, PropertyOutput{}, fmt.Errorf("id is required")
	}
	p, err := h.client.Properties.Get(ctx, input.ID)
	if err != nil {
		return nil, PropertyOutput{}, err
	}
	return nil, propertyToOutput(p), nil
}

func propertyToOutput(p *models.Property) PropertyOutput {
	v := p.Display()
	return PropertyOutput{
		ID:       v.ID,
		Title:    v.Title,
		Price:    v.Price,
		Type:     v.Type,
		Size:     v.Size,
		Location: v.Location,
		Status:   v.Status,
		Broker:   v.Broker,
	}
}

type RegionOutput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	BrokerCount int     `json:"broker_count"`
	DistanceKm  float64 `json:"distance_km,omitempty"`
}

type RegionListOutput struct {
	Regions []RegionOutput `json:"regions"`
}

type ListRegionsInput struct {
	State  string `json:"state,omitempty" jsonschema:"Filter by state"`
	City   string `json:"city,omitempty" jsonschema:"Filter by city"`
	Search string `json:"search,omitempty" jsonschema:"Search region names"`
}

func (h *PropertyHandlers) ListRegions(ctx context.Context, _ *mcp.CallToolRequest, input ListRegionsInput) (*mcp.CallToolResult, RegionListOutput, error) {
	regions, err := h.client.Regions.List(ctx, api.RegionFilter{State: input.State, City: input.City, Search: input.Search})
	if err != nil {
		return nil, RegionListOutput{}, err
	}
	return nil, regionsToOutput(regions), nil
}

type NearestRegionsInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude (required)"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude (required)"`
	Limit     int     `json:"limit,omitempty" jsonschema:"Maximum regions (default 5)"`
}

func (h *PropertyHandlers) NearestRegions(ctx context.Context, _ *mcp.CallToolRequest, input NearestRegionsInput) (*mcp.CallToolResult, RegionListOutput, error) {
	if input.Limit == 0 {
		input.Limit = 5
	}
	regions, err := h.client.Regions.Nearest(ctx, input.Latitude, input.Longitude, input.Limit)
	if err != nil {
		return nil, RegionListOutput{}, err
	}
	return nil, regionsToOutput(regions), nil
}

func regionsToOutput(regions []models.Region) RegionListOutput {
	out := RegionListOutput{Regions: make([]RegionOutput, len(regions))}
	for i, r := range regions {
		out.Regions[i] = RegionOutput{
			ID:          r.ID,
			Name:        r.Name,
			City:        r.City,
			State:       r.State,
			BrokerCount: r.BrokerCount,
			DistanceKm:  r.DistanceKm,
		}
	}
	return out
}
