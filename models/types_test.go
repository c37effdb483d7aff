// ABOUTME: Tests for transport models and display helpers
// ABOUTME: Validates reference decoding, rupee formatting and property flattening
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefDecodesStringOrObject(t *testing.T) {
	var lead Lead
	raw := `{
		"_id": "l1",
		"customerName": "Asha",
		"primaryRegion": "r1",
		"secondaryRegion": {"_id": "r2", "name": "Baner"},
		"createdBy": null
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &lead))

	require.NotNil(t, lead.PrimaryRegion)
	assert.Equal(t, "r1", lead.PrimaryRegion.ID)
	assert.Equal(t, "r1", lead.PrimaryRegion.Label())
	require.NotNil(t, lead.SecondaryRegion)
	assert.Equal(t, "Baner", lead.SecondaryRegion.Label())
	assert.Nil(t, lead.CreatedBy)
	assert.Equal(t, "r1 / Baner", lead.RegionLabel())
}

func TestRefRejectsGarbage(t *testing.T) {
	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
}

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:          "₹0",
		950:        "₹950",
		12500:      "₹12,500",
		99999:      "₹99,999",
		100000:     "₹1 L",
		4550000:    "₹45.5 L",
		12500000:   "₹1.25 Cr",
		250000000:  "₹25 Cr",
		-12500:     "-₹12,500",
		99999.6:    "₹1 L",
		9999999:    "₹1 Cr",
		9994999:    "₹99.95 L",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), "amount %v", in)
	}
}

func TestGroupIndian(t *testing.T) {
	assert.Equal(t, "12,34,567", groupIndian(1234567))
	assert.Equal(t, "1,234", groupIndian(1234))
	assert.Equal(t, "123", groupIndian(123))
}

func TestPropertyDisplay(t *testing.T) {
	p := &Property{
		ID:           "p1",
		Title:        "2BHK near metro",
		PropertyType: PropertyTypeResidential,
		Subtype:      "Flat",
		Price:        8500000,
		Size:         1050,
		City:         "Pune",
		Region:       &Ref{ID: "r1", Name: "Kothrud"},
		Broker:       &Ref{ID: "b1", Name: "Ravi"},
		Images:       []string{"https://img/1.jpg", "https://img/2.jpg"},
	}

	view := p.Display()
	assert.Equal(t, "₹85 L", view.Price)
	assert.Equal(t, "Residential / Flat", view.Type)
	assert.Equal(t, "1050 sq ft", view.Size)
	assert.Equal(t, "Kothrud, Pune", view.Location)
	assert.Equal(t, "Ravi", view.Broker)
	assert.Equal(t, "https://img/1.jpg", view.Image)
	assert.Equal(t, PropertyStatusActive, view.Status)
}

func TestLeadSharedWith(t *testing.T) {
	lead := &Lead{
		Transfers: []Transfer{
			{ToBroker: &Ref{ID: "b2", Name: "Meera"}, ShareType: ShareIndividual},
			{ToBroker: &Ref{ID: "b2", Name: "Meera"}, ShareType: ShareIndividual},
			{Region: &Ref{ID: "r1", Name: "Wakad"}, ShareType: ShareRegion},
			{ShareType: ShareAll},
		},
	}
	assert.Equal(t, []string{"Meera", "region:Wakad", "all brokers"}, lead.SharedWith())
	assert.Equal(t, "-", lead.BudgetLabel())
}

func TestPageHasMore(t *testing.T) {
	p := Page[Lead]{Pagination: Pagination{Page: 1, TotalPages: 3}}
	assert.True(t, p.HasMore())
	p.Pagination.Page = 3
	assert.False(t, p.HasMore())
}

func TestGeoPointLatLng(t *testing.T) {
	lat, lng, ok := GeoPoint{Type: "Point", Coordinates: []float64{73.85, 18.52}}.LatLng()
	require.True(t, ok)
	assert.InDelta(t, 18.52, lat, 1e-9)
	assert.InDelta(t, 73.85, lng, 1e-9)

	_, _, ok = GeoPoint{}.LatLng()
	assert.False(t, ok)
}
