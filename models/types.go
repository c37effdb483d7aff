// ABOUTME: Transport models for Broker Adda entities
// ABOUTME: Defines Session, Lead, Region, Property, Broker, Notification and Rating DTOs
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Session is the authenticated context persisted after OTP verification.
type Session struct {
	Token    string `json:"token"`
	Phone    string `json:"phone"`
	BrokerID string `json:"broker_id"`
	UserID   string `json:"user_id,omitempty"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Ref is a reference to another server-owned record. The backend sends either
// a bare id string or a populated object; both decode into Ref.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Firm  string `json:"firmName,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode reference: %w", err)
	}
	*r = Ref(p)
	return nil
}

// Label returns the most readable name for the reference.
func (r *Ref) Label() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Lead statuses.
const (
	LeadStatusNew        = "New"
	LeadStatusAssigned   = "Assigned"
	LeadStatusInProgress = "In Progress"
	LeadStatusClosed     = "Closed"
	LeadStatusRejected   = "Rejected"
)

// Lead requirements.
const (
	RequirementBuy  = "Buy"
	RequirementRent = "Rent"
	RequirementSell = "Sell"
)

// Property types shared by leads and listings.
const (
	PropertyTypeResidential = "Residential"
	PropertyTypeCommercial  = "Commercial"
	PropertyTypePlot        = "Plot"
	PropertyTypeOther       = "Other"
)

// Share types for lead transfers.
const (
	ShareIndividual = "individual"
	ShareRegion     = "region"
	ShareAll        = "all"
)

type Lead struct {
	ID              string     `json:"_id"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail,omitempty"`
	CustomerPhone   string     `json:"customerPhone"`
	Requirement     string     `json:"requirement"`
	PropertyType    string     `json:"propertyType"`
	Budget          float64    `json:"budget,omitempty"`
	Status          string     `json:"status"`
	PrimaryRegion   *Ref       `json:"primaryRegion,omitempty"`
	SecondaryRegion *Ref       `json:"secondaryRegion,omitempty"`
	Transfers       []Transfer `json:"transfers,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedBy       *Ref       `json:"createdBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Transfer struct {
	FromBroker *Ref      `json:"fromBroker,omitempty"`
	ToBroker   *Ref      `json:"toBroker,omitempty"`
	Region     *Ref      `json:"region,omitempty"`
	ShareType  string    `json:"shareType,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GeoPoint is a GeoJSON point; coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLng returns latitude and longitude, or ok=false for a malformed point.
func (p GeoPoint) LatLng() (lat, lng float64, ok bool) {
	if len(p.Coordinates) != 2 {
		return 0, 0, false
	}
	return p.Coordinates[1], p.Coordinates[0], true
}

type Region struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	State          string    `json:"state"`
	City           string    `json:"city"`
	CenterLocation *GeoPoint `json:"centerLocation,omitempty"`
	DistanceKm     float64   `json:"distanceKm,omitempty"`
	BrokerCount    int       `json:"brokerCount"`
}

// Property listing statuses.
const (
	PropertyStatusActive  = "Active"
	PropertyStatusSold    = "Sold"
	PropertyStatusRented  = "Rented"
	PropertyStatusPending = "Pending"
)

type Property struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PropertyType string    `json:"propertyType"`
	Subtype      string    `json:"propertySubType,omitempty"`
	Price        float64   `json:"price"`
	PriceUnit    string    `json:"priceUnit,omitempty"`
	Size         float64   `json:"propertySize,omitempty"`
	SizeUnit     string    `json:"propertySizeUnit,omitempty"`
	Bedrooms     int       `json:"bedrooms,omitempty"`
	Bathrooms    int       `json:"bathrooms,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Region       *Ref      `json:"region,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	Status       string    `json:"status"`
	Broker       *Ref      `json:"broker,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Broker struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone"`
	FirmName          string    `json:"firmName,omitempty"`
	LicenseNumber     string    `json:"licenseNumber,omitempty"`
	Address           string    `json:"address,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Regions           []Ref     `json:"region,omitempty"`
	Specializations   []string  `json:"specializations,omitempty"`
	YearsOfExperience int       `json:"yearsOfExperience,omitempty"`
	BrokerImage       string    `json:"brokerImage,omitempty"`
	Status            string    `json:"status,omitempty"`
	Rating            float64   `json:"rating,omitempty"`
	IsProfileComplete bool      `json:"isProfileComplete"`
	CreatedAt         time.Time `json:"createdAt"`
}

// User is the account record returned by OTP verification.
type User struct {
	ID                string `json:"id"`
	Phone             string `json:"phone"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Role              string `json:"role,omitempty"`
	BrokerID          string `json:"brokerId,omitempty"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}

type Notification struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type,omitempty"`
	IsRead      bool      `json:"isRead"`
	RelatedLead *Ref      `json:"relatedLead,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Rating struct {
	ID        string    `json:"_id"`
	Broker    *Ref      `json:"broker,omitempty"`
	Rater     *Ref      `json:"rater,omitempty"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LeadMetrics struct {
	TotalLeads    int `json:"totalLeads"`
	NewLeads      int `json:"newLeads"`
	TransfersToMe int `json:"transfersToMe"`
	TransfersByMe int `json:"transfersByMe"`
	ClosedLeads   int `json:"closedLeads"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// HasMore reports whether later pages exist.
func (p Page[T]) HasMore() bool {
	return p.Pagination.Page < p.Pagination.TotalPages
}

type PlacePrediction struct {
	PlaceID       string `json:"place_id"`
	Description   string `json:"description"`
	MainText      string `json:"main_text,omitempty"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

type PlaceDetails struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`
}
