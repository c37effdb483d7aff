// ABOUTME: Lead endpoints: listing, CRUD, sharing and metrics
// ABOUTME: Sharing transfers a lead to brokers, a region or everyone with optional notes
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/models"
)

type LeadsService service

// LeadInput is the body for create and update.
type LeadInput struct {
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   string  `json:"customerEmail,omitempty"`
	Requirement     string  `json:"requirement"`
	PropertyType    string  `json:"propertyType"`
	Budget          float64 `json:"budget,omitempty"`
	PrimaryRegion   string  `json:"primaryRegion"`
	SecondaryRegion string  `json:"secondaryRegion,omitempty"`
	Status          string  `json:"status,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	CreatedBy       string  `json:"createdBy,omitempty"`
}

func (in *LeadInput) validate() error {
	in.CustomerPhone = forms.NormalizePhone(in.CustomerPhone)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	return forms.Validate(forms.LeadForm{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Requirement:   in.Requirement,
		PropertyType:  in.PropertyType,
		Budget:        in.Budget,
		PrimaryRegion: in.PrimaryRegion,
	})
}

func (s *LeadsService) List(ctx context.Context, f LeadFilter) (*models.Page[models.Lead], error) {
	var out models.Page[models.Lead]
	if err := s.client.call(ctx, http.MethodGet, "/api/leads", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transferred lists leads other brokers shared with the caller.
func (s *LeadsService) Transferred(ctx context.Context, f LeadFilter) (*models.Page[models.Lead], error) {
	var out models.Page[models.Lead]
	if err := s.client.call(ctx, http.MethodGet, "/api/leads/transferred", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LeadsService) Get(ctx context.Context, id string) (*models.Lead, error) {
	if err := requireID("Lead", id); err != nil {
		return nil, err
	}
	var out models.Lead
	if err := s.client.call(ctx, http.MethodGet, pathID("/api/leads", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a lead. CreatedBy defaults to the logged-in broker.
func (s *LeadsService) Create(ctx context.Context, in LeadInput) (*models.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, validationError(err)
	}
	if in.CreatedBy == "" {
		in.CreatedBy, _ = s.client.session.GetBrokerID(ctx)
	}

	var out models.Lead
	if err := s.client.call(ctx, http.MethodPost, "/api/leads", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LeadsService) Update(ctx context.Context, id string, in LeadInput) (*models.Lead, error) {
	if err := requireID("Lead", id); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, validationError(err)
	}

	var out models.Lead
	if err := s.client.call(ctx, http.MethodPut, pathID("/api/leads", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LeadsService) Delete(ctx context.Context, id string) error {
	if err := requireID("Lead", id); err != nil {
		return err
	}
	return s.client.call(ctx, http.MethodDelete, pathID("/api/leads", id), nil, nil, nil)
}

// ShareRequest transfers a lead. ToBrokers is used for individual shares,
// RegionID for region shares; "all" needs neither.
type ShareRequest struct {
	ShareType  string   `json:"shareType"`
	ToBrokers  []string `json:"toBrokers,omitempty"`
	RegionID   string   `json:"region,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	FromBroker string   `json:"fromBroker,omitempty"`
}

func (s *LeadsService) Share(ctx context.Context, id string, r ShareRequest) (*models.Lead, error) {
	if err := requireID("Lead", id); err != nil {
		return nil, err
	}
	if r.ShareType == "" {
		r.ShareType = models.ShareIndividual
	}
	if err := forms.Validate(forms.ShareForm{ShareType: r.ShareType, ToBrokers: r.ToBrokers, RegionID: r.RegionID}); err != nil {
		return nil, validationError(err)
	}
	if r.FromBroker == "" {
		r.FromBroker, _ = s.client.session.GetBrokerID(ctx)
	}

	var out models.Lead
	if err := s.client.call(ctx, http.MethodPost, pathID("/api/leads", id, "transfer-and-notes"), nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metrics returns dashboard counts for brokerID, or for the logged-in broker
// when brokerID is empty.
func (s *LeadsService) Metrics(ctx context.Context, brokerID string) (*models.LeadMetrics, error) {
	if brokerID == "" {
		brokerID, _ = s.client.session.GetBrokerID(ctx)
	}
	var out models.LeadMetrics
	q := newParams().str("createdBy", brokerID).Values
	if err := s.client.call(ctx, http.MethodGet, "/api/leads/metrics", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
