// ABOUTME: Broker profile endpoints
// ABOUTME: Lookup, directory listing and partial profile updates
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/adda/models"
)

type BrokersService service

// BrokerUpdate is a partial update; nil fields are left unchanged.
type BrokerUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Email             *string  `json:"email,omitempty"`
	FirmName          *string  `json:"firmName,omitempty"`
	Address           *string  `json:"address,omitempty"`
	City              *string  `json:"city,omitempty"`
	State             *string  `json:"state,omitempty"`
	Regions           []string `json:"region,omitempty"`
	Specializations   []string `json:"specializations,omitempty"`
	YearsOfExperience *int     `json:"yearsOfExperience,omitempty"`
}

func (s *BrokersService) Get(ctx context.Context, id string) (*models.Broker, error) {
	if err := requireID("Broker", id); err != nil {
		return nil, err
	}
	var out models.Broker
	if err := s.client.call(ctx, http.MethodGet, pathID("/api/brokers", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the logged-in broker.
func (s *BrokersService) Me(ctx context.Context) (*models.Broker, error) {
	id, err := s.client.session.GetBrokerID(ctx)
	if err != nil {
		return nil, Normalize(err)
	}
	if id == "" {
		return nil, &Error{Kind: KindUnauthorized, Message: "Please log in first."}
	}
	return s.Get(ctx, id)
}

func (s *BrokersService) List(ctx context.Context, f BrokerFilter) (*models.Page[models.Broker], error) {
	var out models.Page[models.Broker]
	if err := s.client.call(ctx, http.MethodGet, "/api/brokers", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrokersService) Update(ctx context.Context, id string, u BrokerUpdate) (*models.Broker, error) {
	if err := requireID("Broker", id); err != nil {
		return nil, err
	}
	var out models.Broker
	if err := s.client.call(ctx, http.MethodPatch, pathID("/api/brokers", id), nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
