// ABOUTME: Broker rating endpoints
// ABOUTME: Submitting a 1-5 star rating and reading a broker's ratings
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/models"
)

type RatingsService service

type RatingInput struct {
	BrokerID string `json:"broker"`
	Rating   int    `json:"rating"`
	Review   string `json:"review,omitempty"`
}

// BrokerRatings is a broker's rating summary.
type BrokerRatings struct {
	Average float64         `json:"averageRating"`
	Count   int             `json:"totalRatings"`
	Ratings []models.Rating `json:"ratings"`
}

func (s *RatingsService) Submit(ctx context.Context, in RatingInput) (*models.Rating, error) {
	if err := forms.Validate(forms.RatingForm{BrokerID: in.BrokerID, Rating: in.Rating, Review: in.Review}); err != nil {
		return nil, validationError(err)
	}
	var out models.Rating
	if err := s.client.call(ctx, http.MethodPost, "/api/ratings", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RatingsService) ForBroker(ctx context.Context, brokerID string) (*BrokerRatings, error) {
	if err := requireID("Broker", brokerID); err != nil {
		return nil, err
	}
	var out BrokerRatings
	if err := s.client.call(ctx, http.MethodGet, pathID("/api/ratings/broker", brokerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
