// ABOUTME: Region endpoints including nearest-region lookup by coordinates
// ABOUTME: Coordinates are range-checked before the request
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/adda/models"
)

type RegionsService service

func (s *RegionsService) List(ctx context.Context, f RegionFilter) ([]models.Region, error) {
	var out []models.Region
	if err := s.client.call(ctx, http.MethodGet, "/api/regions", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Nearest returns up to limit regions ordered by distance from lat/lng.
func (s *RegionsService) Nearest(ctx context.Context, lat, lng float64, limit int) ([]models.Region, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, &Error{Kind: KindValidation, Message: "Please pick a valid location."}
	}

	q := newParams().
		float("latitude", lat).
		float("longitude", lng).
		num("limit", limit).Values

	var out []models.Region
	if err := s.client.call(ctx, http.MethodGet, "/api/regions/nearest", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RegionsService) Get(ctx context.Context, id string) (*models.Region, error) {
	if err := requireID("Region", id); err != nil {
		return nil, err
	}
	var out models.Region
	if err := s.client.call(ctx, http.MethodGet, pathID("/api/regions", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
