// ABOUTME: Google Places (New) client for address autocomplete and place details
// ABOUTME: Restricts suggestions to India and maps Google failures onto api.Error
package places

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/search"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

// RegionIndia limits autocomplete to Indian addresses.
const RegionIndia = "in"

// MinQueryLength is the shortest input worth sending to Google.
const MinQueryLength = 3

const detailsFieldMask = "id,displayName,formattedAddress,location,addressComponents"

var ErrNotConfigured = &api.Error{
	Kind:    api.KindValidation,
	Message: "Address search is not configured. Set ADDA_PLACES_API_KEY.",
}

type Client struct {
	svc          *placesapi.Service
	logger       *log.Logger
	sessionToken string
}

// New creates a client authenticated with apiKey. Extra options are passed to
// the Google client (tests point it at a fake endpoint).
func New(ctx context.Context, apiKey string, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = log.Default()
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := placesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Places service: %w", err)
	}

	return &Client{
		svc:          svc,
		logger:       logger.WithPrefix("places"),
		sessionToken: uuid.NewString(),
	}, nil
}

// Autocomplete returns address predictions for input.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]models.PlacePrediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	req := &placesapi.GoogleMapsPlacesV1AutocompletePlacesRequest{
		Input:               input,
		IncludedRegionCodes: []string{RegionIndia},
		LanguageCode:        "en",
		SessionToken:        c.sessionToken,
	}
	resp, err := c.svc.Places.Autocomplete(req).Context(ctx).Do()
	if err != nil {
		c.logger.Debug("autocomplete failed", "input", input, "err", err)
		return nil, normalize(err)
	}

	var out []models.PlacePrediction
	for _, s := range resp.Suggestions {
		p := s.PlacePrediction
		if p == nil {
			continue
		}
		pred := models.PlacePrediction{PlaceID: p.PlaceId}
		if p.Text != nil {
			pred.Description = p.Text.Text
		}
		if f := p.StructuredFormat; f != nil {
			if f.MainText != nil {
				pred.MainText = f.MainText.Text
			}
			if f.SecondaryText != nil {
				pred.SecondaryText = f.SecondaryText.Text
			}
		}
		out = append(out, pred)
	}
	return out, nil
}

// Details resolves a prediction to coordinates and address parts. It ends the
// current autocomplete session.
func (c *Client) Details(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	placeID = strings.TrimPrefix(strings.TrimSpace(placeID), "places/")
	if placeID == "" {
		return nil, &api.Error{Kind: api.KindValidation, Message: "Place is required"}
	}

	call := c.svc.Places.Get("places/" + placeID).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", detailsFieldMask)
	place, err := call.Do()
	if err != nil {
		c.logger.Debug("details failed", "place", placeID, "err", err)
		return nil, normalize(err)
	}
	c.sessionToken = uuid.NewString()

	d := &models.PlaceDetails{
		PlaceID:          place.Id,
		FormattedAddress: place.FormattedAddress,
	}
	if place.DisplayName != nil {
		d.Name = place.DisplayName.Text
	}
	if place.Location != nil {
		d.Latitude = place.Location.Latitude
		d.Longitude = place.Location.Longitude
	}
	for _, comp := range place.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				d.City = comp.LongText
			case "administrative_area_level_1":
				d.State = comp.LongText
			case "postal_code":
				d.PostalCode = comp.LongText
			}
		}
	}
	return d, nil
}

// Searcher returns a debouncer driving Autocomplete from keystrokes.
func (c *Client) Searcher(ctx context.Context, opts ...search.Option) *search.Debouncer[[]models.PlacePrediction] {
	opts = append([]search.Option{search.WithMinLength(MinQueryLength), search.WithLogger(c.logger)}, opts...)
	return search.New(ctx, c.Autocomplete, opts...)
}

func normalize(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return api.StatusError(gerr.Code, []byte(gerr.Body))
	}
	return api.Normalize(err)
}
