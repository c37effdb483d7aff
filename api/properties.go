// ABOUTME: Property listing endpoints
// ABOUTME: Listing creation is a multipart upload carrying up to ten images
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/models"
)

const MaxPropertyImages = 10

type PropertiesService service

type PropertyInput struct {
	Title        string
	Description  string
	PropertyType string
	Subtype      string
	Price        float64
	Size         float64
	SizeUnit     string
	Bedrooms     int
	Bathrooms    int
	Address      string
	City         string
	RegionID     string
	Amenities    []string
	Images       []FileUpload
}

func (s *PropertiesService) List(ctx context.Context, f PropertyFilter) (*models.Page[models.Property], error) {
	var out models.Page[models.Property]
	if err := s.client.call(ctx, http.MethodGet, "/api/properties", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PropertiesService) Get(ctx context.Context, id string) (*models.Property, error) {
	if err := requireID("Property", id); err != nil {
		return nil, err
	}
	var out models.Property
	if err := s.client.call(ctx, http.MethodGet, pathID("/api/properties", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PropertiesService) Create(ctx context.Context, in PropertyInput) (*models.Property, error) {
	err := forms.Validate(forms.PropertyForm{
		Title:        in.Title,
		PropertyType: in.PropertyType,
		Price:        in.Price,
		Address:      in.Address,
		City:         in.City,
		RegionID:     in.RegionID,
	})
	if err != nil {
		return nil, validationError(err)
	}
	if len(in.Images) > MaxPropertyImages {
		return nil, &Error{Kind: KindValidation, Message: "You can upload at most 10 images."}
	}

	f := &form{}
	f.set("title", in.Title)
	f.set("description", in.Description)
	f.set("propertyType", in.PropertyType)
	f.set("propertySubType", in.Subtype)
	f.set("price", strconv.FormatFloat(in.Price, 'f', -1, 64))
	if in.Size > 0 {
		f.set("propertySize", strconv.FormatFloat(in.Size, 'f', -1, 64))
		f.set("propertySizeUnit", in.SizeUnit)
	}
	if in.Bedrooms > 0 {
		f.set("bedrooms", strconv.Itoa(in.Bedrooms))
	}
	if in.Bathrooms > 0 {
		f.set("bathrooms", strconv.Itoa(in.Bathrooms))
	}
	f.set("address", in.Address)
	f.set("city", in.City)
	f.set("region", in.RegionID)
	if broker, _ := s.client.session.GetBrokerID(ctx); broker != "" {
		f.set("broker", broker)
	}
	if len(in.Amenities) > 0 {
		if err := f.setJSON("amenities", in.Amenities); err != nil {
			return nil, validationError(err)
		}
	}
	for _, img := range in.Images {
		img.Field = "images"
		f.attach(img)
	}

	var out models.Property
	if err := s.client.upload(ctx, http.MethodPost, "/api/properties", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PropertiesService) Delete(ctx context.Context, id string) error {
	if err := requireID("Property", id); err != nil {
		return err
	}
	return s.client.call(ctx, http.MethodDelete, pathID("/api/properties", id), nil, nil, nil)
}
