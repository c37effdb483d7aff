// ABOUTME: Seed data for the fake backend
// ABOUTME: Three brokers across Bengaluru and Mumbai with leads, listings and an inbox
package apitest

import (
	"time"

	"github.com/harperreed/adda/models"
)

// Seeded ids.
const (
	BrokerAsha  = "b-asha"
	BrokerRavi  = "b-ravi"
	BrokerMeera = "b-meera"

	RegionKoramangala = "r-koramangala"
	RegionIndiranagar = "r-indiranagar"
	RegionBandra      = "r-bandra"

	LeadJohn  = "l-john"
	LeadPriya = "l-priya"
	LeadKaran = "l-karan"

	PropertyFlat   = "p-flat"
	PropertyOffice = "p-office"

	PhoneAsha = "9876543210"
)

var seedTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func (s *Server) seed() {
	s.brokers = []*models.Broker{
		{ID: BrokerAsha, Name: "Asha Verma", Phone: PhoneAsha, Email: "asha@example.com", FirmName: "Verma Realty", City: "Bengaluru", State: "Karnataka", Regions: []models.Ref{{ID: RegionKoramangala, Name: "Koramangala"}}, IsProfileComplete: true, Rating: 4.5, CreatedAt: seedTime},
		{ID: BrokerRavi, Name: "Ravi Kumar", Phone: "9123456780", FirmName: "Kumar Estates", City: "Bengaluru", State: "Karnataka", Regions: []models.Ref{{ID: RegionIndiranagar, Name: "Indiranagar"}}, IsProfileComplete: true, CreatedAt: seedTime},
		{ID: BrokerMeera, Name: "Meera Iyer", Phone: "9988776655", FirmName: "Iyer Homes", City: "Mumbai", State: "Maharashtra", Regions: []models.Ref{{ID: RegionBandra, Name: "Bandra West"}}, IsProfileComplete: true, CreatedAt: seedTime},
	}

	s.regions = []*models.Region{
		{ID: RegionKoramangala, Name: "Koramangala", City: "Bengaluru", State: "Karnataka", CenterLocation: &models.GeoPoint{Type: "Point", Coordinates: []float64{77.6245, 12.9352}}, BrokerCount: 1},
		{ID: RegionIndiranagar, Name: "Indiranagar", City: "Bengaluru", State: "Karnataka", CenterLocation: &models.GeoPoint{Type: "Point", Coordinates: []float64{77.6408, 12.9784}}, BrokerCount: 1},
		{ID: RegionBandra, Name: "Bandra West", City: "Mumbai", State: "Maharashtra", CenterLocation: &models.GeoPoint{Type: "Point", Coordinates: []float64{72.8295, 19.0596}}, BrokerCount: 1},
	}

	s.leads = []*models.Lead{
		{
			ID: LeadJohn, CustomerName: "John Mathew", CustomerPhone: "9000000001", Requirement: models.RequirementBuy,
			PropertyType: models.PropertyTypeResidential, Budget: 8500000, Status: models.LeadStatusNew,
			PrimaryRegion: s.regionRef(RegionKoramangala), CreatedBy: s.brokerRef(BrokerAsha),
			Transfers: []models.Transfer{{FromBroker: s.brokerRef(BrokerAsha), ToBroker: s.brokerRef(BrokerRavi), ShareType: models.ShareIndividual, CreatedAt: seedTime}},
			CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: LeadPriya, CustomerName: "Priya Nair", CustomerPhone: "9000000002", Requirement: models.RequirementRent,
			PropertyType: models.PropertyTypeResidential, Budget: 35000, Status: models.LeadStatusInProgress,
			PrimaryRegion: s.regionRef(RegionIndiranagar), CreatedBy: s.brokerRef(BrokerAsha),
			CreatedAt: seedTime.Add(time.Hour), UpdatedAt: seedTime.Add(time.Hour),
		},
		{
			ID: LeadKaran, CustomerName: "Karan Shah", CustomerPhone: "9000000003", Requirement: models.RequirementBuy,
			PropertyType: models.PropertyTypeCommercial, Budget: 25000000, Status: models.LeadStatusNew,
			PrimaryRegion: s.regionRef(RegionBandra), CreatedBy: s.brokerRef(BrokerMeera),
			Transfers: []models.Transfer{{FromBroker: s.brokerRef(BrokerMeera), ToBroker: s.brokerRef(BrokerAsha), ShareType: models.ShareIndividual, Notes: "Looking near the station", CreatedAt: seedTime}},
			CreatedAt: seedTime.Add(2 * time.Hour), UpdatedAt: seedTime.Add(2 * time.Hour),
		},
	}

	s.properties = []*models.Property{
		{ID: PropertyFlat, Title: "3BHK in Koramangala", PropertyType: models.PropertyTypeResidential, Price: 15000000, Size: 1650, SizeUnit: "sqft", Bedrooms: 3, Bathrooms: 3, Address: "5th Block", City: "Bengaluru", Region: s.regionRef(RegionKoramangala), Status: models.PropertyStatusActive, Broker: s.brokerRef(BrokerAsha), CreatedAt: seedTime},
		{ID: PropertyOffice, Title: "Office space in Bandra", PropertyType: models.PropertyTypeCommercial, Price: 45000000, Size: 2400, SizeUnit: "sqft", Address: "Hill Road", City: "Mumbai", Region: s.regionRef(RegionBandra), Status: models.PropertyStatusActive, Broker: s.brokerRef(BrokerMeera), CreatedAt: seedTime},
	}

	s.notifications = map[string][]*models.Notification{
		BrokerAsha: {
			{ID: "n-shared", Title: "Lead shared with you", Message: "Meera Iyer shared Karan Shah with you", Type: "lead_transfer", RelatedLead: &models.Ref{ID: LeadKaran}, CreatedAt: seedTime.Add(3 * time.Hour)},
			{ID: "n-welcome", Title: "Welcome to Broker Adda", Message: "Your profile is complete", Type: "system", IsRead: true, CreatedAt: seedTime},
		},
	}

	s.ratings = []*models.Rating{
		{ID: "rt-1", Broker: s.brokerRef(BrokerRavi), Rater: s.brokerRef(BrokerAsha), Rating: 4, Review: "Quick to respond", CreatedAt: seedTime},
	}
}

func (s *Server) brokerRef(id string) *models.Ref {
	for _, b := range s.brokers {
		if b.ID == id {
			return &models.Ref{ID: b.ID, Name: b.Name, Phone: b.Phone, Firm: b.FirmName}
		}
	}
	return &models.Ref{ID: id}
}

func (s *Server) regionRef(id string) *models.Ref {
	for _, r := range s.regions {
		if r.ID == id {
			return &models.Ref{ID: r.ID, Name: r.Name, City: r.City, State: r.State}
		}
	}
	return &models.Ref{ID: id}
}
