package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/harperreed/adda/apitest"
	"github.com/harperreed/adda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadFilterValues(t *testing.T) {
	v := LeadFilter{
		Paging:    Paging{Page: 2, Limit: 20},
		CreatedBy: "b1",
		Search:    "John Mathew",
		BudgetMin: 5000000,
		Status:    models.LeadStatusInProgress,
	}.values()

	assert.Equal(t, url.Values{
		"page":      {"2"},
		"limit":     {"20"},
		"createdBy": {"b1"},
		"search":    {"John Mathew"},
		"budgetMin": {"5000000"},
		"status":    {"In Progress"},
	}, v)
	assert.Empty(t, LeadFilter{}.values())
	assert.Equal(t, "unreadOnly=true", NotificationFilter{UnreadOnly: true}.values().Encode())
}

func TestLeadsListAndSearch(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	page, err := f.client.Leads.List(ctx, LeadFilter{CreatedBy: apitest.BrokerAsha})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Priya Nair", page.Items[0].CustomerName)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.False(t, page.HasMore())

	page, err = f.client.Leads.List(ctx, LeadFilter{Search: "john", Paging: Paging{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, apitest.LeadJohn, page.Items[0].ID)
	assert.Equal(t, "Koramangala", page.Items[0].RegionLabel())

	req, _ := f.srv.LastRequest()
	assert.Equal(t, "john", req.Query.Get("search"))
	assert.Equal(t, "1", req.Query.Get("limit"))
}

func TestLeadsTransferred(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)

	page, err := f.client.Leads.Transferred(context.Background(), LeadFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, apitest.LeadKaran, page.Items[0].ID)
	assert.Equal(t, "Meera Iyer", page.Items[0].CreatedBy.Label())
}

func TestLeadLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	in := LeadInput{
		CustomerName:  "  Neha Rao ",
		CustomerPhone: "+91 99887 76655",
		Requirement:   models.RequirementBuy,
		PropertyType:  models.PropertyTypePlot,
		Budget:        4200000,
		PrimaryRegion: apitest.RegionKoramangala,
	}
	lead, err := f.client.Leads.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Neha Rao", lead.CustomerName)
	assert.Equal(t, "9988776655", lead.CustomerPhone)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, apitest.BrokerAsha, lead.CreatedBy.ID)

	var body map[string]interface{}
	req, _ := f.srv.LastRequest()
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, apitest.BrokerAsha, body["createdBy"])

	in.Status = models.LeadStatusInProgress
	in.Notes = "Wants east facing"
	updated, err := f.client.Leads.Update(ctx, lead.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusInProgress, updated.Status)
	assert.Equal(t, "Wants east facing", updated.Notes)

	got, err := f.client.Leads.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Notes, got.Notes)

	require.NoError(t, f.client.Leads.Delete(ctx, lead.ID))
	_, err = f.client.Leads.Get(ctx, lead.ID)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "Lead not found", err.Error())
}

func TestLeadCreateValidates(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)

	_, err := f.client.Leads.Create(context.Background(), LeadInput{
		CustomerName:  "Neha",
		CustomerPhone: "99887",
		Requirement:   models.RequirementBuy,
		PropertyType:  models.PropertyTypePlot,
		PrimaryRegion: apitest.RegionKoramangala,
	})
	assert.Equal(t, "Please enter a valid 10-digit phone number", err.Error())

	_, err = f.client.Leads.Create(context.Background(), LeadInput{
		CustomerName:  "Neha",
		CustomerPhone: "9988776655",
		Requirement:   "Lease",
		PropertyType:  models.PropertyTypePlot,
		PrimaryRegion: apitest.RegionKoramangala,
	})
	assert.Equal(t, "Requirement must be one of: Buy, Rent, Sell", err.Error())
	assert.Empty(t, f.srv.Requests())
}

func TestLeadShare(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	lead, err := f.client.Leads.Share(ctx, apitest.LeadPriya, ShareRequest{
		ToBrokers: []string{apitest.BrokerRavi, apitest.BrokerMeera},
		Notes:     "Call after 6pm",
	})
	require.NoError(t, err)
	require.Len(t, lead.Transfers, 2)
	assert.Equal(t, []string{"Ravi Kumar", "Meera Iyer"}, lead.SharedWith())

	req, _ := f.srv.LastRequest()
	assert.Equal(t, "/api/leads/"+apitest.LeadPriya+"/transfer-and-notes", req.Path)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, models.ShareIndividual, body["shareType"])
	assert.Equal(t, apitest.BrokerAsha, body["fromBroker"])

	lead, err = f.client.Leads.Share(ctx, apitest.LeadJohn, ShareRequest{ShareType: models.ShareRegion, RegionID: apitest.RegionBandra})
	require.NoError(t, err)
	last := lead.Transfers[len(lead.Transfers)-1]
	assert.Equal(t, "Bandra West", last.Region.Label())

	before := len(f.srv.Requests())
	_, err = f.client.Leads.Share(ctx, apitest.LeadJohn, ShareRequest{ShareType: models.ShareRegion})
	assert.Equal(t, "Region is required", err.Error())
	_, err = f.client.Leads.Share(ctx, apitest.LeadJohn, ShareRequest{ShareType: "everyone"})
	assert.True(t, IsKind(err, KindValidation))
	assert.Len(t, f.srv.Requests(), before)
}

func TestLeadMetrics(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)

	m, err := f.client.Leads.Metrics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.LeadMetrics{TotalLeads: 2, NewLeads: 1, TransfersToMe: 1, TransfersByMe: 1}, *m)

	req, _ := f.srv.LastRequest()
	assert.Equal(t, apitest.BrokerAsha, req.Query.Get("createdBy"))
}

func TestPropertiesLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	page, err := f.client.Properties.List(ctx, PropertyFilter{City: "bengaluru"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "₹1.5 Cr", page.Items[0].Display().Price)

	prop, err := f.client.Properties.Create(ctx, PropertyInput{
		Title:        "2BHK near Metro",
		PropertyType: models.PropertyTypeResidential,
		Price:        8500000,
		Size:         1100,
		SizeUnit:     "sqft",
		Bedrooms:     2,
		Address:      "CMH Road",
		City:         "Bengaluru",
		RegionID:     apitest.RegionIndiranagar,
		Amenities:    []string{"Lift", "Parking"},
		Images: []FileUpload{
			{Filename: "front.jpg", Content: strings.NewReader("jpeg")},
			{Filename: "hall.jpg", Content: strings.NewReader("jpeg")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/front.jpg", "/uploads/hall.jpg"}, prop.Images)
	assert.Equal(t, []string{"Lift", "Parking"}, prop.Amenities)
	assert.Equal(t, apitest.BrokerAsha, prop.Broker.ID)
	assert.Equal(t, 2, prop.Bedrooms)

	got, err := f.client.Properties.Get(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "2BHK near Metro", got.Title)

	require.NoError(t, f.client.Properties.Delete(ctx, prop.ID))
	_, err = f.client.Properties.Get(ctx, prop.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestPropertyCreateValidates(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Properties.Create(context.Background(), PropertyInput{Title: "Plot", PropertyType: models.PropertyTypePlot})
	assert.Equal(t, "Price must be greater than 0", err.Error())

	images := make([]FileUpload, MaxPropertyImages+1)
	_, err = f.client.Properties.Create(context.Background(), PropertyInput{
		Title: "Plot", PropertyType: models.PropertyTypePlot, Price: 1, Address: "a", City: "c", RegionID: "r", Images: images,
	})
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.client.Properties.Create(context.Background(), PropertyInput{
		Title: "Plot", PropertyType: models.PropertyTypePlot, Price: 1, Address: "a", City: "c", RegionID: "r",
		Images: []FileUpload{{Path: "/does/not/exist.jpg"}},
	})
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, f.srv.Requests())
}

func TestRegions(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	regions, err := f.client.Regions.List(ctx, RegionFilter{City: "Bengaluru"})
	require.NoError(t, err)
	assert.Len(t, regions, 2)

	nearest, err := f.client.Regions.Nearest(ctx, 12.94, 77.62, 2)
	require.NoError(t, err)
	require.Len(t, nearest, 2)
	assert.Equal(t, apitest.RegionKoramangala, nearest[0].ID)
	assert.Less(t, nearest[0].DistanceKm, nearest[1].DistanceKm)

	_, err = f.client.Regions.Nearest(ctx, 120, 0, 1)
	assert.True(t, IsKind(err, KindValidation))

	r, err := f.client.Regions.Get(ctx, apitest.RegionBandra)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", r.City)

	_, err = f.client.Regions.Get(ctx, "")
	assert.Equal(t, "Region is required", err.Error())
}

func TestBrokers(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	me, err := f.client.Brokers.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", me.Name)

	page, err := f.client.Brokers.List(ctx, BrokerFilter{RegionID: apitest.RegionBandra})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Meera Iyer", page.Items[0].Name)

	firm := "Verma & Sons Realty"
	years := 12
	updated, err := f.client.Brokers.Update(ctx, apitest.BrokerAsha, BrokerUpdate{FirmName: &firm, YearsOfExperience: &years})
	require.NoError(t, err)
	assert.Equal(t, firm, updated.FirmName)
	assert.Equal(t, 12, updated.YearsOfExperience)
	assert.Equal(t, "Asha Verma", updated.Name)

	_, err = f.client.Brokers.Update(ctx, apitest.BrokerRavi, BrokerUpdate{FirmName: &firm})
	assert.True(t, IsKind(err, KindForbidden))
}

func TestBrokersMeRequiresLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Brokers.Me(context.Background())
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Empty(t, f.srv.Requests())
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	unread, err := f.client.Notifications.List(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread.Items, 1)

	count, err := f.client.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, f.client.Notifications.MarkRead(ctx, unread.Items[0].ID))
	count, _ = f.client.Notifications.UnreadCount(ctx)
	assert.Equal(t, 0, count)

	_, err = f.client.Leads.Share(ctx, apitest.LeadJohn, ShareRequest{ShareType: models.ShareAll})
	require.NoError(t, err)

	f.login(t, apitest.BrokerRavi)
	all, err := f.client.Notifications.List(ctx, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Contains(t, all.Items[0].Message, "John Mathew")

	require.NoError(t, f.client.Notifications.MarkAllRead(ctx))
	count, _ = f.client.Notifications.UnreadCount(ctx)
	assert.Equal(t, 0, count)
}

func TestRatings(t *testing.T) {
	f := newFixture(t)
	f.login(t, apitest.BrokerAsha)
	ctx := context.Background()

	_, err := f.client.Ratings.Submit(ctx, RatingInput{BrokerID: apitest.BrokerRavi, Rating: 6})
	assert.Equal(t, "Rating must be at most 5", err.Error())

	r, err := f.client.Ratings.Submit(ctx, RatingInput{BrokerID: apitest.BrokerRavi, Rating: 5, Review: "Great follow up"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", r.Rater.Label())

	summary, err := f.client.Ratings.ForBroker(ctx, apitest.BrokerRavi)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)
}
