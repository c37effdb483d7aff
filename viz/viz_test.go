package viz

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/apitest"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInClient(t *testing.T, brokerID string) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	logger := log.New(io.Discard)
	sess := session.NewManager(session.NewMemoryStore(), logger)
	require.NoError(t, sess.SaveAuthData(context.Background(), srv.Token(brokerID), apitest.PhoneAsha, brokerID))
	return api.NewClient(sess, api.WithBaseURL(srv.URL), api.WithLogger(logger)), srv
}

func TestGenerateDashboardStats(t *testing.T) {
	client, _ := loggedInClient(t, apitest.BrokerAsha)

	stats, err := GenerateDashboardStats(context.Background(), client)
	require.NoError(t, err)

	assert.Equal(t, "Asha Verma", stats.Broker)
	assert.Equal(t, models.LeadMetrics{TotalLeads: 2, NewLeads: 1, TransfersToMe: 1, TransfersByMe: 1}, stats.Metrics)
	assert.Equal(t, map[string]int{models.LeadStatusNew: 1, models.LeadStatusInProgress: 1}, stats.LeadsByState)
	assert.Equal(t, 1, stats.ActiveListings)
	assert.Equal(t, float64(15000000), stats.ListingValue)
	assert.Equal(t, 1, stats.UnreadCount)
	assert.Len(t, stats.StaleLeads, 2)
}

func TestGenerateDashboardStatsFailsFast(t *testing.T) {
	client, srv := loggedInClient(t, apitest.BrokerAsha)
	srv.Fail("GET", "/api/notifications/unread-count", 500, "boom")

	_, err := GenerateDashboardStats(context.Background(), client)
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindServer))
}

func TestBuildStatsRecentShares(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	meera := &models.Ref{ID: "b-meera", Name: "Meera Iyer"}
	transferred := []models.Lead{
		{CustomerName: "Karan Shah", Requirement: "Buy", PropertyType: "Commercial", Transfers: []models.Transfer{
			{FromBroker: meera, CreatedAt: now.Add(-48 * time.Hour)},
			{FromBroker: meera, CreatedAt: now.AddDate(0, 0, -30)},
		}},
	}
	leads := []models.Lead{
		{CustomerName: "Fresh", Status: models.LeadStatusNew, UpdatedAt: now.Add(-time.Hour)},
		{CustomerName: "Done", Status: models.LeadStatusClosed, UpdatedAt: now.AddDate(0, -2, 0)},
		{CustomerName: "Old", Status: models.LeadStatusAssigned, CreatedAt: now.AddDate(0, 0, -20)},
	}

	stats := buildStats(now, &models.Broker{Name: "Asha"}, &models.LeadMetrics{}, leads, transferred, nil, 0)

	require.Len(t, stats.RecentShares, 1)
	assert.Equal(t, "Meera Iyer shared Karan Shah (Buy Commercial)", stats.RecentShares[0].Description)
	require.Len(t, stats.StaleLeads, 1)
	assert.Equal(t, StaleLead{Customer: "Old", DaysSince: 20}, stats.StaleLeads[0])
}

func TestBuildStatsStaleBoundary(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{CustomerName: "Thirteen", Status: models.LeadStatusNew, UpdatedAt: now.AddDate(0, 0, -13)},
		{CustomerName: "Fourteen", Status: models.LeadStatusInProgress, UpdatedAt: now.AddDate(0, 0, -14)},
		{CustomerName: "Closed", Status: models.LeadStatusClosed, UpdatedAt: now.AddDate(0, 0, -30)},
		{CustomerName: "Created", Status: models.LeadStatusAssigned, CreatedAt: now.AddDate(0, 0, -20)},
	}

	stats := buildStats(now, &models.Broker{Name: "Asha"}, &models.LeadMetrics{}, leads, nil, nil, 0)
	assert.Equal(t, []StaleLead{
		{Customer: "Fourteen", DaysSince: 14},
		{Customer: "Created", DaysSince: 20},
	}, stats.StaleLeads)
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(&DashboardStats{
		Broker:         "Asha Verma",
		Metrics:        models.LeadMetrics{TotalLeads: 2, ClosedLeads: 1},
		LeadsByState:   map[string]int{models.LeadStatusNew: 2, models.LeadStatusClosed: 1},
		ActiveListings: 1,
		ListingValue:   15000000,
		UnreadCount:    3,
		StaleLeads:     []StaleLead{{Customer: "Old", DaysSince: 20}},
	})

	assert.Contains(t, out, "BROKER ADDA DASHBOARD · Asha Verma")
	assert.Contains(t, out, "New          ██████████   2")
	assert.Contains(t, out, "Closed       █████░░░░░   1")
	assert.Contains(t, out, "worth ₹1.5 Cr")
	assert.Contains(t, out, "3 unread notifications")
	assert.Contains(t, out, "1 open leads")
	assert.NotContains(t, out, "SHARED WITH YOU")
}

func TestTransferGraph(t *testing.T) {
	asha := &models.Ref{ID: "b-asha", Name: "Asha Verma"}
	ravi := &models.Ref{ID: "b-ravi", Name: "Ravi Kumar"}
	leads := []models.Lead{
		{ID: "l-1", CustomerName: "John Mathew", Transfers: []models.Transfer{
			{FromBroker: asha, ToBroker: ravi, ShareType: models.ShareIndividual},
			{FromBroker: asha, Region: &models.Ref{ID: "r-1", Name: "Koramangala"}, ShareType: models.ShareRegion},
		}},
		{ID: "l-2", CustomerName: "Priya Nair", Transfers: []models.Transfer{
			{FromBroker: ravi, ShareType: models.ShareAll},
			{ShareType: models.ShareAll},
		}},
	}

	g := NewTransferGraph(leads)
	assert.Equal(t, 3, g.Edges())

	dot, err := g.Generate(context.Background())
	require.NoError(t, err)
	for _, want := range []string{"Lead Transfers", "Asha Verma", "Ravi Kumar", "Koramangala", "All brokers", "John Mathew", "Priya Nair"} {
		assert.Contains(t, dot, want)
	}
}
