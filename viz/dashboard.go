// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Gathers a broker's leads, listings and notifications into an ASCII overview
package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	Broker string

	Metrics      models.LeadMetrics
	LeadsByState map[string]int

	ActiveListings int
	ListingValue   float64
	UnreadCount    int

	RecentShares []ActivityItem
	StaleLeads   []StaleLead
}

type ActivityItem struct {
	Date        time.Time
	Description string
}

type StaleLead struct {
	Customer  string
	DaysSince int
}

const (
	dashboardPageSize = 100
	staleAfterDays    = 14
)

// GenerateDashboardStats fetches everything the dashboard shows concurrently.
func GenerateDashboardStats(ctx context.Context, client *api.Client) (*DashboardStats, error) {
	brokerID, err := client.Session().GetBrokerID(ctx)
	if err != nil {
		return nil, err
	}

	var (
		me          *models.Broker
		metrics     *models.LeadMetrics
		leads       *models.Page[models.Lead]
		transferred *models.Page[models.Lead]
		listings    *models.Page[models.Property]
		unread      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		me, err = client.Brokers.Me(gctx)
		return err
	})
	g.Go(func() (err error) {
		metrics, err = client.Leads.Metrics(gctx, brokerID)
		return err
	})
	g.Go(func() (err error) {
		leads, err = client.Leads.List(gctx, api.LeadFilter{
			Paging:    api.Paging{Limit: dashboardPageSize},
			CreatedBy: brokerID,
		})
		return err
	})
	g.Go(func() (err error) {
		transferred, err = client.Leads.Transferred(gctx, api.LeadFilter{Paging: api.Paging{Limit: dashboardPageSize}})
		return err
	})
	g.Go(func() (err error) {
		listings, err = client.Properties.List(gctx, api.PropertyFilter{
			Paging:   api.Paging{Limit: dashboardPageSize},
			BrokerID: brokerID,
			Status:   models.PropertyStatusActive,
		})
		return err
	})
	g.Go(func() (err error) {
		unread, err = client.Notifications.UnreadCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildStats(time.Now(), me, metrics, leads.Items, transferred.Items, listings.Items, unread), nil
}

func buildStats(now time.Time, me *models.Broker, metrics *models.LeadMetrics, leads, transferred []models.Lead, listings []models.Property, unread int) *DashboardStats {
	stats := &DashboardStats{
		Broker:         me.Name,
		Metrics:        *metrics,
		LeadsByState:   make(map[string]int),
		ActiveListings: len(listings),
		UnreadCount:    unread,
	}

	for _, p := range listings {
		stats.ListingValue += p.Price
	}

	for _, l := range leads {
		stats.LeadsByState[l.Status]++

		open := l.Status != models.LeadStatusClosed && l.Status != models.LeadStatusRejected
		last := l.UpdatedAt
		if last.IsZero() {
			last = l.CreatedAt
		}
		if days := int(now.Sub(last).Hours() / 24); open && days >= staleAfterDays {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{Customer: l.CustomerName, DaysSince: days})
		}
	}

	weekAgo := now.AddDate(0, 0, -7)
	for _, l := range transferred {
		for _, t := range l.Transfers {
			if t.CreatedAt.Before(weekAgo) || t.FromBroker == nil {
				continue
			}
			stats.RecentShares = append(stats.RecentShares, ActivityItem{
				Date:        t.CreatedAt,
				Description: fmt.Sprintf("%s shared %s (%s %s)", t.FromBroker.Label(), l.CustomerName, l.Requirement, l.PropertyType),
			})
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  BROKER ADDA DASHBOARD")
	if stats.Broker != "" {
		out.WriteString(" · " + stats.Broker)
	}
	out.WriteString("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("LEADS BY STATUS\n")
	renderStatuses(&out, stats.LeadsByState)
	out.WriteString("\n")

	m := stats.Metrics
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📋 %d leads  ✅ %d closed  📤 %d shared  📥 %d received\n",
		m.TotalLeads, m.ClosedLeads, m.TransfersByMe, m.TransfersToMe))
	out.WriteString(fmt.Sprintf("  🏠 %d active listings worth %s\n", stats.ActiveListings, models.FormatINR(stats.ListingValue)))
	if stats.UnreadCount > 0 {
		out.WriteString(fmt.Sprintf("  🔔 %d unread notifications\n", stats.UnreadCount))
	}
	out.WriteString("\n")

	if len(stats.RecentShares) > 0 {
		out.WriteString("SHARED WITH YOU THIS WEEK\n")
		for _, a := range stats.RecentShares {
			out.WriteString(fmt.Sprintf("  %s  %s\n", a.Date.Format("Jan 02"), a.Description))
		}
		out.WriteString("\n")
	}

	if len(stats.StaleLeads) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d open leads - no update in %d+ days\n", len(stats.StaleLeads), staleAfterDays))
	}

	return out.String()
}

func renderStatuses(out *strings.Builder, counts map[string]int) {
	statuses := []string{
		models.LeadStatusNew,
		models.LeadStatusAssigned,
		models.LeadStatusInProgress,
		models.LeadStatusClosed,
		models.LeadStatusRejected,
	}

	maxCount := 1
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	for _, status := range statuses {
		count, ok := counts[status]
		if !ok {
			continue
		}
		barLength := (count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-12s %s  %2d\n", status, bar, count))
	}
}
