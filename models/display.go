// ABOUTME: Display helpers shared by every front end
// ABOUTME: Formats rupee amounts in Indian notation and flattens properties and leads for rendering
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// FormatINR renders an amount the way Indian listings do: ₹1.25 Cr, ₹45.5 L,
// and Indian digit grouping (₹12,34,567 style) below one lakh.
func FormatINR(amount float64) string {
	if amount < 0 {
		return "-" + FormatINR(-amount)
	}

	rupees := math.Round(amount)
	if rupees < lakh {
		return "₹" + groupIndian(int64(rupees))
	}

	// Pick the unit from the rounded figure so 99.999 L shows as 1 Cr.
	lakhs := math.Round(rupees/lakh*100) / 100
	if lakhs < 100 {
		return "₹" + trimDecimals(lakhs) + " L"
	}
	return "₹" + trimDecimals(math.Round(rupees/crore*100)/100) + " Cr"
}

func trimDecimals(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// PropertyView is the flattened, display-ready shape of a Property.
type PropertyView struct {
	ID       string
	Title    string
	Price    string
	Type     string
	Size     string
	Location string
	Status   string
	Broker   string
	Image    string
}

// Display converts the raw API shape into the shape every screen renders.
func (p *Property) Display() PropertyView {
	view := PropertyView{
		ID:     p.ID,
		Title:  p.Title,
		Price:  FormatINR(p.Price),
		Type:   p.PropertyType,
		Status: p.Status,
	}

	if p.Subtype != "" {
		view.Type = p.PropertyType + " / " + p.Subtype
	}

	if p.Size > 0 {
		unit := p.SizeUnit
		if unit == "" {
			unit = "sq ft"
		}
		view.Size = fmt.Sprintf("%s %s", trimDecimals(p.Size), unit)
	}

	var loc []string
	if p.Region != nil && p.Region.Name != "" {
		loc = append(loc, p.Region.Name)
	}
	if p.City != "" {
		loc = append(loc, p.City)
	}
	view.Location = strings.Join(loc, ", ")

	if p.Broker != nil {
		view.Broker = p.Broker.Label()
	}
	if len(p.Images) > 0 {
		view.Image = p.Images[0]
	}
	if view.Status == "" {
		view.Status = PropertyStatusActive
	}

	return view
}

// RegionLabel returns "Primary / Secondary" region names for a lead.
func (l *Lead) RegionLabel() string {
	var names []string
	if l.PrimaryRegion != nil {
		names = append(names, l.PrimaryRegion.Label())
	}
	if l.SecondaryRegion != nil {
		names = append(names, l.SecondaryRegion.Label())
	}
	return strings.Join(names, " / ")
}

// BudgetLabel formats the lead budget, or "-" when none was given.
func (l *Lead) BudgetLabel() string {
	if l.Budget <= 0 {
		return "-"
	}
	return FormatINR(l.Budget)
}

// SharedWith lists the distinct recipients of a lead's transfers.
func (l *Lead) SharedWith() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range l.Transfers {
		var label string
		switch {
		case t.ToBroker != nil:
			label = t.ToBroker.Label()
		case t.Region != nil:
			label = "region:" + t.Region.Label()
		case t.ShareType == ShareAll:
			label = "all brokers"
		}
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}
