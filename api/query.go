// ABOUTME: Query string construction for list endpoints
// ABOUTME: Filters encode to url.Values, skipping unset fields
package api

import (
	"net/url"
	"strconv"
)

// params wraps url.Values with setters that skip zero values.
type params struct {
	url.Values
}

func newParams() params {
	return params{Values: url.Values{}}
}

func (p params) str(key, v string) params {
	if v != "" {
		p.Set(key, v)
	}
	return p
}

func (p params) num(key string, v int) params {
	if v > 0 {
		p.Set(key, strconv.Itoa(v))
	}
	return p
}

func (p params) float(key string, v float64) params {
	if v != 0 {
		p.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return p
}

func (p params) flag(key string, v bool) params {
	if v {
		p.Set(key, "true")
	}
	return p
}

// Paging is embedded in every list filter.
type Paging struct {
	Page  int
	Limit int
}

func (pg Paging) apply(p params) params {
	return p.num("page", pg.Page).num("limit", pg.Limit)
}

type LeadFilter struct {
	Paging
	CreatedBy    string
	Status       string
	Requirement  string
	PropertyType string
	RegionID     string
	Search       string
	BudgetMin    float64
	BudgetMax    float64
	SortBy       string
	SortOrder    string
}

func (f LeadFilter) values() url.Values {
	p := newParams().
		str("createdBy", f.CreatedBy).
		str("status", f.Status).
		str("requirement", f.Requirement).
		str("propertyType", f.PropertyType).
		str("regionId", f.RegionID).
		str("search", f.Search).
		float("budgetMin", f.BudgetMin).
		float("budgetMax", f.BudgetMax).
		str("sortBy", f.SortBy).
		str("sortOrder", f.SortOrder)
	return f.apply(p).Values
}

type PropertyFilter struct {
	Paging
	BrokerID     string
	Status       string
	PropertyType string
	RegionID     string
	City         string
	Search       string
	MinPrice     float64
	MaxPrice     float64
}

func (f PropertyFilter) values() url.Values {
	p := newParams().
		str("broker", f.BrokerID).
		str("status", f.Status).
		str("propertyType", f.PropertyType).
		str("regionId", f.RegionID).
		str("city", f.City).
		str("search", f.Search).
		float("minPrice", f.MinPrice).
		float("maxPrice", f.MaxPrice)
	return f.apply(p).Values
}

type BrokerFilter struct {
	Paging
	RegionID string
	City     string
	Search   string
}

func (f BrokerFilter) values() url.Values {
	p := newParams().
		str("regionId", f.RegionID).
		str("city", f.City).
		str("search", f.Search)
	return f.apply(p).Values
}

type RegionFilter struct {
	State  string
	City   string
	Search string
}

func (f RegionFilter) values() url.Values {
	return newParams().
		str("state", f.State).
		str("city", f.City).
		str("search", f.Search).Values
}

type NotificationFilter struct {
	Paging
	UnreadOnly bool
}

func (f NotificationFilter) values() url.Values {
	return f.apply(newParams().flag("unreadOnly", f.UnreadOnly)).Values
}
