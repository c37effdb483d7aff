// ABOUTME: Route handlers for the fake backend
// ABOUTME: Mirrors the backend's envelope, pagination and lead transfer rules closely enough for client tests
package apitest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harperreed/adda/models"
)

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func atoiDefault(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func paginate[T any](items []T, r *http.Request) models.Page[T] {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	limit := atoiDefault(q.Get("limit"), 10)

	total := len(items)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return models.Page[T]{
		Items: append([]T{}, items[start:end]...),
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Auth

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
	}
	if err := readJSON(r, &in); err != nil || len(in.Phone) != 10 {
		writeError(w, http.StatusBadRequest, "Please provide a valid phone number")
		return
	}

	s.mu.Lock()
	_, known := s.brokerByPhone(in.Phone)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "OTP sent successfully",
		"isNewUser": !known,
	})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.OTP != s.OTP {
		writeError(w, http.StatusBadRequest, "Invalid OTP")
		return
	}

	b, ok := s.brokerByPhone(in.Phone)
	if !ok {
		b = &models.Broker{ID: s.nextID("b"), Phone: in.Phone, CreatedAt: time.Now()}
		s.brokers = append(s.brokers, b)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   s.mint(b.ID),
		"user": models.User{
			ID:                b.ID,
			Phone:             b.Phone,
			Name:              b.Name,
			Email:             b.Email,
			Role:              "broker",
			IsProfileComplete: b.IsProfileComplete,
		},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.brokerByPhone(in.Phone); ok {
		writeError(w, http.StatusConflict, "An account with this phone number already exists")
		return
	}
	s.brokers = append(s.brokers, &models.Broker{ID: s.nextID("b"), Name: in.Name, Email: in.Email, Phone: in.Phone, CreatedAt: time.Now()})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "OTP sent successfully",
		"isNewUser": true,
	})
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	s.mu.Lock()
	defer s.mu.Unlock()

	exists := false
	for _, b := range s.brokers {
		if strings.EqualFold(b.Email, email) {
			exists = true
		}
	}
	writeData(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Expected multipart form data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.broker(caller(r))
	if b == nil {
		writeError(w, http.StatusNotFound, "Broker not found")
		return
	}

	b.Name = r.FormValue("name")
	b.Email = r.FormValue("email")
	b.FirmName = r.FormValue("firmName")
	b.LicenseNumber = r.FormValue("licenseNumber")
	b.Address = r.FormValue("address")
	b.City = r.FormValue("city")
	b.State = r.FormValue("state")
	b.YearsOfExperience, _ = strconv.Atoi(r.FormValue("yearsOfExperience"))

	var regions []string
	if err := json.Unmarshal([]byte(r.FormValue("regions")), &regions); err != nil {
		writeError(w, http.StatusBadRequest, "Regions must be a JSON array")
		return
	}
	b.Regions = nil
	for _, id := range regions {
		b.Regions = append(b.Regions, *s.regionRef(id))
	}
	if files := r.MultipartForm.File["brokerImage"]; len(files) > 0 {
		b.BrokerImage = "/uploads/" + files[0].Filename
	}
	b.IsProfileComplete = true

	writeData(w, http.StatusOK, b)
}

// Brokers

func (s *Server) handleListBrokers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Broker
	for _, b := range s.brokers {
		if search := q.Get("search"); search != "" && !contains(b.Name, search) && !contains(b.FirmName, search) {
			continue
		}
		if city := q.Get("city"); city != "" && !strings.EqualFold(b.City, city) {
			continue
		}
		if region := q.Get("regionId"); region != "" && !hasRegion(b, region) {
			continue
		}
		out = append(out, *b)
	}
	writeData(w, http.StatusOK, paginate(out, r))
}

func hasRegion(b *models.Broker, id string) bool {
	for _, ref := range b.Regions {
		if ref.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) handleGetBroker(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.broker(chi.URLParam(r, "id"))
	if b == nil {
		writeError(w, http.StatusNotFound, "Broker not found")
		return
	}
	writeData(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBroker(w http.ResponseWriter, r *http.Request) {
	var in map[string]json.RawMessage
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if id != caller(r) {
		writeError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}
	b := s.broker(id)
	if b == nil {
		writeError(w, http.StatusNotFound, "Broker not found")
		return
	}

	fields := map[string]*string{
		"name":     &b.Name,
		"email":    &b.Email,
		"firmName": &b.FirmName,
		"address":  &b.Address,
		"city":     &b.City,
		"state":    &b.State,
	}
	for key, dst := range fields {
		if raw, ok := in[key]; ok {
			_ = json.Unmarshal(raw, dst)
		}
	}
	if raw, ok := in["yearsOfExperience"]; ok {
		_ = json.Unmarshal(raw, &b.YearsOfExperience)
	}
	if raw, ok := in["specializations"]; ok {
		_ = json.Unmarshal(raw, &b.Specializations)
	}
	writeData(w, http.StatusOK, b)
}

func (s *Server) broker(id string) *models.Broker {
	for _, b := range s.brokers {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *Server) brokerByPhone(phone string) (*models.Broker, bool) {
	for _, b := range s.brokers {
		if b.Phone == phone {
			return b, true
		}
	}
	return nil, false
}

// Regions

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Region{}
	for _, reg := range s.regions {
		if state := q.Get("state"); state != "" && !strings.EqualFold(reg.State, state) {
			continue
		}
		if city := q.Get("city"); city != "" && !strings.EqualFold(reg.City, city) {
			continue
		}
		if search := q.Get("search"); search != "" && !contains(reg.Name, search) {
			continue
		}
		out = append(out, *reg)
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleNearestRegions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("latitude"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("longitude"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}
	limit := atoiDefault(q.Get("limit"), 5)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Region{}
	for _, reg := range s.regions {
		if reg.CenterLocation == nil {
			continue
		}
		rlat, rlng, ok := reg.CenterLocation.LatLng()
		if !ok {
			continue
		}
		cp := *reg
		cp.DistanceKm = math.Round(haversineKm(lat, lng, rlat, rlng)*10) / 10
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	writeData(w, http.StatusOK, out)
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (s *Server) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reg := range s.regions {
		if reg.ID == chi.URLParam(r, "id") {
			writeData(w, http.StatusOK, reg)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Region not found")
}

// Leads

func (s *Server) filterLeads(r *http.Request, keep func(*models.Lead) bool) []models.Lead {
	q := r.URL.Query()
	out := []models.Lead{}
	for _, l := range s.leads {
		if !keep(l) {
			continue
		}
		if v := q.Get("createdBy"); v != "" && (l.CreatedBy == nil || l.CreatedBy.ID != v) {
			continue
		}
		if v := q.Get("status"); v != "" && l.Status != v {
			continue
		}
		if v := q.Get("requirement"); v != "" && l.Requirement != v {
			continue
		}
		if v := q.Get("propertyType"); v != "" && l.PropertyType != v {
			continue
		}
		if v := q.Get("regionId"); v != "" && (l.PrimaryRegion == nil || l.PrimaryRegion.ID != v) {
			continue
		}
		if v := q.Get("search"); v != "" && !contains(l.CustomerName, v) && !strings.Contains(l.CustomerPhone, v) {
			continue
		}
		out = append(out, *l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, http.StatusOK, paginate(s.filterLeads(r, func(*models.Lead) bool { return true }), r))
}

func (s *Server) handleTransferredLeads(w http.ResponseWriter, r *http.Request) {
	me := caller(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	myRegions := map[string]bool{}
	if b := s.broker(me); b != nil {
		for _, ref := range b.Regions {
			myRegions[ref.ID] = true
		}
	}

	leads := s.filterLeads(r, func(l *models.Lead) bool {
		for _, t := range l.Transfers {
			switch {
			case t.ToBroker != nil && t.ToBroker.ID == me:
				return true
			case t.ShareType == models.ShareAll && (t.FromBroker == nil || t.FromBroker.ID != me):
				return true
			case t.ShareType == models.ShareRegion && t.Region != nil && myRegions[t.Region.ID]:
				return true
			}
		}
		return false
	})
	writeData(w, http.StatusOK, paginate(leads, r))
}

func (s *Server) handleLeadMetrics(w http.ResponseWriter, r *http.Request) {
	broker := r.URL.Query().Get("createdBy")
	if broker == "" {
		broker = caller(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.LeadMetrics
	for _, l := range s.leads {
		mine := l.CreatedBy != nil && l.CreatedBy.ID == broker
		if mine {
			m.TotalLeads++
			if l.Status == models.LeadStatusNew {
				m.NewLeads++
			}
			if l.Status == models.LeadStatusClosed {
				m.ClosedLeads++
			}
		}
		for _, t := range l.Transfers {
			if t.FromBroker != nil && t.FromBroker.ID == broker {
				m.TransfersByMe++
			}
			if t.ToBroker != nil && t.ToBroker.ID == broker {
				m.TransfersToMe++
			}
		}
	}
	writeData(w, http.StatusOK, m)
}

func (s *Server) lead(id string) (int, *models.Lead) {
	for i, l := range s.leads {
		if l.ID == id {
			return i, l
		}
	}
	return -1, nil
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, l := s.lead(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeData(w, http.StatusOK, l)
}

type leadBody struct {
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   string  `json:"customerEmail"`
	Requirement     string  `json:"requirement"`
	PropertyType    string  `json:"propertyType"`
	Budget          float64 `json:"budget"`
	PrimaryRegion   string  `json:"primaryRegion"`
	SecondaryRegion string  `json:"secondaryRegion"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`
	CreatedBy       string  `json:"createdBy"`
}

func (s *Server) applyLead(l *models.Lead, in leadBody) {
	l.CustomerName = in.CustomerName
	l.CustomerPhone = in.CustomerPhone
	l.CustomerEmail = in.CustomerEmail
	l.Requirement = in.Requirement
	l.PropertyType = in.PropertyType
	l.Budget = in.Budget
	l.PrimaryRegion = s.regionRef(in.PrimaryRegion)
	if in.SecondaryRegion != "" {
		l.SecondaryRegion = s.regionRef(in.SecondaryRegion)
	}
	if in.Status != "" {
		l.Status = in.Status
	}
	l.Notes = in.Notes
	l.UpdatedAt = time.Now()
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in leadBody
	if err := readJSON(r, &in); err != nil || in.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "Customer name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner := in.CreatedBy
	if owner == "" {
		owner = caller(r)
	}
	l := &models.Lead{ID: s.nextID("l"), Status: models.LeadStatusNew, CreatedBy: s.brokerRef(owner), CreatedAt: time.Now()}
	s.applyLead(l, in)
	s.leads = append(s.leads, l)
	writeData(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var in leadBody
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, l := s.lead(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	s.applyLead(l, in)
	writeData(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, l := s.lead(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	if l.CreatedBy == nil || l.CreatedBy.ID != caller(r) {
		writeError(w, http.StatusForbidden, "Only the creator can delete this lead")
		return
	}
	s.leads = append(s.leads[:i], s.leads[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Lead deleted"})
}

func (s *Server) handleShareLead(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ShareType  string   `json:"shareType"`
		ToBrokers  []string `json:"toBrokers"`
		Region     string   `json:"region"`
		Notes      string   `json:"notes"`
		FromBroker string   `json:"fromBroker"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, l := s.lead(chi.URLParam(r, "id"))
	if l == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}

	from := in.FromBroker
	if from == "" {
		from = caller(r)
	}
	now := time.Now()
	base := models.Transfer{FromBroker: s.brokerRef(from), ShareType: in.ShareType, Notes: in.Notes, CreatedAt: now}

	switch in.ShareType {
	case models.ShareIndividual:
		if len(in.ToBrokers) == 0 {
			writeError(w, http.StatusBadRequest, "Select at least one broker")
			return
		}
		for _, to := range in.ToBrokers {
			t := base
			t.ToBroker = s.brokerRef(to)
			l.Transfers = append(l.Transfers, t)
			s.notify(to, l, now)
		}
	case models.ShareRegion:
		t := base
		t.Region = s.regionRef(in.Region)
		l.Transfers = append(l.Transfers, t)
		for _, b := range s.brokers {
			if b.ID != from && hasRegion(b, in.Region) {
				s.notify(b.ID, l, now)
			}
		}
	case models.ShareAll:
		l.Transfers = append(l.Transfers, base)
		for _, b := range s.brokers {
			if b.ID != from {
				s.notify(b.ID, l, now)
			}
		}
	default:
		writeError(w, http.StatusBadRequest, "Invalid share type")
		return
	}
	l.UpdatedAt = now
	writeData(w, http.StatusOK, l)
}

func (s *Server) notify(brokerID string, l *models.Lead, at time.Time) {
	n := &models.Notification{
		ID:          s.nextID("n"),
		Title:       "Lead shared with you",
		Message:     fmt.Sprintf("%s was shared with you", l.CustomerName),
		Type:        "lead_transfer",
		RelatedLead: &models.Ref{ID: l.ID},
		CreatedAt:   at,
	}
	s.notifications[brokerID] = append([]*models.Notification{n}, s.notifications[brokerID]...)
}

// Properties

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Property{}
	for _, p := range s.properties {
		if v := q.Get("broker"); v != "" && (p.Broker == nil || p.Broker.ID != v) {
			continue
		}
		if v := q.Get("status"); v != "" && p.Status != v {
			continue
		}
		if v := q.Get("propertyType"); v != "" && p.PropertyType != v {
			continue
		}
		if v := q.Get("regionId"); v != "" && (p.Region == nil || p.Region.ID != v) {
			continue
		}
		if v := q.Get("city"); v != "" && !strings.EqualFold(p.City, v) {
			continue
		}
		if v := q.Get("search"); v != "" && !contains(p.Title, v) {
			continue
		}
		if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil && p.Price < v {
			continue
		}
		if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil && p.Price > v {
			continue
		}
		out = append(out, *p)
	}
	writeData(w, http.StatusOK, paginate(out, r))
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.properties {
		if p.ID == chi.URLParam(r, "id") {
			writeData(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Property not found")
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Expected multipart form data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	size, _ := strconv.ParseFloat(r.FormValue("propertySize"), 64)
	beds, _ := strconv.Atoi(r.FormValue("bedrooms"))
	baths, _ := strconv.Atoi(r.FormValue("bathrooms"))

	owner := r.FormValue("broker")
	if owner == "" {
		owner = caller(r)
	}

	p := &models.Property{
		ID:           s.nextID("p"),
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		PropertyType: r.FormValue("propertyType"),
		Subtype:      r.FormValue("propertySubType"),
		Price:        price,
		Size:         size,
		SizeUnit:     r.FormValue("propertySizeUnit"),
		Bedrooms:     beds,
		Bathrooms:    baths,
		Address:      r.FormValue("address"),
		City:         r.FormValue("city"),
		Region:       s.regionRef(r.FormValue("region")),
		Status:       models.PropertyStatusActive,
		Broker:       s.brokerRef(owner),
		CreatedAt:    time.Now(),
	}
	if raw := r.FormValue("amenities"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &p.Amenities)
	}
	for _, fh := range r.MultipartForm.File["images"] {
		p.Images = append(p.Images, "/uploads/"+fh.Filename)
	}

	s.properties = append(s.properties, p)
	writeData(w, http.StatusCreated, p)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.properties {
		if p.ID == chi.URLParam(r, "id") {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Property deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Property not found")
}

// Notifications

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Notification{}
	for _, n := range s.notifications[caller(r)] {
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	writeData(w, http.StatusOK, paginate(out, r))
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications[caller(r)] {
		if !n.IsRead {
			count++
		}
	}
	writeData(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[caller(r)] {
		if n.ID == chi.URLParam(r, "id") {
			n.IsRead = true
			writeData(w, http.StatusOK, n)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleReadAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[caller(r)] {
		n.IsRead = true
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "All notifications marked as read"})
}

// Ratings

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Broker string `json:"broker"`
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := readJSON(r, &in); err != nil || in.Rating < 1 || in.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Broker == caller(r) {
		writeError(w, http.StatusBadRequest, "You cannot rate yourself")
		return
	}
	rt := &models.Rating{
		ID:        s.nextID("rt"),
		Broker:    s.brokerRef(in.Broker),
		Rater:     s.brokerRef(caller(r)),
		Rating:    in.Rating,
		Review:    in.Review,
		CreatedAt: time.Now(),
	}
	s.ratings = append(s.ratings, rt)
	writeData(w, http.StatusCreated, rt)
}

func (s *Server) handleBrokerRatings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	ratings := []models.Rating{}
	sum := 0
	for _, rt := range s.ratings {
		if rt.Broker != nil && rt.Broker.ID == id {
			ratings = append(ratings, *rt)
			sum += rt.Rating
		}
	}
	avg := 0.0
	if len(ratings) > 0 {
		avg = float64(sum) / float64(len(ratings))
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"averageRating": avg,
		"totalRatings":  len(ratings),
		"ratings":       ratings,
	})
}
