// ABOUTME: In-process fake of the Broker Adda backend for tests
// ABOUTME: Serves the REST surface over httptest with chi, mints JWTs and records every request
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/adda/models"
)

// DefaultOTP is the only OTP the fake accepts unless OTP is changed.
const DefaultOTP = "123456"

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend. Zero-config: New seeds brokers, regions, leads,
// properties, notifications and ratings.
type Server struct {
	*httptest.Server

	OTP string

	mu            sync.Mutex
	secret        []byte
	requests      []Request
	failures      map[string]failure
	latency       map[string]time.Duration
	seq           int
	brokers       []*models.Broker
	regions       []*models.Region
	leads         []*models.Lead
	properties    []*models.Property
	notifications map[string][]*models.Notification
	ratings       []*models.Rating
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		OTP:      DefaultOTP,
		secret:   []byte("apitest-secret"),
		failures: make(map[string]failure),
		latency:  make(map[string]time.Duration),
	}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleSendOTP)
		r.Post("/resend-otp", s.handleSendOTP)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.Post("/register", s.handleRegister)
		r.Get("/check-email", s.handleCheckEmail)
		r.With(s.requireAuth).Post("/complete-profile", s.handleCompleteProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/api/brokers", func(r chi.Router) {
			r.Get("/", s.handleListBrokers)
			r.Get("/{id}", s.handleGetBroker)
			r.Patch("/{id}", s.handleUpdateBroker)
		})

		r.Route("/api/regions", func(r chi.Router) {
			r.Get("/", s.handleListRegions)
			r.Get("/nearest", s.handleNearestRegions)
			r.Get("/{id}", s.handleGetRegion)
		})

		r.Route("/api/leads", func(r chi.Router) {
			r.Get("/", s.handleListLeads)
			r.Post("/", s.handleCreateLead)
			r.Get("/transferred", s.handleTransferredLeads)
			r.Get("/metrics", s.handleLeadMetrics)
			r.Get("/{id}", s.handleGetLead)
			r.Put("/{id}", s.handleUpdateLead)
			r.Delete("/{id}", s.handleDeleteLead)
			r.Post("/{id}/transfer-and-notes", s.handleShareLead)
		})

		r.Route("/api/properties", func(r chi.Router) {
			r.Get("/", s.handleListProperties)
			r.Post("/", s.handleCreateProperty)
			r.Get("/{id}", s.handleGetProperty)
			r.Delete("/{id}", s.handleDeleteProperty)
		})

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Get("/unread-count", s.handleUnreadCount)
			r.Patch("/read-all", s.handleReadAll)
			r.Patch("/{id}/read", s.handleMarkRead)
		})

		r.Route("/api/ratings", func(r chi.Router) {
			r.Post("/", s.handleSubmitRating)
			r.Get("/broker/{id}", s.handleBrokerRatings)
		})
	})

	return r
}

// Token mints a valid token for brokerID.
func (s *Server) Token(brokerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mint(brokerID)
}

func (s *Server) mint(brokerID string) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   brokerID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: failed to sign token: %v", err))
	}
	return tok
}

// RevokeTokens invalidates every token minted so far, so the next
// authenticated request gets a 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(fmt.Sprintf("apitest-secret-%d", time.Now().UnixNano()))
}

// Fail makes every request to method+path return status with message.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Slow delays responses to method+path by d, or until the client gives up.
func (s *Server) Slow(method, path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency[method+" "+path] = d
}

// Clear removes configured failures and latency.
func (s *Server) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
	s.latency = make(map[string]time.Duration)
}

// Requests returns every recorded request, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns recorded requests whose path equals path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the newest recorded request, if any.
func (s *Server) LastRequest() (Request, bool) {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return Request{}, false
	}
	return reqs[len(reqs)-1], true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimRight(r.URL.Path, "/")

		s.mu.Lock()
		f, failing := s.failures[key]
		delay := s.latency[key]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func caller(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	payload := map[string]interface{}{"success": false}
	if message != "" {
		payload["message"] = message
	}
	writeJSON(w, status, payload)
}

func readJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
