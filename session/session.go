// ABOUTME: Session lifecycle for the authenticated API client
// ABOUTME: Persists auth data through a Store and publishes login, logout and expiry events
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/adda/models"
	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"
)

// Storage keys.
const (
	KeyToken    = "token"
	KeyPhone    = "phone"
	KeyBrokerID = "brokerId"
	KeyUserID   = "userId"
	KeyDeviceID = "deviceId"
)

// ErrNoToken is returned by the token source when nobody is logged in.
var ErrNoToken = errors.New("no session token")

// authKeys are removed on logout and expiry. The device id survives.
var authKeys = []string{KeyToken, KeyPhone, KeyBrokerID, KeyUserID}

// Store is key-value persistence for session data. Get returns "" and a nil
// error for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// EventKind identifies a session transition.
type EventKind int

const (
	LoggedIn EventKind = iota
	LoggedOut
	Expired
)

func (k EventKind) String() string {
	switch k {
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Event is published to subscribers on every session transition.
type Event struct {
	Kind    EventKind
	Session models.Session
	Reason  string
	At      time.Time
}

const subscriberBuffer = 8

// Manager owns the session for one running application. It is safe for
// concurrent use.
type Manager struct {
	store  Store
	logger *log.Logger

	mu          sync.Mutex
	live        bool
	generation  uint64
	subscribers []chan Event
}

// NewManager creates a manager over store. The session starts live: whatever is
// already persisted is treated as the current login generation.
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		store:  store,
		logger: logger.WithPrefix("session"),
		live:   true,
	}
}

// Subscribe returns a channel receiving every future event. Slow subscribers
// miss events rather than block the publisher.
func (m *Manager) Subscribe() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (m *Manager) Unsubscribe(ch <-chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// publish must be called with m.mu held.
func (m *Manager) publish(ev Event) {
	ev.At = time.Now()
	for _, sub := range m.subscribers {
		select {
		case sub <- ev:
		default:
			m.logger.Warn("dropping session event for slow subscriber", "event", ev.Kind)
		}
	}
}

// GetToken returns the persisted bearer token, or "" when logged out.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyToken)
}

// GetUserID returns the persisted user id.
func (m *Manager) GetUserID(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyUserID)
}

// GetBrokerID returns the persisted broker id.
func (m *Manager) GetBrokerID(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyBrokerID)
}

// Load reads the full persisted session.
func (m *Manager) Load(ctx context.Context) (models.Session, error) {
	var s models.Session
	fields := []struct {
		key string
		dst *string
	}{
		{KeyToken, &s.Token},
		{KeyPhone, &s.Phone},
		{KeyBrokerID, &s.BrokerID},
		{KeyUserID, &s.UserID},
	}
	for _, f := range fields {
		v, err := m.store.Get(ctx, f.key)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to read %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return s, nil
}

// SaveAuthData persists token, phone and broker id as a new login generation.
func (m *Manager) SaveAuthData(ctx context.Context, token, phone, brokerID string) error {
	return m.Save(ctx, models.Session{Token: token, Phone: phone, BrokerID: brokerID, UserID: brokerID})
}

// Save persists s and publishes LoggedIn once every key is written.
func (m *Manager) Save(ctx context.Context, s models.Session) error {
	if s.Token == "" {
		return fmt.Errorf("cannot save session without token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := [][2]string{
		{KeyToken, s.Token},
		{KeyPhone, s.Phone},
		{KeyBrokerID, s.BrokerID},
		{KeyUserID, s.UserID},
	}
	for _, p := range pairs {
		if err := m.store.Set(ctx, p[0], p[1]); err != nil {
			// A partial session would start the next process logged in
			// without a broker id.
			if derr := m.store.Delete(ctx, authKeys...); derr != nil {
				m.logger.Error("failed to roll back partial session", "err", derr)
			}
			m.live = false
			return fmt.Errorf("failed to save %s: %w", p[0], err)
		}
	}

	m.live = true
	m.generation++
	m.publish(Event{Kind: LoggedIn, Session: s})
	return nil
}

// ClearAuthData removes all persisted auth keys without publishing.
func (m *Manager) ClearAuthData(ctx context.Context) error {
	if err := m.store.Delete(ctx, authKeys...); err != nil {
		return fmt.Errorf("failed to clear auth data: %w", err)
	}
	return nil
}

// Logout is a user-initiated teardown.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ClearAuthData(ctx); err != nil {
		return err
	}
	m.live = false
	m.publish(Event{Kind: LoggedOut})
	return nil
}

// Expire tears the session down after the server rejected the token of login
// generation gen. Only the first call for the current generation clears
// storage and publishes Expired; calls for an older generation or repeats
// return false.
func (m *Manager) Expire(ctx context.Context, gen uint64, reason string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.live || gen != m.generation {
		m.logger.Debug("ignoring stale expiry", "reason", reason, "generation", gen, "current", m.generation)
		return false
	}
	m.live = false

	if err := m.ClearAuthData(ctx); err != nil {
		m.logger.Error("failed to clear expired session", "err", err)
	}
	m.logger.Info("session expired", "reason", reason, "generation", m.generation)
	m.publish(Event{Kind: Expired, Reason: reason})
	return true
}

// Generation counts successful logins since the manager was created.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// DeviceID returns the install's device id, generating and persisting one on
// first use.
func (m *Manager) DeviceID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.store.Get(ctx, KeyDeviceID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id = NewDeviceID()
	if err := m.store.Set(ctx, KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to save device id: %w", err)
	}
	return id, nil
}

// NewDeviceID generates a ULID for device identification.
func NewDeviceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// TokenSource adapts the manager to oauth2 so callers can format the header
// with oauth2.Token.SetAuthHeader.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, m: m}
}

type tokenSource struct {
	ctx context.Context
	m   *Manager
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	tok, _, err := ts.m.RequestToken(ts.ctx)
	return tok, err
}

// RequestToken returns the stored token together with the login generation
// it belongs to, read atomically with respect to Save.
func (m *Manager) RequestToken(ctx context.Context) (*oauth2.Token, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return nil, m.generation, err
	}
	if raw == "" {
		return nil, m.generation, ErrNoToken
	}

	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := TokenExpiry(raw); ok {
		tok.Expiry = exp
	}
	return tok, m.generation, nil
}

type generationKey struct{}

// WithGeneration records the login generation a request was sent under.
func WithGeneration(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, generationKey{}, gen)
}

// GenerationFrom returns the generation stored by WithGeneration.
func GenerationFrom(ctx context.Context) (uint64, bool) {
	gen, ok := ctx.Value(generationKey{}).(uint64)
	return gen, ok
}

// TokenExpiry decodes the exp claim without verifying the signature. The
// server stays the authority; this is for display.
func TokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
