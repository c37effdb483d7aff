package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/adda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewManager(store, nil), store
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	events := m.Subscribe()

	err := m.Save(ctx, models.Session{Token: "tok", Phone: "9876543210", BrokerID: "b1", UserID: "u1"})
	require.NoError(t, err)

	s, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{Token: "tok", Phone: "9876543210", BrokerID: "b1", UserID: "u1"}, s)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, LoggedIn, got[0].Kind)
	assert.Equal(t, "tok", got[0].Session.Token)
	assert.Equal(t, uint64(1), m.Generation())
}

func TestSaveRequiresToken(t *testing.T) {
	m, store := newTestManager(t)
	assert.Error(t, m.Save(context.Background(), models.Session{Phone: "9876543210"}))
	assert.Equal(t, 0, store.Len())
}

func TestSaveAuthData(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	require.NoError(t, m.SaveAuthData(ctx, "tok", "9876543210", "b1"))

	token, _ := m.GetToken(ctx)
	broker, _ := m.GetBrokerID(ctx)
	user, _ := m.GetUserID(ctx)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "b1", broker)
	assert.Equal(t, "b1", user)
}

func TestExpireIsOneShotPerGeneration(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	require.NoError(t, m.SaveAuthData(ctx, "tok", "9876543210", "b1"))
	events := m.Subscribe()

	gen := m.Generation()
	var wg sync.WaitGroup
	var mu sync.Mutex
	fired := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Expire(ctx, gen, "401") {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired)
	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, Expired, got[0].Kind)

	token, _ := m.GetToken(ctx)
	assert.Empty(t, token)
	assert.Equal(t, 0, store.Len())

	// A new login re-arms teardown.
	require.NoError(t, m.SaveAuthData(ctx, "tok2", "9876543210", "b1"))
	assert.True(t, m.Expire(ctx, m.Generation(), "401"))
}

func TestExpireIgnoresEarlierGeneration(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	require.NoError(t, m.SaveAuthData(ctx, "old", "9876543210", "b1"))
	oldGen := m.Generation()

	require.NoError(t, m.SaveAuthData(ctx, "new", "9876543210", "b1"))
	events := m.Subscribe()

	assert.False(t, m.Expire(ctx, oldGen, "401"))
	token, _ := m.GetToken(ctx)
	assert.Equal(t, "new", token)
	assert.Empty(t, drain(events))

	// A 401 sent under the old login after the new one expired stays ignored too.
	assert.True(t, m.Expire(ctx, m.Generation(), "401"))
	require.NoError(t, m.SaveAuthData(ctx, "newer", "9876543210", "b1"))
	assert.False(t, m.Expire(ctx, oldGen, "401"))
	token, _ = m.GetToken(ctx)
	assert.Equal(t, "newer", token)
}

func TestSaveRollsBackPartialWrite(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	events := m.Subscribe()

	store.FailKey = KeyBrokerID
	store.WriteErr = errors.New("disk full")
	err := m.Save(ctx, models.Session{Token: "tok", Phone: "9876543210", BrokerID: "b1", UserID: "u1"})
	assert.EqualError(t, err, "failed to save brokerId: disk full")

	token, _ := m.GetToken(ctx)
	assert.Empty(t, token)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, uint64(0), m.Generation())
	assert.Empty(t, drain(events))

	s, err := m.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestRequestTokenReportsGeneration(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, gen, err := m.RequestToken(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, uint64(0), gen)

	require.NoError(t, m.SaveAuthData(ctx, "tok", "9876543210", "b1"))
	tok, gen, err := m.RequestToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, uint64(1), gen)

	_, ok := GenerationFrom(ctx)
	assert.False(t, ok)
	got, ok := GenerationFrom(WithGeneration(ctx, gen))
	assert.True(t, ok)
	assert.Equal(t, uint64(1), got)
}

func TestLogoutKeepsDeviceID(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	id, err := m.DeviceID(ctx)
	require.NoError(t, err)
	require.Len(t, id, 26)

	require.NoError(t, m.SaveAuthData(ctx, "tok", "9876543210", "b1"))
	events := m.Subscribe()
	require.NoError(t, m.Logout(ctx))

	again, err := m.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, LoggedOut, got[0].Kind)

	// Logged out sessions do not expire again.
	assert.False(t, m.Expire(ctx, m.Generation(), "401"))
}

func TestDeviceIDConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	ids := make([]string, 20)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := m.DeviceID(ctx)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	stored, err := m.DeviceID(ctx)
	require.NoError(t, err)
	for _, id := range ids {
		assert.Equal(t, stored, id)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	m, _ := newTestManager(t)
	ch := m.Subscribe()
	m.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, m.SaveAuthData(context.Background(), "tok", "p", "b"))
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	_, err := m.TokenSource(ctx).Token()
	assert.ErrorIs(t, err, ErrNoToken)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, m.SaveAuthData(ctx, raw, "9876543210", "b1"))

	tok, err := m.TokenSource(ctx).Token()
	require.NoError(t, err)
	assert.Equal(t, raw, tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
	assert.True(t, exp.Equal(tok.Expiry))

	store.FailReads = true
	store.ReadErr = errors.New("disk gone")
	_, err = m.TokenSource(ctx).Token()
	assert.EqualError(t, err, "disk gone")
}

func TestTokenExpiryOpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	m, src := newTestManager(t)
	require.NoError(t, m.SaveAuthData(ctx, "tok", "9876543210", "b1"))
	device, err := m.DeviceID(ctx)
	require.NoError(t, err)

	dst := NewMemoryStore()
	n, err := Copy(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	moved := NewManager(dst, nil)
	token, _ := moved.GetToken(ctx)
	assert.Equal(t, "tok", token)
	again, _ := moved.DeviceID(ctx)
	assert.Equal(t, device, again)

	src.FailReads = true
	src.ReadErr = errors.New("locked")
	_, err = Copy(ctx, dst, src)
	assert.EqualError(t, err, "failed to read token: locked")
}
