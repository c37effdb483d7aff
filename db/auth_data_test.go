// ABOUTME: Tests for persisted auth data
// ABOUTME: Exercises the SQLite-backed session store against a temp database
package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := OpenDatabase(filepath.Join(t.TempDir(), "adda.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database)
}

func TestStoreGetMissingKey(t *testing.T) {
	store := newTestStore(t)
	v, err := store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestStoreSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "token", "a"))
	require.NoError(t, store.Set(ctx, "token", "b"))

	v, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "token", "a"))
	require.NoError(t, store.Set(ctx, "phone", "9876543210"))
	require.NoError(t, store.Set(ctx, "deviceId", "dev"))
	require.NoError(t, store.Delete(ctx, "token", "phone", "missing"))

	v, _ := store.Get(ctx, "token")
	assert.Empty(t, v)
	v, _ = store.Get(ctx, "deviceId")
	assert.Equal(t, "dev", v)
}

func TestStoreBacksSessionManager(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(newTestStore(t), nil)

	require.NoError(t, m.Save(ctx, models.Session{Token: "tok", Phone: "9876543210", BrokerID: "b1", UserID: "u1"}))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b1", got.BrokerID)

	assert.True(t, m.Expire(ctx, m.Generation(), "401"))
	got, err = m.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
}
