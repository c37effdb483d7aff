package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/harperreed/adda/cli"
	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteToBadger(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DataDir: t.TempDir()}

	src, closer, err := cli.OpenStore(cfg, config.StoreSQLite)
	require.NoError(t, err)
	require.NoError(t, session.NewManager(src, nil).SaveAuthData(ctx, "tok", "9876543210", "b-asha"))
	require.NoError(t, closer.Close())

	require.NoError(t, migrate(ctx, cfg, config.StoreSQLite, config.StoreBadger, false, true))

	dst, closer, err := cli.OpenStore(cfg, config.StoreBadger)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	broker, err := session.NewManager(dst, nil).GetBrokerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b-asha", broker)
}

func TestMigrateDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DataDir: t.TempDir()}

	require.NoError(t, migrate(ctx, cfg, config.StoreSQLite, config.StoreBadger, true, true))
	assert.NoDirExists(t, filepath.Join(cfg.DataDir, "kv"))
}

func TestMigrateSameStore(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}
	assert.EqualError(t, migrate(context.Background(), cfg, config.StoreBadger, config.StoreBadger, false, false),
		"source and destination are both badger")
}
