package cli

import (
	"context"
	"testing"

	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DataDir: t.TempDir()}

	for _, kind := range []string{config.StoreSQLite, config.StoreBadger, config.StoreMemory} {
		t.Run(kind, func(t *testing.T) {
			store, closer, err := OpenStore(cfg, kind)
			require.NoError(t, err)
			defer func() { _ = closer.Close() }()

			require.NoError(t, store.Set(ctx, session.KeyPhone, "9876543210"))
			v, err := store.Get(ctx, session.KeyPhone)
			require.NoError(t, err)
			assert.Equal(t, "9876543210", v)
		})
	}

	_, _, err := OpenStore(cfg, "redis")
	assert.EqualError(t, err, `unknown store "redis" (want sqlite, badger or memory)`)
}
