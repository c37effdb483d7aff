// ABOUTME: Session store selection
// ABOUTME: Opens the sqlite, badger or in-memory backend named by the config
package cli

import (
	"fmt"
	"io"

	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/db"
	"github.com/harperreed/adda/kv"
	"github.com/harperreed/adda/session"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore opens the session backend kind at the config's data paths. The
// closer must be called when the process is done with the store.
func OpenStore(cfg *config.Config, kind string) (session.Store, io.Closer, error) {
	switch kind {
	case config.StoreSQLite:
		database, err := db.OpenDatabase(cfg.DatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		store := db.NewStore(database)
		return store, store, nil
	case config.StoreBadger:
		store, err := kv.Open(cfg.KVPath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open kv store: %w", err)
		}
		return store, store, nil
	case config.StoreMemory:
		return session.NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q (want sqlite, badger or memory)", kind)
}
