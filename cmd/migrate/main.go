// ABOUTME: Migration utility for moving a stored session between store backends.
// ABOUTME: Provides dry-run and backup capabilities so a login survives switching stores.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/cli"
	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/session"
)

func main() {
	from := flag.String("from", config.StoreSQLite, "Source store: sqlite, badger or memory")
	to := flag.String("to", config.StoreBadger, "Destination store: sqlite, badger or memory")
	dataDir := flag.String("data-dir", "", "Data directory (default: config data dir)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up the sqlite database before writing to it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if err := migrate(context.Background(), cfg, *from, *to, *dryRun, *backup); err != nil {
		log.Fatal("migration failed", "err", err)
	}

	log.Info("migration completed successfully")
}

func migrate(ctx context.Context, cfg *config.Config, from, to string, dryRun, createBackup bool) error {
	if from == to {
		return fmt.Errorf("source and destination are both %s", from)
	}

	src, srcCloser, err := cli.OpenStore(cfg, from)
	if err != nil {
		return err
	}
	defer func() { _ = srcCloser.Close() }()

	token, err := src.Get(ctx, session.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read source session: %w", err)
	}
	if token == "" {
		log.Warn("no session stored", "store", from)
	}

	if dryRun {
		log.Info("[DRY RUN] would copy session", "from", from, "to", to, "logged_in", token != "")
		return nil
	}

	if createBackup && to == config.StoreSQLite {
		if err := backupFile(cfg.DatabasePath()); err != nil {
			return err
		}
	}

	dst, dstCloser, err := cli.OpenStore(cfg, to)
	if err != nil {
		return err
	}
	defer func() { _ = dstCloser.Close() }()

	n, err := session.Copy(ctx, dst, src)
	if err != nil {
		return err
	}
	log.Info("session copied", "keys", n, "from", from, "to", to)
	return nil
}

func backupFile(path string) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0600); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	log.Info("backup created", "path", backupPath)
	return nil
}
