// ABOUTME: Session database connection management
// ABOUTME: Opens the owner-only SQLite file in WAL mode and applies migrations
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS lets the CLI and a running TUI share the file.
const busyTimeoutMS = 5000

// OpenDatabase opens the session database at path, creating it readable by the
// owner only since it holds the bearer token.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	_ = f.Close()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", path, busyTimeoutMS)
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := InitSchema(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
