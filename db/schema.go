// ABOUTME: Database schema migrations
// ABOUTME: Applies embedded goose migrations to the SQLite session database
package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseLogger keeps migration chatter at debug level.
type gooseLogger struct {
	l *log.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) { g.l.Debugf(format, v...) }
func (g gooseLogger) Fatalf(format string, v ...interface{}) { g.l.Fatalf(format, v...) }

func InitSchema(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{l: log.Default().WithPrefix("migrate")})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
