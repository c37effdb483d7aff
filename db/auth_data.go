// ABOUTME: Persisted auth data operations
// ABOUTME: Key-value reads and writes for token, phone, broker and device ids
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func GetValue(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM auth_data WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func SetValue(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO auth_data (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())

	return err
}

func DeleteValues(ctx context.Context, db *sql.DB, keys ...string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM auth_data WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Store adapts the auth_data table to session.Store.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return GetValue(ctx, s.db, key)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return SetValue(ctx, s.db, key, value)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return DeleteValues(ctx, s.db, keys...)
}

func (s *Store) Close() error {
	return s.db.Close()
}
