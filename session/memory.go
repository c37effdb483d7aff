// ABOUTME: In-process Store implementation
// ABOUTME: Backs ephemeral sessions and tests, and copies sessions between stores
package session

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a Store held in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string

	// FailReads makes Get return ReadErr, for exercising storage failures.
	FailReads bool
	ReadErr   error

	// FailKey makes Set of that key return WriteErr.
	FailKey  string
	WriteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailReads {
		return "", s.ReadErr
	}
	return s.data[key], nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKey != "" && key == s.FailKey {
		return s.WriteErr
	}
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len reports how many keys are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Copy moves every session key from src to dst and reports how many were
// set. Keys missing in src are left alone in dst.
func Copy(ctx context.Context, dst, src Store) (int, error) {
	n := 0
	for _, key := range append(append([]string(nil), authKeys...), KeyDeviceID) {
		v, err := src.Get(ctx, key)
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if v == "" {
			continue
		}
		if err := dst.Set(ctx, key, v); err != nil {
			return n, fmt.Errorf("failed to write %s: %w", key, err)
		}
		n++
	}
	return n, nil
}
