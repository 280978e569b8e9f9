// Package localstore persists the small set of values that let a session
// survive process restarts.
package localstore

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/config"
)

// Keys written by the client.
const (
	// KeyToken holds the raw bearer token.
	KeyToken = "token"

	// KeyUser holds the JSON-encoded last known user.
	KeyUser = "user"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a durable string key/value store.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Open creates the store selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.StatePath()), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath())
	case config.BackendRedis:
		return NewRedisStore(cfg.Storage.Redis), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
