package store

import (
	"context"
	"encoding/json"
)

// Adapter persists slice values as JSON documents keyed by slice key.
// Implementations must be thread-safe.
type Adapter interface {
	// Get retrieves one slice document. Returns nil, false, nil if not found.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Put stores one slice document.
	Put(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a slice document. No error if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Load retrieves every stored document.
	Load(ctx context.Context) (map[string]json.RawMessage, error)

	// Save stores all documents from a map, replacing existing data.
	Save(ctx context.Context, data map[string]json.RawMessage) error

	// Close releases the adapter. Later calls return ErrAdapterClosed.
	Close() error
}
