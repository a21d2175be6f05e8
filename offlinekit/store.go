package offlinekit

import (
	"context"
	"encoding/json"
)

// Store is the capability interface for atomic, asynchronous key-value
// operations over the fixed namespaces. Implementations can use any backend
// (SQLite, in-process maps, ...); all of them must behave identically at this
// contract.
//
// A Store instance is owned by a single execution context. Implementations
// serialize concurrent writes within that context but provide no mutual
// exclusion across processes sharing the same persistent backend.
type Store interface {
	// Save idempotently upserts value under key. Values are recorded as JSON;
	// the call returns once the write is durable. No partial write is ever
	// left behind on failure.
	Save(ctx context.Context, ns Namespace, key string, value any) error

	// Load returns the stored value and true, or (nil, false) when the key is
	// absent. A missing key is never an error.
	Load(ctx context.Context, ns Namespace, key string) (json.RawMessage, bool, error)

	// Delete removes key if present. Deleting an absent key is a no-op.
	Delete(ctx context.Context, ns Namespace, key string) error

	// LoadAll returns every current value in the partition keyed by id, order
	// unspecified. Each call recomputes the result.
	LoadAll(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error)

	// Count returns the number of keys currently stored in the partition.
	Count(ctx context.Context, ns Namespace) (int, error)

	// Clear atomically empties the partition.
	Clear(ctx context.Context, ns Namespace) error

	// Close releases backend resources. Persistent implementations support
	// being reopened by a fresh construction call; in-process implementations
	// treat this as a no-op.
	Close() error
}
