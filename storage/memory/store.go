// Package memory provides the pure in-process Store implementation. It is
// used where persistent storage is unavailable (e.g. server-rendered
// execution) or where deterministic, isolated test state is required.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	stdSync "sync"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
)

const component = "storage/memory"

// Store implements offlinekit.Store on in-process maps. Values are kept as
// marshaled JSON so round-trip semantics match the persistent variant
// exactly. Safe for concurrent use within one process.
type Store struct {
	mu         stdSync.RWMutex
	partitions map[offlinekit.Namespace]map[string][]byte
}

// Compile-time check that Store satisfies the capability interface
var _ offlinekit.Store = (*Store)(nil)

// New creates an empty in-process store with the three fixed partitions
// provisioned. It requires no configuration.
func New() *Store {
	partitions := make(map[offlinekit.Namespace]map[string][]byte, 3)
	for _, ns := range offlinekit.Namespaces() {
		partitions[ns] = make(map[string][]byte)
	}
	return &Store{partitions: partitions}
}

func (s *Store) partition(op storeErrors.Operation, ns offlinekit.Namespace) (map[string][]byte, error) {
	p, ok := s.partitions[ns]
	if !ok {
		return nil, storeErrors.NewNamespaceError(op, string(ns))
	}
	return p, nil
}

// Save idempotently upserts value under key.
func (s *Store) Save(ctx context.Context, ns offlinekit.Namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return storeErrors.WrapTransaction(fmt.Errorf("marshal value: %w", err), storeErrors.OpSave, component)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.partition(storeErrors.OpSave, ns)
	if err != nil {
		return err
	}
	p[key] = raw
	return nil
}

// Load returns a copy of the stored value, or (nil, false) when absent.
func (s *Store) Load(ctx context.Context, ns offlinekit.Namespace, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.partition(storeErrors.OpLoad, ns)
	if err != nil {
		return nil, false, err
	}

	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, true, nil
}

// Delete removes key if present. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, ns offlinekit.Namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.partition(storeErrors.OpDelete, ns)
	if err != nil {
		return err
	}
	delete(p, key)
	return nil
}

// LoadAll returns copies of every value in the partition keyed by id.
func (s *Store) LoadAll(ctx context.Context, ns offlinekit.Namespace) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.partition(storeErrors.OpLoadAll, ns)
	if err != nil {
		return nil, err
	}

	values := make(map[string]json.RawMessage, len(p))
	for key, raw := range p {
		out := make(json.RawMessage, len(raw))
		copy(out, raw)
		values[key] = out
	}
	return values, nil
}

// Count returns the number of keys in the partition.
func (s *Store) Count(ctx context.Context, ns offlinekit.Namespace) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.partition(storeErrors.OpCount, ns)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Clear atomically empties the partition.
func (s *Store) Clear(ctx context.Context, ns offlinekit.Namespace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.partition(storeErrors.OpClear, ns); err != nil {
		return err
	}
	s.partitions[ns] = make(map[string][]byte)
	return nil
}

// Close is a no-op; the store remains usable, which keeps test teardown
// order-insensitive.
func (s *Store) Close() error {
	return nil
}
