package offlinekit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
	"github.com/c0deZ3R0/go-offline-kit/logging"
)

// Operation constants for consistent error reporting
const (
	opQueue         = storeErrors.OpQueue
	opResolve       = storeErrors.OpResolve
	opClear         = storeErrors.OpClear
	opEstimate      = storeErrors.OpEstimate
	componentEngine = "engine"
)

// Engine coordinates the sync queue, conflict resolution, metadata and
// storage management over a single Store. It owns no state of its own beyond
// the injected collaborators; all durable state lives in the Store.
type Engine struct {
	store   Store
	logger  *logging.Logger
	metrics MetricsCollector
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger replaces the default component logger.
func WithLogger(logger *logging.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a metrics collector. The default is a no-op.
func WithMetrics(collector MetricsCollector) EngineOption {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// NewEngine creates an Engine over store. The store is borrowed, not owned:
// Close releases it, but a caller sharing the store across collaborators may
// instead close it once at the end of its own lifecycle.
func NewEngine(store Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   store,
		logger:  logging.WithComponent(logging.Component(componentEngine)),
		metrics: &NoOpMetricsCollector{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the underlying backend for callers that need raw partition access.
func (e *Engine) Store() Store {
	return e.store
}

// Close releases the underlying backend.
func (e *Engine) Close() error {
	return e.store.Close()
}

// SaveDocument writes an optimistic local copy of a document. The engine
// enforces no schema; any JSON-serializable value is accepted.
func (e *Engine) SaveDocument(ctx context.Context, id string, value any) error {
	return e.store.Save(ctx, NamespaceDocuments, id, value)
}

// LoadDocument returns the raw stored document, or false when absent.
func (e *Engine) LoadDocument(ctx context.Context, id string) (json.RawMessage, bool, error) {
	return e.store.Load(ctx, NamespaceDocuments, id)
}

// DeleteDocument removes a local document copy. Absent ids are a no-op.
func (e *Engine) DeleteDocument(ctx context.Context, id string) error {
	return e.store.Delete(ctx, NamespaceDocuments, id)
}

// Documents returns all locally stored documents keyed by id.
func (e *Engine) Documents(ctx context.Context) (map[string]json.RawMessage, error) {
	return e.store.LoadAll(ctx, NamespaceDocuments)
}

// ClearAll empties all three partitions.
func (e *Engine) ClearAll(ctx context.Context) error {
	start := time.Now()
	for _, ns := range Namespaces() {
		if err := e.store.Clear(ctx, ns); err != nil {
			return storeErrors.WrapOpComponent(err, opClear, componentEngine)
		}
	}
	e.metrics.RecordOperationDuration("clear_all", time.Since(start))
	e.logger.InfoContext(ctx, "cleared all partitions",
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// EstimateStorageSize approximates the engine's footprint by summing the
// serialized length of every document and queued operation. It is an
// approximation, not exact backend accounting.
func (e *Engine) EstimateStorageSize(ctx context.Context) (int64, error) {
	var total int64
	for _, ns := range []Namespace{NamespaceDocuments, NamespaceSyncQueue} {
		values, err := e.store.LoadAll(ctx, ns)
		if err != nil {
			return 0, storeErrors.WrapOpComponent(err, opEstimate, componentEngine)
		}
		for _, raw := range values {
			total += int64(len(raw))
		}
	}
	e.metrics.RecordStorageBytes(total)
	return total, nil
}
