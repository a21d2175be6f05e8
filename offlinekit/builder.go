package offlinekit

import (
	"fmt"

	"github.com/c0deZ3R0/go-offline-kit/logging"
)

// EngineBuilder provides a fluent interface for constructing Engine instances.
type EngineBuilder struct {
	store   Store
	logger  *logging.Logger
	metrics MetricsCollector
}

// NewEngineBuilder creates a new builder with default options.
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{}
}

// WithStore sets the backend Store for the Engine.
func (b *EngineBuilder) WithStore(store Store) *EngineBuilder {
	b.store = store
	return b
}

// WithLogger sets the component logger.
func (b *EngineBuilder) WithLogger(logger *logging.Logger) *EngineBuilder {
	b.logger = logger
	return b
}

// WithMetrics sets the metrics collector.
func (b *EngineBuilder) WithMetrics(collector MetricsCollector) *EngineBuilder {
	b.metrics = collector
	return b
}

// Build creates a new Engine instance with the configured options.
func (b *EngineBuilder) Build() (*Engine, error) {
	if b.store == nil {
		return nil, fmt.Errorf("store is required")
	}

	opts := make([]EngineOption, 0, 2)
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetrics(b.metrics))
	}
	return NewEngine(b.store, opts...), nil
}

// Reset clears the builder, allowing reuse.
func (b *EngineBuilder) Reset() *EngineBuilder {
	b.store = nil
	b.logger = nil
	b.metrics = nil
	return b
}
