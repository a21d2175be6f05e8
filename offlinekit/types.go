// Package offlinekit provides an offline-first local storage and
// synchronization-queue engine. It durably queues mutation intents while a
// remote backend is unreachable, detects when several queued intents target
// the same entity, and deterministically merges them before reconciliation.
//
// The engine only stores, queues, and merges. Deciding when to go offline,
// what mutations to create, and how to transmit them remotely belongs to
// higher layers.
package offlinekit

// Namespace identifies one of the three fixed logical storage partitions.
type Namespace string

const (
	// NamespaceDocuments holds arbitrary keyed entities.
	NamespaceDocuments Namespace = "documents"

	// NamespaceSyncQueue holds queued mutation operations keyed by operation id.
	NamespaceSyncQueue Namespace = "sync_queue"

	// NamespaceMetadata holds scalar settings such as the online-status flag
	// and per-document version counters.
	NamespaceMetadata Namespace = "metadata"
)

// Namespaces returns the fixed partition set in provisioning order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceDocuments, NamespaceSyncQueue, NamespaceMetadata}
}

// Valid reports whether ns is one of the three fixed partitions.
func (ns Namespace) Valid() bool {
	switch ns {
	case NamespaceDocuments, NamespaceSyncQueue, NamespaceMetadata:
		return true
	}
	return false
}

// OperationType is the closed set of mutation intents a queued operation can carry.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

// Valid reports whether t is a known operation type.
func (t OperationType) Valid() bool {
	switch t {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// QueuedOperation is a durable record of a pending mutation intent.
// Operations are immutable once queued; re-queueing the same ID replaces the
// stored record wholesale (upsert).
type QueuedOperation struct {
	// ID is an opaque unique identifier within the queue. When empty,
	// QueueOperation assigns one.
	ID string `json:"id"`

	// Type is the mutation intent: create, update or delete.
	Type OperationType `json:"type"`

	// Entity names the domain collection the operation targets (e.g. "tasks").
	Entity string `json:"entity"`

	// EntityID identifies the specific instance. Required for meaningful
	// conflict detection on update/delete; operations without one never
	// participate in conflicts.
	EntityID string `json:"entityId,omitempty"`

	// Data carries the changed fields. Only top-level keys participate in
	// conflict merging; nested values are replaced wholesale.
	Data map[string]any `json:"data,omitempty"`

	// Timestamp is a caller-supplied logical ordering value (milliseconds
	// since epoch). The engine never generates or validates it.
	Timestamp int64 `json:"timestamp"`
}

// Strategy selects a deterministic field-level merge rule for conflict resolution.
type Strategy string

const (
	// StrategyLastWriteWins keeps, for each overlapping field, the value from
	// the operation with the largest timestamp.
	StrategyLastWriteWins Strategy = "last-write-wins"

	// StrategyFirstWriteWins keeps, for each overlapping field, the value from
	// the operation with the smallest timestamp, while fields unique to later
	// operations still appear.
	StrategyFirstWriteWins Strategy = "first-write-wins"
)

// Valid reports whether s is a known merge strategy.
func (s Strategy) Valid() bool {
	return s == StrategyLastWriteWins || s == StrategyFirstWriteWins
}
