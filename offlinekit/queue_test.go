package offlinekit_test

import (
	"context"
	"testing"

	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
	"github.com/c0deZ3R0/go-offline-kit/storage/memory"
)

func newTestEngine(t *testing.T) *offlinekit.Engine {
	t.Helper()
	return offlinekit.NewEngine(memory.New())
}

func TestQueueOperationUpsert(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	op := offlinekit.QueuedOperation{
		ID:        "op-1",
		Type:      offlinekit.OperationUpdate,
		Entity:    "tasks",
		EntityID:  "task-1",
		Data:      map[string]any{"status": "done"},
		Timestamp: 100,
	}

	if _, err := engine.QueueOperation(ctx, op); err != nil {
		t.Fatalf("QueueOperation failed: %v", err)
	}
	count, err := engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1 after first queue, got %d", count)
	}

	// Re-queueing the same id replaces the record and leaves the count unchanged.
	op.Data = map[string]any{"status": "in_progress"}
	if _, err := engine.QueueOperation(ctx, op); err != nil {
		t.Fatalf("re-queue failed: %v", err)
	}
	count, err = engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1 after upsert, got %d", count)
	}

	pending, err := engine.PendingOperations(ctx)
	if err != nil {
		t.Fatalf("PendingOperations failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending operation, got %d", len(pending))
	}
	if pending[0].Data["status"] != "in_progress" {
		t.Errorf("expected upsert to replace data, got %v", pending[0].Data)
	}
}

func TestQueueOperationGeneratesID(t *testing.T) {
	engine := newTestEngine(t)

	stored, err := engine.QueueOperation(context.Background(), offlinekit.QueuedOperation{
		Type:      offlinekit.OperationCreate,
		Entity:    "tasks",
		Timestamp: 1,
	})
	if err != nil {
		t.Fatalf("QueueOperation failed: %v", err)
	}
	if stored.ID == "" {
		t.Error("expected a generated id for an operation queued without one")
	}
}

func TestQueueOperationValidation(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.QueueOperation(ctx, offlinekit.QueuedOperation{
		Type:   offlinekit.OperationType("merge"),
		Entity: "tasks",
	}); err == nil {
		t.Error("expected error for unknown operation type")
	}

	if _, err := engine.QueueOperation(ctx, offlinekit.QueuedOperation{
		Type: offlinekit.OperationCreate,
	}); err == nil {
		t.Error("expected error for missing entity")
	}
}

func TestRemoveOperationIsIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.QueueOperation(ctx, offlinekit.QueuedOperation{
		ID: "op-1", Type: offlinekit.OperationDelete, Entity: "tasks", EntityID: "task-1", Timestamp: 1,
	}); err != nil {
		t.Fatalf("QueueOperation failed: %v", err)
	}

	// Removing a non-existent id does not error and leaves the count unchanged.
	if err := engine.RemoveOperation(ctx, "no-such-op"); err != nil {
		t.Fatalf("RemoveOperation of unknown id must not error, got: %v", err)
	}
	count, err := engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count unchanged, got %d", count)
	}

	if err := engine.RemoveOperation(ctx, "op-1"); err != nil {
		t.Fatalf("RemoveOperation failed: %v", err)
	}
	count, err = engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty queue, got %d", count)
	}
}

func TestClearQueue(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if _, err := engine.QueueOperation(ctx, offlinekit.QueuedOperation{
			ID: id, Type: offlinekit.OperationCreate, Entity: "tasks", Timestamp: int64(i),
		}); err != nil {
			t.Fatalf("QueueOperation failed: %v", err)
		}
	}

	if err := engine.ClearQueue(ctx); err != nil {
		t.Fatalf("ClearQueue failed: %v", err)
	}
	count, err := engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty queue after ClearQueue, got %d", count)
	}
}
