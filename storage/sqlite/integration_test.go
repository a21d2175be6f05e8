package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
	"github.com/c0deZ3R0/go-offline-kit/storage/sqlite"
)

// Walks the intended offline/online cycle against the durable backend: go
// offline, queue mutations with an optimistic local copy, then on
// reconnection merge the queue and remove the consumed entries.
func TestOfflineDrainCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offline.db")
	store, err := sqlite.NewWithDataSource(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	engine := offlinekit.NewEngine(store)
	defer engine.Close()
	ctx := context.Background()

	if err := engine.SetOnlineStatus(ctx, false); err != nil {
		t.Fatalf("SetOnlineStatus failed: %v", err)
	}

	// Two offline edits against the same task, plus an optimistic copy.
	for _, op := range []offlinekit.QueuedOperation{
		{
			ID: "op-1", Type: offlinekit.OperationUpdate, Entity: "tasks", EntityID: "task-1",
			Data: map[string]any{"status": "done", "title": "Task 1"}, Timestamp: 100,
		},
		{
			ID: "op-2", Type: offlinekit.OperationUpdate, Entity: "tasks", EntityID: "task-1",
			Data: map[string]any{"status": "in_progress"}, Timestamp: 200,
		},
	} {
		if _, err := engine.QueueOperation(ctx, op); err != nil {
			t.Fatalf("QueueOperation failed: %v", err)
		}
	}
	if err := engine.SaveDocument(ctx, "task-1", map[string]any{"status": "in_progress", "title": "Task 1"}); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	// Queued state survives a process restart.
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	store, err = sqlite.NewWithDataSource(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	engine = offlinekit.NewEngine(store)
	defer engine.Close()

	online, err := engine.GetOnlineStatus(ctx)
	if err != nil {
		t.Fatalf("GetOnlineStatus failed: %v", err)
	}
	if online {
		t.Error("offline flag should survive restart")
	}

	count, err := engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 queued operations after restart, got %d", count)
	}

	// Connectivity returns: merge the conflicting edits, apply, clean up.
	merged, err := engine.ResolveConflicts(ctx, "tasks", "task-1", offlinekit.StrategyLastWriteWins)
	if err != nil {
		t.Fatalf("ResolveConflicts failed: %v", err)
	}
	if merged["status"] != "in_progress" || merged["title"] != "Task 1" {
		t.Errorf("unexpected merge result: %v", merged)
	}

	conflicts, err := engine.DetectConflicts(ctx, "tasks", "task-1")
	if err != nil {
		t.Fatalf("DetectConflicts failed: %v", err)
	}
	for _, op := range conflicts {
		if err := engine.RemoveOperation(ctx, op.ID); err != nil {
			t.Fatalf("RemoveOperation failed: %v", err)
		}
	}
	if err := engine.SetOnlineStatus(ctx, true); err != nil {
		t.Fatalf("SetOnlineStatus failed: %v", err)
	}

	count, err = engine.QueueCount(ctx)
	if err != nil {
		t.Fatalf("QueueCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected drained queue, got %d", count)
	}

	version, err := engine.GetDocumentVersion(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetDocumentVersion failed: %v", err)
	}
	if err := engine.SetDocumentVersion(ctx, "task-1", version+1); err != nil {
		t.Fatalf("SetDocumentVersion failed: %v", err)
	}
	version, err = engine.GetDocumentVersion(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetDocumentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after bump, got %d", version)
	}
}
