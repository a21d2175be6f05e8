// Command offline-demo walks through the offline queue lifecycle against the
// in-process backend: queue conflicting edits while offline, inspect the
// queue, then merge and drain once connectivity returns.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/c0deZ3R0/go-offline-kit/logging"
	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
	"github.com/c0deZ3R0/go-offline-kit/storage"
)

func main() {
	// Initialize structured logging from environment
	config := logging.GetConfigFromEnv()
	logging.Init(config)

	ctx := context.Background()

	cfg := offlinekit.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := offlinekit.LoadConfigFromFile(os.Args[1])
		if err != nil {
			logging.LogError(ctx, err, "failed to load config")
			os.Exit(1)
		}
		cfg = *loaded
	}

	engine, err := storage.OpenEngine(cfg)
	if err != nil {
		logging.LogError(ctx, err, "failed to open storage backend")
		os.Exit(1)
	}
	defer engine.Close()

	logging.Info("engine ready", slog.String("backend", cfg.Backend))

	// Connectivity drops; the higher layer records it and starts queueing.
	if err := engine.SetOnlineStatus(ctx, false); err != nil {
		logging.LogError(ctx, err, "failed to set online status")
		os.Exit(1)
	}

	edits := []offlinekit.QueuedOperation{
		{
			Type: offlinekit.OperationUpdate, Entity: "tasks", EntityID: "task-1",
			Data:      map[string]any{"status": "done", "title": "Write demo"},
			Timestamp: 100,
		},
		{
			Type: offlinekit.OperationUpdate, Entity: "tasks", EntityID: "task-1",
			Data:      map[string]any{"status": "in_progress"},
			Timestamp: 200,
		},
	}
	for _, op := range edits {
		stored, err := engine.QueueOperation(ctx, op)
		if err != nil {
			logging.LogError(ctx, err, "failed to queue operation")
			os.Exit(1)
		}
		logging.Info("queued offline edit",
			slog.String("id", stored.ID),
			slog.String("entity", stored.Entity),
			slog.Int64("timestamp", stored.Timestamp),
		)
	}

	// Optimistic local copy so the UI keeps rendering while offline.
	if err := engine.SaveDocument(ctx, "task-1", map[string]any{
		"status": "in_progress", "title": "Write demo",
	}); err != nil {
		logging.LogError(ctx, err, "failed to save optimistic copy")
		os.Exit(1)
	}

	count, err := engine.QueueCount(ctx)
	if err != nil {
		logging.LogError(ctx, err, "failed to count queue")
		os.Exit(1)
	}
	size, err := engine.EstimateStorageSize(ctx)
	if err != nil {
		logging.LogError(ctx, err, "failed to estimate storage")
		os.Exit(1)
	}
	logging.Info("offline state", slog.Int("queued", count), slog.Int64("approx_bytes", size))

	// Connectivity returns: merge the edits targeting the same task and drain.
	merged, err := engine.ResolveConflicts(ctx, "tasks", "task-1", offlinekit.StrategyLastWriteWins)
	if err != nil {
		logging.LogError(ctx, err, "failed to resolve conflicts")
		os.Exit(1)
	}
	logging.Info("merged pending edits", slog.Any("result", merged))

	conflicts, err := engine.DetectConflicts(ctx, "tasks", "task-1")
	if err != nil {
		logging.LogError(ctx, err, "failed to detect conflicts")
		os.Exit(1)
	}
	for _, op := range conflicts {
		if err := engine.RemoveOperation(ctx, op.ID); err != nil {
			logging.LogError(ctx, err, "failed to remove consumed operation")
			os.Exit(1)
		}
	}
	if err := engine.SetOnlineStatus(ctx, true); err != nil {
		logging.LogError(ctx, err, "failed to set online status")
		os.Exit(1)
	}

	count, _ = engine.QueueCount(ctx)
	logging.Info("back online", slog.Int("queued", count))
}
