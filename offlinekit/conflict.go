package offlinekit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
)

// DetectConflicts scans the queue and returns exactly those operations whose
// (entity, entityID) pair matches both arguments. Operations without an
// EntityID never participate. The scan has no side effects; the returned
// order is unspecified.
func (e *Engine) DetectConflicts(ctx context.Context, entity, entityID string) ([]QueuedOperation, error) {
	if entityID == "" {
		return []QueuedOperation{}, nil
	}

	pending, err := e.PendingOperations(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]QueuedOperation, 0)
	for _, op := range pending {
		if op.Entity == entity && op.EntityID != "" && op.EntityID == entityID {
			matches = append(matches, op)
		}
	}
	return matches, nil
}

// ResolveConflicts merges all queued operations targeting (entity, entityID)
// under the given strategy and returns the merged field set. The result is
// empty when nothing is queued for the entity.
//
// The merge is shallow: only top-level keys of each operation's Data are
// considered, and nested structures are replaced wholesale by whichever
// operation wins that key, never recursively merged. Matched operations are
// ordered by (Timestamp, ID) so that identical timestamps still resolve
// deterministically.
func (e *Engine) ResolveConflicts(ctx context.Context, entity, entityID string, strategy Strategy) (map[string]any, error) {
	if !strategy.Valid() {
		return nil, storeErrors.NewValidationError(opResolve,
			fmt.Errorf("unknown merge strategy %q", strategy))
	}

	matches, err := e.DetectConflicts(ctx, entity, entityID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return map[string]any{}, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Timestamp != matches[j].Timestamp {
			return matches[i].Timestamp < matches[j].Timestamp
		}
		return matches[i].ID < matches[j].ID
	})

	merged := mergeOperations(matches, strategy)

	e.metrics.RecordConflictsResolved(len(matches))
	e.logger.DebugContext(ctx, "conflicts resolved",
		slog.String("entity", entity),
		slog.String("entity_id", entityID),
		slog.String("strategy", string(strategy)),
		slog.Int("operations", len(matches)),
	)

	return merged, nil
}

// mergeOperations applies the field-level overwrite rule over operations
// already sorted ascending by timestamp. Last-write-wins iterates ascending;
// first-write-wins walks the same list in reverse with the identical rule, so
// overlapping fields keep the earliest value while fields unique to later
// operations still appear.
func mergeOperations(sorted []QueuedOperation, strategy Strategy) map[string]any {
	merged := make(map[string]any)

	apply := func(op QueuedOperation) {
		for field, value := range op.Data {
			merged[field] = value
		}
	}

	switch strategy {
	case StrategyFirstWriteWins:
		for i := len(sorted) - 1; i >= 0; i-- {
			apply(sorted[i])
		}
	default: // StrategyLastWriteWins
		for _, op := range sorted {
			apply(op)
		}
	}

	return merged
}
