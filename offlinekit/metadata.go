package offlinekit

import (
	"context"
	"encoding/json"
	"fmt"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
)

// Reserved metadata keys. The engine treats all keys generically; these are
// the ones its own helpers use.
const (
	metaKeyOnlineStatus  = "online_status"
	metaKeyVersionPrefix = "version:"
)

// SetMetadata stores an arbitrary serializable value under key, overwriting
// any previous value.
func (e *Engine) SetMetadata(ctx context.Context, key string, value any) error {
	return e.store.Save(ctx, NamespaceMetadata, key, value)
}

// GetMetadata returns the raw stored value and true, or (nil, false) when the
// key was never set.
func (e *Engine) GetMetadata(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return e.store.Load(ctx, NamespaceMetadata, key)
}

// SetDocumentVersion stores an integer version counter for docID.
func (e *Engine) SetDocumentVersion(ctx context.Context, docID string, version int64) error {
	return e.SetMetadata(ctx, metaKeyVersionPrefix+docID, version)
}

// GetDocumentVersion returns the stored counter for docID, or 0 when never set.
func (e *Engine) GetDocumentVersion(ctx context.Context, docID string) (int64, error) {
	raw, found, err := e.GetMetadata(ctx, metaKeyVersionPrefix+docID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}

	var version int64
	if err := json.Unmarshal(raw, &version); err != nil {
		return 0, storeErrors.WrapOpComponent(
			fmt.Errorf("decode version for %q: %w", docID, err),
			storeErrors.OpLoad, componentEngine)
	}
	return version, nil
}

// SetOnlineStatus records whether the remote backend is considered reachable.
func (e *Engine) SetOnlineStatus(ctx context.Context, online bool) error {
	return e.SetMetadata(ctx, metaKeyOnlineStatus, online)
}

// GetOnlineStatus returns the recorded connectivity flag. An engine that has
// never had SetOnlineStatus called reports true: connectivity is assumed
// unless explicitly revoked.
func (e *Engine) GetOnlineStatus(ctx context.Context) (bool, error) {
	raw, found, err := e.GetMetadata(ctx, metaKeyOnlineStatus)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}

	var online bool
	if err := json.Unmarshal(raw, &online); err != nil {
		return false, storeErrors.WrapOpComponent(
			fmt.Errorf("decode online status: %w", err),
			storeErrors.OpLoad, componentEngine)
	}
	return online, nil
}
