package memory

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	storeErrors "github.com/c0deZ3R0/go-offline-kit/errors"
	"github.com/c0deZ3R0/go-offline-kit/offlinekit"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	value := map[string]any{"status": "done", "count": float64(3)}
	if err := store.Save(ctx, offlinekit.NamespaceDocuments, "doc-1", value); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, found, err := store.Load(ctx, offlinekit.NamespaceDocuments, "doc-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("expected value to be found")
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round-trip mismatch: got %v, want %v", got, value)
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Save(ctx, offlinekit.NamespaceDocuments, "doc", "value"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, _, err := store.Load(ctx, offlinekit.NamespaceDocuments, "doc")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i := range raw {
		raw[i] = 'x'
	}

	again, _, err := store.Load(ctx, offlinekit.NamespaceDocuments, "doc")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if string(again) != `"value"` {
		t.Errorf("mutating a loaded value must not affect the store, got %s", again)
	}
}

func TestDeleteAndAbsence(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Delete(ctx, offlinekit.NamespaceMetadata, "ghost"); err != nil {
		t.Fatalf("Delete of absent key must not error, got: %v", err)
	}

	_, found, err := store.Load(ctx, offlinekit.NamespaceMetadata, "ghost")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("expected absent key to report found=false")
	}
}

func TestCountAndClear(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		if err := store.Save(ctx, offlinekit.NamespaceSyncQueue, key, key); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	count, err := store.Count(ctx, offlinekit.NamespaceSyncQueue)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 keys, got %d", count)
	}

	if err := store.Clear(ctx, offlinekit.NamespaceSyncQueue); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	values, err := store.LoadAll(ctx, offlinekit.NamespaceSyncQueue)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty partition after Clear, got %d values", len(values))
	}
}

func TestUnknownNamespace(t *testing.T) {
	store := New()

	err := store.Save(context.Background(), offlinekit.Namespace("bogus"), "k", "v")
	if err == nil {
		t.Fatal("expected error for unknown namespace")
	}
	if storeErrors.CodeOf(err) != storeErrors.ErrCodeBadNamespace {
		t.Errorf("expected BAD_NAMESPACE code, got %q", storeErrors.CodeOf(err))
	}
}

func TestCloseIsNoOp(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// The store stays usable after Close.
	if err := store.Save(ctx, offlinekit.NamespaceDocuments, "k", "v"); err != nil {
		t.Errorf("Save after Close failed: %v", err)
	}
}
