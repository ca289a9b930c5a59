package resultcache_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
	"github.com/raysh454/vulnscan-web/internal/testutil"
)

func openStores(t *testing.T) map[string]resultcache.Store {
	t.Helper()
	sqliteStore, err := resultcache.OpenSQLiteStore(filepath.Join(t.TempDir(), "cache", "results.db"), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]resultcache.Store{
		"memory": resultcache.NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestSlot_EmptyReturnsErrEmpty(t *testing.T) {
	t.Parallel()
	for name, store := range openStores(t) {
		_, err := resultcache.NewSlot(store, "s1").Get(context.Background())
		if !errors.Is(err, resultcache.ErrEmpty) {
			t.Errorf("%s: expected ErrEmpty, got %v", name, err)
		}
	}
}

func TestSlot_PutStoresExactPayload(t *testing.T) {
	t.Parallel()
	payload := `{"scan_id":"abc123","target_url":"https://example.com","severity":"LOW","threat_count":0}`
	for name, store := range openStores(t) {
		slot := resultcache.NewSlot(store, "s1")
		if err := slot.Put(context.Background(), testutil.MustDecode(payload)); err != nil {
			t.Fatalf("%s: Put: %v", name, err)
		}
		raw, err := store.Get(context.Background(), "s1")
		if err != nil {
			t.Fatalf("%s: Get: %v", name, err)
		}
		if string(raw) != payload {
			t.Errorf("%s: expected exact payload, got %s", name, raw)
		}
		got, err := slot.Get(context.Background())
		if err != nil {
			t.Fatalf("%s: slot Get: %v", name, err)
		}
		if got.ScanID != "abc123" || got.Kind != model.ScanKindURL {
			t.Errorf("%s: unexpected decoded result %+v", name, got)
		}
	}
}

func TestSlot_LastWriteWins(t *testing.T) {
	t.Parallel()
	for name, store := range openStores(t) {
		slot := resultcache.NewSlot(store, "s1")
		_ = slot.Put(context.Background(), testutil.MustDecode(`{"scan_id":"first","filename":"a.log"}`))
		_ = slot.Put(context.Background(), testutil.MustDecode(`{"scan_id":"second","filename":"b.log"}`))

		got, err := slot.Get(context.Background())
		if err != nil {
			t.Fatalf("%s: Get: %v", name, err)
		}
		if got.ScanID != "second" {
			t.Errorf("%s: expected last write, got %s", name, got.ScanID)
		}
	}
}

func TestSlot_SessionsAreIsolated(t *testing.T) {
	t.Parallel()
	for name, store := range openStores(t) {
		_ = resultcache.NewSlot(store, "a").Put(context.Background(), testutil.MustDecode(`{"scan_id":"for-a","filename":"a.log"}`))

		if _, err := resultcache.NewSlot(store, "b").Get(context.Background()); !errors.Is(err, resultcache.ErrEmpty) {
			t.Errorf("%s: session b should be empty, got %v", name, err)
		}
	}
}

func TestSlot_PutNilFails(t *testing.T) {
	t.Parallel()
	if err := resultcache.NewSlot(resultcache.NewMemoryStore(), "s").Put(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.db")
	logger := &testutil.DummyLogger{}

	first, err := resultcache.OpenSQLiteStore(path, logger)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	if err := first.Put(context.Background(), "s1", []byte(`{"scan_id":"kept"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	first.Close()

	second, err := resultcache.OpenSQLiteStore(path, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	raw, err := second.Get(context.Background(), "s1")
	if err != nil || string(raw) != `{"scan_id":"kept"}` {
		t.Fatalf("expected payload after reopen, got %s (%v)", raw, err)
	}
}
