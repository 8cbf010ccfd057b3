package seenstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T, retentionDays int) *SQLite {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "seen.db"), retentionDays)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteEmptyLoad(t *testing.T) {
	store := openTestDB(t, 0)

	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d", set.Len())
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := openTestDB(t, 0)

	if err := store.Save(context.Background(), NewSet("aaa", "bbb")); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 2 || !loaded.Has("aaa") || !loaded.Has("bbb") {
		t.Fatalf("unexpected set after round trip: %v", loaded)
	}
}

func TestSQLiteSaveIdempotent(t *testing.T) {
	store := openTestDB(t, 0)

	for i := 0; i < 2; i++ {
		if err := store.Save(context.Background(), NewSet("same")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected 1 fingerprint after duplicate saves, got %d", loaded.Len())
	}
}

func TestSQLiteRetentionKeepsFresh(t *testing.T) {
	store := openTestDB(t, 30)

	if err := store.Save(context.Background(), NewSet("fresh")); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Has("fresh") {
		t.Fatalf("retention pruning must not drop fresh entries")
	}
}
