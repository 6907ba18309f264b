package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresMessages(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		MessageTTL:      1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "archive.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenMessage("3001293434")
	if err != nil || seen {
		t.Fatalf("expected unseen message, seen=%v err=%v", seen, err)
	}

	if err := store.MarkMessage("3001293434"); err != nil {
		t.Fatalf("MarkMessage: %v", err)
	}

	seen, err = store.SeenMessage("3001293434")
	if err != nil || !seen {
		t.Fatalf("expected message marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenMessage("3001293434")
	if err != nil {
		t.Fatalf("SeenMessage after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltStoreCreatesDirectoryAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "archive.db")

	store, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.MarkMessage("m1"); err != nil {
		t.Fatalf("MarkMessage: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if seen, err := reopened.SeenMessage("m1"); err != nil || !seen {
		t.Fatalf("expected message to survive reopen, seen=%v err=%v", seen, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkMessage("x"); err != nil {
		t.Fatalf("noop store MarkMessage: %v", err)
	}
	if seen, _ := store.SeenMessage("x"); seen {
		t.Fatalf("noop store must never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatal("expected error for missing path")
	}
}
