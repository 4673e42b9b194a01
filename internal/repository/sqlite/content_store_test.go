package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/repository/storetest"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T, db *sql.DB) *ContentStore {
	t.Helper()
	store, err := NewContentStore(context.Background(), db, "test_", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewContentStore() error = %v", err)
	}
	return store.(*ContentStore)
}

func TestContentStore(t *testing.T) {
	storetest.Run(t, newTestStore(t, openMemory(t)))
}

func TestContentStore_TablePrefix(t *testing.T) {
	db := openMemory(t)
	store := newTestStore(t, db)

	if err := store.Save(context.Background(), "slot", "YQ=="); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_content_slots`).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestContentStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "editor.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	store := newTestStore(t, db)
	if err := store.Save(ctx, "slot", "cGVyc2lzdGVk"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	db.Close()

	// Reopen and read back
	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	got, err := newTestStore(t, db).Load(ctx, "slot")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "cGVyc2lzdGVk" {
		t.Errorf("Load() = %q, want %q", got, "cGVyc2lzdGVk")
	}
}

func TestContentStore_ClosedDatabase(t *testing.T) {
	db, err := Open(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	store := newTestStore(t, db)
	db.Close()

	_, err = store.Exists(context.Background(), "slot")
	if !errors.Is(err, domain.ErrIO) {
		t.Errorf("Exists() error = %v, want %v", err, domain.ErrIO)
	}
	if err := store.Save(context.Background(), "slot", "YQ=="); !domain.IsRetryable(err) {
		t.Errorf("Save() error = %v, want retryable", err)
	}
}
