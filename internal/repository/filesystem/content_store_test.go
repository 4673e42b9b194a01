package filesystem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/repository/storetest"
)

func newTestStore(t *testing.T, root string) *ContentStore {
	t.Helper()
	store, err := NewContentStore(root, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewContentStore() error = %v", err)
	}
	return store.(*ContentStore)
}

func TestContentStore(t *testing.T) {
	storetest.Run(t, newTestStore(t, t.TempDir()))
}

func TestContentStore_RawFile(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t, root)

	if err := store.Save(context.Background(), "editor-content.b64", "SGVsbG8="); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "editor-content.b64"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "SGVsbG8=" {
		t.Errorf("file content = %q, want raw base64", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("store directory has %d entries, want 1", len(entries))
	}
}

func TestContentStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	newTestStore(t, root)

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root directory not created: %v", err)
	}
}

func TestContentStore_DirectoryInSlotPath(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t, root)

	if err := os.Mkdir(filepath.Join(root, "taken"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := store.Exists(context.Background(), "taken")
	if !errors.Is(err, domain.ErrIO) {
		t.Errorf("Exists() error = %v, want %v", err, domain.ErrIO)
	}

	err = store.Save(context.Background(), "taken", "YQ==")
	if !errors.Is(err, domain.ErrIO) {
		t.Errorf("Save() error = %v, want %v", err, domain.ErrIO)
	}
}

func TestContentStore_CancelledSave(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, "slot", "YQ==")
	if !domain.IsRetryable(err) {
		t.Errorf("Save() error = %v, want retryable IOError", err)
	}
}
