// Package filesystem stores each slot as a file holding the raw base64 text.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// ContentStore keeps one file per slot under a root directory.
// Writes go to a temporary file that is renamed over the slot file, so a
// reader never observes a partial save.
type ContentStore struct {
	root   string
	logger *slog.Logger
}

// NewContentStore creates the root directory if needed.
func NewContentStore(root string, logger *slog.Logger) (repositories.ContentStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &ContentStore{root: root, logger: logger}, nil
}

func (s *ContentStore) path(name string) string {
	return filepath.Join(s.root, name)
}

func (s *ContentStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return false, err
	}

	info, err := os.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.IOError{Op: "exists", Slot: name, Err: err}
	}
	if info.IsDir() {
		return false, &domain.IOError{Op: "exists", Slot: name, Err: fmt.Errorf("%s is a directory", s.path(name))}
	}
	return true, nil
}

func (s *ContentStore) Load(ctx context.Context, name string) (models.EncodedContent, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("slot not found: %s", name)}
	}
	if err != nil {
		return "", &domain.IOError{Op: "load", Slot: name, Err: err}
	}
	return models.EncodedContent(data), nil
}

func (s *ContentStore) Save(ctx context.Context, name string, content models.EncodedContent) error {
	if err := models.ValidateSlotName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}

	tmp, err := os.CreateTemp(s.root, ".slot-*.tmp")
	if err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure below; after a successful rename
	// the remove is a no-op.
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(string(content)); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}

	s.logger.Debug("slot written", "slot", name, "path", s.path(name), "bytes", len(content))
	return nil
}
