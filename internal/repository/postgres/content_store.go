package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// PostgresContentStore implements the ContentStore interface
type PostgresContentStore struct {
	db     repositories.DBTX
	tables *TableNames
	logger *slog.Logger
}

// NewContentStore creates a new content store
func NewContentStore(config *RepositoryConfig) repositories.ContentStore {
	return &PostgresContentStore{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Exists reports whether a slot row exists
func (r *PostgresContentStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, r.tables.ContentSlots)

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, &domain.IOError{Op: "exists", Slot: name, Err: err}
	}
	return exists, nil
}

// Load retrieves a slot's content
func (r *PostgresContentStore) Load(ctx context.Context, name string) (models.EncodedContent, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return "", err
	}

	query := fmt.Sprintf(`SELECT content FROM %s WHERE name = $1`, r.tables.ContentSlots)

	var content string
	err := r.db.QueryRow(ctx, query, name).Scan(&content)
	if err != nil {
		if isPgNoRowsError(err) {
			return "", &domain.NotFoundError{Message: fmt.Sprintf("slot not found: %s", name)}
		}
		return "", &domain.IOError{Op: "load", Slot: name, Err: err}
	}

	return models.EncodedContent(content), nil
}

// Save upserts a slot's content
func (r *PostgresContentStore) Save(ctx context.Context, name string, content models.EncodedContent) error {
	if err := models.ValidateSlotName(name); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, content, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`, r.tables.ContentSlots)

	if _, err := r.db.Exec(ctx, query, name, string(content)); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}

	r.logger.Debug("slot written", "slot", name, "table", r.tables.ContentSlots, "bytes", len(content))
	return nil
}
