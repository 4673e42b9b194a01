// Package sqlite stores content slots in an SQLite database using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens (creating if needed) the database at path and applies the
// pragmas the store relies on.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// ContentStore keeps slots in the <prefix>content_slots table.
type ContentStore struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// NewContentStore creates the slots table if it does not exist.
func NewContentStore(ctx context.Context, db *sql.DB, tablePrefix string, logger *slog.Logger) (repositories.ContentStore, error) {
	table := tablePrefix + "content_slots"

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name       TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now'))
		)
	`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}

	return &ContentStore{db: db, table: table, logger: logger}, nil
}

func (s *ContentStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = ?)`, s.table)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, &domain.IOError{Op: "exists", Slot: name, Err: err}
	}
	return exists, nil
}

func (s *ContentStore) Load(ctx context.Context, name string) (models.EncodedContent, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return "", err
	}

	query := fmt.Sprintf(`SELECT content FROM %s WHERE name = ?`, s.table)

	var content string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("slot not found: %s", name)}
	}
	if err != nil {
		return "", &domain.IOError{Op: "load", Slot: name, Err: err}
	}
	return models.EncodedContent(content), nil
}

func (s *ContentStore) Save(ctx context.Context, name string, content models.EncodedContent) error {
	if err := models.ValidateSlotName(name); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, content, updated_at)
		VALUES (?, ?, strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now'))
		ON CONFLICT (name) DO UPDATE
		SET content = excluded.content, updated_at = excluded.updated_at
	`, s.table)

	if _, err := s.db.ExecContext(ctx, query, name, string(content)); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}

	s.logger.Debug("slot written", "slot", name, "table", s.table, "bytes", len(content))
	return nil
}
