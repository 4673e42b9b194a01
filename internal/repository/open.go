// Package repository selects and constructs the configured content store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
	"github.com/BitOnUranus/base64/internal/repository/filesystem"
	"github.com/BitOnUranus/base64/internal/repository/memory"
	"github.com/BitOnUranus/base64/internal/repository/postgres"
	"github.com/BitOnUranus/base64/internal/repository/redis"
	"github.com/BitOnUranus/base64/internal/repository/sqlite"
)

// OpenContentStore builds the store selected by cfg.StoreBackend. The
// returned close function releases the backend's connections.
func OpenContentStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.ContentStore, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("using in-memory store: content is lost on exit")
		return memory.NewContentStore(), noop, nil

	case config.StoreFile:
		store, err := filesystem.NewContentStore(cfg.StoreDir, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("file store ready", "dir", cfg.StoreDir)
		return store, noop, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlite.NewContentStore(ctx, db, cfg.TablePrefix, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("sqlite store ready", "path", cfg.SQLitePath, "table_prefix", cfg.TablePrefix)
		return store, func() { db.Close() }, nil

	case config.StorePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store := postgres.NewContentStore(&postgres.RepositoryConfig{
			DB:     pool,
			Tables: tables,
			Logger: logger,
		})
		logger.Info("postgres store ready", "table", tables.ContentSlots)
		return store, pool.Close, nil

	case config.StoreRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("redis store ready", "key_prefix", cfg.TablePrefix+"slot:")
		return redis.NewContentStore(client, cfg.TablePrefix, logger), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
