// Package redis stores content slots as plain string keys in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// ContentStore keeps each slot under the key <prefix>slot:<name>.
// Keys never expire.
type ContentStore struct {
	client *goredis.Client
	prefix string
	logger *slog.Logger
}

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// NewContentStore creates a store from an existing client.
func NewContentStore(client *goredis.Client, keyPrefix string, logger *slog.Logger) repositories.ContentStore {
	return &ContentStore{
		client: client,
		prefix: keyPrefix + "slot:",
		logger: logger,
	}
}

func (s *ContentStore) key(name string) string {
	return s.prefix + name
}

func (s *ContentStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return false, err
	}

	n, err := s.client.Exists(ctx, s.key(name)).Result()
	if err != nil {
		return false, &domain.IOError{Op: "exists", Slot: name, Err: err}
	}
	return n > 0, nil
}

func (s *ContentStore) Load(ctx context.Context, name string) (models.EncodedContent, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return "", err
	}

	content, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, goredis.Nil) {
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

	if err := s.client.Set(ctx, s.key(name), string(content), 0).Err(); err != nil {
		return &domain.IOError{Op: "save", Slot: name, Err: err}
	}

	s.logger.Debug("slot written", "slot", name, "key", s.key(name), "bytes", len(content))
	return nil
}
