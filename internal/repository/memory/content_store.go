// Package memory provides a process-local content store for tests and
// ephemeral runs. Content is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// ContentStore keeps slots in a map.
type ContentStore struct {
	mu    sync.RWMutex
	slots map[string]models.EncodedContent
}

// NewContentStore creates an empty in-memory store.
func NewContentStore() *ContentStore {
	return &ContentStore{slots: make(map[string]models.EncodedContent)}
}

var _ repositories.ContentStore = (*ContentStore)(nil)

func (s *ContentStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.slots[name]
	return ok, nil
}

func (s *ContentStore) Load(ctx context.Context, name string) (models.EncodedContent, error) {
	if err := models.ValidateSlotName(name); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.slots[name]
	if !ok {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("slot not found: %s", name)}
	}
	return content, nil
}

func (s *ContentStore) Save(ctx context.Context, name string, content models.EncodedContent) error {
	if err := models.ValidateSlotName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = content
	return nil
}
