package repositories

import (
	"context"

	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

// ContentStore persists encoded content in named slots.
//
// Implementations return *domain.NotFoundError from Load when the slot does
// not exist and wrap backend failures in *domain.IOError so callers can tell
// retryable failures apart.
type ContentStore interface {
	// Exists reports whether a slot holds a prior save.
	Exists(ctx context.Context, name string) (bool, error)

	// Load returns the encoded content stored in a slot.
	Load(ctx context.Context, name string) (models.EncodedContent, error)

	// Save writes encoded content to a slot, replacing any previous value.
	Save(ctx context.Context, name string, content models.EncodedContent) error
}
