// Package storetest holds behaviour checks shared by every ContentStore
// backend.
package storetest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
)

// Run exercises the ContentStore contract against store. The store must be
// empty.
func Run(t *testing.T, store repositories.ContentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing slot", func(t *testing.T) {
		exists, err := store.Exists(ctx, "missing.b64")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = store.Load(ctx, "missing.b64")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, domain.IsRetryable(err))
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "editor-content.b64", "PHA+SGk8L3A+"))

		exists, err := store.Exists(ctx, "editor-content.b64")
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := store.Load(ctx, "editor-content.b64")
		require.NoError(t, err)
		assert.Equal(t, models.EncodedContent("PHA+SGk8L3A+"), got)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "replace.b64", "Zmlyc3Q="))
		require.NoError(t, store.Save(ctx, "replace.b64", "c2Vjb25k"))

		got, err := store.Load(ctx, "replace.b64")
		require.NoError(t, err)
		assert.Equal(t, models.EncodedContent("c2Vjb25k"), got)
	})

	t.Run("empty content", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "empty.b64", ""))

		exists, err := store.Exists(ctx, "empty.b64")
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := store.Load(ctx, "empty.b64")
		require.NoError(t, err)
		assert.Equal(t, models.EncodedContent(""), got)
	})

	t.Run("slots are independent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "a.b64", "YQ=="))
		require.NoError(t, store.Save(ctx, "b.b64", "Yg=="))

		a, err := store.Load(ctx, "a.b64")
		require.NoError(t, err)
		b, err := store.Load(ctx, "b.b64")
		require.NoError(t, err)
		assert.Equal(t, models.EncodedContent("YQ=="), a)
		assert.Equal(t, models.EncodedContent("Yg=="), b)
	})

	t.Run("large content", func(t *testing.T) {
		large := models.EncodedContent(strings.Repeat("QUJD", 256*1024))
		require.NoError(t, store.Save(ctx, "large.b64", large))

		got, err := store.Load(ctx, "large.b64")
		require.NoError(t, err)
		assert.Equal(t, len(large), len(got))
	})

	t.Run("invalid slot names", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b", "with space", strings.Repeat("x", 256)} {
			_, err := store.Exists(ctx, name)
			assert.ErrorIs(t, err, domain.ErrValidation, "Exists(%q)", name)

			_, err = store.Load(ctx, name)
			assert.ErrorIs(t, err, domain.ErrValidation, "Load(%q)", name)

			err = store.Save(ctx, name, "YQ==")
			assert.ErrorIs(t, err, domain.ErrValidation, "Save(%q)", name)
		}
	})
}
