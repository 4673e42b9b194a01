package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/repository/memory"
)

func newTestRegistry(t *testing.T) (*SessionRegistry, *memory.ContentStore) {
	t.Helper()
	store := memory.NewContentStore()
	return NewSessionRegistry(store, newTestConverter(t), nil, testSlot, 0, discardLogger()), store
}

func TestSessionRegistry_Create(t *testing.T) {
	registry, _ := newTestRegistry(t)

	handle, err := registry.Create(context.Background(), "", "")
	require.NoError(t, err)

	assert.NotEmpty(t, handle.ID)
	assert.Equal(t, AnonymousOwner, handle.Owner)
	assert.Equal(t, testSlot, handle.Session.Slot())
	assert.NoError(t, handle.RestoreErr)
	assert.False(t, handle.Session.State().IsLoaded)
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 7, registry.Catalog().Len())
}

func TestSessionRegistry_CreateRestores(t *testing.T) {
	ctx := context.Background()
	registry, store := newTestRegistry(t)
	require.NoError(t, store.Save(ctx, testSlot, Encode("<p>kept</p>")))

	handle, err := registry.Create(ctx, AnonymousOwner, "")
	require.NoError(t, err)

	state := handle.Session.State()
	assert.True(t, state.IsLoaded)
	assert.False(t, state.IsDirty)
	assert.Equal(t, "<p>kept</p>", state.Content)
}

func TestSessionRegistry_CreateWithCorruptSave(t *testing.T) {
	ctx := context.Background()
	registry, store := newTestRegistry(t)
	require.NoError(t, store.Save(ctx, testSlot, "!!!"))

	handle, err := registry.Create(ctx, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, handle.RestoreErr, domain.ErrDecode)
	assert.False(t, handle.Session.State().IsLoaded)

	// Still usable
	handle.Session.ApplyEdit("fresh")
	assert.NoError(t, handle.Session.Persist(ctx))
}

func TestSessionRegistry_CreateInvalidSlot(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(context.Background(), "", "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, registry.Len())
}

func TestSessionRegistry_Ownership(t *testing.T) {
	ctx := context.Background()
	registry, store := newTestRegistry(t)

	alice, err := registry.Create(ctx, "alice", "")
	require.NoError(t, err)

	got, err := registry.Get("alice", alice.ID)
	require.NoError(t, err)
	assert.Same(t, alice, got)

	_, err = registry.Get("bob", alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, registry.Close("bob", alice.ID), domain.ErrNotFound)

	// Owners persist to separate slots
	alice.Session.ApplyEdit("alice's draft")
	require.NoError(t, alice.Session.Persist(ctx))

	exists, err := store.Exists(ctx, testSlot)
	require.NoError(t, err)
	assert.False(t, exists, "authenticated owner wrote to the shared slot")

	bob, err := registry.Create(ctx, "bob", "")
	require.NoError(t, err)
	assert.False(t, bob.Session.State().IsLoaded)

	again, err := registry.Create(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "alice's draft", again.Session.State().Content)
}

func TestSessionRegistry_Close(t *testing.T) {
	registry, _ := newTestRegistry(t)

	handle, err := registry.Create(context.Background(), "", "")
	require.NoError(t, err)

	require.NoError(t, registry.Close("", handle.ID))
	assert.Equal(t, 0, registry.Len())

	_, err = registry.Get("", handle.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestScopedSlot(t *testing.T) {
	tests := []struct {
		owner   string
		slot    string
		want    string
		wantErr bool
	}{
		{owner: "", slot: "a.b64", want: "a.b64"},
		{owner: AnonymousOwner, slot: "a.b64", want: "a.b64"},
		{owner: "user-123", slot: "a.b64", want: "u-elpmashd64p36.a.b64"},
		{owner: "auth0|abc@x.com", slot: "a.b64", want: "u-c5qn8q1gfhgm4oq0f0n66rrd.a.b64"},
		{owner: "user", slot: strings.Repeat("x", 250), wantErr: true},
		{owner: "", slot: "u-f0.doc", wantErr: true},
		{owner: "x", slot: "u-f0.doc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ScopedSlot(tt.owner, tt.slot)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrValidation)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestScopedSlot_Distinct(t *testing.T) {
	pairs := [][2]string{
		{"x", "y--z"},
		{"x--y", "z"},
		{"alice@corp", "doc"},
		{"alice_corp", "doc"},
		{"x", "y.z"},
		{"x.y", "z"},
		{AnonymousOwner, "doc"},
	}

	seen := make(map[string][2]string)
	for _, pair := range pairs {
		got, err := ScopedSlot(pair[0], pair[1])
		require.NoError(t, err)
		if prev, ok := seen[got]; ok {
			t.Errorf("ScopedSlot(%q, %q) = %q, same as ScopedSlot(%q, %q)", pair[0], pair[1], got, prev[0], prev[1])
		}
		seen[got] = pair
	}
}

func TestSessionRegistry_OwnersWithSimilarIDs(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	x, err := registry.Create(ctx, "x", "y--z")
	require.NoError(t, err)
	x.Session.ApplyEdit("secret of x")
	require.NoError(t, x.Session.Persist(ctx))

	other, err := registry.Create(ctx, "x--y", "z")
	require.NoError(t, err)
	assert.False(t, other.Session.State().IsLoaded)
	assert.Empty(t, other.Session.State().Content)
}

func TestSessionRegistry_CreateReservedSlot(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(context.Background(), "", "u-f0.doc")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, registry.Len())
}

func TestSessionRegistry_EvictsOldestPerOwner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContentStore()
	registry := NewSessionRegistry(store, newTestConverter(t), nil, testSlot, 2, discardLogger())

	first, err := registry.Create(ctx, "alice", "one.b64")
	require.NoError(t, err)
	first.CreatedAt = first.CreatedAt.Add(-time.Minute)
	second, err := registry.Create(ctx, "alice", "two.b64")
	require.NoError(t, err)
	bob, err := registry.Create(ctx, "bob", "one.b64")
	require.NoError(t, err)

	third, err := registry.Create(ctx, "alice", "three.b64")
	require.NoError(t, err)

	_, err = registry.Get("alice", first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, h := range []*SessionHandle{second, third, bob} {
		_, err := registry.Get(h.Owner, h.ID)
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, registry.Len())
}
