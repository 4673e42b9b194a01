package editor

import (
	"context"
	"encoding/base32"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
)

// AnonymousOwner owns sessions when authentication is disabled. Its slots
// are stored unprefixed, so the CLI and an unauthenticated server share them.
const AnonymousOwner = "anonymous"

// SessionHandle is a registered session.
type SessionHandle struct {
	ID        string
	Owner     string
	Session   editorSvc.ContentSession
	CreatedAt time.Time

	// RestoreErr is the error from the initial restore, if any. The session
	// is still usable (Empty) when it is set.
	RestoreErr error
}

// SessionRegistry owns the content sessions served by one process.
// Each session belongs to the owner that created it. An owner holds at most
// maxPerOwner sessions; creating one more closes the owner's oldest.
type SessionRegistry struct {
	store       repositories.ContentStore
	converter   editorSvc.UploadConverter
	catalog     *Catalog
	defaultSlot string
	maxPerOwner int
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*SessionHandle
}

// NewSessionRegistry creates an empty registry. maxPerOwner <= 0 means no
// per-owner limit.
func NewSessionRegistry(
	store repositories.ContentStore,
	converter editorSvc.UploadConverter,
	catalog *Catalog,
	defaultSlot string,
	maxPerOwner int,
	logger *slog.Logger,
) *SessionRegistry {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &SessionRegistry{
		store:       store,
		converter:   converter,
		catalog:     catalog,
		defaultSlot: defaultSlot,
		maxPerOwner: maxPerOwner,
		logger:      logger,
		sessions:    make(map[string]*SessionHandle),
	}
}

// Catalog returns the snippet catalog shared by all sessions.
func (r *SessionRegistry) Catalog() *Catalog {
	return r.catalog
}

// Create starts a session for owner on slot (the default slot when empty)
// and restores any prior save. A failed restore is reported in
// SessionHandle.RestoreErr; only an invalid slot fails creation.
func (r *SessionRegistry) Create(ctx context.Context, owner, slot string) (*SessionHandle, error) {
	if owner == "" {
		owner = AnonymousOwner
	}
	if slot == "" {
		slot = r.defaultSlot
	}
	if err := models.ValidateSlotName(slot); err != nil {
		return nil, err
	}

	storeSlot, err := ScopedSlot(owner, slot)
	if err != nil {
		return nil, err
	}

	session, err := NewContentSession(storeSlot, r.store, r.converter, r.catalog, r.logger)
	if err != nil {
		return nil, err
	}

	handle := &SessionHandle{
		ID:        uuid.NewString(),
		Owner:     owner,
		Session:   session,
		CreatedAt: time.Now(),
	}
	handle.RestoreErr = session.Restore(ctx)

	r.mu.Lock()
	evicted := r.evictLocked(owner)
	r.sessions[handle.ID] = handle
	count := len(r.sessions)
	r.mu.Unlock()

	for _, old := range evicted {
		r.logger.Warn("session evicted",
			"session_id", old.ID,
			"owner", old.Owner,
			"discarded_changes", old.Session.State().IsDirty,
			"limit", r.maxPerOwner,
		)
	}

	r.logger.Info("session created",
		"session_id", handle.ID,
		"owner", owner,
		"slot", storeSlot,
		"restored", session.State().IsLoaded,
		"restore_error", handle.RestoreErr,
		"active_sessions", count,
	)
	return handle, nil
}

// Get returns owner's session. Sessions of other owners are reported as
// not found.
func (r *SessionRegistry) Get(owner, id string) (*SessionHandle, error) {
	if owner == "" {
		owner = AnonymousOwner
	}

	r.mu.RLock()
	handle, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || handle.Owner != owner {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("session not found: %s", id)}
	}
	return handle, nil
}

// Close discards owner's session. Unsaved content is lost.
func (r *SessionRegistry) Close(owner, id string) error {
	handle, err := r.Get(owner, id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	state := handle.Session.State()
	r.logger.Info("session closed", "session_id", id, "owner", handle.Owner, "discarded_changes", state.IsDirty)
	return nil
}

// evictLocked removes owner's oldest sessions until one more fits under
// the limit, and returns them.
func (r *SessionRegistry) evictLocked(owner string) []*SessionHandle {
	if r.maxPerOwner <= 0 {
		return nil
	}

	var owned []*SessionHandle
	for _, h := range r.sessions {
		if h.Owner == owner {
			owned = append(owned, h)
		}
	}
	if len(owned) < r.maxPerOwner {
		return nil
	}

	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })
	evicted := owned[:len(owned)-r.maxPerOwner+1]
	for _, h := range evicted {
		delete(r.sessions, h.ID)
	}
	return evicted
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ownerSlotPrefix marks slots scoped to an authenticated owner. Slot names
// given by callers may not start with it.
const ownerSlotPrefix = "u-"

// ownerEncoding maps owner ids onto [0-9a-v], which never contains the '.'
// that ends the owner part of a scoped slot.
var ownerEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// ScopedSlot returns the store slot name for owner's slot. The anonymous
// owner uses slot names unchanged; other owners get the prefix
// "u-<base32hex(owner)>.", so distinct (owner, slot) pairs never share a
// store slot.
func ScopedSlot(owner, slot string) (string, error) {
	if strings.HasPrefix(slot, ownerSlotPrefix) {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid slot name %q: the %q prefix is reserved", slot, ownerSlotPrefix)}
	}
	if owner == "" || owner == AnonymousOwner {
		return slot, nil
	}

	scoped := ownerSlotPrefix + strings.ToLower(ownerEncoding.EncodeToString([]byte(owner))) + "." + slot
	if err := models.ValidateSlotName(scoped); err != nil {
		return "", err
	}
	return scoped, nil
}
