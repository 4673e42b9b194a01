package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/domain/repositories"
	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
)

// contentSession implements editorSvc.ContentSession.
//
// mu guards all fields below it. Store and converter calls run without the
// lock held; results are applied afterwards.
type contentSession struct {
	slot      string
	store     repositories.ContentStore
	converter editorSvc.UploadConverter
	catalog   *Catalog
	markdown  *md.Converter
	logger    *slog.Logger

	mu       sync.Mutex
	content  string
	loaded   bool
	dirty    bool
	saving   bool
	revision uint64 // bumped by every content mutation
	baseline string // content as of the last persist or restore
	used     []string
	usedSet  map[string]struct{}
}

// NewContentSession creates an Empty session bound to a store slot.
func NewContentSession(
	slot string,
	store repositories.ContentStore,
	converter editorSvc.UploadConverter,
	catalog *Catalog,
	logger *slog.Logger,
) (editorSvc.ContentSession, error) {
	if err := models.ValidateSlotName(slot); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	return &contentSession{
		slot:      slot,
		store:     store,
		converter: converter,
		catalog:   catalog,
		markdown:  md.NewConverter("", true, nil),
		logger:    logger.With("slot", slot),
		usedSet:   make(map[string]struct{}),
	}, nil
}

func (s *contentSession) Slot() string {
	return s.slot
}

// Restore loads the slot's saved content into an Empty session.
func (s *contentSession) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return &domain.ValidationError{Message: "session already has content"}
	}
	s.mu.Unlock()

	exists, err := s.store.Exists(ctx, s.slot)
	if err != nil {
		s.logger.Warn("restore: exists check failed", "error", err)
		return err
	}
	if !exists {
		s.logger.Debug("restore: nothing saved")
		return nil
	}

	encoded, err := s.store.Load(ctx, s.slot)
	if err != nil {
		// Deleted between the exists check and the load
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		s.logger.Warn("restore: load failed", "error", err)
		return err
	}

	content, err := Decode(encoded)
	if err != nil {
		s.logger.Warn("restore: saved content is corrupt", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return &domain.ValidationError{Message: "session received content during restore"}
	}
	s.content = content
	s.baseline = content
	s.loaded = true
	s.dirty = false
	s.revision++

	s.logger.Info("session restored", "content_length", len(content))
	return nil
}

// IngestUpload converts an uploaded file and adopts it as content.
func (s *contentSession) IngestUpload(ctx context.Context, file *editorSvc.UploadedFile) error {
	content, err := s.converter.Convert(ctx, file)
	if err != nil {
		s.logger.Info("upload rejected", "file", file.Name, "declared_type", file.DeclaredType, "error", err)
		return err
	}

	s.mu.Lock()
	s.setContentLocked(content)
	s.mu.Unlock()

	s.logger.Info("upload ingested", "file", file.Name, "content_length", len(content))
	return nil
}

func (s *contentSession) ApplyEdit(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setContentLocked(content)
}

// InsertSnippet appends a catalog snippet to the content. Re-inserting a
// snippet appends it again.
func (s *contentSession) InsertSnippet(id string) error {
	snippet, ok := s.catalog.Lookup(id)
	if !ok {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown snippet %q", id)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.content
	if next != "" {
		next += "\n"
	}
	s.setContentLocked(next + snippet.Text)

	if _, seen := s.usedSet[id]; !seen {
		s.usedSet[id] = struct{}{}
		s.used = append(s.used, id)
	}
	return nil
}

// Persist saves the current content to the slot.
func (s *contentSession) Persist(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return &domain.ValidationError{Message: "nothing to save: session has no content"}
	}
	if s.saving {
		s.mu.Unlock()
		return &domain.BusyError{Message: "a save is already in progress"}
	}
	s.saving = true
	content := s.content
	revision := s.revision
	s.mu.Unlock()

	err := s.store.Save(ctx, s.slot, Encode(content))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		s.logger.Warn("save failed", "error", err, "retryable", domain.IsRetryable(err))
		return err
	}

	s.baseline = content
	if s.revision == revision {
		s.dirty = false
	}
	s.logger.Info("session saved", "content_length", len(content), "still_dirty", s.dirty)
	return nil
}

// LoadEncoded adopts content decoded from a base64 blob.
func (s *contentSession) LoadEncoded(encoded models.EncodedContent) error {
	content, err := Decode(encoded)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setContentLocked(content)
	return nil
}

func (s *contentSession) ExportEncoded() (models.EncodedContent, error) {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()

	if content == "" {
		return "", domain.ErrNothingToExport
	}
	return Encode(content), nil
}

// ExportMarkdown converts the current content to markdown. Content with no
// HTML tags is already markdown (or plain text) and is returned as is.
func (s *contentSession) ExportMarkdown() (string, error) {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()

	if content == "" {
		return "", domain.ErrNothingToExport
	}
	if !hasMarkup(content) {
		return content, nil
	}

	markdown, err := s.markdown.ConvertString(content)
	if err != nil {
		return "", &domain.ConversionError{FileName: s.slot, Err: fmt.Errorf("convert to markdown: %w", err)}
	}
	return markdown, nil
}

func (s *contentSession) PendingChanges() models.ChangeSummary {
	s.mu.Lock()
	baseline, content, dirty := s.baseline, s.content, s.dirty
	s.mu.Unlock()

	summary := diffContent(baseline, content)
	summary.IsDirty = dirty
	return summary
}

func (s *contentSession) State() models.SessionState {
	s.mu.Lock()
	state := models.SessionState{
		Slot:         s.slot,
		Content:      s.content,
		IsLoaded:     s.loaded,
		IsDirty:      s.dirty,
		IsSaving:     s.saving,
		UsedSnippets: s.usedLocked(),
	}
	s.mu.Unlock()

	state.WordCount = countWords(state.Content)
	return state
}

func (s *contentSession) UsedSnippets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedLocked()
}

func (s *contentSession) IsSnippetUsed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.usedSet[id]
	return ok
}

// setContentLocked adopts new content and marks the session Dirty.
// Caller holds mu.
func (s *contentSession) setContentLocked(content string) {
	s.content = content
	s.loaded = true
	s.dirty = true
	s.revision++
}

func (s *contentSession) usedLocked() []string {
	out := make([]string, len(s.used))
	copy(out, s.used)
	return out
}
