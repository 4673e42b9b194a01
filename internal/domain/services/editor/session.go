package editor

import (
	"context"

	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

// ContentSession is the stateful owner of one working document.
//
// State machine: Empty -> Loaded -> {Clean, Dirty}. A failed operation never
// changes session state. Operations are expected to come from a single
// driver; Persist additionally refuses to overlap with itself.
type ContentSession interface {
	// Slot returns the store slot this session persists to.
	Slot() string

	// Restore loads and decodes a prior save. A missing slot is not an error:
	// the session simply stays Empty.
	Restore(ctx context.Context) error

	// IngestUpload converts an uploaded file and adopts it as content (Dirty).
	IngestUpload(ctx context.Context, file *UploadedFile) error

	// ApplyEdit replaces content with the editor's output and marks the
	// session Dirty, even when the content is unchanged.
	ApplyEdit(content string)

	// InsertSnippet appends a catalog snippet, separated by a newline when
	// content is non-empty, and records the snippet as used.
	InsertSnippet(id string) error

	// Persist encodes content and saves it to the slot. Returns
	// domain.BusyError when a persist is already in flight.
	Persist(ctx context.Context) error

	// LoadEncoded adopts content decoded from a pasted base64 blob (Dirty).
	LoadEncoded(encoded models.EncodedContent) error

	// ExportEncoded returns base64 of the current content, or
	// domain.ErrNothingToExport when content is empty.
	ExportEncoded() (models.EncodedContent, error)

	// ExportMarkdown returns the current content converted to markdown, or
	// domain.ErrNothingToExport when content is empty.
	ExportMarkdown() (string, error)

	// PendingChanges diffs current content against the last saved content.
	PendingChanges() models.ChangeSummary

	// State returns a snapshot of the session state.
	State() models.SessionState

	// UsedSnippets returns the ids of inserted snippets in first-use order.
	UsedSnippets() []string

	// IsSnippetUsed reports whether a snippet was inserted this session.
	IsSnippetUsed(id string) bool
}
