package editor

// EncodedContent is the transport form of document content: standard,
// padded base64 over the UTF-8 bytes of the content string. It is stored
// as-is in a slot, with no framing, length header or checksum.
type EncodedContent string

// String returns the raw base64 text.
func (e EncodedContent) String() string {
	return string(e)
}

// SessionState is a point-in-time snapshot of a content session.
type SessionState struct {
	Slot         string   `json:"slot"`
	Content      string   `json:"content"`       // Canonical (HTML-like) content
	IsLoaded     bool     `json:"is_loaded"`     // Any content has been present at some point
	IsDirty      bool     `json:"is_dirty"`      // Changed since last successful persist
	IsSaving     bool     `json:"is_saving"`     // A persist is in flight
	UsedSnippets []string `json:"used_snippets"` // Snippet ids in first-use order
	WordCount    int      `json:"word_count"`    // Words in Content, markup excluded
}

// ChangeOp classifies a span in a content diff.
type ChangeOp string

const (
	ChangeEqual  ChangeOp = "equal"
	ChangeInsert ChangeOp = "insert"
	ChangeDelete ChangeOp = "delete"
)

// ContentChange is one span of the diff between saved and current content.
type ContentChange struct {
	Op   ChangeOp `json:"op"`
	Text string   `json:"text"`
}

// ChangeSummary describes unsaved edits relative to the last persisted or
// restored content.
type ChangeSummary struct {
	IsDirty  bool            `json:"is_dirty"`
	Inserted int             `json:"inserted"` // Runes inserted
	Deleted  int             `json:"deleted"`  // Runes deleted
	Changes  []ContentChange `json:"changes"`
}
