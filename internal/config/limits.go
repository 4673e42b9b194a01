package config

// Store backends
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// HTML upload policies
const (
	HTMLPolicyNone   = "none"   // keep uploaded HTML as-is (after control-char sanitizing)
	HTMLPolicyUGC    = "ugc"    // bluemonday UGC policy
	HTMLPolicyStrict = "strict" // strip all markup
)

// Markdown upload modes
const (
	MarkdownRaw  = "raw"  // keep markdown source as content
	MarkdownHTML = "html" // render markdown to HTML
)

const (
	// DefaultSlotName is the slot a session persists to when none is given.
	DefaultSlotName = "editor-content.b64"

	// MaxSlotNameLength is the maximum length for slot names.
	// Limited to 255 to fit in VARCHAR(255) and common filesystem limits.
	MaxSlotNameLength = 255

	// DefaultMaxUploadBytes caps multipart uploads (25MB). Word documents
	// with embedded images are the largest expected input.
	DefaultMaxUploadBytes = 25 << 20

	// DefaultMaxSessionsPerOwner bounds open sessions per owner. The oldest
	// session is closed when an owner opens one more.
	DefaultMaxSessionsPerOwner = 16

	// MaxContentBytes caps content accepted from edits and imports (10MB),
	// matching the JSON body limit in httputil.ParseJSON.
	MaxContentBytes = 10 << 20

	// MaxSnippetIDLength bounds catalog ids.
	MaxSnippetIDLength = 64
)
