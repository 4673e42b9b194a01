package editor

import "context"

// ContentConverter converts uploaded file bytes to canonical editor content.
// Each converter handles one family of inputs (plain text, markdown, HTML, Word).
//
// Implementations should be stateless and thread-safe.
type ContentConverter interface {
	// Convert transforms input bytes to canonical content.
	// Returns an error if conversion fails.
	Convert(ctx context.Context, input []byte) (content string, err error)

	// SupportedTypes returns the declared media types this converter accepts
	// (e.g., ["text/html"]). Parameters such as charset are not included.
	SupportedTypes() []string

	// SupportedExtensions returns file extensions this converter handles.
	// Extensions should include the leading dot (e.g., [".html", ".htm"]).
	SupportedExtensions() []string

	// Binary reports whether the converter reads a binary container format.
	// Binary converters are selected by file extension alone; text converters
	// require an accepted declared media type.
	Binary() bool

	// Name returns a human-readable converter name for logging/debugging.
	Name() string
}

// UploadConverter turns an uploaded file into canonical content, choosing the
// converter from the file name and declared type.
type UploadConverter interface {
	// Convert returns domain.UnsupportedTypeError for rejected types and
	// domain.ConversionError when the chosen converter fails.
	Convert(ctx context.Context, file *UploadedFile) (string, error)
}
