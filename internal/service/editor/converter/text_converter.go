package converter

import (
	"context"

	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
)

// textConverter adopts plain text uploads as content.
type textConverter struct{}

// NewTextConverter creates a new plain text converter.
func NewTextConverter() editorSvc.ContentConverter {
	return &textConverter{}
}

// Convert decodes and sanitizes the input.
func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return decodeText(input)
}

func (c *textConverter) SupportedTypes() []string {
	return []string{"text/plain"}
}

// SupportedExtensions returns text file extensions.
func (c *textConverter) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

func (c *textConverter) Binary() bool { return false }

// Name returns the converter name for logging.
func (c *textConverter) Name() string {
	return "plaintext"
}
