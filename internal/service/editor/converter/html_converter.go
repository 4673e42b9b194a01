package converter

import (
	"context"

	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
	"github.com/BitOnUranus/base64/internal/service/editor/converter/sanitizer"
)

// htmlConverter adopts HTML uploads as content.
// Markup is kept; a bluemonday policy is applied when one is configured.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer // nil keeps markup untouched
}

// NewHTMLConverter creates an HTML converter. A nil sanitizer keeps the
// uploaded markup as-is apart from control character removal.
func NewHTMLConverter(htmlSanitizer *sanitizer.HTMLSanitizer) editorSvc.ContentConverter {
	return &htmlConverter{sanitizer: htmlSanitizer}
}

func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	content, err := decodeText(input)
	if err != nil {
		return "", err
	}
	if c.sanitizer == nil {
		return content, nil
	}
	return c.sanitizer.Sanitize(content), nil
}

func (c *htmlConverter) SupportedTypes() []string {
	return []string{"text/html"}
}

// SupportedExtensions returns HTML file extensions.
func (c *htmlConverter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

func (c *htmlConverter) Binary() bool { return false }

// Name returns the converter name for logging.
func (c *htmlConverter) Name() string {
	return "html"
}
