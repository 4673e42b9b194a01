package converter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
)

// markdownConverter adopts markdown uploads, either as source or rendered
// to HTML.
type markdownConverter struct {
	render   bool
	markdown goldmark.Markdown
}

// NewMarkdownConverter creates a markdown converter. With render set, the
// markdown is converted to HTML (GitHub flavoured). Raw HTML in the source
// is dropped and replaced with a "raw HTML omitted" comment.
func NewMarkdownConverter(render bool) editorSvc.ContentConverter {
	return &markdownConverter{
		render:   render,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	source, err := decodeText(input)
	if err != nil {
		return "", err
	}
	if !c.render {
		return source, nil
	}

	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func (c *markdownConverter) SupportedTypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// SupportedExtensions returns markdown file extensions.
func (c *markdownConverter) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

func (c *markdownConverter) Binary() bool { return false }

// Name returns the converter name for logging.
func (c *markdownConverter) Name() string {
	return "markdown"
}
