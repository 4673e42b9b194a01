package converter

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BitOnUranus/base64/internal/domain"
	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
	"github.com/BitOnUranus/base64/internal/service/editor/converter/sanitizer"
)

// Options selects optional behaviour of the standard converters.
type Options struct {
	// HTMLPolicy names the bluemonday policy applied to HTML uploads
	// ("none", "ugc", "strict"). Empty means "none".
	HTMLPolicy string

	// RenderMarkdown converts markdown uploads to HTML instead of keeping
	// the markdown source.
	RenderMarkdown bool
}

// ConverterRegistry manages content converters and routes uploads to them.
//
// Routing: a binary converter registered for the file's extension always
// wins; otherwise the declared media type must match a text converter. An
// empty declared type falls back to the extension of a known text format.
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu          sync.RWMutex
	byType      map[string]editorSvc.ContentConverter // key: media type (e.g., "text/html")
	byExtension map[string]editorSvc.ContentConverter // key: file extension (e.g., ".docx")
	logger      *slog.Logger
}

// NewConverterRegistry creates a registry with the standard converters
// (plain text, markdown, HTML, Word) pre-registered.
func NewConverterRegistry(opts Options, logger *slog.Logger) (*ConverterRegistry, error) {
	htmlSanitizer, err := sanitizer.NewHTMLSanitizerForPolicy(opts.HTMLPolicy)
	if err != nil {
		return nil, err
	}

	registry := &ConverterRegistry{
		byType:      make(map[string]editorSvc.ContentConverter),
		byExtension: make(map[string]editorSvc.ContentConverter),
		logger:      logger,
	}

	registry.Register(NewTextConverter())
	registry.Register(NewMarkdownConverter(opts.RenderMarkdown))
	registry.Register(NewHTMLConverter(htmlSanitizer))
	registry.Register(NewDocxConverter())

	return registry, nil
}

// Register adds a converter and associates it with its media types and
// extensions. Extensions are normalized to lowercase with a leading dot.
func (r *ConverterRegistry) Register(converter editorSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mediaType := range converter.SupportedTypes() {
		r.byType[normalizeMediaType(mediaType)] = converter
	}
	for _, ext := range converter.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.byExtension[ext] = converter
	}
}

// Resolve picks the converter for a file name and declared media type.
// Returns nil if the upload must be rejected.
func (r *ConverterRegistry) Resolve(filename, declaredType string) editorSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(filename))
	if c, ok := r.byExtension[ext]; ok && c.Binary() {
		return c
	}

	mediaType := normalizeMediaType(declaredType)
	if mediaType == "" {
		// Browsers leave the type empty for some text formats (notably .md)
		if c, ok := r.byExtension[ext]; ok {
			return c
		}
		return nil
	}

	c, ok := r.byType[mediaType]
	if !ok || c.Binary() {
		return nil
	}
	return c
}

// Convert selects the converter for the upload and performs the conversion.
//
// Returns *domain.UnsupportedTypeError when no converter accepts the file
// (its bytes are not read) and *domain.ConversionError when the converter
// fails.
func (r *ConverterRegistry) Convert(ctx context.Context, file *editorSvc.UploadedFile) (string, error) {
	converter := r.Resolve(file.Name, file.DeclaredType)
	if converter == nil {
		r.logger.Debug("upload rejected",
			"file", file.Name,
			"declared_type", file.DeclaredType,
		)
		return "", &domain.UnsupportedTypeError{FileName: file.Name, DeclaredType: file.DeclaredType}
	}

	content, err := converter.Convert(ctx, file.Content)
	if err != nil {
		return "", &domain.ConversionError{FileName: file.Name, Err: fmt.Errorf("%s converter: %w", converter.Name(), err)}
	}

	r.logger.Debug("upload converted",
		"file", file.Name,
		"converter", converter.Name(),
		"bytes", len(file.Content),
		"content_length", len(content),
	)

	return content, nil
}

// SupportedTypes returns all accepted declared media types, sorted.
func (r *ConverterRegistry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// SupportedExtensions returns all registered file extensions, sorted.
func (r *ConverterRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// normalizeMediaType strips parameters and lowercases a media type.
// "text/HTML; charset=utf-8" -> "text/html". Unparseable input yields "".
func normalizeMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mediaType
}
