package editor

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

// defaultSnippets is the built-in catalog offered when no file is configured.
var defaultSnippets = []models.Snippet{
	{ID: "item-1", Text: "Thank you for your submission."},
	{ID: "item-2", Text: "Please review the attached document."},
	{ID: "item-3", Text: "We appreciate your patience during this process."},
	{ID: "item-4", Text: "Let me know if you have any questions."},
	{ID: "item-5", Text: "I look forward to our meeting next week."},
	{ID: "item-6", Text: "Please confirm receipt of this email."},
	{ID: "item-7", Text: "Best regards,"},
}

// Catalog is an ordered, immutable set of snippets.
// Safe for concurrent use.
type Catalog struct {
	items []models.Snippet
	byID  map[string]models.Snippet
}

// DefaultCatalog returns the built-in snippet catalog.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultSnippets)
	if err != nil {
		panic(fmt.Sprintf("built-in snippet catalog is invalid: %v", err))
	}
	return catalog
}

// NewCatalog builds a catalog preserving the given order.
// Ids must be non-empty and unique; text must be non-empty.
func NewCatalog(snippets []models.Snippet) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.Snippet, 0, len(snippets)),
		byID:  make(map[string]models.Snippet, len(snippets)),
	}

	for i, s := range snippets {
		err := validation.ValidateStruct(&s,
			validation.Field(&s.ID, validation.Required, validation.Length(1, config.MaxSnippetIDLength)),
			validation.Field(&s.Text, validation.Required),
		)
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("snippet %d: %v", i, err)}
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("snippet %d: duplicate id %q", i, s.ID)}
		}
		c.items = append(c.items, s)
		c.byID[s.ID] = s
	}

	return c, nil
}

// catalogFile is the on-disk YAML layout:
//
//	snippets:
//	  - id: greeting
//	    text: Hello there,
type catalogFile struct {
	Snippets []models.Snippet `yaml:"snippets"`
}

// LoadCatalogFile reads a YAML snippet catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snippet catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse snippet catalog %s: %w", path, err)
	}
	if len(file.Snippets) == 0 {
		return nil, fmt.Errorf("snippet catalog %s has no snippets", path)
	}

	return NewCatalog(file.Snippets)
}

// Items returns the snippets in catalog order.
func (c *Catalog) Items() []models.Snippet {
	out := make([]models.Snippet, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup finds a snippet by id.
func (c *Catalog) Lookup(id string) (models.Snippet, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns the number of snippets.
func (c *Catalog) Len() int {
	return len(c.items)
}
