package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	if catalog.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", catalog.Len())
	}

	items := catalog.Items()
	if items[0].ID != "item-1" || items[0].Text != "Thank you for your submission." {
		t.Errorf("Items()[0] = %+v", items[0])
	}
	if items[6].ID != "item-7" || items[6].Text != "Best regards," {
		t.Errorf("Items()[6] = %+v", items[6])
	}

	// Items returns a copy
	items[0].Text = "changed"
	if s, _ := catalog.Lookup("item-1"); s.Text == "changed" {
		t.Error("Items() exposed internal slice")
	}
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := DefaultCatalog()

	s, ok := catalog.Lookup("item-4")
	if !ok {
		t.Fatal("Lookup(item-4) not found")
	}
	if s.Text != "Let me know if you have any questions." {
		t.Errorf("Lookup(item-4).Text = %q", s.Text)
	}

	if _, ok := catalog.Lookup("item-99"); ok {
		t.Error("Lookup(item-99) found, want missing")
	}
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		snippets []models.Snippet
	}{
		{"empty id", []models.Snippet{{ID: "", Text: "x"}}},
		{"empty text", []models.Snippet{{ID: "a", Text: ""}}},
		{"duplicate id", []models.Snippet{{ID: "a", Text: "x"}, {ID: "a", Text: "y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.snippets)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("NewCatalog() error = %v, want %v", err, domain.ErrValidation)
			}
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "snippets.yaml")
		content := "snippets:\n  - id: hello\n    text: Hello there,\n  - id: bye\n    text: \"Kind regards,\"\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		catalog, err := LoadCatalogFile(path)
		if err != nil {
			t.Fatalf("LoadCatalogFile() error = %v", err)
		}
		items := catalog.Items()
		if len(items) != 2 || items[0].ID != "hello" || items[1].Text != "Kind regards," {
			t.Errorf("Items() = %+v", items)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadCatalogFile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("LoadCatalogFile() expected error for missing file")
		}
	})

	t.Run("no snippets", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, []byte("snippets: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCatalogFile(path); err == nil {
			t.Error("LoadCatalogFile() expected error for empty catalog")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("snippets: [\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCatalogFile(path); err == nil {
			t.Error("LoadCatalogFile() expected error for malformed yaml")
		}
	})
}
