package handler

import (
	"net/http"

	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	"github.com/BitOnUranus/base64/internal/httputil"
	"github.com/BitOnUranus/base64/internal/service/editor"
)

// SnippetHandler serves the snippet catalog
type SnippetHandler struct {
	catalog *editor.Catalog
}

// NewSnippetHandler creates a new snippet handler
func NewSnippetHandler(catalog *editor.Catalog) *SnippetHandler {
	return &SnippetHandler{catalog: catalog}
}

// SnippetListResponse lists the catalog in display order
type SnippetListResponse struct {
	Snippets []models.Snippet `json:"snippets"`
}

// ListSnippets returns the snippet catalog
// GET /api/snippets
func (h *SnippetHandler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, SnippetListResponse{Snippets: h.catalog.Items()})
}
