package handler

import "net/http"

// RegisterRoutes wires the API onto mux (Go 1.22+ enhanced patterns).
func RegisterRoutes(mux *http.ServeMux, sessions *SessionHandler, snippets *SnippetHandler) {
	// Health check
	mux.HandleFunc("GET /health", HealthCheck)

	// Snippet catalog
	mux.HandleFunc("GET /api/snippets", snippets.ListSnippets)

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessions.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessions.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessions.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/upload", sessions.UploadFile)
	mux.HandleFunc("PUT /api/sessions/{id}/content", sessions.UpdateContent)
	mux.HandleFunc("POST /api/sessions/{id}/snippets/{snippetId}", sessions.InsertSnippet)
	mux.HandleFunc("POST /api/sessions/{id}/save", sessions.SaveSession)
	mux.HandleFunc("POST /api/sessions/{id}/import", sessions.ImportEncoded)
	mux.HandleFunc("GET /api/sessions/{id}/export", sessions.ExportContent)
	mux.HandleFunc("GET /api/sessions/{id}/changes", sessions.GetChanges)
}
