package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
	"github.com/BitOnUranus/base64/internal/httputil"
	"github.com/BitOnUranus/base64/internal/service/editor"
)

// SessionHandler handles content session HTTP requests.
// Sessions are scoped to the requesting user.
type SessionHandler struct {
	registry       *editor.SessionRegistry
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *editor.SessionRegistry, maxUploadBytes int64, logger *slog.Logger) *SessionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &SessionHandler{
		registry:       registry,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	Slot string `json:"slot"`
}

// Validate checks the request fields
func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slot, validation.Length(0, config.MaxSlotNameLength)),
	)
}

// UpdateContentRequest is the body of PUT /api/sessions/{id}/content
type UpdateContentRequest struct {
	Content *string `json:"content"`
}

// Validate checks the request fields
func (r UpdateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.NotNil, validation.Length(0, config.MaxContentBytes)),
	)
}

// ImportRequest is the body of POST /api/sessions/{id}/import.
// An empty string is valid and imports empty content.
type ImportRequest struct {
	Encoded *string `json:"encoded"`
}

// Validate checks the request fields
func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Encoded, validation.NotNil, validation.Length(0, config.MaxContentBytes)),
	)
}

// SessionResponse describes a session and its current state
type SessionResponse struct {
	ID           string              `json:"id"`
	State        models.SessionState `json:"state"`
	RestoreError string              `json:"restore_error,omitempty"`
}

// CreateSession starts a session and restores the slot's prior save.
// POST /api/sessions
//
// A failed restore still creates the session; the error is reported in
// restore_error and the session starts empty.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req CreateSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	handle, err := h.registry.Create(r.Context(), httputil.GetUserID(r), req.Slot)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := SessionResponse{ID: handle.ID, State: handle.Session.State()}
	if handle.RestoreErr != nil {
		resp.RestoreError = handle.RestoreErr.Error()
	}
	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// GetSession returns the session state
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.respondState(w, handle)
}

// DeleteSession discards a session
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Close(httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadFile ingests an uploaded document as the session content.
// POST /api/sessions/{id}/upload (multipart field "file")
func (h *SessionHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	upload := &editorSvc.UploadedFile{
		Name:         header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Content:      content,
	}
	if err := handle.Session.IngestUpload(r.Context(), upload); err != nil {
		handleError(w, err)
		return
	}

	h.respondState(w, handle)
}

// UpdateContent replaces the session content with the editor's output
// PUT /api/sessions/{id}/content
func (h *SessionHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req UpdateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	handle.Session.ApplyEdit(*req.Content)
	h.respondState(w, handle)
}

// InsertSnippet appends a catalog snippet to the content
// POST /api/sessions/{id}/snippets/{snippetId}
func (h *SessionHandler) InsertSnippet(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := handle.Session.InsertSnippet(r.PathValue("snippetId")); err != nil {
		handleError(w, err)
		return
	}
	h.respondState(w, handle)
}

// SaveSession persists the content to the session's slot
// POST /api/sessions/{id}/save
func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := handle.Session.Persist(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	h.respondState(w, handle)
}

// ImportEncoded replaces the content with a decoded base64 blob
// POST /api/sessions/{id}/import
func (h *SessionHandler) ImportEncoded(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ImportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handle.Session.LoadEncoded(models.EncodedContent(*req.Encoded)); err != nil {
		handleError(w, err)
		return
	}
	h.respondState(w, handle)
}

// ExportContent returns the content as base64 (default) or markdown.
// GET /api/sessions/{id}/export?format=base64|markdown[&download=true]
//
// Responds 204 when the session has no content.
func (h *SessionHandler) ExportContent(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var (
		body     string
		filename = handle.Session.Slot()
		err      error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "base64":
		var encoded models.EncodedContent
		encoded, err = handle.Session.ExportEncoded()
		body = encoded.String()
	case "markdown":
		body, err = handle.Session.ExportMarkdown()
		filename += ".md"
	default:
		httputil.RespondError(w, http.StatusBadRequest, "format must be base64 or markdown")
		return
	}

	if errors.Is(err, domain.ErrNothingToExport) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	httputil.RespondText(w, http.StatusOK, body)
}

// GetChanges returns the diff between the saved and current content
// GET /api/sessions/{id}/changes
func (h *SessionHandler) GetChanges(w http.ResponseWriter, r *http.Request) {
	handle, ok := h.lookup(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, handle.Session.PendingChanges())
}

// lookup resolves the {id} path value to the caller's session, writing an
// error response when it does not exist.
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*editor.SessionHandle, bool) {
	handle, err := h.registry.Get(httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	return handle, true
}

func (h *SessionHandler) respondState(w http.ResponseWriter, handle *editor.SessionHandle) {
	httputil.RespondJSON(w, http.StatusOK, SessionResponse{ID: handle.ID, State: handle.Session.State()})
}
