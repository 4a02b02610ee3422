package handler

import (
	"net/http"

	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/httputil"
)

// NoteHandler handles note requests
type NoteHandler struct {
	content contentSvc.ContentService
	authz   services.ResourceAuthorizer
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(content contentSvc.ContentService, authz services.ResourceAuthorizer) *NoteHandler {
	return &NoteHandler{content: content, authz: authz}
}

// GetNote retrieves a note
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	n, err := h.content.GetNote(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, n)
}

// UpdateNote edits a note's title or body
// PATCH /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var req contentSvc.UpdateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.content.UpdateNote(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, n)
}

// DeleteNote deletes a note
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	if err := h.content.DeleteNote(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

func (h *NoteHandler) authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return "", false
	}
	id, ok := pathID(w, r, "Note")
	if !ok {
		return "", false
	}
	if err := h.authz.CanAccessNote(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}
