package handler

import (
	"log/slog"
	"net/http"

	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/httputil"
)

// WorkspaceHandler handles workspace HTTP requests, including the workspace's
// top-level content and its ordering
type WorkspaceHandler struct {
	workspaces contentSvc.WorkspaceService
	content    contentSvc.ContentService
	reorder    contentSvc.ReorderCoordinator
	authz      services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	workspaces contentSvc.WorkspaceService,
	content contentSvc.ContentService,
	reorder contentSvc.ReorderCoordinator,
	authz services.ResourceAuthorizer,
	logger *slog.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		content:    content,
		reorder:    reorder,
		authz:      authz,
		logger:     logger,
	}
}

// ListWorkspaces retrieves all workspaces for the user
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.workspaces.ListWorkspaces(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// CreateWorkspace creates a new workspace
// POST /api/workspaces
// Returns 201 if created, 409 with the existing workspace if the name is taken
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req contentSvc.CreateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = userID

	ws, err := h.workspaces.CreateWorkspace(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*models.Workspace, error) {
			return h.workspaces.GetWorkspace(r.Context(), id, userID)
		})
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, ws)
}

// GetWorkspace retrieves a workspace by ID
// GET /api/workspaces/{id}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Workspace")
	if !ok {
		return
	}

	ws, err := h.workspaces.GetWorkspace(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ws)
}

// UpdateWorkspace renames a workspace
// PATCH /api/workspaces/{id}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Workspace")
	if !ok {
		return
	}

	var req contentSvc.UpdateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, err := h.workspaces.UpdateWorkspace(r.Context(), id, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ws)
}

// DeleteWorkspace deletes a workspace and everything in it
// DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Workspace")
	if !ok {
		return
	}

	if err := h.workspaces.DeleteWorkspace(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// ListContent returns containers and notes in workspace order
// GET /api/workspaces/{id}/content
func (h *WorkspaceHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	items, err := h.content.ListContent(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, items)
}

// CreateContainer creates a todo-list or checklist at the end of the workspace
// POST /api/workspaces/{id}/containers
func (h *WorkspaceHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var req contentSvc.CreateContainerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.WorkspaceID = id

	c, err := h.content.CreateContainer(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, c)
}

// CreateNote creates a note at the end of the workspace
// POST /api/workspaces/{id}/notes
func (h *WorkspaceHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var req contentSvc.CreateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.WorkspaceID = id

	n, err := h.content.CreateNote(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, n)
}

type reorderWorkspaceRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	FromIndex  int    `json:"from_index"`
	ToIndex    int    `json:"to_index"`
}

// Reorder moves a container or note within the workspace
// POST /api/workspaces/{id}/reorder
func (h *WorkspaceHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var body reorderWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := models.ParseEntityKind(body.EntityKind)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.reorder.Reorder(r.Context(), &contentSvc.ReorderRequest{
		Scope:     models.WorkspaceScope(id),
		Ref:       models.EntityRef{Kind: kind, ID: body.EntityID},
		FromIndex: body.FromIndex,
		ToIndex:   body.ToIndex,
	})
	respondMove(w, result, err)
}

// authorized checks workspace ownership for {id} and returns the id
func (h *WorkspaceHandler) authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return "", false
	}
	id, ok := pathID(w, r, "Workspace")
	if !ok {
		return "", false
	}
	if err := h.authz.CanAccessWorkspace(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}

// respondMove writes a committed MoveResult, or the rejection as a problem
// response carrying the outcome
func respondMove(w http.ResponseWriter, result *contentSvc.MoveResult, err error) {
	if err == nil {
		httputil.RespondJSON(w, http.StatusOK, result)
		return
	}
	if result == nil {
		handleError(w, err)
		return
	}
	handleErrorWithExtras(w, err, map[string]interface{}{
		"outcome": result.Outcome,
		"scope":   result.Scope,
	})
}
