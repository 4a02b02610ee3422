package handler

import (
	"io"
	"log/slog"
	"net/http"

	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/httputil"
	"later/internal/outline"
)

// ContainerHandler handles todo-list/checklist requests and the node trees inside them
type ContainerHandler struct {
	content contentSvc.ContentService
	nodes   contentSvc.NodeStore
	tree    contentSvc.TreeQueryEngine
	reorder contentSvc.ReorderCoordinator
	authz   services.ResourceAuthorizer
	logger  *slog.Logger
}

// NewContainerHandler creates a new container handler
func NewContainerHandler(
	content contentSvc.ContentService,
	nodes contentSvc.NodeStore,
	tree contentSvc.TreeQueryEngine,
	reorder contentSvc.ReorderCoordinator,
	authz services.ResourceAuthorizer,
	logger *slog.Logger,
) *ContainerHandler {
	return &ContainerHandler{
		content: content,
		nodes:   nodes,
		tree:    tree,
		reorder: reorder,
		authz:   authz,
		logger:  logger,
	}
}

// GetContainer retrieves a container
// GET /api/containers/{id}
func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	c, err := h.content.GetContainer(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, c)
}

// UpdateContainer renames or re-kinds a container
// PATCH /api/containers/{id}
func (h *ContainerHandler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var req contentSvc.UpdateContainerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.content.UpdateContainer(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, c)
}

// DeleteContainer deletes a container and all of its nodes
// DELETE /api/containers/{id}
func (h *ContainerHandler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	if err := h.content.DeleteContainer(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// RootNodes lists the container's root nodes in order
// GET /api/containers/{id}/nodes
func (h *ContainerHandler) RootNodes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	nodes, err := h.tree.RootNodes(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// GetTree returns the nested view of every node in the container.
// format=text renders it as a plain-text outline.
// GET /api/containers/{id}/tree
func (h *ContainerHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	tree, err := h.tree.ContainerTree(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		httputil.RespondJSON(w, http.StatusOK, tree)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, outline.Render(tree))
	default:
		httputil.RespondError(w, http.StatusBadRequest, "format must be json or text")
	}
}

type createNodeBody struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id"`
}

// CreateNode adds a node at the end of its sibling set
// POST /api/containers/{id}/nodes
func (h *ContainerHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var body createNodeBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.nodes.Create(r.Context(), &contentSvc.CreateNodeRequest{
		ContainerID: id,
		Title:       body.Title,
		ParentID:    body.ParentID,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, node)
}

type reorderNodesBody struct {
	ParentID  *string `json:"parent_id"`
	NodeID    string  `json:"node_id"`
	FromIndex int     `json:"from_index"`
	ToIndex   int     `json:"to_index"`
}

// ReorderNodes moves a node within its sibling set
// POST /api/containers/{id}/reorder
func (h *ContainerHandler) ReorderNodes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var body reorderNodesBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.content.GetContainer(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	parentID := body.ParentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	result, err := h.reorder.Reorder(r.Context(), &contentSvc.ReorderRequest{
		Scope:     models.SiblingScope(c.WorkspaceID, c.ID, parentID),
		Ref:       models.NodeRef(body.NodeID),
		FromIndex: body.FromIndex,
		ToIndex:   body.ToIndex,
	})
	respondMove(w, result, err)
}

func (h *ContainerHandler) authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return "", false
	}
	id, ok := pathID(w, r, "Container")
	if !ok {
		return "", false
	}
	if err := h.authz.CanAccessContainer(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}
