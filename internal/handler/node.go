package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"later/internal/domain"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/httputil"
)

// NodeHandler handles requests for individual container items
type NodeHandler struct {
	nodes   contentSvc.NodeStore
	tree    contentSvc.TreeQueryEngine
	reorder contentSvc.ReorderCoordinator
	authz   services.ResourceAuthorizer
	logger  *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	nodes contentSvc.NodeStore,
	tree contentSvc.TreeQueryEngine,
	reorder contentSvc.ReorderCoordinator,
	authz services.ResourceAuthorizer,
	logger *slog.Logger,
) *NodeHandler {
	return &NodeHandler{
		nodes:   nodes,
		tree:    tree,
		reorder: reorder,
		authz:   authz,
		logger:  logger,
	}
}

// GetNode retrieves a node with depth and sort key
// GET /api/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	node, err := h.nodes.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

// UpdateNode edits a node's title or completion state
// PATCH /api/nodes/{id}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var req contentSvc.UpdateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.nodes.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode deletes a node and its descendants. Deleting a node that is
// already gone succeeds.
// DELETE /api/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Node")
	if !ok {
		return
	}
	if err := h.authz.CanAccessNode(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondNoContent(w)
			return
		}
		handleError(w, err)
		return
	}

	if err := h.nodes.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondNoContent(w)
}

// Children lists a node's direct children in order
// GET /api/nodes/{id}/children
func (h *NodeHandler) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	children, err := h.tree.Children(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, children)
}

// Subtree expands depth-first from the node
// GET /api/nodes/{id}/subtree?max_depth=N
func (h *NodeHandler) Subtree(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	maxDepth, present, err := httputil.QueryInt(r, "max_depth")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var limit *int
	if present {
		limit = &maxDepth
	}

	entries, err := h.tree.Subtree(r.Context(), id, limit)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}

// Breadcrumb returns ancestor titles root first, ending with the node
// GET /api/nodes/{id}/breadcrumb
func (h *NodeHandler) Breadcrumb(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	crumbs, err := h.tree.Breadcrumb(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"breadcrumb": crumbs})
}

// Ancestors returns the node's ancestors, root first
// GET /api/nodes/{id}/ancestors
func (h *NodeHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	ancestors, err := h.nodes.GetAncestors(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ancestors)
}

type moveNodeBody struct {
	ParentID httputil.OptionalString `json:"parent_id"`
	ToIndex  *int                    `json:"to_index"`
}

// MoveNode drops a node at to_index under parent_id. An absent parent_id
// keeps the current parent, null moves to the container root, and an
// absent to_index appends.
// POST /api/nodes/{id}/move
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var body moveNodeBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.nodes.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	parentID := body.ParentID.Or(current.ParentID)

	if parentID != nil && *parentID != "" {
		if err := h.authz.CanAccessNode(r.Context(), httputil.GetUserID(r), *parentID); err != nil {
			handleError(w, err)
			return
		}
	}

	result, err := h.reorder.MoveNode(r.Context(), &contentSvc.MoveNodeRequest{
		NodeID:   id,
		ParentID: parentID,
		ToIndex:  body.ToIndex,
	})
	if err == nil {
		h.logger.Debug("node moved",
			"node_id", id,
			"kind", result.Kind,
			"scope", result.Scope.Key(),
		)
	}
	respondMove(w, result, err)
}

func (h *NodeHandler) authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return "", false
	}
	id, ok := pathID(w, r, "Node")
	if !ok {
		return "", false
	}
	if err := h.authz.CanAccessNode(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return "", false
	}
	return id, true
}
