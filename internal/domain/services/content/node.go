package content

import (
	"context"

	"later/internal/domain/models/content"
)

// NodeStore stores container items and enforces depth and cycle rules at write time
type NodeStore interface {
	// Create adds a node under ParentID (nil = container root)
	Create(ctx context.Context, req *CreateNodeRequest) (*content.Node, error)

	// Get returns a node with Depth and SortKey populated
	Get(ctx context.Context, nodeID string) (*content.Node, error)

	// Update edits title and/or completion state
	Update(ctx context.Context, nodeID string, req *UpdateNodeRequest) (*content.Node, error)

	// Reparent moves a node (and its subtree) under newParentID, appending it
	// to the new sibling set
	Reparent(ctx context.Context, nodeID string, newParentID *string) error

	// Delete removes a node and all descendants; absent ids are a no-op
	Delete(ctx context.Context, nodeID string) error

	// DeleteByContainer removes every node of a container
	DeleteByContainer(ctx context.Context, containerID string) error

	// GetDepth counts parent hops up to the container root
	GetDepth(ctx context.Context, nodeID string) (int, error)

	// GetAncestors returns the node's ancestors, root first, excluding the node
	GetAncestors(ctx context.Context, nodeID string) ([]content.Node, error)
}

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	ContainerID string  `json:"container_id"`
	Title       string  `json:"title"`
	ParentID    *string `json:"parent_id,omitempty"` // nil = root node
}

// UpdateNodeRequest represents a node edit; nil fields are left unchanged
type UpdateNodeRequest struct {
	Title  *string `json:"title,omitempty"`
	IsDone *bool   `json:"is_done,omitempty"`
}
