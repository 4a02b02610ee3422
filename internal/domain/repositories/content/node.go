package content

import (
	"context"

	"later/internal/domain/models/content"
)

// NodeRepository defines data access operations for container items.
// Depth and SortKey are derived by services and never read from storage.
type NodeRepository interface {
	Create(ctx context.Context, n *content.Node) error

	GetByID(ctx context.Context, id string) (*content.Node, error)

	// GetByIDs retrieves the nodes that exist among ids, keyed by id
	GetByIDs(ctx context.Context, ids []string) (map[string]*content.Node, error)

	// ListChildren lists immediate children of parentID (nil = container roots), unordered
	ListChildren(ctx context.Context, containerID string, parentID *string) ([]content.Node, error)

	// ListByContainer lists every node of a container (flat, unordered)
	ListByContainer(ctx context.Context, containerID string) ([]content.Node, error)

	// UpdateParent moves a node under parentID (nil = root)
	UpdateParent(ctx context.Context, n *content.Node) error

	// Update updates title and completion state
	Update(ctx context.Context, n *content.Node) error

	// DeleteMany deletes the given nodes; missing ids are ignored
	DeleteMany(ctx context.Context, ids []string) error

	DeleteByContainer(ctx context.Context, containerID string) error
}
