package content

import (
	"context"

	"later/internal/domain/models/content"
)

// TreeQueryEngine builds read-side projections over the node store.
// Missing containers and nodes yield domain.ErrNotFound.
type TreeQueryEngine interface {
	// RootNodes lists a container's root nodes in order
	RootNodes(ctx context.Context, containerID string) ([]content.Node, error)

	// Children lists a node's direct children in order
	Children(ctx context.Context, nodeID string) ([]content.Node, error)

	// Subtree expands depth-first from nodeID (included at relative depth 0).
	// maxDepthFromHere limits the relative depth; nil means unbounded.
	Subtree(ctx context.Context, nodeID string, maxDepthFromHere *int) ([]content.SubtreeEntry, error)

	// Breadcrumb returns ancestor titles root first, with the node's own title last
	Breadcrumb(ctx context.Context, nodeID string) ([]string, error)

	// ContainerTree returns the nested view of every node in a container
	ContainerTree(ctx context.Context, containerID string) (*content.ContainerTree, error)
}
