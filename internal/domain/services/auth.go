package services

import "context"

// ResourceAuthorizer checks if a user can access resources.
// Current implementation: ownership-based (user owns the workspace).
//
// Callers check access before invoking tree operations; the tree core itself
// receives explicit ids and never consults ambient user state.
type ResourceAuthorizer interface {
	// CanAccessWorkspace checks if user can access a workspace
	CanAccessWorkspace(ctx context.Context, userID, workspaceID string) error

	// CanAccessContainer checks if user can access a container (via its workspace)
	CanAccessContainer(ctx context.Context, userID, containerID string) error

	// CanAccessNote checks if user can access a note (via its workspace)
	CanAccessNote(ctx context.Context, userID, noteID string) error

	// CanAccessNode checks if user can access a node (via its workspace)
	CanAccessNode(ctx context.Context, userID, nodeID string) error
}
