package content

import (
	"context"

	"later/internal/domain/models/content"
)

// WorkspaceRepository defines data access operations for workspaces
type WorkspaceRepository interface {
	// Create creates a new workspace and returns it with generated ID and timestamps
	Create(ctx context.Context, ws *content.Workspace) error

	// GetByID retrieves a workspace owned by userID
	GetByID(ctx context.Context, id, userID string) (*content.Workspace, error)

	// GetByIDOnly retrieves a workspace without ownership scoping
	// Use when authorization is handled separately
	GetByIDOnly(ctx context.Context, id string) (*content.Workspace, error)

	// List retrieves all workspaces for a user, ordered by created_at
	List(ctx context.Context, userID string) ([]content.Workspace, error)

	// Update updates a workspace's name and updated_at timestamp
	Update(ctx context.Context, ws *content.Workspace) error

	// Delete deletes a workspace row (contents are removed by the service)
	Delete(ctx context.Context, id string) error
}
