package content

import (
	"context"

	"later/internal/domain/models/content"
)

// ContainerRepository defines data access operations for todo-lists and checklists
type ContainerRepository interface {
	Create(ctx context.Context, c *content.Container) error

	// GetByID retrieves a container by ID (SortKey is not populated)
	GetByID(ctx context.Context, id string) (*content.Container, error)

	// GetByIDs retrieves the containers that exist among ids, keyed by id
	GetByIDs(ctx context.Context, ids []string) (map[string]*content.Container, error)

	ListByWorkspace(ctx context.Context, workspaceID string) ([]content.Container, error)

	// Update updates name and kind
	Update(ctx context.Context, c *content.Container) error

	Delete(ctx context.Context, id string) error

	// DeleteByWorkspace removes every container of a workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}
