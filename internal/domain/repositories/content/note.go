package content

import (
	"context"

	"later/internal/domain/models/content"
)

// NoteRepository defines data access operations for notes
type NoteRepository interface {
	Create(ctx context.Context, n *content.Note) error

	GetByID(ctx context.Context, id string) (*content.Note, error)

	// GetByIDs retrieves the notes that exist among ids, keyed by id
	GetByIDs(ctx context.Context, ids []string) (map[string]*content.Note, error)

	ListByWorkspace(ctx context.Context, workspaceID string) ([]content.Note, error)

	// Update updates title and body
	Update(ctx context.Context, n *content.Note) error

	Delete(ctx context.Context, id string) error

	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}
