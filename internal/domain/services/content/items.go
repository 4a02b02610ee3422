package content

import (
	"context"

	"later/internal/domain/models/content"
)

// ContentService manages the top-level entities of a workspace: containers
// (todo-lists, checklists) and notes.
type ContentService interface {
	CreateContainer(ctx context.Context, req *CreateContainerRequest) (*content.Container, error)
	GetContainer(ctx context.Context, id string) (*content.Container, error)
	UpdateContainer(ctx context.Context, id string, req *UpdateContainerRequest) (*content.Container, error)

	// DeleteContainer removes the container and every node in it
	DeleteContainer(ctx context.Context, id string) error

	CreateNote(ctx context.Context, req *CreateNoteRequest) (*content.Note, error)
	GetNote(ctx context.Context, id string) (*content.Note, error)
	UpdateNote(ctx context.Context, id string, req *UpdateNoteRequest) (*content.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// ListContent returns the workspace's containers and notes in manual order
	ListContent(ctx context.Context, workspaceID string) ([]content.WorkspaceItem, error)
}

// CreateContainerRequest represents a todo-list/checklist creation request
type CreateContainerRequest struct {
	WorkspaceID string                `json:"workspace_id"`
	Kind        content.ContainerKind `json:"kind"`
	Name        string                `json:"name"`
}

// UpdateContainerRequest renames or re-kinds a container
type UpdateContainerRequest struct {
	Name *string                `json:"name,omitempty"`
	Kind *content.ContainerKind `json:"kind,omitempty"`
}

// CreateNoteRequest represents a note creation request
type CreateNoteRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// UpdateNoteRequest edits a note; nil fields are left unchanged
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}
