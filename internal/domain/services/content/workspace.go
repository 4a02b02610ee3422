package content

import (
	"context"

	"later/internal/domain/models/content"
)

// WorkspaceService handles workspace lifecycle
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*content.Workspace, error)
	GetWorkspace(ctx context.Context, id, userID string) (*content.Workspace, error)
	ListWorkspaces(ctx context.Context, userID string) ([]content.Workspace, error)
	UpdateWorkspace(ctx context.Context, id, userID string, req *UpdateWorkspaceRequest) (*content.Workspace, error)

	// DeleteWorkspace removes the workspace and cascades to all of its content
	DeleteWorkspace(ctx context.Context, id, userID string) error
}

// CreateWorkspaceRequest represents a workspace creation request
type CreateWorkspaceRequest struct {
	UserID string `json:"-"` // Set by handler from auth context
	Name   string `json:"name"`
}

// UpdateWorkspaceRequest represents a workspace rename
type UpdateWorkspaceRequest struct {
	Name string `json:"name"`
}
