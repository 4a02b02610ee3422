package auth

import (
	"context"
	"errors"
	"fmt"

	"later/internal/domain"
	contentRepo "later/internal/domain/repositories/content"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a resource if they own the workspace that contains it.
type OwnerBasedAuthorizer struct {
	workspaceRepo contentRepo.WorkspaceRepository
	containerRepo contentRepo.ContainerRepository
	noteRepo      contentRepo.NoteRepository
	nodeRepo      contentRepo.NodeRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	workspaceRepo contentRepo.WorkspaceRepository,
	containerRepo contentRepo.ContainerRepository,
	noteRepo contentRepo.NoteRepository,
	nodeRepo contentRepo.NodeRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		workspaceRepo: workspaceRepo,
		containerRepo: containerRepo,
		noteRepo:      noteRepo,
		nodeRepo:      nodeRepo,
	}
}

// CanAccessWorkspace checks if user owns the workspace
func (a *OwnerBasedAuthorizer) CanAccessWorkspace(ctx context.Context, userID, workspaceID string) error {
	// GetByID filters by owner, so not found means not owned
	_, err := a.workspaceRepo.GetByID(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("access denied to workspace %s: %w", workspaceID, domain.ErrForbidden)
		}
		return fmt.Errorf("check workspace access: %w", err)
	}
	return nil
}

// CanAccessContainer checks access through the container's workspace
func (a *OwnerBasedAuthorizer) CanAccessContainer(ctx context.Context, userID, containerID string) error {
	c, err := a.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return fmt.Errorf("get container for auth: %w", err)
	}
	return a.CanAccessWorkspace(ctx, userID, c.WorkspaceID)
}

// CanAccessNote checks access through the note's workspace
func (a *OwnerBasedAuthorizer) CanAccessNote(ctx context.Context, userID, noteID string) error {
	n, err := a.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("get note for auth: %w", err)
	}
	return a.CanAccessWorkspace(ctx, userID, n.WorkspaceID)
}

// CanAccessNode checks access through the node's workspace
func (a *OwnerBasedAuthorizer) CanAccessNode(ctx context.Context, userID, nodeID string) error {
	n, err := a.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return fmt.Errorf("get node for auth: %w", err)
	}
	return a.CanAccessWorkspace(ctx, userID, n.WorkspaceID)
}
