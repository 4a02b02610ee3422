package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// WorkspaceRepository implements contentRepo.WorkspaceRepository
type WorkspaceRepository struct {
	store *Store
}

// NewWorkspaceRepository creates a workspace repository backed by store
func NewWorkspaceRepository(store *Store) contentRepo.WorkspaceRepository {
	return &WorkspaceRepository{store: store}
}

func workspaceConflict(d *dataset, ws *models.Workspace) error {
	for _, other := range d.workspaces {
		if other.ID != ws.ID && other.UserID == ws.UserID && other.Name == ws.Name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("workspace '%s' already exists", ws.Name),
				ResourceType: "workspace",
				ResourceID:   other.ID,
			}
		}
	}
	return nil
}

func (r *WorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	return r.store.write(ctx, func(d *dataset) error {
		if err := workspaceConflict(d, ws); err != nil {
			return err
		}
		if ws.ID == "" {
			ws.ID = uuid.NewString()
		}
		d.workspaces[ws.ID] = *ws
		return nil
	})
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id, userID string) (*models.Workspace, error) {
	ws, err := r.GetByIDOnly(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws.UserID != userID {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	return ws, nil
}

func (r *WorkspaceRepository) GetByIDOnly(ctx context.Context, id string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.store.read(ctx, func(d *dataset) error {
		found, ok := d.workspaces[id]
		if !ok {
			return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		ws = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *WorkspaceRepository) List(ctx context.Context, userID string) ([]models.Workspace, error) {
	workspaces := []models.Workspace{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, ws := range d.workspaces {
			if ws.UserID == userID {
				workspaces = append(workspaces, ws)
			}
		}
		return nil
	})
	sort.Slice(workspaces, func(i, j int) bool {
		if !workspaces[i].CreatedAt.Equal(workspaces[j].CreatedAt) {
			return workspaces[i].CreatedAt.Before(workspaces[j].CreatedAt)
		}
		return workspaces[i].ID < workspaces[j].ID
	})
	return workspaces, err
}

func (r *WorkspaceRepository) Update(ctx context.Context, ws *models.Workspace) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.workspaces[ws.ID]
		if !ok || existing.UserID != ws.UserID {
			return fmt.Errorf("workspace %s: %w", ws.ID, domain.ErrNotFound)
		}
		if err := workspaceConflict(d, ws); err != nil {
			return err
		}
		existing.Name = ws.Name
		existing.UpdatedAt = ws.UpdatedAt
		d.workspaces[ws.ID] = existing
		return nil
	})
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.workspaces[id]; !ok {
			return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		delete(d.workspaces, id)
		return nil
	})
}
