package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// ContainerRepository implements contentRepo.ContainerRepository
type ContainerRepository struct {
	store *Store
}

// NewContainerRepository creates a container repository backed by store
func NewContainerRepository(store *Store) contentRepo.ContainerRepository {
	return &ContainerRepository{store: store}
}

func (r *ContainerRepository) Create(ctx context.Context, c *models.Container) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.workspaces[c.WorkspaceID]; !ok {
			return fmt.Errorf("workspace %s: %w", c.WorkspaceID, domain.ErrNotFound)
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		d.containers[c.ID] = *c
		return nil
	})
}

func (r *ContainerRepository) GetByID(ctx context.Context, id string) (*models.Container, error) {
	var c models.Container
	err := r.store.read(ctx, func(d *dataset) error {
		found, ok := d.containers[id]
		if !ok {
			return fmt.Errorf("container %s: %w", id, domain.ErrNotFound)
		}
		c = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContainerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Container, error) {
	result := make(map[string]*models.Container, len(ids))
	err := r.store.read(ctx, func(d *dataset) error {
		for _, id := range ids {
			if c, ok := d.containers[id]; ok {
				result[id] = &c
			}
		}
		return nil
	})
	return result, err
}

func (r *ContainerRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Container, error) {
	containers := []models.Container{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, c := range d.containers {
			if c.WorkspaceID == workspaceID {
				containers = append(containers, c)
			}
		}
		return nil
	})
	return containers, err
}

func (r *ContainerRepository) Update(ctx context.Context, c *models.Container) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.containers[c.ID]
		if !ok {
			return fmt.Errorf("container %s: %w", c.ID, domain.ErrNotFound)
		}
		existing.Name = c.Name
		existing.Kind = c.Kind
		existing.UpdatedAt = c.UpdatedAt
		d.containers[c.ID] = existing
		return nil
	})
}

func (r *ContainerRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.containers[id]; !ok {
			return fmt.Errorf("container %s: %w", id, domain.ErrNotFound)
		}
		delete(d.containers, id)
		return nil
	})
}

func (r *ContainerRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for id, c := range d.containers {
			if c.WorkspaceID == workspaceID {
				delete(d.containers, id)
			}
		}
		return nil
	})
}
