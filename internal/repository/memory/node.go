package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// NodeRepository implements contentRepo.NodeRepository
type NodeRepository struct {
	store *Store
}

// NewNodeRepository creates a node repository backed by store
func NewNodeRepository(store *Store) contentRepo.NodeRepository {
	return &NodeRepository{store: store}
}

func cloneNode(n models.Node) *models.Node {
	n.ParentID = copyID(n.ParentID)
	return &n
}

func (r *NodeRepository) Create(ctx context.Context, n *models.Node) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.containers[n.ContainerID]; !ok {
			return fmt.Errorf("container %s: %w", n.ContainerID, domain.ErrNotFound)
		}
		if n.ParentID != nil {
			if _, ok := d.nodes[*n.ParentID]; !ok {
				return fmt.Errorf("node %s: %w", *n.ParentID, domain.ErrNotFound)
			}
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		d.nodes[n.ID] = *cloneNode(*n)
		return nil
	})
}

func (r *NodeRepository) GetByID(ctx context.Context, id string) (*models.Node, error) {
	var n *models.Node
	err := r.store.read(ctx, func(d *dataset) error {
		found, ok := d.nodes[id]
		if !ok {
			return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
		n = cloneNode(found)
		return nil
	})
	return n, err
}

func (r *NodeRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Node, error) {
	result := make(map[string]*models.Node, len(ids))
	err := r.store.read(ctx, func(d *dataset) error {
		for _, id := range ids {
			if n, ok := d.nodes[id]; ok {
				result[id] = cloneNode(n)
			}
		}
		return nil
	})
	return result, err
}

func (r *NodeRepository) ListChildren(ctx context.Context, containerID string, parentID *string) ([]models.Node, error) {
	nodes := []models.Node{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, n := range d.nodes {
			if n.ContainerID == containerID && models.SameParent(n.ParentID, parentID) {
				nodes = append(nodes, *cloneNode(n))
			}
		}
		return nil
	})
	return nodes, err
}

func (r *NodeRepository) ListByContainer(ctx context.Context, containerID string) ([]models.Node, error) {
	nodes := []models.Node{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, n := range d.nodes {
			if n.ContainerID == containerID {
				nodes = append(nodes, *cloneNode(n))
			}
		}
		return nil
	})
	return nodes, err
}

func (r *NodeRepository) UpdateParent(ctx context.Context, n *models.Node) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.nodes[n.ID]
		if !ok {
			return fmt.Errorf("node %s: %w", n.ID, domain.ErrNotFound)
		}
		if n.ParentID != nil {
			if _, ok := d.nodes[*n.ParentID]; !ok {
				return fmt.Errorf("node %s: %w", *n.ParentID, domain.ErrNotFound)
			}
		}
		existing.ParentID = copyID(n.ParentID)
		existing.UpdatedAt = n.UpdatedAt
		d.nodes[n.ID] = existing
		return nil
	})
}

func (r *NodeRepository) Update(ctx context.Context, n *models.Node) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.nodes[n.ID]
		if !ok {
			return fmt.Errorf("node %s: %w", n.ID, domain.ErrNotFound)
		}
		existing.Title = n.Title
		existing.IsDone = n.IsDone
		existing.UpdatedAt = n.UpdatedAt
		d.nodes[n.ID] = existing
		return nil
	})
}

// DeleteMany deletes ids and, like the parent_id foreign key, their descendants
func (r *NodeRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.store.write(ctx, func(d *dataset) error {
		doomed := make(map[string]bool, len(ids))
		for _, id := range ids {
			doomed[id] = true
		}
		for changed := true; changed; {
			changed = false
			for id, n := range d.nodes {
				if !doomed[id] && n.ParentID != nil && doomed[*n.ParentID] {
					doomed[id] = true
					changed = true
				}
			}
		}
		for id := range doomed {
			delete(d.nodes, id)
		}
		return nil
	})
}

func (r *NodeRepository) DeleteByContainer(ctx context.Context, containerID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for id, n := range d.nodes {
			if n.ContainerID == containerID {
				delete(d.nodes, id)
			}
		}
		return nil
	})
}
