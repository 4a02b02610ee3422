package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// NoteRepository implements contentRepo.NoteRepository
type NoteRepository struct {
	store *Store
}

// NewNoteRepository creates a note repository backed by store
func NewNoteRepository(store *Store) contentRepo.NoteRepository {
	return &NoteRepository{store: store}
}

func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.workspaces[n.WorkspaceID]; !ok {
			return fmt.Errorf("workspace %s: %w", n.WorkspaceID, domain.ErrNotFound)
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		d.notes[n.ID] = *n
		return nil
	})
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	err := r.store.read(ctx, func(d *dataset) error {
		found, ok := d.notes[id]
		if !ok {
			return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
		}
		n = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Note, error) {
	result := make(map[string]*models.Note, len(ids))
	err := r.store.read(ctx, func(d *dataset) error {
		for _, id := range ids {
			if n, ok := d.notes[id]; ok {
				result[id] = &n
			}
		}
		return nil
	})
	return result, err
}

func (r *NoteRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Note, error) {
	notes := []models.Note{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, n := range d.notes {
			if n.WorkspaceID == workspaceID {
				notes = append(notes, n)
			}
		}
		return nil
	})
	return notes, err
}

func (r *NoteRepository) Update(ctx context.Context, n *models.Note) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.notes[n.ID]
		if !ok {
			return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
		}
		existing.Title = n.Title
		existing.Body = n.Body
		existing.UpdatedAt = n.UpdatedAt
		d.notes[n.ID] = existing
		return nil
	})
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.notes[id]; !ok {
			return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
		}
		delete(d.notes, id)
		return nil
	})
}

func (r *NoteRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for id, n := range d.notes {
			if n.WorkspaceID == workspaceID {
				delete(d.notes, id)
			}
		}
		return nil
	})
}
