package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// OrderRepository implements contentRepo.OrderRepository. Duplicate sort keys
// are tolerated inside a transaction and rejected when it commits.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository backed by store
func NewOrderRepository(store *Store) contentRepo.OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Insert(ctx context.Context, entry *models.OrderEntry) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.order[entry.Ref]; exists {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s is already ordered", entry.Ref),
				ResourceType: string(entry.Ref.Kind),
				ResourceID:   entry.Ref.ID,
			}
		}
		d.order[entry.Ref] = *entry
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, ref models.EntityRef) (*models.OrderEntry, error) {
	var e models.OrderEntry
	err := r.store.read(ctx, func(d *dataset) error {
		found, ok := d.order[ref]
		if !ok {
			return fmt.Errorf("order entry %s: %w", ref, domain.ErrNotFound)
		}
		e = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *OrderRepository) List(ctx context.Context, scopeKey string) ([]models.OrderEntry, error) {
	entries := []models.OrderEntry{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, e := range d.order {
			if e.ScopeKey == scopeKey {
				entries = append(entries, e)
			}
		}
		return nil
	})
	models.SortEntries(entries)
	return entries, err
}

func (r *OrderRepository) ListByScopePrefix(ctx context.Context, prefix string) ([]models.OrderEntry, error) {
	entries := []models.OrderEntry{}
	err := r.store.read(ctx, func(d *dataset) error {
		for _, e := range d.order {
			if strings.HasPrefix(e.ScopeKey, prefix) {
				entries = append(entries, e)
			}
		}
		return nil
	})
	models.SortEntries(entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ScopeKey < entries[j].ScopeKey })
	return entries, err
}

func (r *OrderRepository) MaxSortKey(ctx context.Context, scopeKey string) (int, bool, error) {
	var (
		max   int
		found bool
	)
	err := r.store.read(ctx, func(d *dataset) error {
		for _, e := range d.order {
			if e.ScopeKey == scopeKey && (!found || e.SortKey > max) {
				max = e.SortKey
				found = true
			}
		}
		return nil
	})
	return max, found, err
}

func (r *OrderRepository) SetSortKeys(ctx context.Context, entries []models.OrderEntry) error {
	return r.store.write(ctx, func(d *dataset) error {
		for _, e := range entries {
			existing, ok := d.order[e.Ref]
			if !ok {
				return fmt.Errorf("order entry %s: %w", e.Ref, domain.ErrNotFound)
			}
			existing.SortKey = e.SortKey
			d.order[e.Ref] = existing
		}
		return nil
	})
}

func (r *OrderRepository) Move(ctx context.Context, ref models.EntityRef, scopeKey string, sortKey int) error {
	return r.store.write(ctx, func(d *dataset) error {
		existing, ok := d.order[ref]
		if !ok {
			return fmt.Errorf("order entry %s: %w", ref, domain.ErrNotFound)
		}
		existing.ScopeKey = scopeKey
		existing.SortKey = sortKey
		d.order[ref] = existing
		return nil
	})
}

func (r *OrderRepository) Delete(ctx context.Context, refs ...models.EntityRef) error {
	return r.store.write(ctx, func(d *dataset) error {
		for _, ref := range refs {
			delete(d.order, ref)
		}
		return nil
	})
}

func (r *OrderRepository) DeleteByScopePrefix(ctx context.Context, prefix string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for ref, e := range d.order {
			if strings.HasPrefix(e.ScopeKey, prefix) {
				delete(d.order, ref)
			}
		}
		return nil
	})
}
