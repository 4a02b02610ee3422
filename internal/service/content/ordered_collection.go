package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	contentSvc "later/internal/domain/services/content"
)

type orderedCollection struct {
	orderRepo contentRepo.OrderRepository
	guard     *ScopeGuard
	logger    *slog.Logger
}

// NewOrderedCollection creates the ordering service shared by workspaces and sibling sets
func NewOrderedCollection(
	orderRepo contentRepo.OrderRepository,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.OrderedCollection {
	return &orderedCollection{
		orderRepo: orderRepo,
		guard:     guard,
		logger:    logger,
	}
}

func (c *orderedCollection) NextSortKey(ctx context.Context, scope models.Scope) (int, error) {
	max, ok, err := c.orderRepo.MaxSortKey(ctx, scope.Key())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return max + 1, nil
}

func (c *orderedCollection) Append(ctx context.Context, scope models.Scope, ref models.EntityRef) (int, error) {
	var sortKey int
	err := c.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		next, err := c.NextSortKey(ctx, scope)
		if err != nil {
			return err
		}
		sortKey = next

		return c.orderRepo.Insert(ctx, &models.OrderEntry{
			ScopeKey:  scope.Key(),
			Ref:       ref,
			SortKey:   sortKey,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return 0, err
	}

	c.logger.Debug("entity appended", "scope", scope.Key(), "ref", ref.String(), "sort_key", sortKey)
	return sortKey, nil
}

// Reorder moves the entity observed at fromIndex to toIndex, then renumbers
// the scope 0..n-1. Only entries whose key changes are written.
func (c *orderedCollection) Reorder(ctx context.Context, scope models.Scope, ref models.EntityRef, fromIndex, toIndex int) error {
	return c.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		entries, err := c.orderRepo.List(ctx, scope.Key())
		if err != nil {
			return err
		}

		if indexOfRef(entries, ref) < 0 {
			return domain.NewNotFound(string(ref.Kind), ref.ID)
		}

		count := len(entries)
		if fromIndex < 0 || fromIndex >= count || toIndex < 0 || toIndex >= count {
			return &domain.InvalidRangeError{FromIndex: fromIndex, ToIndex: toIndex, Count: count}
		}

		if entries[fromIndex].Ref != ref {
			return &domain.InvalidRangeError{
				FromIndex: fromIndex,
				ToIndex:   toIndex,
				Count:     count,
				Reason:    fmt.Sprintf("%s is not at index %d", ref, fromIndex),
			}
		}

		if fromIndex == toIndex {
			return nil
		}

		moved := entries[fromIndex]
		reordered := make([]models.OrderEntry, 0, count)
		reordered = append(reordered, entries[:fromIndex]...)
		reordered = append(reordered, entries[fromIndex+1:]...)
		reordered = append(reordered[:toIndex], append([]models.OrderEntry{moved}, reordered[toIndex:]...)...)

		var changed []models.OrderEntry
		for i, e := range reordered {
			if e.SortKey != i {
				e.SortKey = i
				changed = append(changed, e)
			}
		}

		if err := c.orderRepo.SetSortKeys(ctx, changed); err != nil {
			return err
		}

		c.logger.Debug("scope reordered",
			"scope", scope.Key(),
			"ref", ref.String(),
			"from", fromIndex,
			"to", toIndex,
			"rewritten", len(changed),
		)
		return nil
	})
}

func (c *orderedCollection) ListOrdered(ctx context.Context, scope models.Scope) ([]models.EntityRef, error) {
	entries, err := c.Entries(ctx, scope)
	if err != nil {
		return nil, err
	}
	return models.Refs(entries), nil
}

func (c *orderedCollection) Entries(ctx context.Context, scope models.Scope) ([]models.OrderEntry, error) {
	var entries []models.OrderEntry
	err := c.guard.Read(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		var err error
		entries, err = c.orderRepo.List(ctx, scope.Key())
		return err
	})
	return entries, err
}

func (c *orderedCollection) IndexOf(ctx context.Context, scope models.Scope, ref models.EntityRef) (int, error) {
	entries, err := c.Entries(ctx, scope)
	if err != nil {
		return 0, err
	}
	i := indexOfRef(entries, ref)
	if i < 0 {
		return 0, domain.NewNotFound(string(ref.Kind), ref.ID)
	}
	return i, nil
}

// Remove leaves a gap; keys stay unique and relative order is preserved
func (c *orderedCollection) Remove(ctx context.Context, scope models.Scope, ref models.EntityRef) error {
	return c.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		return c.orderRepo.Delete(ctx, ref)
	})
}

func indexOfRef(entries []models.OrderEntry, ref models.EntityRef) int {
	for i, e := range entries {
		if e.Ref == ref {
			return i
		}
	}
	return -1
}
