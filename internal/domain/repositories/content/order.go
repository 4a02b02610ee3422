package content

import (
	"context"

	"later/internal/domain/models/content"
)

// OrderRepository stores the position of every entity within its scope.
// An entity has exactly one entry; its scope changes when it is reparented.
type OrderRepository interface {
	// Insert adds a new entry
	Insert(ctx context.Context, entry *content.OrderEntry) error

	// Get returns the entry of ref, or domain.ErrNotFound
	Get(ctx context.Context, ref content.EntityRef) (*content.OrderEntry, error)

	// List returns every entry of a scope sorted by sort key, created_at, id
	List(ctx context.Context, scopeKey string) ([]content.OrderEntry, error)

	// MaxSortKey returns the largest sort key in the scope; ok is false when empty
	MaxSortKey(ctx context.Context, scopeKey string) (max int, ok bool, err error)

	// SetSortKeys rewrites sort keys of existing entries in one batch
	SetSortKeys(ctx context.Context, entries []content.OrderEntry) error

	// Move places ref into scopeKey at sortKey
	Move(ctx context.Context, ref content.EntityRef, scopeKey string, sortKey int) error

	// Delete removes entries; missing refs are ignored
	Delete(ctx context.Context, refs ...content.EntityRef) error

	// ListByScopePrefix returns every entry whose scope key starts with prefix,
	// grouped by scope key and sorted within each scope
	ListByScopePrefix(ctx context.Context, prefix string) ([]content.OrderEntry, error)

	// DeleteByScopePrefix removes every entry whose scope key starts with prefix
	DeleteByScopePrefix(ctx context.Context, prefix string) error
}
