package content

import (
	"context"

	"later/internal/domain/models/content"
)

// OrderedCollection maintains the total order of entity references in a scope.
// Sort keys are assigned max+1 on append and renumbered 0..n-1 on reorder.
type OrderedCollection interface {
	// NextSortKey returns the key an entity appended to scope would receive
	NextSortKey(ctx context.Context, scope content.Scope) (int, error)

	// Append places ref (already stored) at the end of scope and returns its key
	Append(ctx context.Context, scope content.Scope, ref content.EntityRef) (int, error)

	// Reorder applies a positional move observed in a rendered list
	Reorder(ctx context.Context, scope content.Scope, ref content.EntityRef, fromIndex, toIndex int) error

	// ListOrdered returns the scope's refs in ascending sort key order
	ListOrdered(ctx context.Context, scope content.Scope) ([]content.EntityRef, error)

	// Entries returns the scope's entries with their keys, in order
	Entries(ctx context.Context, scope content.Scope) ([]content.OrderEntry, error)

	// IndexOf returns the 0-based position of ref in scope
	IndexOf(ctx context.Context, scope content.Scope, ref content.EntityRef) (int, error)

	// Remove drops ref from scope without renumbering the rest
	Remove(ctx context.Context, scope content.Scope, ref content.EntityRef) error
}
