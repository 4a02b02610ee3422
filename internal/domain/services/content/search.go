package content

import (
	"context"

	"later/internal/domain/models/content"
)

// SearchProjector enriches already-matched entities with hierarchy context
type SearchProjector interface {
	// Project builds the result record for one matched entity
	Project(ctx context.Context, ref content.EntityRef) (*content.SearchResult, error)

	// ProjectAll projects matches in parallel, preserving input order.
	// Entities deleted since matching are skipped.
	ProjectAll(ctx context.Context, matches []content.EntityMatch) ([]content.SearchResult, error)

	// Search runs the text matcher and projects its page of matches
	Search(ctx context.Context, opts *content.SearchOptions) (*content.SearchResults, error)
}
