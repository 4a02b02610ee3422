package content

import (
	"context"

	"later/internal/domain/models/content"
)

// TextMatcher is the full-text collaborator. It returns one page of matches
// (ranked by the backend's own relevance) and the total match count.
type TextMatcher interface {
	Match(ctx context.Context, opts *content.SearchOptions) ([]content.EntityMatch, int, error)
}
