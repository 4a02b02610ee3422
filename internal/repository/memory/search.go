package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
)

// TextMatcher implements contentRepo.TextMatcher with in-order fuzzy
// matching over titles and names. Note bodies match on substrings only.
type TextMatcher struct {
	store *Store
}

// NewTextMatcher creates a matcher over store
func NewTextMatcher(store *Store) contentRepo.TextMatcher {
	return &TextMatcher{store: store}
}

type candidate struct {
	ref  models.EntityRef
	text string
	body string
}

func (m *TextMatcher) Match(ctx context.Context, opts *models.SearchOptions) ([]models.EntityMatch, int, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid search options: %w", err)
	}

	var candidates []candidate
	err := m.store.read(ctx, func(d *dataset) error {
		visible := func(workspaceID string) bool {
			ws, ok := d.workspaces[workspaceID]
			if !ok {
				return false
			}
			if opts.UserID != "" && ws.UserID != opts.UserID {
				return false
			}
			return opts.WorkspaceID == "" || opts.WorkspaceID == workspaceID
		}

		if opts.HasKind(models.KindContainer) {
			for _, c := range d.containers {
				if visible(c.WorkspaceID) {
					candidates = append(candidates, candidate{ref: c.Ref(), text: c.Name})
				}
			}
		}
		if opts.HasKind(models.KindNote) {
			for _, n := range d.notes {
				if visible(n.WorkspaceID) {
					candidates = append(candidates, candidate{ref: n.Ref(), text: n.Title, body: n.Body})
				}
			}
		}
		if opts.HasKind(models.KindNode) {
			for _, n := range d.nodes {
				if visible(n.WorkspaceID) {
					candidates = append(candidates, candidate{ref: n.Ref(), text: n.Title})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.text
	}

	scores := make(map[int]float64)
	for _, rank := range fuzzy.RankFindNormalizedFold(opts.Query, titles) {
		// Closer matches score higher; title hits outrank body hits
		scores[rank.OriginalIndex] = 1.0 + 1.0/float64(1+rank.Distance)
	}
	query := strings.ToLower(opts.Query)
	for i, c := range candidates {
		if c.body != "" && strings.Contains(strings.ToLower(c.body), query) {
			scores[i] += 0.5
		}
	}

	matches := make([]models.EntityMatch, 0, len(scores))
	for i, score := range scores {
		matches = append(matches, models.EntityMatch{Ref: candidates[i].ref, Score: score})
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Ref.Kind != b.Ref.Kind {
			return a.Ref.Kind < b.Ref.Kind
		}
		return a.Ref.ID < b.Ref.ID
	})

	total := len(matches)
	if opts.Offset >= total {
		return []models.EntityMatch{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return matches[opts.Offset:end], total, nil
}
