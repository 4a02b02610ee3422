package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"later/internal/config"
	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	contentSvc "later/internal/domain/services/content"
)

type searchProjector struct {
	matcher       contentRepo.TextMatcher
	tree          contentSvc.TreeQueryEngine
	nodes         contentSvc.NodeStore
	containerRepo contentRepo.ContainerRepository
	noteRepo      contentRepo.NoteRepository
	guard         *ScopeGuard
	concurrency   int
	logger        *slog.Logger
}

// NewSearchProjector creates a projector over matcher's results
func NewSearchProjector(
	matcher contentRepo.TextMatcher,
	tree contentSvc.TreeQueryEngine,
	nodes contentSvc.NodeStore,
	containerRepo contentRepo.ContainerRepository,
	noteRepo contentRepo.NoteRepository,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.SearchProjector {
	return &searchProjector{
		matcher:       matcher,
		tree:          tree,
		nodes:         nodes,
		containerRepo: containerRepo,
		noteRepo:      noteRepo,
		guard:         guard,
		concurrency:   config.SearchProjectionConcurrency,
		logger:        logger,
	}
}

// Project enriches one entity. Workspace members (containers, notes) have no
// ancestors: empty breadcrumb, depth 0.
func (p *searchProjector) Project(ctx context.Context, ref models.EntityRef) (*models.SearchResult, error) {
	switch ref.Kind {
	case models.KindContainer:
		c, err := p.containerRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &models.SearchResult{
			ID:            c.ID,
			Kind:          models.KindContainer,
			WorkspaceID:   c.WorkspaceID,
			Title:         c.Name,
			Breadcrumb:    []string{},
			ContainerID:   c.ID,
			ContainerName: c.Name,
		}, nil

	case models.KindNote:
		n, err := p.noteRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &models.SearchResult{
			ID:          n.ID,
			Kind:        models.KindNote,
			WorkspaceID: n.WorkspaceID,
			Title:       n.Title,
			Breadcrumb:  []string{},
		}, nil

	case models.KindNode:
		return p.projectNode(ctx, ref.ID)
	}

	return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown entity kind %q", ref.Kind)}
}

// projectNode reads the node, its ancestors and its container under one
// container read lock, so depth and breadcrumb describe the same tree.
// Nodes never change container, so the unlocked lookup is safe for the key.
func (p *searchProjector) projectNode(ctx context.Context, nodeID string) (*models.SearchResult, error) {
	located, err := p.nodes.Get(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var result *models.SearchResult
	err = p.guard.Read(ctx, []string{models.ContainerLockKey(located.ContainerID)}, func(ctx context.Context) error {
		node, err := p.nodes.Get(ctx, nodeID)
		if err != nil {
			return err
		}
		breadcrumb, err := p.tree.Breadcrumb(ctx, nodeID)
		if err != nil {
			return err
		}
		container, err := p.containerRepo.GetByID(ctx, node.ContainerID)
		if err != nil {
			return err
		}

		result = &models.SearchResult{
			ID:            node.ID,
			Kind:          models.KindNode,
			WorkspaceID:   node.WorkspaceID,
			Title:         node.Title,
			Breadcrumb:    breadcrumb,
			Depth:         len(breadcrumb) - 1,
			ContainerID:   container.ID,
			ContainerName: container.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProjectAll projects with bounded parallelism. Matches whose entity was
// deleted after matching are dropped; any other failure fails the batch.
func (p *searchProjector) ProjectAll(ctx context.Context, matches []models.EntityMatch) ([]models.SearchResult, error) {
	projected := make([]*models.SearchResult, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, match := range matches {
		g.Go(func() error {
			result, err := p.Project(gctx, match.Ref)
			if errors.Is(err, domain.ErrNotFound) {
				p.logger.Debug("skipping vanished search match", "ref", match.Ref.String())
				return nil
			}
			if err != nil {
				return fmt.Errorf("project %s: %w", match.Ref, err)
			}
			result.Score = match.Score
			projected[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(matches))
	for _, r := range projected {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}

func (p *searchProjector) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	if opts == nil {
		return nil, &domain.ValidationError{Message: "search options are required"}
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, validationErr(err)
	}

	matches, total, err := p.matcher.Match(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	results, err := p.ProjectAll(ctx, matches)
	if err != nil {
		return nil, err
	}

	// Matches deleted since matching are gone from every page
	if dropped := len(matches) - len(results); dropped > 0 {
		total -= dropped
		if floor := opts.Offset + len(results); total < floor {
			total = floor
		}
	}

	p.logger.Info("search completed",
		"query", opts.Query,
		"workspace_id", opts.WorkspaceID,
		"matches", len(matches),
		"results", len(results),
		"total", total,
	)

	return models.NewSearchResults(results, total, opts), nil
}
