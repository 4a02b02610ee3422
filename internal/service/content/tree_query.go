package content

import (
	"context"
	"log/slog"
	"sort"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	contentSvc "later/internal/domain/services/content"
)

type treeQueryEngine struct {
	nodes         contentSvc.NodeStore
	nodeRepo      contentRepo.NodeRepository
	containerRepo contentRepo.ContainerRepository
	orderRepo     contentRepo.OrderRepository
	guard         *ScopeGuard
	logger        *slog.Logger
}

// NewTreeQueryEngine creates the read side of the node store
func NewTreeQueryEngine(
	nodes contentSvc.NodeStore,
	nodeRepo contentRepo.NodeRepository,
	containerRepo contentRepo.ContainerRepository,
	orderRepo contentRepo.OrderRepository,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.TreeQueryEngine {
	return &treeQueryEngine{
		nodes:         nodes,
		nodeRepo:      nodeRepo,
		containerRepo: containerRepo,
		orderRepo:     orderRepo,
		guard:         guard,
		logger:        logger,
	}
}

func (q *treeQueryEngine) RootNodes(ctx context.Context, containerID string) ([]models.Node, error) {
	container, err := q.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}

	var roots []models.Node
	err = q.guard.Read(ctx, []string{models.ContainerLockKey(containerID)}, func(ctx context.Context) error {
		scope := models.SiblingScope(container.WorkspaceID, containerID, nil)
		entries, err := q.orderRepo.List(ctx, scope.Key())
		if err != nil {
			return err
		}
		nodes, err := q.nodeRepo.ListChildren(ctx, containerID, nil)
		if err != nil {
			return err
		}
		roots = q.arrange(scope, nodes, entries, 0)
		return nil
	})
	return roots, err
}

func (q *treeQueryEngine) Children(ctx context.Context, nodeID string) ([]models.Node, error) {
	parent, err := q.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var children []models.Node
	err = q.guard.Read(ctx, []string{models.ContainerLockKey(parent.ContainerID)}, func(ctx context.Context) error {
		depth, err := q.nodes.GetDepth(ctx, nodeID)
		if err != nil {
			return err
		}

		scope := models.SiblingScope(parent.WorkspaceID, parent.ContainerID, &parent.ID)
		entries, err := q.orderRepo.List(ctx, scope.Key())
		if err != nil {
			return err
		}
		nodes, err := q.nodeRepo.ListChildren(ctx, parent.ContainerID, &parent.ID)
		if err != nil {
			return err
		}
		children = q.arrange(scope, nodes, entries, depth+1)
		return nil
	})
	return children, err
}

// Subtree expands depth-first, pre-order. The start node is included at
// relative depth 0.
func (q *treeQueryEngine) Subtree(ctx context.Context, nodeID string, maxDepthFromHere *int) ([]models.SubtreeEntry, error) {
	if maxDepthFromHere != nil && *maxDepthFromHere < 0 {
		return nil, &domain.ValidationError{Message: "max depth cannot be negative"}
	}

	start, err := q.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var result []models.SubtreeEntry
	err = q.guard.Read(ctx, []string{models.ContainerLockKey(start.ContainerID)}, func(ctx context.Context) error {
		root, err := q.nodes.Get(ctx, nodeID)
		if err != nil {
			return err
		}

		view, err := q.loadContainer(ctx, root.WorkspaceID, root.ContainerID)
		if err != nil {
			return err
		}

		var walk func(n models.Node, rel int)
		walk = func(n models.Node, rel int) {
			result = append(result, models.SubtreeEntry{Node: n, RelativeDepth: rel})
			if maxDepthFromHere != nil && rel >= *maxDepthFromHere {
				return
			}
			for _, child := range view.children(&n.ID, n.Depth+1) {
				walk(child, rel+1)
			}
		}
		walk(*root, 0)
		return nil
	})
	return result, err
}

func (q *treeQueryEngine) Breadcrumb(ctx context.Context, nodeID string) ([]string, error) {
	node, err := q.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var titles []string
	err = q.guard.Read(ctx, []string{models.ContainerLockKey(node.ContainerID)}, func(ctx context.Context) error {
		self, err := q.nodeRepo.GetByID(ctx, nodeID)
		if err != nil {
			return err
		}
		chain, err := q.nodes.GetAncestors(ctx, nodeID)
		if err != nil {
			return err
		}

		titles = make([]string, 0, len(chain)+1)
		for _, a := range chain {
			titles = append(titles, a.Title)
		}
		titles = append(titles, self.Title)
		return nil
	})
	return titles, err
}

// ContainerTree builds the nested view in three passes: index nodes, order
// each sibling set, then link children to parents.
func (q *treeQueryEngine) ContainerTree(ctx context.Context, containerID string) (*models.ContainerTree, error) {
	container, err := q.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}

	tree := &models.ContainerTree{Container: *container}
	err = q.guard.Read(ctx, []string{models.ContainerLockKey(containerID)}, func(ctx context.Context) error {
		view, err := q.loadContainer(ctx, container.WorkspaceID, containerID)
		if err != nil {
			return err
		}

		var build func(parentID *string, depth int) []*models.NodeTreeNode
		build = func(parentID *string, depth int) []*models.NodeTreeNode {
			nodes := view.children(parentID, depth)
			out := make([]*models.NodeTreeNode, 0, len(nodes))
			for _, n := range nodes {
				id := n.ID
				out = append(out, &models.NodeTreeNode{
					ID:       n.ID,
					ParentID: n.ParentID,
					Title:    n.Title,
					IsDone:   n.IsDone,
					Depth:    n.Depth,
					SortKey:  n.SortKey,
					Children: build(&id, depth+1),
				})
			}
			return out
		}
		tree.Nodes = build(nil, 0)

		q.logger.Debug("container tree built", "container_id", containerID, "node_count", view.count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// containerView holds one consistent read of a container's nodes and orders
type containerView struct {
	q           *treeQueryEngine
	workspaceID string
	containerID string
	byParent    map[string][]models.Node
	entries     map[string][]models.OrderEntry
	count       int
}

func (q *treeQueryEngine) loadContainer(ctx context.Context, workspaceID, containerID string) (*containerView, error) {
	nodes, err := q.nodeRepo.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	entries, err := q.orderRepo.ListByScopePrefix(ctx, models.ContainerScopePrefix(containerID))
	if err != nil {
		return nil, err
	}

	view := &containerView{
		q:           q,
		workspaceID: workspaceID,
		containerID: containerID,
		byParent:    make(map[string][]models.Node),
		entries:     make(map[string][]models.OrderEntry),
		count:       len(nodes),
	}
	for _, n := range nodes {
		key := view.scope(n.ParentID).Key()
		view.byParent[key] = append(view.byParent[key], n)
	}
	for _, e := range entries {
		view.entries[e.ScopeKey] = append(view.entries[e.ScopeKey], e)
	}
	return view, nil
}

func (v *containerView) scope(parentID *string) models.Scope {
	return models.SiblingScope(v.workspaceID, v.containerID, parentID)
}

func (v *containerView) children(parentID *string, depth int) []models.Node {
	scope := v.scope(parentID)
	key := scope.Key()
	return v.q.arrange(scope, v.byParent[key], v.entries[key], depth)
}

// arrange orders nodes by their scope entries and stamps depth and sort key.
// Nodes without an entry sort last by creation time.
func (q *treeQueryEngine) arrange(scope models.Scope, nodes []models.Node, entries []models.OrderEntry, depth int) []models.Node {
	byID := make(map[string]models.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	ordered := make([]models.Node, 0, len(nodes))
	for _, e := range entries {
		n, ok := byID[e.Ref.ID]
		if !ok || e.Ref.Kind != models.KindNode {
			continue
		}
		n.Depth = depth
		n.SortKey = e.SortKey
		ordered = append(ordered, n)
		delete(byID, e.Ref.ID)
	}

	if len(byID) > 0 {
		q.logger.Warn("nodes missing from sibling order", "scope", scope.Key(), "count", len(byID))
		var rest []models.Node
		for _, n := range byID {
			n.Depth = depth
			rest = append(rest, n)
		}
		sort.Slice(rest, func(i, j int) bool {
			if !rest[i].CreatedAt.Equal(rest[j].CreatedAt) {
				return rest[i].CreatedAt.Before(rest[j].CreatedAt)
			}
			return rest[i].ID < rest[j].ID
		})
		ordered = append(ordered, rest...)
	}

	return ordered
}
