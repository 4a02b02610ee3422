package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"later/internal/config"
	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

type nodeStore struct {
	nodeRepo      contentRepo.NodeRepository
	containerRepo contentRepo.ContainerRepository
	orderRepo     contentRepo.OrderRepository
	collection    contentSvc.OrderedCollection
	guard         *ScopeGuard
	maxLevels     int
	logger        *slog.Logger
}

// NewNodeStore creates a node store allowing maxLevels levels (depth 0..maxLevels-1)
func NewNodeStore(
	nodeRepo contentRepo.NodeRepository,
	containerRepo contentRepo.ContainerRepository,
	orderRepo contentRepo.OrderRepository,
	collection contentSvc.OrderedCollection,
	guard *ScopeGuard,
	maxLevels int,
	logger *slog.Logger,
) contentSvc.NodeStore {
	if maxLevels <= 0 {
		maxLevels = config.MaxNodeLevels
	}
	return &nodeStore{
		nodeRepo:      nodeRepo,
		containerRepo: containerRepo,
		orderRepo:     orderRepo,
		collection:    collection,
		guard:         guard,
		maxLevels:     maxLevels,
		logger:        logger,
	}
}

func (s *nodeStore) maxDepth() int { return s.maxLevels - 1 }

// Create validates parent, container and depth before writing anything
func (s *nodeStore) Create(ctx context.Context, req *contentSvc.CreateNodeRequest) (*models.Node, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.ParentID = normalizeParent(req.ParentID)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, validationErr(err)
	}

	container, err := s.containerRepo.GetByID(ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}

	var node *models.Node
	err = s.guard.Write(ctx, []string{models.ContainerLockKey(container.ID)}, func(ctx context.Context) error {
		depth := 0
		if req.ParentID != nil {
			parent, err := s.nodeRepo.GetByID(ctx, *req.ParentID)
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.InvalidParentError{ParentID: *req.ParentID, Reason: "parent does not exist"}
			}
			if err != nil {
				return err
			}
			if parent.ContainerID != container.ID {
				return &domain.InvalidParentError{ParentID: parent.ID, Reason: "parent belongs to another container"}
			}

			parentDepth, err := s.depthOf(ctx, parent)
			if err != nil {
				return err
			}
			depth = parentDepth + 1
		}

		if depth > s.maxDepth() {
			return &domain.DepthExceededError{Depth: depth, MaxDepth: s.maxDepth()}
		}

		now := time.Now()
		node = &models.Node{
			WorkspaceID: container.WorkspaceID,
			ContainerID: container.ID,
			ParentID:    normalizeParent(req.ParentID),
			Title:       req.Title,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.nodeRepo.Create(ctx, node); err != nil {
			return err
		}
		node.Depth = depth

		sortKey, err := s.collection.Append(ctx, node.SiblingScope(), node.Ref())
		if err != nil {
			return err
		}
		node.SortKey = sortKey

		s.guard.Changed(ctx, node.SiblingScope(), services.ChangeCreated, refPtr(node.Ref()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node created",
		"id", node.ID,
		"container_id", node.ContainerID,
		"parent_id", node.ParentID,
		"depth", node.Depth,
		"sort_key", node.SortKey,
	)

	return node, nil
}

func (s *nodeStore) Get(ctx context.Context, nodeID string) (*models.Node, error) {
	var node *models.Node
	err := s.readNode(ctx, nodeID, func(ctx context.Context, n *models.Node) error {
		if err := s.populate(ctx, n); err != nil {
			return err
		}
		node = n
		return nil
	})
	return node, err
}

func (s *nodeStore) Update(ctx context.Context, nodeID string, req *contentSvc.UpdateNodeRequest) (*models.Node, error) {
	req.Title = trimPtr(req.Title)
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, validationErr(err)
	}

	existing, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var node *models.Node
	err = s.guard.Write(ctx, []string{models.ContainerLockKey(existing.ContainerID)}, func(ctx context.Context) error {
		n, err := s.nodeRepo.GetByID(ctx, nodeID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.IsDone != nil {
			n.IsDone = *req.IsDone
		}
		n.UpdatedAt = time.Now()

		if err := s.nodeRepo.Update(ctx, n); err != nil {
			return err
		}
		if err := s.populate(ctx, n); err != nil {
			return err
		}

		s.guard.Changed(ctx, n.SiblingScope(), services.ChangeUpdated, refPtr(n.Ref()))
		node = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("node updated", "id", node.ID, "title", node.Title, "is_done", node.IsDone)
	return node, nil
}

// Reparent validates self-reference, container, cycles and the depth of the
// whole moved subtree, then appends the node to its new sibling set.
func (s *nodeStore) Reparent(ctx context.Context, nodeID string, newParentID *string) error {
	newParentID = normalizeParent(newParentID)

	existing, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}

	return s.guard.Write(ctx, []string{models.ContainerLockKey(existing.ContainerID)}, func(ctx context.Context) error {
		node, err := s.nodeRepo.GetByID(ctx, nodeID)
		if err != nil {
			return err
		}
		if models.SameParent(node.ParentID, newParentID) {
			return nil
		}

		newDepth := 0
		if newParentID != nil {
			if *newParentID == node.ID {
				return &domain.CycleDetectedError{NodeID: node.ID, ParentID: node.ID}
			}

			parent, err := s.nodeRepo.GetByID(ctx, *newParentID)
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.InvalidParentError{ParentID: *newParentID, Reason: "parent does not exist"}
			}
			if err != nil {
				return err
			}
			if parent.ContainerID != node.ContainerID {
				return &domain.InvalidParentError{ParentID: parent.ID, Reason: "parent belongs to another container"}
			}

			chain, err := s.ancestors(ctx, parent)
			if err != nil {
				return err
			}
			for _, a := range append(chain, *parent) {
				if a.ID == node.ID {
					return &domain.CycleDetectedError{NodeID: node.ID, ParentID: parent.ID}
				}
			}
			newDepth = len(chain) + 1
		}

		height, err := s.subtreeHeight(ctx, node)
		if err != nil {
			return err
		}
		if newDepth+height > s.maxDepth() {
			return &domain.DepthExceededError{NodeID: node.ID, Depth: newDepth + height, MaxDepth: s.maxDepth()}
		}

		oldScope := node.SiblingScope()
		node.ParentID = newParentID
		node.UpdatedAt = time.Now()
		if err := s.nodeRepo.UpdateParent(ctx, node); err != nil {
			return err
		}

		newScope := node.SiblingScope()
		sortKey, err := s.collection.NextSortKey(ctx, newScope)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Move(ctx, node.Ref(), newScope.Key(), sortKey); err != nil {
			return err
		}

		s.guard.Changed(ctx, oldScope, services.ChangeMoved, refPtr(node.Ref()))
		s.guard.Changed(ctx, newScope, services.ChangeMoved, refPtr(node.Ref()))

		s.logger.Info("node reparented",
			"id", node.ID,
			"from_scope", oldScope.Key(),
			"to_scope", newScope.Key(),
			"depth", newDepth,
		)
		return nil
	})
}

// Delete removes the node and its descendants. Absent ids are a no-op.
func (s *nodeStore) Delete(ctx context.Context, nodeID string) error {
	existing, err := s.nodeRepo.GetByID(ctx, nodeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var removed int
	err = s.guard.Write(ctx, []string{models.ContainerLockKey(existing.ContainerID)}, func(ctx context.Context) error {
		node, err := s.nodeRepo.GetByID(ctx, nodeID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		children, err := s.childIndex(ctx, node.ContainerID)
		if err != nil {
			return err
		}

		ids := []string{node.ID}
		refs := []models.EntityRef{node.Ref()}
		for queue := []string{node.ID}; len(queue) > 0; queue = queue[1:] {
			for _, child := range children[queue[0]] {
				ids = append(ids, child.ID)
				refs = append(refs, child.Ref())
				queue = append(queue, child.ID)
			}
		}

		if err := s.orderRepo.Delete(ctx, refs...); err != nil {
			return err
		}
		if err := s.nodeRepo.DeleteMany(ctx, ids); err != nil {
			return err
		}
		removed = len(ids)

		s.guard.Changed(ctx, node.SiblingScope(), services.ChangeDeleted, refPtr(node.Ref()))
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("node deleted", "id", nodeID, "removed", removed)
	}
	return nil
}

func (s *nodeStore) DeleteByContainer(ctx context.Context, containerID string) error {
	return s.guard.Write(ctx, []string{models.ContainerLockKey(containerID)}, func(ctx context.Context) error {
		if err := s.orderRepo.DeleteByScopePrefix(ctx, models.ContainerScopePrefix(containerID)); err != nil {
			return err
		}
		return s.nodeRepo.DeleteByContainer(ctx, containerID)
	})
}

func (s *nodeStore) GetDepth(ctx context.Context, nodeID string) (int, error) {
	var depth int
	err := s.readNode(ctx, nodeID, func(ctx context.Context, n *models.Node) error {
		var err error
		depth, err = s.depthOf(ctx, n)
		return err
	})
	return depth, err
}

func (s *nodeStore) GetAncestors(ctx context.Context, nodeID string) ([]models.Node, error) {
	var chain []models.Node
	err := s.readNode(ctx, nodeID, func(ctx context.Context, n *models.Node) error {
		var err error
		chain, err = s.ancestors(ctx, n)
		return err
	})
	return chain, err
}

// readNode runs fn on a fresh copy of the node under its container's read lock
func (s *nodeStore) readNode(ctx context.Context, nodeID string, fn func(ctx context.Context, n *models.Node) error) error {
	existing, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}

	return s.guard.Read(ctx, []string{models.ContainerLockKey(existing.ContainerID)}, func(ctx context.Context) error {
		n, err := s.nodeRepo.GetByID(ctx, nodeID)
		if err != nil {
			return err
		}
		return fn(ctx, n)
	})
}

// ancestors walks parent links root-first. The walk is bounded by the level
// limit, so a corrupted chain surfaces as an error instead of a loop.
func (s *nodeStore) ancestors(ctx context.Context, n *models.Node) ([]models.Node, error) {
	var chain []models.Node
	seen := map[string]bool{n.ID: true}

	for cur := n; cur.ParentID != nil; {
		if len(chain) >= s.maxLevels {
			return nil, fmt.Errorf("node %s: parent chain exceeds %d levels", n.ID, s.maxLevels)
		}
		parent, err := s.nodeRepo.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return nil, fmt.Errorf("walk ancestors of %s: %w", n.ID, err)
		}
		if seen[parent.ID] {
			return nil, &domain.CycleDetectedError{NodeID: n.ID, ParentID: parent.ID}
		}
		seen[parent.ID] = true
		chain = append(chain, *parent)
		cur = parent
	}

	// Reverse to root-first and derive depths
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	for i := range chain {
		chain[i].Depth = i
	}
	return chain, nil
}

func (s *nodeStore) depthOf(ctx context.Context, n *models.Node) (int, error) {
	chain, err := s.ancestors(ctx, n)
	if err != nil {
		return 0, err
	}
	return len(chain), nil
}

// subtreeHeight is the deepest relative depth below n (0 for a leaf)
func (s *nodeStore) subtreeHeight(ctx context.Context, n *models.Node) (int, error) {
	children, err := s.childIndex(ctx, n.ContainerID)
	if err != nil {
		return 0, err
	}

	var walk func(id string, depth int) int
	walk = func(id string, depth int) int {
		deepest := depth
		if depth > s.maxLevels {
			return deepest
		}
		for _, child := range children[id] {
			if d := walk(child.ID, depth+1); d > deepest {
				deepest = d
			}
		}
		return deepest
	}
	return walk(n.ID, 0), nil
}

// childIndex groups a container's nodes by parent id
func (s *nodeStore) childIndex(ctx context.Context, containerID string) (map[string][]models.Node, error) {
	all, err := s.nodeRepo.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]models.Node)
	for _, n := range all {
		if n.ParentID != nil {
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}
	return children, nil
}

// populate fills the derived Depth and SortKey fields
func (s *nodeStore) populate(ctx context.Context, n *models.Node) error {
	depth, err := s.depthOf(ctx, n)
	if err != nil {
		return err
	}
	n.Depth = depth

	entry, err := s.orderRepo.Get(ctx, n.Ref())
	if err != nil {
		s.logger.Warn("node has no order entry", "id", n.ID, "error", err)
		return nil
	}
	n.SortKey = entry.SortKey
	return nil
}

func (s *nodeStore) validateCreateRequest(req *contentSvc.CreateNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ContainerID, validation.Required, isUUID),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.ParentID, isUUID),
	)
}

func (s *nodeStore) validateUpdateRequest(req *contentSvc.UpdateNodeRequest) error {
	if req.Title == nil && req.IsDone == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, notBlank, validation.Length(1, config.MaxTitleLength)),
	)
}
