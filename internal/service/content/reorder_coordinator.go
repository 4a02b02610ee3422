package content

import (
	"context"
	"fmt"
	"log/slog"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

type reorderCoordinator struct {
	collection contentSvc.OrderedCollection
	nodes      contentSvc.NodeStore
	nodeRepo   contentRepo.NodeRepository
	guard      *ScopeGuard
	logger     *slog.Logger
}

// NewReorderCoordinator creates the entry point for drag-and-drop gestures
func NewReorderCoordinator(
	collection contentSvc.OrderedCollection,
	nodes contentSvc.NodeStore,
	nodeRepo contentRepo.NodeRepository,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.ReorderCoordinator {
	return &reorderCoordinator{
		collection: collection,
		nodes:      nodes,
		nodeRepo:   nodeRepo,
		guard:      guard,
		logger:     logger,
	}
}

// Reorder applies a same-scope positional move
func (c *reorderCoordinator) Reorder(ctx context.Context, req *contentSvc.ReorderRequest) (*contentSvc.MoveResult, error) {
	if err := validateScopeRef(req.Scope, req.Ref); err != nil {
		return c.reject(req.Scope, contentSvc.MoveSameScope, req.Ref, err)
	}

	var order []models.EntityRef
	err := c.guard.Write(ctx, []string{req.Scope.LockKey()}, func(ctx context.Context) error {
		if err := c.collection.Reorder(ctx, req.Scope, req.Ref, req.FromIndex, req.ToIndex); err != nil {
			return err
		}
		if req.FromIndex != req.ToIndex {
			c.guard.Changed(ctx, req.Scope, services.ChangeReordered, refPtr(req.Ref))
		}

		var err error
		order, err = c.collection.ListOrdered(ctx, req.Scope)
		return err
	})
	if err != nil {
		return c.reject(req.Scope, contentSvc.MoveSameScope, req.Ref, err)
	}

	c.logger.Info("reorder committed",
		"scope", req.Scope.Key(),
		"ref", req.Ref.String(),
		"from", req.FromIndex,
		"to", req.ToIndex,
	)

	return &contentSvc.MoveResult{
		Outcome: contentSvc.OutcomeCommitted,
		Kind:    contentSvc.MoveSameScope,
		Scope:   req.Scope,
		Order:   order,
	}, nil
}

// MoveNode classifies the drop, reparents first when the parent changes, then
// positions the node within its new sibling set. Everything runs in one
// transaction under the container lock, so a rejected step leaves no trace.
func (c *reorderCoordinator) MoveNode(ctx context.Context, req *contentSvc.MoveNodeRequest) (*contentSvc.MoveResult, error) {
	parentID := normalizeParent(req.ParentID)
	ref := models.NodeRef(req.NodeID)

	node, err := c.nodeRepo.GetByID(ctx, req.NodeID)
	if err != nil {
		return c.reject(models.Scope{}, "", ref, err)
	}

	target := models.SiblingScope(node.WorkspaceID, node.ContainerID, parentID)
	kind := contentSvc.MoveCrossParent
	if models.SameParent(node.ParentID, parentID) {
		kind = contentSvc.MoveSameScope
	}

	var order []models.EntityRef
	err = c.guard.Write(ctx, []string{target.LockKey()}, func(ctx context.Context) error {
		current, err := c.nodeRepo.GetByID(ctx, req.NodeID)
		if err != nil {
			return err
		}
		if current.ContainerID != node.ContainerID || !models.SameParent(current.ParentID, node.ParentID) {
			return fmt.Errorf("node %s moved concurrently: %w", req.NodeID, domain.ErrConflict)
		}

		if kind == contentSvc.MoveCrossParent {
			if err := c.nodes.Reparent(ctx, req.NodeID, parentID); err != nil {
				return err
			}
		}

		from, err := c.collection.IndexOf(ctx, target, ref)
		if err != nil {
			return err
		}

		to := from
		if req.ToIndex != nil {
			to = *req.ToIndex
		} else if kind == contentSvc.MoveSameScope {
			entries, err := c.collection.Entries(ctx, target)
			if err != nil {
				return err
			}
			to = len(entries) - 1
		}

		if err := c.collection.Reorder(ctx, target, ref, from, to); err != nil {
			return err
		}
		if kind == contentSvc.MoveSameScope && from != to {
			c.guard.Changed(ctx, target, services.ChangeReordered, refPtr(ref))
		}

		order, err = c.collection.ListOrdered(ctx, target)
		return err
	})
	if err != nil {
		return c.reject(target, kind, ref, err)
	}

	c.logger.Info("node move committed",
		"node_id", req.NodeID,
		"kind", kind,
		"scope", target.Key(),
	)

	return &contentSvc.MoveResult{
		Outcome: contentSvc.OutcomeCommitted,
		Kind:    kind,
		Scope:   target,
		Order:   order,
	}, nil
}

func (c *reorderCoordinator) reject(scope models.Scope, kind contentSvc.MoveKind, ref models.EntityRef, err error) (*contentSvc.MoveResult, error) {
	errKind := domain.KindOf(err)
	if errKind == domain.KindInternal {
		c.logger.Error("move failed", "ref", ref.String(), "scope", scope.Key(), "error", err)
	} else {
		c.logger.Info("move rejected", "ref", ref.String(), "scope", scope.Key(), "error_kind", errKind, "error", err)
	}

	return &contentSvc.MoveResult{
		Outcome:   contentSvc.OutcomeRejected,
		Kind:      kind,
		Scope:     scope,
		ErrorKind: errKind,
	}, err
}

// validateScopeRef checks that the entity variant can live in the scope
func validateScopeRef(scope models.Scope, ref models.EntityRef) error {
	if scope.WorkspaceID == "" && scope.ContainerID == "" {
		return &domain.ValidationError{Message: "scope is required"}
	}
	if ref.ID == "" {
		return &domain.ValidationError{Message: "entity id is required"}
	}

	switch ref.Kind {
	case models.KindContainer, models.KindNote:
		if !scope.IsWorkspace() {
			return &domain.ValidationError{Message: fmt.Sprintf("%s entities are ordered within a workspace", ref.Kind)}
		}
	case models.KindNode:
		if scope.IsWorkspace() {
			return &domain.ValidationError{Message: "nodes are ordered within a container"}
		}
	default:
		return &domain.ValidationError{Message: fmt.Sprintf("unknown entity kind %q", ref.Kind)}
	}
	return nil
}
