package content

import (
	"context"

	"later/internal/domain"
	"later/internal/domain/models/content"
)

// ReorderCoordinator is the entry point for drag-and-drop gestures
type ReorderCoordinator interface {
	// Reorder moves an entity within its current scope
	Reorder(ctx context.Context, req *ReorderRequest) (*MoveResult, error)

	// MoveNode drops a node at ToIndex among the children of ParentID,
	// reparenting first when the parent changes
	MoveNode(ctx context.Context, req *MoveNodeRequest) (*MoveResult, error)
}

// ReorderRequest is a same-scope positional move
type ReorderRequest struct {
	Scope     content.Scope
	Ref       content.EntityRef
	FromIndex int
	ToIndex   int
}

// MoveNodeRequest is a node drop onto a (possibly different) sibling set
type MoveNodeRequest struct {
	NodeID   string
	ParentID *string // Target parent; nil = container root
	ToIndex  *int    // Target position; nil = end of the sibling set
}

// Outcome is the terminal state of a coordinated move
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeRejected  Outcome = "rejected"
)

// MoveKind classifies a gesture
type MoveKind string

const (
	MoveSameScope   MoveKind = "same_scope"
	MoveCrossParent MoveKind = "cross_parent"
)

// MoveResult reports how a gesture ended. On rejection Order is empty and
// ErrorKind names the failure; the returned error carries the details.
type MoveResult struct {
	Outcome   Outcome             `json:"outcome"`
	Kind      MoveKind            `json:"kind,omitempty"`
	Scope     content.Scope       `json:"scope"`
	Order     []content.EntityRef `json:"order,omitempty"`
	ErrorKind domain.ErrorKind    `json:"error_kind,omitempty"`
}
