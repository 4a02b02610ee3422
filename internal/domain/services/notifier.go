package services

import (
	"context"
	"time"

	"later/internal/domain/models/content"
)

// ChangeKind describes what happened to a scope
type ChangeKind string

const (
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeReordered ChangeKind = "reordered"
	ChangeMoved     ChangeKind = "moved"
	ChangeDeleted   ChangeKind = "deleted"
)

// ScopeChange is emitted after a mutation on a scope has committed
type ScopeChange struct {
	Scope    content.Scope      `json:"scope"`
	ScopeKey string             `json:"scope_key"`
	Kind     ChangeKind         `json:"kind"`
	Ref      *content.EntityRef `json:"ref,omitempty"`
	At       time.Time          `json:"at"`
}

// ChangeNotifier is the onScopeChanged hook. Implementations must not block
// the caller for long and must not fail the already-committed mutation.
type ChangeNotifier interface {
	ScopeChanged(ctx context.Context, change ScopeChange)
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) ScopeChanged(context.Context, ScopeChange) {}
