// Package notify delivers committed scope changes to interested parties.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"later/internal/domain/services"
)

// DefaultBuffer is the per-subscriber channel capacity
const DefaultBuffer = 64

// Hub fans scope changes out to in-process subscribers. Delivery never
// blocks the mutating caller: a subscriber whose buffer is full misses the
// change and is expected to re-read the scope.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	buffer int
	logger *slog.Logger
}

type subscription struct {
	ch    chan services.ScopeChange
	match func(services.ScopeChange) bool
}

// NewHub creates a hub with DefaultBuffer-sized subscriber channels
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscription]struct{}),
		buffer: DefaultBuffer,
		logger: logger,
	}
}

// Subscribe registers for changes on scopeKey ("" for all scopes). The
// returned cancel func closes the channel and is safe to call twice.
func (h *Hub) Subscribe(scopeKey string) (<-chan services.ScopeChange, func()) {
	return h.subscribe(func(c services.ScopeChange) bool {
		return scopeKey == "" || c.ScopeKey == scopeKey
	})
}

// SubscribeWorkspace registers for changes on every scope of a workspace
func (h *Hub) SubscribeWorkspace(workspaceID string) (<-chan services.ScopeChange, func()) {
	return h.subscribe(func(c services.ScopeChange) bool {
		return c.Scope.WorkspaceID == workspaceID
	})
}

func (h *Hub) subscribe(match func(services.ScopeChange) bool) (<-chan services.ScopeChange, func()) {
	sub := &subscription{
		ch:    make(chan services.ScopeChange, h.buffer),
		match: match,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
}

// ScopeChanged implements services.ChangeNotifier
func (h *Hub) ScopeChanged(_ context.Context, change services.ScopeChange) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.match(change) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			h.logger.Warn("dropping scope change for slow subscriber",
				"scope", change.ScopeKey,
				"kind", change.Kind,
			)
		}
	}
}

// Subscribers returns the number of active subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Multi forwards every change to each notifier in order
type Multi []services.ChangeNotifier

func (m Multi) ScopeChanged(ctx context.Context, change services.ScopeChange) {
	for _, n := range m {
		n.ScopeChanged(ctx, change)
	}
}
