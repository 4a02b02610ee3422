package content

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	models "later/internal/domain/models/content"
)

// exclusiveWeight is large enough that a writer excludes every reader
const exclusiveWeight = 1 << 30

type lockMode int

const (
	modeShared lockMode = iota + 1
	modeExclusive
)

// ScopeLocks is an in-process registry of reader/writer locks keyed by scope
// lock key. Acquisition is re-entrant through the context: a key already held
// by the calling operation is not acquired again.
//
// Keys are always acquired workspace-first, then containers, each group in
// lexical order. Callers that need containers of a workspace acquire the
// workspace before listing them.
type ScopeLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewScopeLocks creates an empty lock registry
func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{entries: make(map[string]*lockEntry)}
}

type heldKey struct{}

// heldLocks is the set of keys the current operation holds
type heldLocks map[string]lockMode

func heldFrom(ctx context.Context) heldLocks {
	held, _ := ctx.Value(heldKey{}).(heldLocks)
	return held
}

// orderLockKeys sorts workspace keys before container keys, lexically within each
func orderLockKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		wi, wj := models.IsWorkspaceLockKey(ordered[i]), models.IsWorkspaceLockKey(ordered[j])
		if wi != wj {
			return wi
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

// Lock acquires keys exclusively. The returned context records the held keys
// and must be passed to nested operations. newly lists the keys this call
// acquired. release is never nil.
func (l *ScopeLocks) Lock(ctx context.Context, keys ...string) (context.Context, []string, func(), error) {
	return l.acquire(ctx, modeExclusive, keys)
}

// RLock acquires keys for reading
func (l *ScopeLocks) RLock(ctx context.Context, keys ...string) (context.Context, func(), error) {
	ctx, _, release, err := l.acquire(ctx, modeShared, keys)
	return ctx, release, err
}

func (l *ScopeLocks) acquire(ctx context.Context, mode lockMode, keys []string) (context.Context, []string, func(), error) {
	held := heldFrom(ctx)

	var pending []string
	for _, key := range orderLockKeys(keys) {
		have, ok := held[key]
		if !ok {
			pending = append(pending, key)
			continue
		}
		if have == modeShared && mode == modeExclusive {
			return ctx, nil, func() {}, fmt.Errorf("scope %s: cannot upgrade a read lock", key)
		}
	}

	if len(pending) == 0 {
		return ctx, nil, func() {}, nil
	}

	weight := int64(1)
	if mode == modeExclusive {
		weight = exclusiveWeight
	}

	var acquired []*lockEntry
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].sem.Release(weight)
		}
		l.mu.Lock()
		for _, key := range pending[:len(acquired)] {
			l.unref(key)
		}
		l.mu.Unlock()
	}

	for _, key := range pending {
		l.mu.Lock()
		entry := l.ref(key)
		l.mu.Unlock()

		if err := entry.sem.Acquire(ctx, weight); err != nil {
			l.mu.Lock()
			l.unref(key)
			l.mu.Unlock()
			release()
			return ctx, nil, func() {}, fmt.Errorf("acquire scope %s: %w", key, err)
		}
		acquired = append(acquired, entry)
	}

	next := make(heldLocks, len(held)+len(pending))
	for k, m := range held {
		next[k] = m
	}
	for _, key := range pending {
		next[key] = mode
	}

	var once sync.Once
	return context.WithValue(ctx, heldKey{}, next), pending, func() { once.Do(release) }, nil
}

func (l *ScopeLocks) ref(key string) *lockEntry {
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(exclusiveWeight)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *ScopeLocks) unref(key string) {
	entry, ok := l.entries[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
