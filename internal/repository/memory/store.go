// Package memory is an in-process implementation of the content
// repositories, used by tests and by STORAGE=memory development servers.
//
// Transactions copy the committed dataset, run against the copy, and swap it
// in on success, so a failed transaction leaves no trace. Writers are
// serialized; readers outside a transaction see the last committed dataset.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	"later/internal/domain/repositories"
)

// Store holds the committed dataset
type Store struct {
	writeMu sync.Mutex   // one writer transaction at a time
	mu      sync.RWMutex // guards data
	data    *dataset
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newDataset()}
}

type dataset struct {
	workspaces map[string]models.Workspace
	containers map[string]models.Container
	notes      map[string]models.Note
	nodes      map[string]models.Node
	order      map[models.EntityRef]models.OrderEntry
}

func newDataset() *dataset {
	return &dataset{
		workspaces: map[string]models.Workspace{},
		containers: map[string]models.Container{},
		notes:      map[string]models.Note{},
		nodes:      map[string]models.Node{},
		order:      map[models.EntityRef]models.OrderEntry{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.workspaces {
		c.workspaces[k] = v
	}
	for k, v := range d.containers {
		c.containers[k] = v
	}
	for k, v := range d.notes {
		c.notes[k] = v
	}
	for k, v := range d.nodes {
		v.ParentID = copyID(v.ParentID)
		c.nodes[k] = v
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	return c
}

// checkOrder enforces the commit-time uniqueness of (scope, sort key)
func (d *dataset) checkOrder() error {
	seen := make(map[string]map[int]models.EntityRef)
	for ref, e := range d.order {
		keys, ok := seen[e.ScopeKey]
		if !ok {
			keys = make(map[int]models.EntityRef)
			seen[e.ScopeKey] = keys
		}
		if other, dup := keys[e.SortKey]; dup {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s and %s share sort key %d in %s", other, ref, e.SortKey, e.ScopeKey),
				ResourceType: string(ref.Kind),
				ResourceID:   ref.ID,
			}
		}
		keys[e.SortKey] = ref
	}
	return nil
}

type txKey struct{}

type memTx struct {
	data     *dataset
	readOnly bool
}

var errReadOnlyTx = errors.New("write inside a read-only transaction")

// ExecTx runs fn against a private copy of the dataset and commits it if fn
// succeeds. Nested calls join the outer transaction.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		if tx.readOnly {
			return errReadOnlyTx
		}
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	tx := &memTx{data: s.data.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.data.checkOrder(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

// ExecReadTx pins the committed dataset for the duration of fn. Commits
// replace the dataset rather than mutate it, so the pinned copy is a stable
// snapshot.
func (s *Store) ExecReadTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(ctx)
	}

	s.mu.RLock()
	tx := &memTx{data: s.data, readOnly: true}
	s.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// read runs fn against the transaction's dataset, or the committed one
func (s *Store) read(ctx context.Context, fn func(d *dataset) error) error {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(tx.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs fn in the caller's transaction, or in one of its own
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	return s.ExecTx(ctx, func(txCtx context.Context) error {
		return fn(txCtx.Value(txKey{}).(*memTx).data)
	})
}

// TransactionManager exposes the store's transactions as a repositories.TransactionManager
func (s *Store) TransactionManager() repositories.TransactionManager {
	return s
}

// ScopeSerializer returns a no-op serializer; a single process needs none
// beyond the service's in-process scope locks and the store's writer mutex.
func (s *Store) ScopeSerializer() repositories.ScopeSerializer {
	return nopSerializer{}
}

type nopSerializer struct{}

func (nopSerializer) SerializeScopes(context.Context, ...string) error { return nil }

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
