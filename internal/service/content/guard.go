package content

import (
	"context"
	"log/slog"
	"time"

	models "later/internal/domain/models/content"
	"later/internal/domain/repositories"
	"later/internal/domain/services"
)

// ScopeGuard runs operations under scope locks. Writers hold exclusive
// in-process locks, then run in one transaction that also takes the
// cross-process serializer locks. Readers hold shared locks and run in a
// read-only snapshot transaction. Change notifications are buffered until
// the outermost write commits and dropped if it fails.
type ScopeGuard struct {
	locks      *ScopeLocks
	txManager  repositories.TransactionManager
	serializer repositories.ScopeSerializer
	notifier   services.ChangeNotifier
	logger     *slog.Logger
}

// NewScopeGuard creates a guard
func NewScopeGuard(
	locks *ScopeLocks,
	txManager repositories.TransactionManager,
	serializer repositories.ScopeSerializer,
	notifier services.ChangeNotifier,
	logger *slog.Logger,
) *ScopeGuard {
	if notifier == nil {
		notifier = services.NopNotifier{}
	}
	return &ScopeGuard{
		locks:      locks,
		txManager:  txManager,
		serializer: serializer,
		notifier:   notifier,
		logger:     logger,
	}
}

type pendingKey struct{}

type pendingChanges struct {
	changes []services.ScopeChange
}

// Write runs fn exclusively on keys inside a transaction
func (g *ScopeGuard) Write(ctx context.Context, keys []string, fn repositories.TxFn) error {
	ctx, newly, release, err := g.locks.Lock(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()

	pending, nested := ctx.Value(pendingKey{}).(*pendingChanges)
	if !nested {
		pending = &pendingChanges{}
		ctx = context.WithValue(ctx, pendingKey{}, pending)
	}

	serialize := newly
	if !nested {
		serialize = orderLockKeys(keys)
	}

	err = g.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if len(serialize) > 0 {
			if err := g.serializer.SerializeScopes(txCtx, serialize...); err != nil {
				return err
			}
		}
		return fn(txCtx)
	})
	if err != nil {
		return err
	}

	if !nested {
		for _, change := range pending.changes {
			g.notifier.ScopeChanged(ctx, change)
		}
	}
	return nil
}

// Read runs fn holding shared locks on keys, against one read-only snapshot.
// In-process writers are excluded by the locks; writers in other processes
// commit atomically and are invisible to the snapshot.
func (g *ScopeGuard) Read(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	ctx, release, err := g.locks.RLock(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()
	return g.txManager.ExecReadTx(ctx, fn)
}

// Hold acquires keys exclusively without starting a transaction. Used when
// the full key set is only known after reading under a parent lock.
func (g *ScopeGuard) Hold(ctx context.Context, keys ...string) (context.Context, func(), error) {
	ctx, _, release, err := g.locks.Lock(ctx, keys...)
	return ctx, release, err
}

// Changed records a committed-on-success change to scope
func (g *ScopeGuard) Changed(ctx context.Context, scope models.Scope, kind services.ChangeKind, ref *models.EntityRef) {
	change := services.ScopeChange{
		Scope:    scope,
		ScopeKey: scope.Key(),
		Kind:     kind,
		Ref:      ref,
		At:       time.Now(),
	}

	if pending, ok := ctx.Value(pendingKey{}).(*pendingChanges); ok {
		pending.changes = append(pending.changes, change)
		return
	}
	g.notifier.ScopeChanged(ctx, change)
}

func refPtr(ref models.EntityRef) *models.EntityRef { return &ref }
