package content

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/repository/memory"
)

func TestScopeLocks_Reentrant(t *testing.T) {
	locks := NewScopeLocks()
	ctx := context.Background()

	ctx, newly, release, err := locks.Lock(ctx, "container:b", "workspace:w", "container:a")
	require.NoError(t, err)
	defer release()
	assert.Equal(t, []string{"workspace:w", "container:a", "container:b"}, newly)

	_, newly, inner, err := locks.Lock(ctx, "container:a", "container:c")
	require.NoError(t, err)
	assert.Equal(t, []string{"container:c"}, newly)
	inner()

	// A read under a held write lock reuses it
	_, rrelease, err := locks.RLock(ctx, "container:a")
	require.NoError(t, err)
	rrelease()
}

func TestScopeLocks_UpgradeFails(t *testing.T) {
	locks := NewScopeLocks()

	ctx, release, err := locks.RLock(context.Background(), "container:a")
	require.NoError(t, err)
	defer release()

	_, _, _, err = locks.Lock(ctx, "container:a")
	require.Error(t, err)
}

func TestScopeLocks_WriterExcludesReaders(t *testing.T) {
	locks := NewScopeLocks()

	_, _, release, err := locks.Lock(context.Background(), "container:a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = locks.RLock(ctx, "container:a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	_, rrelease, err := locks.RLock(context.Background(), "container:a")
	require.NoError(t, err)
	rrelease()
	assert.Empty(t, locks.entries, "released keys are dropped from the registry")
}

func TestScopeLocks_ReadersShare(t *testing.T) {
	locks := NewScopeLocks()

	_, r1, err := locks.RLock(context.Background(), "workspace:w")
	require.NoError(t, err)
	_, r2, err := locks.RLock(context.Background(), "workspace:w")
	require.NoError(t, err)
	r1()
	r2()
}

func TestScopeLocks_SerializesWriters(t *testing.T) {
	locks := NewScopeLocks()
	var active, maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, release, err := locks.Lock(context.Background(), "container:a")
			if err != nil {
				t.Error(err)
				return
			}
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
}

func TestScopeGuard_NotifiesAfterCommitOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	scope := models.WorkspaceScope(ws.ID)
	env.notifier.reset()

	boom := errors.New("boom")
	err := env.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		env.guard.Changed(ctx, scope, services.ChangeUpdated, nil)
		assert.Empty(t, env.notifier.kinds(), "changes are buffered until commit")
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, env.notifier.kinds())

	err = env.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		return env.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
			env.guard.Changed(ctx, scope, services.ChangeUpdated, nil)
			return nil
		})
	})
	require.NoError(t, err)

	changes := env.notifier.kinds()
	require.Len(t, changes, 1)
	assert.Equal(t, services.ChangeUpdated, changes[0])
	assert.Equal(t, scope.Key(), env.notifier.changes[0].ScopeKey)
}

func TestScopeGuard_ReadSeesOneSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c := env.container(t, ws.ID, "List")
	scope := models.SiblingScope(ws.ID, c.ID, nil)
	orderRepo := memory.NewOrderRepository(env.store)

	err := env.guard.Read(ctx, []string{models.ContainerLockKey(c.ID)}, func(ctx context.Context) error {
		before, err := orderRepo.List(ctx, scope.Key())
		require.NoError(t, err)

		// Committed by a writer that does not share this process's scope locks
		require.NoError(t, orderRepo.Insert(context.Background(), &models.OrderEntry{
			ScopeKey: scope.Key(),
			Ref:      models.NodeRef("elsewhere"),
			SortKey:  0,
		}))

		after, err := orderRepo.List(ctx, scope.Key())
		require.NoError(t, err)
		assert.Equal(t, before, after)
		return nil
	})
	require.NoError(t, err)

	entries, err := env.collection.Entries(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConcurrentAppendsKeepKeysUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c := env.container(t, ws.ID, "List")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.nodes.Create(ctx, &contentSvc.CreateNodeRequest{ContainerID: c.ID, Title: "item"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	entries, err := env.collection.Entries(ctx, models.SiblingScope(ws.ID, c.ID, nil))
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, i, e.SortKey)
	}
}
