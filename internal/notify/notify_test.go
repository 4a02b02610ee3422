package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "later/internal/domain/models/content"
	"later/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func change(scope models.Scope, kind services.ChangeKind) services.ScopeChange {
	return services.ScopeChange{Scope: scope, ScopeKey: scope.Key(), Kind: kind, At: time.Now()}
}

func TestHub_FiltersByScope(t *testing.T) {
	hub := NewHub(testLogger())
	ctx := context.Background()

	ws := models.WorkspaceScope("ws-1")
	roots := models.SiblingScope("ws-1", "c-1", nil)

	all, cancelAll := hub.Subscribe("")
	defer cancelAll()
	onlyRoots, cancelRoots := hub.Subscribe(roots.Key())
	defer cancelRoots()

	hub.ScopeChanged(ctx, change(ws, services.ChangeCreated))
	hub.ScopeChanged(ctx, change(roots, services.ChangeReordered))

	require.Len(t, all, 2)
	require.Len(t, onlyRoots, 1)
	got := <-onlyRoots
	assert.Equal(t, services.ChangeReordered, got.Kind)
}

func TestHub_SubscribeWorkspace(t *testing.T) {
	hub := NewHub(testLogger())
	ctx := context.Background()

	ch, cancel := hub.SubscribeWorkspace("ws-1")
	defer cancel()

	hub.ScopeChanged(ctx, change(models.WorkspaceScope("ws-1"), services.ChangeCreated))
	hub.ScopeChanged(ctx, change(models.SiblingScope("ws-1", "c-1", nil), services.ChangeMoved))
	hub.ScopeChanged(ctx, change(models.WorkspaceScope("ws-2"), services.ChangeCreated))

	require.Len(t, ch, 2)
	assert.Equal(t, services.ChangeCreated, (<-ch).Kind)
	assert.Equal(t, services.ChangeMoved, (<-ch).Kind)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())
	hub.buffer = 1
	ch, cancel := hub.Subscribe("")
	defer cancel()

	scope := models.WorkspaceScope("ws-1")
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.ScopeChanged(context.Background(), change(scope, services.ChangeUpdated))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ScopeChanged blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub(testLogger())
	ch, cancel := hub.Subscribe("")
	assert.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())

	// Publishing after cancel must not panic
	hub.ScopeChanged(context.Background(), change(models.WorkspaceScope("ws"), services.ChangeDeleted))
}

func TestMulti_ForwardsToAll(t *testing.T) {
	a, b := NewHub(testLogger()), NewHub(testLogger())
	chA, cancelA := a.Subscribe("")
	defer cancelA()
	chB, cancelB := b.Subscribe("")
	defer cancelB()

	Multi{a, b}.ScopeChanged(context.Background(), change(models.WorkspaceScope("ws"), services.ChangeMoved))

	assert.Len(t, chA, 1)
	assert.Len(t, chB, 1)
}

func TestEncodeChange(t *testing.T) {
	parent := "n-1"
	scope := models.SiblingScope("ws-1", "c-1", &parent)
	ref := models.NodeRef("n-2")
	c := change(scope, services.ChangeMoved)
	c.Ref = &ref

	payload, err := EncodeChange(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "container:c-1/node:n-1", decoded["scope_key"])
	assert.Equal(t, "c-1", decoded["container_id"])
	assert.Equal(t, "moved", decoded["kind"])
	assert.Equal(t, "node", decoded["entity_kind"])
	assert.Equal(t, "n-2", decoded["entity_id"])
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "dev_scope-changed", Channel("dev_"))
}
