package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentSvc "later/internal/domain/services/content"
)

func TestNodeStore_DepthBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")

	a := env.node(t, c1.ID, "Buy groceries", nil)
	assert.Equal(t, 0, a.Depth)

	b := env.node(t, c1.ID, "Milk", &a.ID)
	assert.Equal(t, 1, b.Depth)

	d := env.node(t, c1.ID, "Whole milk", &b.ID)
	assert.Equal(t, 2, d.Depth)

	depth, err := env.nodes.GetDepth(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	_, err = env.nodes.Create(ctx, &contentSvc.CreateNodeRequest{
		ContainerID: c1.ID,
		Title:       "Too deep",
		ParentID:    &d.ID,
	})
	var depthErr *domain.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 3, depthErr.Depth)
	assert.Equal(t, 2, depthErr.MaxDepth)

	children, err := env.tree.Children(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, children, "rejected create must leave the subtree unchanged")
}

func TestNodeStore_ReparentUnderSelfIsCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	a := env.node(t, c1.ID, "Buy groceries", nil)
	b := env.node(t, c1.ID, "Milk", &a.ID)

	err := env.nodes.Reparent(ctx, b.ID, &b.ID)
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	got, err := env.nodes.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, a.ID, *got.ParentID)
}

func TestNodeStore_ReparentUnderDescendantIsCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	a := env.node(t, c1.ID, "A", nil)
	b := env.node(t, c1.ID, "B", &a.ID)

	err := env.nodes.Reparent(ctx, a.ID, &b.ID)
	var cycleErr *domain.CycleDetectedError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, a.ID, cycleErr.NodeID)
	assert.Equal(t, b.ID, cycleErr.ParentID)
}

func TestNodeStore_ReparentChecksSubtreeHeight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")

	x := env.node(t, c1.ID, "X", nil)
	a := env.node(t, c1.ID, "A", nil)
	env.node(t, c1.ID, "B", &a.ID)

	// A has a child, so A under X would put that child at depth 2: allowed.
	require.NoError(t, env.nodes.Reparent(ctx, a.ID, &x.ID))

	y := env.node(t, c1.ID, "Y", nil)
	z := env.node(t, c1.ID, "Z", &y.ID)

	// X now has height 2; X under Z would reach depth 4
	err := env.nodes.Reparent(ctx, x.ID, &z.ID)
	var depthErr *domain.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, x.ID, depthErr.NodeID)
	assert.Equal(t, 4, depthErr.Depth)

	roots, err := env.tree.RootNodes(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{x.ID, y.ID}, ids(roots))
}

func TestNodeStore_InvalidParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	c2 := env.container(t, ws.ID, "C2")
	other := env.node(t, c2.ID, "Elsewhere", nil)
	a := env.node(t, c1.ID, "A", nil)

	t.Run("parent in another container", func(t *testing.T) {
		_, err := env.nodes.Create(ctx, &contentSvc.CreateNodeRequest{
			ContainerID: c1.ID,
			Title:       "child",
			ParentID:    &other.ID,
		})
		require.ErrorIs(t, err, domain.ErrInvalidParent)

		err = env.nodes.Reparent(ctx, a.ID, &other.ID)
		require.ErrorIs(t, err, domain.ErrInvalidParent)
	})

	t.Run("missing parent", func(t *testing.T) {
		missing := "7f1c7a56-3d0e-4d1c-9a51-8d7a2d4a9b10"
		_, err := env.nodes.Create(ctx, &contentSvc.CreateNodeRequest{
			ContainerID: c1.ID,
			Title:       "child",
			ParentID:    &missing,
		})
		require.ErrorIs(t, err, domain.ErrInvalidParent)
	})
}

func TestNodeStore_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")

	tests := []struct {
		name string
		req  *contentSvc.CreateNodeRequest
	}{
		{name: "blank title", req: &contentSvc.CreateNodeRequest{ContainerID: c1.ID, Title: "   "}},
		{name: "bad container id", req: &contentSvc.CreateNodeRequest{ContainerID: "nope", Title: "x"}},
		{name: "bad parent id", req: &contentSvc.CreateNodeRequest{ContainerID: c1.ID, Title: "x", ParentID: ptr("nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.nodes.Create(ctx, tt.req)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("empty parent means root", func(t *testing.T) {
		n, err := env.nodes.Create(ctx, &contentSvc.CreateNodeRequest{ContainerID: c1.ID, Title: "root", ParentID: ptr("")})
		require.NoError(t, err)
		assert.Nil(t, n.ParentID)
		assert.Equal(t, 0, n.Depth)
	})
}

func TestNodeStore_SiblingSortKeysAppend(t *testing.T) {
	env := newTestEnv(t)
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")

	a := env.node(t, c1.ID, "A", nil)
	b := env.node(t, c1.ID, "B", nil)
	child := env.node(t, c1.ID, "A.1", &a.ID)

	assert.Equal(t, 0, a.SortKey)
	assert.Equal(t, 1, b.SortKey)
	assert.Equal(t, 0, child.SortKey, "each sibling set numbers from zero")
}

func TestNodeStore_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	a := env.node(t, c1.ID, "Buy groceries", nil)
	b := env.node(t, c1.ID, "Milk", &a.ID)
	d := env.node(t, c1.ID, "Whole milk", &b.ID)
	keep := env.node(t, c1.ID, "Keep", nil)

	require.NoError(t, env.nodes.Delete(ctx, a.ID))

	for _, id := range []string{a.ID, b.ID, d.ID} {
		_, err := env.nodes.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "node %s should be gone", id)

		_, err = env.tree.Children(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	roots, err := env.tree.RootNodes(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids(roots))

	entries, err := env.collection.Entries(ctx, models.SiblingScope(ws.ID, c1.ID, &a.ID))
	require.NoError(t, err)
	assert.Empty(t, entries, "order entries of removed children must be cleaned up")

	// Deleting again is a no-op
	require.NoError(t, env.nodes.Delete(ctx, a.ID))
}

func TestNodeStore_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	a := env.node(t, c1.ID, "A", nil)
	b := env.node(t, c1.ID, "B", &a.ID)

	updated, err := env.nodes.Update(ctx, b.ID, &contentSvc.UpdateNodeRequest{
		Title:  ptr("  Oat milk "),
		IsDone: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", updated.Title)
	assert.True(t, updated.IsDone)
	assert.Equal(t, 1, updated.Depth)

	_, err = env.nodes.Update(ctx, b.ID, &contentSvc.UpdateNodeRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.nodes.Update(ctx, b.ID, &contentSvc.UpdateNodeRequest{Title: ptr(" ")})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNodeStore_GetAncestors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	c1 := env.container(t, ws.ID, "C1")
	a := env.node(t, c1.ID, "A", nil)
	b := env.node(t, c1.ID, "B", &a.ID)
	d := env.node(t, c1.ID, "D", &b.ID)

	chain, err := env.nodes.GetAncestors(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids(chain))
	assert.Equal(t, 0, chain[0].Depth)
	assert.Equal(t, 1, chain[1].Depth)

	chain, err = env.nodes.GetAncestors(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, chain)
}
