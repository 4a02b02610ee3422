package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"later/internal/domain"
	models "later/internal/domain/models/content"
)

// groceries builds Buy groceries > Milk > Whole milk, plus a second root
func groceries(t *testing.T, env *testEnv) (c *models.Container, a, b, d, e *models.Node) {
	t.Helper()
	ws := env.workspace(t, "Home")
	c = env.container(t, ws.ID, "Shopping")
	a = env.node(t, c.ID, "Buy groceries", nil)
	b = env.node(t, c.ID, "Milk", &a.ID)
	d = env.node(t, c.ID, "Whole milk", &b.ID)
	e = env.node(t, c.ID, "Pay rent", nil)
	return c, a, b, d, e
}

func TestTreeQuery_Breadcrumb(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, a, _, d, _ := groceries(t, env)

	crumbs, err := env.tree.Breadcrumb(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy groceries", "Milk", "Whole milk"}, crumbs)

	crumbs, err = env.tree.Breadcrumb(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy groceries"}, crumbs)

	_, err = env.tree.Breadcrumb(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTreeQuery_Subtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, a, b, d, _ := groceries(t, env)
	bread := env.node(t, c.ID, "Bread", &a.ID)

	entries, err := env.tree.Subtree(ctx, a.ID, nil)
	require.NoError(t, err)

	var got []string
	var rel []int
	for _, e := range entries {
		got = append(got, e.Node.ID)
		rel = append(rel, e.RelativeDepth)
	}
	assert.Equal(t, []string{a.ID, b.ID, d.ID, bread.ID}, got, "depth-first, pre-order")
	assert.Equal(t, []int{0, 1, 2, 1}, rel)
	assert.Equal(t, 2, entries[2].Node.Depth)

	entries, err = env.tree.Subtree(ctx, a.ID, ptr(1))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = env.tree.Subtree(ctx, b.ID, ptr(0))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, b.ID, entries[0].Node.ID)
	assert.Equal(t, 1, entries[0].Node.Depth)

	_, err = env.tree.Subtree(ctx, a.ID, ptr(-1))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTreeQuery_RootNodesAndChildren(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, a, b, _, e := groceries(t, env)

	roots, err := env.tree.RootNodes(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, e.ID}, ids(roots))
	assert.Equal(t, 1, roots[1].SortKey)

	children, err := env.tree.Children(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, b.ID, children[0].ID)
	assert.Equal(t, 1, children[0].Depth)

	_, err = env.tree.RootNodes(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTreeQuery_ContainerTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, a, b, d, e := groceries(t, env)

	tree, err := env.tree.ContainerTree(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, tree.Container.ID)
	require.Len(t, tree.Nodes, 2)

	root := tree.Nodes[0]
	assert.Equal(t, a.ID, root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, b.ID, root.Children[0].ID)
	require.Len(t, root.Children[0].Children, 1)
	leaf := root.Children[0].Children[0]
	assert.Equal(t, d.ID, leaf.ID)
	assert.Equal(t, 2, leaf.Depth)
	assert.Empty(t, leaf.Children)

	assert.Equal(t, e.ID, tree.Nodes[1].ID)
}

func TestTreeQuery_EmptyContainer(t *testing.T) {
	env := newTestEnv(t)
	ws := env.workspace(t, "Home")
	c := env.container(t, ws.ID, "Empty")

	tree, err := env.tree.ContainerTree(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Nodes)
}
