package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	"later/internal/repository/memory"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	workspaces := memory.NewWorkspaceRepository(store)
	containers := memory.NewContainerRepository(store)
	notes := memory.NewNoteRepository(store)
	nodes := memory.NewNodeRepository(store)

	ws := &models.Workspace{UserID: "owner", Name: "Home", CreatedAt: time.Now()}
	require.NoError(t, workspaces.Create(ctx, ws))
	c := &models.Container{WorkspaceID: ws.ID, Kind: models.ContainerTodoList, Name: "List"}
	require.NoError(t, containers.Create(ctx, c))
	n := &models.Note{WorkspaceID: ws.ID, Title: "Note"}
	require.NoError(t, notes.Create(ctx, n))
	node := &models.Node{WorkspaceID: ws.ID, ContainerID: c.ID, Title: "Item"}
	require.NoError(t, nodes.Create(ctx, node))

	authz := NewOwnerBasedAuthorizer(workspaces, containers, notes, nodes)

	require.NoError(t, authz.CanAccessWorkspace(ctx, "owner", ws.ID))
	require.NoError(t, authz.CanAccessContainer(ctx, "owner", c.ID))
	require.NoError(t, authz.CanAccessNote(ctx, "owner", n.ID))
	require.NoError(t, authz.CanAccessNode(ctx, "owner", node.ID))

	require.ErrorIs(t, authz.CanAccessWorkspace(ctx, "intruder", ws.ID), domain.ErrForbidden)
	require.ErrorIs(t, authz.CanAccessContainer(ctx, "intruder", c.ID), domain.ErrForbidden)
	require.ErrorIs(t, authz.CanAccessNote(ctx, "intruder", n.ID), domain.ErrForbidden)
	require.ErrorIs(t, authz.CanAccessNode(ctx, "intruder", node.ID), domain.ErrForbidden)

	require.ErrorIs(t, authz.CanAccessNode(ctx, "owner", "missing"), domain.ErrNotFound)
}
