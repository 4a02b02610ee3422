package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

func TestWorkspaceService_CreateAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ws, err := env.workspaces.CreateWorkspace(ctx, &contentSvc.CreateWorkspaceRequest{UserID: "user-1", Name: "  Home "})
	require.NoError(t, err)
	assert.Equal(t, "Home", ws.Name)
	assert.NotEmpty(t, ws.ID)

	_, err = env.workspaces.CreateWorkspace(ctx, &contentSvc.CreateWorkspaceRequest{UserID: "user-1", Name: "Home"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ws.ID, conflict.ResourceID)

	// Same name for another user is fine
	_, err = env.workspaces.CreateWorkspace(ctx, &contentSvc.CreateWorkspaceRequest{UserID: "user-2", Name: "Home"})
	require.NoError(t, err)

	_, err = env.workspaces.CreateWorkspace(ctx, &contentSvc.CreateWorkspaceRequest{UserID: "user-1", Name: " "})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.workspaces.GetWorkspace(ctx, ws.ID, "user-2")
	require.ErrorIs(t, err, domain.ErrNotFound, "workspaces are scoped to their owner")
}

func TestWorkspaceService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")

	updated, err := env.workspaces.UpdateWorkspace(ctx, ws.ID, "user-1", &contentSvc.UpdateWorkspaceRequest{Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)

	list, err := env.workspaces.ListWorkspaces(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Work", list[0].Name)
}

func TestWorkspaceService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Errands")
	c, a, b, d, _ := groceries(t, env)
	n := env.note(t, c.WorkspaceID, "Recipes")
	other := env.note(t, ws.ID, "Keep me")
	env.notifier.reset()

	require.NoError(t, env.workspaces.DeleteWorkspace(ctx, c.WorkspaceID, "user-1"))

	_, err := env.workspaces.GetWorkspace(ctx, c.WorkspaceID, "user-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.content.GetContainer(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.content.GetNote(ctx, n.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range []string{a.ID, b.ID, d.ID} {
		_, err := env.nodes.Get(ctx, id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	}

	for _, scope := range []models.Scope{
		models.WorkspaceScope(c.WorkspaceID),
		models.SiblingScope(c.WorkspaceID, c.ID, nil),
		models.SiblingScope(c.WorkspaceID, c.ID, &a.ID),
	} {
		entries, err := env.collection.Entries(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, entries, "scope %s should be empty", scope.Key())
	}

	kept, err := env.content.GetNote(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, kept.SortKey)

	assert.Equal(t, []services.ChangeKind{services.ChangeDeleted}, env.notifier.kinds())
}

func TestContentService_ContainerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	note := env.note(t, ws.ID, "First")

	c, err := env.content.CreateContainer(ctx, &contentSvc.CreateContainerRequest{
		WorkspaceID: ws.ID,
		Kind:        models.ContainerChecklist,
		Name:        "Packing",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.SortKey, "containers and notes share the workspace ordering")

	updated, err := env.content.UpdateContainer(ctx, c.ID, &contentSvc.UpdateContainerRequest{
		Kind: ptr(models.ContainerTodoList),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContainerTodoList, updated.Kind)
	assert.Equal(t, "Packing", updated.Name)
	assert.Equal(t, 1, updated.SortKey)

	env.node(t, c.ID, "Passport", nil)

	require.NoError(t, env.content.DeleteContainer(ctx, c.ID))
	_, err = env.content.GetContainer(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	items, err := env.content.ListContent(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, note.ID, items[0].Ref.ID)

	require.ErrorIs(t, env.content.DeleteContainer(ctx, c.ID), domain.ErrNotFound)
}

func TestContentService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")

	_, err := env.content.CreateContainer(ctx, &contentSvc.CreateContainerRequest{
		WorkspaceID: ws.ID,
		Kind:        "folder",
		Name:        "Nope",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.content.CreateNote(ctx, &contentSvc.CreateNoteRequest{WorkspaceID: ws.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.content.CreateNote(ctx, &contentSvc.CreateNoteRequest{
		WorkspaceID: "3b0f8f4e-2a55-4c4f-9d1f-0a7c4e51c2a3",
		Title:       "Orphan",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentService_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "Home")
	first := env.note(t, ws.ID, "First")
	second := env.note(t, ws.ID, "Second")

	updated, err := env.content.UpdateNote(ctx, second.ID, &contentSvc.UpdateNoteRequest{Body: ptr("buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "Second", updated.Title)
	assert.Equal(t, "buy oat milk", updated.Body)
	assert.Equal(t, 1, updated.SortKey)

	require.NoError(t, env.content.DeleteNote(ctx, first.ID))

	// Removal leaves a gap; relative order is kept
	got, err := env.content.GetNote(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SortKey)

	third := env.note(t, ws.ID, "Third")
	assert.Equal(t, 2, third.SortKey)
}

func TestContentService_ListMissingWorkspace(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.content.ListContent(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
