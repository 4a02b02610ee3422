package content

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"later/internal/config"
	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/repository/memory"
)

// recordingNotifier captures delivered changes
type recordingNotifier struct {
	mu      sync.Mutex
	changes []services.ScopeChange
}

func (r *recordingNotifier) ScopeChanged(_ context.Context, change services.ScopeChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recordingNotifier) kinds() []services.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]services.ChangeKind, len(r.changes))
	for i, c := range r.changes {
		kinds[i] = c.Kind
	}
	return kinds
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}

// testEnv wires every service over one in-memory store
type testEnv struct {
	store      *memory.Store
	notifier   *recordingNotifier
	locks      *ScopeLocks
	guard      *ScopeGuard
	workspaces contentSvc.WorkspaceService
	content    contentSvc.ContentService
	collection contentSvc.OrderedCollection
	nodes      contentSvc.NodeStore
	tree       contentSvc.TreeQueryEngine
	reorder    contentSvc.ReorderCoordinator
	search     contentSvc.SearchProjector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	workspaceRepo := memory.NewWorkspaceRepository(store)
	containerRepo := memory.NewContainerRepository(store)
	noteRepo := memory.NewNoteRepository(store)
	nodeRepo := memory.NewNodeRepository(store)
	orderRepo := memory.NewOrderRepository(store)

	notifier := &recordingNotifier{}
	locks := NewScopeLocks()
	guard := NewScopeGuard(locks, store.TransactionManager(), store.ScopeSerializer(), notifier, logger)

	collection := NewOrderedCollection(orderRepo, guard, logger)
	nodes := NewNodeStore(nodeRepo, containerRepo, orderRepo, collection, guard, config.MaxNodeLevels, logger)
	tree := NewTreeQueryEngine(nodes, nodeRepo, containerRepo, orderRepo, guard, logger)

	return &testEnv{
		store:      store,
		notifier:   notifier,
		locks:      locks,
		guard:      guard,
		workspaces: NewWorkspaceService(workspaceRepo, containerRepo, noteRepo, orderRepo, nodes, guard, logger),
		content:    NewContentService(workspaceRepo, containerRepo, noteRepo, orderRepo, collection, nodes, guard, logger),
		collection: collection,
		nodes:      nodes,
		tree:       tree,
		reorder:    NewReorderCoordinator(collection, nodes, nodeRepo, guard, logger),
		search:     NewSearchProjector(memory.NewTextMatcher(store), tree, nodes, containerRepo, noteRepo, guard, logger),
	}
}

func (e *testEnv) workspace(t *testing.T, name string) *models.Workspace {
	t.Helper()
	ws, err := e.workspaces.CreateWorkspace(context.Background(), &contentSvc.CreateWorkspaceRequest{
		UserID: "user-1",
		Name:   name,
	})
	require.NoError(t, err)
	return ws
}

func (e *testEnv) container(t *testing.T, workspaceID, name string) *models.Container {
	t.Helper()
	c, err := e.content.CreateContainer(context.Background(), &contentSvc.CreateContainerRequest{
		WorkspaceID: workspaceID,
		Kind:        models.ContainerTodoList,
		Name:        name,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) note(t *testing.T, workspaceID, title string) *models.Note {
	t.Helper()
	n, err := e.content.CreateNote(context.Background(), &contentSvc.CreateNoteRequest{
		WorkspaceID: workspaceID,
		Title:       title,
	})
	require.NoError(t, err)
	return n
}

func (e *testEnv) node(t *testing.T, containerID, title string, parentID *string) *models.Node {
	t.Helper()
	n, err := e.nodes.Create(context.Background(), &contentSvc.CreateNodeRequest{
		ContainerID: containerID,
		Title:       title,
		ParentID:    parentID,
	})
	require.NoError(t, err)
	return n
}

func ids(nodes []models.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func refIDs(refs []models.EntityRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }
