package content

import (
	"log/slog"

	"later/internal/domain/repositories"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

// Repositories is the storage surface the content services run on
type Repositories struct {
	Workspaces contentRepo.WorkspaceRepository
	Containers contentRepo.ContainerRepository
	Notes      contentRepo.NoteRepository
	Nodes      contentRepo.NodeRepository
	Order      contentRepo.OrderRepository
	Matcher    contentRepo.TextMatcher
	TxManager  repositories.TransactionManager
	Serializer repositories.ScopeSerializer
}

// Services bundles the wired content services
type Services struct {
	Guard      *ScopeGuard
	Workspaces contentSvc.WorkspaceService
	Content    contentSvc.ContentService
	Collection contentSvc.OrderedCollection
	Nodes      contentSvc.NodeStore
	Tree       contentSvc.TreeQueryEngine
	Reorder    contentSvc.ReorderCoordinator
	Search     contentSvc.SearchProjector
}

// NewServices wires every content service over repos. All services share one
// lock registry, so it must be called once per process.
func NewServices(repos Repositories, notifier services.ChangeNotifier, maxNodeLevels int, logger *slog.Logger) *Services {
	guard := NewScopeGuard(NewScopeLocks(), repos.TxManager, repos.Serializer, notifier, logger)

	collection := NewOrderedCollection(repos.Order, guard, logger)
	nodes := NewNodeStore(repos.Nodes, repos.Containers, repos.Order, collection, guard, maxNodeLevels, logger)
	tree := NewTreeQueryEngine(nodes, repos.Nodes, repos.Containers, repos.Order, guard, logger)

	return &Services{
		Guard:      guard,
		Workspaces: NewWorkspaceService(repos.Workspaces, repos.Containers, repos.Notes, repos.Order, nodes, guard, logger),
		Content:    NewContentService(repos.Workspaces, repos.Containers, repos.Notes, repos.Order, collection, nodes, guard, logger),
		Collection: collection,
		Nodes:      nodes,
		Tree:       tree,
		Reorder:    NewReorderCoordinator(collection, nodes, repos.Nodes, guard, logger),
		Search:     NewSearchProjector(repos.Matcher, tree, nodes, repos.Containers, repos.Notes, guard, logger),
	}
}
