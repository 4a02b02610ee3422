package handler

import "net/http"

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Workspaces *WorkspaceHandler
	Containers *ContainerHandler
	Notes      *NoteHandler
	Nodes      *NodeHandler
	Search     *SearchHandler
	Events     *EventsHandler // optional
}

// RegisterRoutes mounts the API on mux using Go 1.22 method patterns
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Workspaces
	mux.HandleFunc("GET /api/workspaces", h.Workspaces.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", h.Workspaces.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", h.Workspaces.GetWorkspace)
	mux.HandleFunc("PATCH /api/workspaces/{id}", h.Workspaces.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", h.Workspaces.DeleteWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}/content", h.Workspaces.ListContent)
	mux.HandleFunc("POST /api/workspaces/{id}/containers", h.Workspaces.CreateContainer)
	mux.HandleFunc("POST /api/workspaces/{id}/notes", h.Workspaces.CreateNote)
	mux.HandleFunc("POST /api/workspaces/{id}/reorder", h.Workspaces.Reorder)
	if h.Events != nil {
		mux.HandleFunc("GET /api/workspaces/{id}/events", h.Events.StreamWorkspace)
	}

	// Containers
	mux.HandleFunc("GET /api/containers/{id}", h.Containers.GetContainer)
	mux.HandleFunc("PATCH /api/containers/{id}", h.Containers.UpdateContainer)
	mux.HandleFunc("DELETE /api/containers/{id}", h.Containers.DeleteContainer)
	mux.HandleFunc("GET /api/containers/{id}/nodes", h.Containers.RootNodes)
	mux.HandleFunc("POST /api/containers/{id}/nodes", h.Containers.CreateNode)
	mux.HandleFunc("GET /api/containers/{id}/tree", h.Containers.GetTree)
	mux.HandleFunc("POST /api/containers/{id}/reorder", h.Containers.ReorderNodes)

	// Notes
	mux.HandleFunc("GET /api/notes/{id}", h.Notes.GetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", h.Notes.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.Notes.DeleteNote)

	// Nodes
	mux.HandleFunc("GET /api/nodes/{id}", h.Nodes.GetNode)
	mux.HandleFunc("PATCH /api/nodes/{id}", h.Nodes.UpdateNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", h.Nodes.DeleteNode)
	mux.HandleFunc("GET /api/nodes/{id}/children", h.Nodes.Children)
	mux.HandleFunc("GET /api/nodes/{id}/subtree", h.Nodes.Subtree)
	mux.HandleFunc("GET /api/nodes/{id}/breadcrumb", h.Nodes.Breadcrumb)
	mux.HandleFunc("GET /api/nodes/{id}/ancestors", h.Nodes.Ancestors)
	mux.HandleFunc("POST /api/nodes/{id}/move", h.Nodes.MoveNode)

	// Search
	mux.HandleFunc("GET /api/search", h.Search.Search)
	mux.HandleFunc("GET /api/search/project/{kind}/{id}", h.Search.Project)
}
