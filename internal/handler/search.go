package handler

import (
	"net/http"
	"strings"

	models "later/internal/domain/models/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
	"later/internal/httputil"
)

// SearchHandler serves text search with hierarchy context
type SearchHandler struct {
	search contentSvc.SearchProjector
	authz  services.ResourceAuthorizer
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search contentSvc.SearchProjector, authz services.ResourceAuthorizer) *SearchHandler {
	return &SearchHandler{search: search, authz: authz}
}

// Search matches workspace content and returns projected results
// GET /api/search?q=...&workspace_id=...&kinds=node,note&limit=20&offset=0
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := &models.SearchOptions{
		Query:       strings.TrimSpace(q.Get("q")),
		UserID:      userID,
		WorkspaceID: q.Get("workspace_id"),
	}
	for _, k := range httputil.QueryList(r, "kinds") {
		opts.Kinds = append(opts.Kinds, models.EntityKind(k))
	}

	var err error
	if opts.Limit, _, err = httputil.QueryInt(r, "limit"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if opts.Offset, _, err = httputil.QueryInt(r, "offset"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if opts.WorkspaceID != "" {
		if err := h.authz.CanAccessWorkspace(r.Context(), userID, opts.WorkspaceID); err != nil {
			handleError(w, err)
			return
		}
	}

	results, err := h.search.Search(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, results)
}

// Project returns the search projection of a single entity
// GET /api/search/project/{kind}/{id}
func (h *SearchHandler) Project(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Entity")
	if !ok {
		return
	}

	kind, err := models.ParseEntityKind(r.PathValue("kind"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authorize(r, userID, models.EntityRef{Kind: kind, ID: id}); err != nil {
		handleError(w, err)
		return
	}

	result, err := h.search.Project(r.Context(), models.EntityRef{Kind: kind, ID: id})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *SearchHandler) authorize(r *http.Request, userID string, ref models.EntityRef) error {
	switch ref.Kind {
	case models.KindContainer:
		return h.authz.CanAccessContainer(r.Context(), userID, ref.ID)
	case models.KindNote:
		return h.authz.CanAccessNote(r.Context(), userID, ref.ID)
	default:
		return h.authz.CanAccessNode(r.Context(), userID, ref.ID)
	}
}
