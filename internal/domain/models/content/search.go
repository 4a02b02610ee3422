package content

import (
	"fmt"
	"slices"
	"strings"
)

// Default search configuration values
const (
	DefaultSearchLimit    = 20
	DefaultSearchOffset   = 0
	DefaultSearchLanguage = "english"
	MaxSearchLimit        = 100
)

// SearchLanguages are the text search configurations the full-text indexes
// are built for
var SearchLanguages = []string{"english", "simple"}

// SearchOptions configures a text match across workspace content.
// Matching itself belongs to the text matcher; the projector only enriches
// matched ids with hierarchy context.
type SearchOptions struct {
	// Query is the search string (required)
	Query string

	// UserID restricts matches to workspaces the user owns
	UserID string

	// WorkspaceID optionally limits the search to one workspace
	WorkspaceID string

	// Kinds limits which entity variants are matched
	// Default: container, note, node
	Kinds []EntityKind

	// Pagination
	Limit  int
	Offset int

	// Language is the Postgres text search configuration (e.g. "english")
	Language string
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if len(opts.Kinds) == 0 {
		opts.Kinds = []EntityKind{KindContainer, KindNote, KindNode}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = DefaultSearchOffset
	}
	if opts.Language == "" {
		opts.Language = DefaultSearchLanguage
	}
}

// Validate checks that required fields are set and values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Query == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if opts.Language != "" && !slices.Contains(SearchLanguages, opts.Language) {
		return fmt.Errorf("unsupported search language: %q (supported: %s)", opts.Language, strings.Join(SearchLanguages, ", "))
	}
	for _, kind := range opts.Kinds {
		if !kind.Valid() {
			return fmt.Errorf("invalid entity kind: %q (supported: container, note, node)", kind)
		}
	}
	return nil
}

// HasKind reports whether kind is part of the search
func (opts *SearchOptions) HasKind(kind EntityKind) bool {
	for _, k := range opts.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// EntityMatch is a matcher hit before projection
type EntityMatch struct {
	Ref   EntityRef
	Score float64
}

// SearchResult is a matched entity enriched with its hierarchy context
type SearchResult struct {
	ID            string     `json:"id"`
	Kind          EntityKind `json:"kind"`
	WorkspaceID   string     `json:"workspace_id"`
	Title         string     `json:"title"`
	Breadcrumb    []string   `json:"breadcrumb"` // Root-first titles, self last; empty for workspace members
	Depth         int        `json:"depth"`
	ContainerID   string     `json:"container_id,omitempty"`
	ContainerName string     `json:"container_name"`
	Score         float64    `json:"score,omitempty"`
}

// SearchResults contains a page of projected results
type SearchResults struct {
	Results    []SearchResult `json:"results"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
}

// NewSearchResults creates a SearchResults with calculated HasMore flag
func NewSearchResults(results []SearchResult, totalCount int, opts *SearchOptions) *SearchResults {
	if results == nil {
		results = []SearchResult{}
	}
	return &SearchResults{
		Results:    results,
		TotalCount: totalCount,
		HasMore:    (opts.Offset + len(results)) < totalCount,
		Offset:     opts.Offset,
		Limit:      opts.Limit,
	}
}
