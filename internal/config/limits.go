package config

const (
	// MaxNodeLevels is the number of nesting levels allowed inside a container.
	// Depth is 0-indexed, so nodes live at depth 0, 1 or 2.
	MaxNodeLevels = 3

	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxWorkspaceNameLength = 255

	// MaxContainerNameLength is the maximum length for todo-list and checklist names.
	MaxContainerNameLength = 255

	// MaxTitleLength is the maximum length for note and node titles.
	MaxTitleLength = 500

	// MaxNoteBodyLength caps note bodies (1MB of text).
	MaxNoteBodyLength = 1 << 20

	// MaxSearchResults is the page size ceiling for search requests.
	MaxSearchResults = 100

	// SearchProjectionConcurrency bounds parallel breadcrumb projection per request.
	SearchProjectionConcurrency = 8
)
