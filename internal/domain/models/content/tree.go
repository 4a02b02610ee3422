package content

// SubtreeEntry is one node of a depth-first subtree expansion.
// RelativeDepth is 0 for the node the expansion started from.
type SubtreeEntry struct {
	Node          Node `json:"node"`
	RelativeDepth int  `json:"relative_depth"`
}

// NodeTreeNode is a node with its ordered children nested inline
type NodeTreeNode struct {
	ID       string          `json:"id"`
	ParentID *string         `json:"parent_id"`
	Title    string          `json:"title"`
	IsDone   bool            `json:"is_done"`
	Depth    int             `json:"depth"`
	SortKey  int             `json:"sort_key"`
	Children []*NodeTreeNode `json:"children"` // Pointers for proper nesting
}

// ContainerTree is the full nested view of a container
type ContainerTree struct {
	Container Container       `json:"container"`
	Nodes     []*NodeTreeNode `json:"nodes"`
}

// WorkspaceItem is one entry of a workspace's heterogeneous ordered view.
// Exactly one of Container or Note is set, matching Ref.Kind.
type WorkspaceItem struct {
	Ref       EntityRef  `json:"ref"`
	SortKey   int        `json:"sort_key"`
	Container *Container `json:"container,omitempty"`
	Note      *Note      `json:"note,omitempty"`
}

// Entity returns the wrapped variant
func (w WorkspaceItem) Entity() Entity {
	if w.Container != nil {
		return w.Container
	}
	if w.Note != nil {
		return w.Note
	}
	return nil
}
