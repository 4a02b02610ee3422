package content

import "time"

// Node is an item inside a container (todo item, checklist item).
type Node struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	ContainerID string    `json:"container_id" db:"container_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root node of the container
	Depth       int       `json:"depth"`                    // Derived by walking parents, not stored
	Title       string    `json:"title" db:"title"`
	IsDone      bool      `json:"is_done" db:"is_done"`
	SortKey     int       `json:"sort_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (n *Node) Ref() EntityRef       { return NodeRef(n.ID) }
func (n *Node) ScopeID() string      { return n.WorkspaceID }
func (n *Node) SortKeyValue() int    { return n.SortKey }
func (n *Node) Created() time.Time   { return n.CreatedAt }
func (n *Node) DisplayTitle() string { return n.Title }

// IsRoot reports whether the node sits directly under its container
func (n *Node) IsRoot() bool { return n.ParentID == nil }

// SiblingScope returns the ordering scope the node belongs to
func (n *Node) SiblingScope() Scope {
	return SiblingScope(n.WorkspaceID, n.ContainerID, n.ParentID)
}

// SameParent reports whether two optional parent ids are equal
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
