package content

import "time"

// Note is a leaf entity: it sits directly in a workspace and has no children
type Note struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	SortKey     int       `json:"sort_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (n *Note) Ref() EntityRef       { return NoteRef(n.ID) }
func (n *Note) ScopeID() string      { return n.WorkspaceID }
func (n *Note) SortKeyValue() int    { return n.SortKey }
func (n *Note) Created() time.Time   { return n.CreatedAt }
func (n *Note) DisplayTitle() string { return n.Title }
