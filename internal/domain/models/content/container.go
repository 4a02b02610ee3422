package content

import "time"

// ContainerKind distinguishes todo-lists from checklists
type ContainerKind string

const (
	ContainerTodoList  ContainerKind = "todo_list"
	ContainerChecklist ContainerKind = "checklist"
)

// Container holds an ordered tree of nodes (a todo-list or checklist)
type Container struct {
	ID          string        `json:"id" db:"id"`
	WorkspaceID string        `json:"workspace_id" db:"workspace_id"`
	Kind        ContainerKind `json:"kind" db:"kind"`
	Name        string        `json:"name" db:"name"`
	SortKey     int           `json:"sort_key"` // Read from the workspace ordering, not stored on the row
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

func (c *Container) Ref() EntityRef       { return ContainerRef(c.ID) }
func (c *Container) ScopeID() string      { return c.WorkspaceID }
func (c *Container) SortKeyValue() int    { return c.SortKey }
func (c *Container) Created() time.Time   { return c.CreatedAt }
func (c *Container) DisplayTitle() string { return c.Name }
