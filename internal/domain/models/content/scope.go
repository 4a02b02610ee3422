package content

import "strings"

// Scope is the boundary within which sort keys are unique: a workspace's
// top-level content, or one sibling set (container + parent) of nodes.
type Scope struct {
	WorkspaceID string  `json:"workspace_id"`
	ContainerID string  `json:"container_id,omitempty"` // empty = workspace top level
	ParentID    *string `json:"parent_id,omitempty"`    // nil = container roots
}

// WorkspaceScope is the heterogeneous top-level ordering of a workspace
func WorkspaceScope(workspaceID string) Scope {
	return Scope{WorkspaceID: workspaceID}
}

// SiblingScope is the homogeneous ordering of nodes sharing a parent
func SiblingScope(workspaceID, containerID string, parentID *string) Scope {
	var parent *string
	if parentID != nil {
		p := *parentID
		parent = &p
	}
	return Scope{WorkspaceID: workspaceID, ContainerID: containerID, ParentID: parent}
}

// IsWorkspace reports whether the scope is a workspace's top level
func (s Scope) IsWorkspace() bool { return s.ContainerID == "" }

// Key is the persistent identifier stored with every order entry.
//
//	workspace:<id>
//	container:<id>/root
//	container:<id>/node:<parent>
func (s Scope) Key() string {
	if s.IsWorkspace() {
		return "workspace:" + s.WorkspaceID
	}
	if s.ParentID == nil {
		return ContainerScopePrefix(s.ContainerID) + "root"
	}
	return ContainerScopePrefix(s.ContainerID) + "node:" + *s.ParentID
}

// LockKey is the serialization domain for writers. Every sibling set of a
// container shares the container's lock since reparenting spans them.
func (s Scope) LockKey() string {
	if s.IsWorkspace() {
		return WorkspaceLockKey(s.WorkspaceID)
	}
	return ContainerLockKey(s.ContainerID)
}

func (s Scope) String() string { return s.Key() }

// ContainerScopePrefix prefixes every scope key inside a container
func ContainerScopePrefix(containerID string) string {
	return "container:" + containerID + "/"
}

// WorkspaceLockKey and ContainerLockKey name lock domains
func WorkspaceLockKey(workspaceID string) string { return "workspace:" + workspaceID }
func ContainerLockKey(containerID string) string { return "container:" + containerID }

// IsWorkspaceLockKey reports whether key guards a workspace
func IsWorkspaceLockKey(key string) bool { return strings.HasPrefix(key, "workspace:") }
