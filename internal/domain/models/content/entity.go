package content

import (
	"fmt"
	"time"
)

// EntityKind tags the variant of an ordered entity
type EntityKind string

const (
	KindContainer EntityKind = "container"
	KindNote      EntityKind = "note"
	KindNode      EntityKind = "node"
)

// Valid reports whether k is a known kind
func (k EntityKind) Valid() bool {
	switch k {
	case KindContainer, KindNote, KindNode:
		return true
	}
	return false
}

// ParseEntityKind converts a wire value into an EntityKind
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return k, nil
}

// EntityRef identifies an entity independent of its variant
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

func (r EntityRef) String() string {
	return string(r.Kind) + ":" + r.ID
}

// Ref helpers
func ContainerRef(id string) EntityRef { return EntityRef{Kind: KindContainer, ID: id} }
func NoteRef(id string) EntityRef      { return EntityRef{Kind: KindNote, ID: id} }
func NodeRef(id string) EntityRef      { return EntityRef{Kind: KindNode, ID: id} }

// Entity is the behaviour shared by every orderable variant:
// Container, Note (the leaf) and Node.
type Entity interface {
	Ref() EntityRef
	// ScopeID is the workspace the entity belongs to
	ScopeID() string
	SortKeyValue() int
	Created() time.Time
	DisplayTitle() string
}
