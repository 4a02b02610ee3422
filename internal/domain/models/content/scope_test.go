package content

import (
	"testing"
	"time"
)

func TestScope_Key(t *testing.T) {
	parent := "node-1"
	tests := []struct {
		name    string
		scope   Scope
		key     string
		lockKey string
	}{
		{
			name:    "workspace top level",
			scope:   WorkspaceScope("ws-1"),
			key:     "workspace:ws-1",
			lockKey: "workspace:ws-1",
		},
		{
			name:    "container roots",
			scope:   SiblingScope("ws-1", "c-1", nil),
			key:     "container:c-1/root",
			lockKey: "container:c-1",
		},
		{
			name:    "children of a node",
			scope:   SiblingScope("ws-1", "c-1", &parent),
			key:     "container:c-1/node:node-1",
			lockKey: "container:c-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
			if got := tt.scope.LockKey(); got != tt.lockKey {
				t.Errorf("LockKey() = %q, want %q", got, tt.lockKey)
			}
		})
	}
}

func TestSiblingScope_CopiesParent(t *testing.T) {
	parent := "p"
	scope := SiblingScope("ws", "c", &parent)
	parent = "changed"
	if *scope.ParentID != "p" {
		t.Errorf("scope parent aliased caller variable: %q", *scope.ParentID)
	}
}

func TestSameParent(t *testing.T) {
	a, b, c := "x", "x", "y"
	if !SameParent(nil, nil) {
		t.Error("nil parents should match")
	}
	if SameParent(&a, nil) {
		t.Error("nil and non-nil should differ")
	}
	if !SameParent(&a, &b) {
		t.Error("equal ids should match")
	}
	if SameParent(&a, &c) {
		t.Error("different ids should differ")
	}
}

func TestSortEntries(t *testing.T) {
	now := time.Now()
	entries := []OrderEntry{
		{Ref: NoteRef("c"), SortKey: 2, CreatedAt: now},
		{Ref: NoteRef("b"), SortKey: 1, CreatedAt: now},
		{Ref: NoteRef("a"), SortKey: 1, CreatedAt: now},
		{Ref: NoteRef("z"), SortKey: 1, CreatedAt: now.Add(-time.Minute)},
	}

	SortEntries(entries)

	want := []string{"z", "a", "b", "c"}
	for i, id := range want {
		if entries[i].Ref.ID != id {
			t.Fatalf("position %d = %s, want %s (got %v)", i, entries[i].Ref.ID, id, Refs(entries))
		}
	}
}

func TestParseEntityKind(t *testing.T) {
	if _, err := ParseEntityKind("container"); err != nil {
		t.Errorf("container should parse: %v", err)
	}
	if _, err := ParseEntityKind("folder"); err == nil {
		t.Error("folder should not parse")
	}
}
