package content

import (
	"sort"
	"time"
)

// OrderEntry is one entity's position within a scope
type OrderEntry struct {
	ScopeKey  string    `json:"scope_key" db:"scope_key"`
	Ref       EntityRef `json:"ref"`
	SortKey   int       `json:"sort_key" db:"sort_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SortEntries orders entries by sort key, then creation time, then id.
// The tie-breakers only matter if the uniqueness invariant was violated.
func SortEntries(entries []OrderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Ref.ID < b.Ref.ID
	})
}

// Refs projects entries to their entity references, preserving order
func Refs(entries []OrderEntry) []EntityRef {
	refs := make([]EntityRef, len(entries))
	for i, e := range entries {
		refs[i] = e.Ref
	}
	return refs
}
