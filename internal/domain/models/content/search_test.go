package content

import (
	"testing"
)

func TestSearchOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    *SearchOptions
		expected *SearchOptions
	}{
		{
			name:  "applies all defaults",
			input: &SearchOptions{Query: "milk", WorkspaceID: "ws-1"},
			expected: &SearchOptions{
				Query:       "milk",
				WorkspaceID: "ws-1",
				Kinds:       []EntityKind{KindContainer, KindNote, KindNode},
				Limit:       20,
				Offset:      0,
				Language:    "english",
			},
		},
		{
			name: "preserves custom values",
			input: &SearchOptions{
				Query:    "milk",
				Kinds:    []EntityKind{KindNode},
				Limit:    50,
				Offset:   10,
				Language: "german",
			},
			expected: &SearchOptions{
				Query:    "milk",
				Kinds:    []EntityKind{KindNode},
				Limit:    50,
				Offset:   10,
				Language: "german",
			},
		},
		{
			name:  "corrects negative offset to default",
			input: &SearchOptions{Query: "milk", Offset: -5},
			expected: &SearchOptions{
				Query:    "milk",
				Kinds:    []EntityKind{KindContainer, KindNote, KindNode},
				Limit:    20,
				Offset:   0,
				Language: "english",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.ApplyDefaults()

			if tt.input.Limit != tt.expected.Limit {
				t.Errorf("Limit = %d, want %d", tt.input.Limit, tt.expected.Limit)
			}
			if tt.input.Offset != tt.expected.Offset {
				t.Errorf("Offset = %d, want %d", tt.input.Offset, tt.expected.Offset)
			}
			if tt.input.Language != tt.expected.Language {
				t.Errorf("Language = %s, want %s", tt.input.Language, tt.expected.Language)
			}
			if len(tt.input.Kinds) != len(tt.expected.Kinds) {
				t.Errorf("Kinds = %v, want %v", tt.input.Kinds, tt.expected.Kinds)
			}
		})
	}
}

func TestSearchOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		options *SearchOptions
		wantErr bool
	}{
		{name: "valid options", options: &SearchOptions{Query: "milk", Limit: 20}},
		{name: "empty query", options: &SearchOptions{Query: "", Limit: 20}, wantErr: true},
		{name: "limit too large", options: &SearchOptions{Query: "milk", Limit: 101}, wantErr: true},
		{name: "negative offset", options: &SearchOptions{Query: "milk", Offset: -1}, wantErr: true},
		{name: "unknown kind", options: &SearchOptions{Query: "milk", Kinds: []EntityKind{"folder"}}, wantErr: true},
		{name: "supported language", options: &SearchOptions{Query: "milk", Language: "simple"}},
		{name: "unsupported language", options: &SearchOptions{Query: "milk", Language: "english'); DROP TABLE x; --"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSearchResults(t *testing.T) {
	opts := &SearchOptions{Query: "milk", Limit: 2, Offset: 0}
	results := NewSearchResults([]SearchResult{{ID: "a"}, {ID: "b"}}, 5, opts)
	if !results.HasMore {
		t.Error("HasMore = false, want true")
	}

	empty := NewSearchResults(nil, 0, opts)
	if empty.Results == nil {
		t.Error("Results should be an empty slice, not nil")
	}
	if empty.HasMore {
		t.Error("HasMore = true for empty results")
	}
}
