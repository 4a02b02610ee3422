package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalString_UnmarshalJSON(t *testing.T) {
	type body struct {
		ParentID OptionalString `json:"parent_id"`
	}

	tests := []struct {
		name        string
		json        string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent", json: `{}`, wantPresent: false},
		{name: "null", json: `{"parent_id": null}`, wantPresent: true},
		{name: "value", json: `{"parent_id": "abc"}`, wantPresent: true, wantValue: strPtr("abc")},
		{name: "empty string", json: `{"parent_id": ""}`, wantPresent: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			if err := json.Unmarshal([]byte(tt.json), &b); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if b.ParentID.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", b.ParentID.Present, tt.wantPresent)
			}
			if (b.ParentID.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value = %v, want %v", b.ParentID.Value, tt.wantValue)
			}
			if tt.wantValue != nil && *b.ParentID.Value != *tt.wantValue {
				t.Errorf("Value = %q, want %q", *b.ParentID.Value, *tt.wantValue)
			}
		})
	}
}

func TestOptionalString_Or(t *testing.T) {
	current := strPtr("current")

	if got := (OptionalString{}).Or(current); got != current {
		t.Errorf("absent should keep fallback")
	}
	if got := (OptionalString{Present: true}).Or(current); got != nil {
		t.Errorf("null should clear, got %v", *got)
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("expected error for number")
	}
}

func strPtr(s string) *string { return &s }
