package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
// A move request uses it for parent_id, where absent and null differ:
//   - Present=false: field absent from JSON (keep the current parent)
//   - Present=true, Value=nil: field is JSON null (move to the container root)
//   - Present=true, Value=&"id": move under that node
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Or returns the value when present, fallback otherwise
func (o OptionalString) Or(fallback *string) *string {
	if o.Present {
		return o.Value
	}
	return fallback
}
