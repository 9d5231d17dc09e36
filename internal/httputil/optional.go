package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics
// (RFC 7396). This enables the tri-state handling that Go's *string cannot
// express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Null=true: field is JSON null
//   - Present=true, IsString=true: field is a string, in Value
//   - Present=true, IsString=false, Null=false: field had some other JSON type
//
// Wrong-typed values are recorded rather than rejected so the caller can
// accumulate one field error per problem instead of failing the whole
// decode.
type OptionalString struct {
	Present  bool
	Null     bool
	IsString bool
	Value    string
}

// UnmarshalJSON implements json.Unmarshaler. When this method is called,
// the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Null = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string; leave IsString false and let validation report it.
		return nil
	}
	o.IsString = true
	o.Value = s
	return nil
}

// OptionalBool is the boolean counterpart of OptionalString. Only a JSON
// true/false sets IsBool.
type OptionalBool struct {
	Present bool
	IsBool  bool
	Value   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Present = true

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return nil
	}
	o.IsBool = true
	o.Value = b
	return nil
}
