package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalStringUnmarshal(t *testing.T) {
	type payload struct {
		Name OptionalString `json:"name"`
	}

	tests := []struct {
		name string
		raw  string
		want OptionalString
	}{
		{
			name: "absent",
			raw:  `{}`,
			want: OptionalString{},
		},
		{
			name: "null",
			raw:  `{"name": null}`,
			want: OptionalString{Present: true, Null: true},
		},
		{
			name: "string",
			raw:  `{"name": "hello"}`,
			want: OptionalString{Present: true, IsString: true, Value: "hello"},
		},
		{
			name: "empty string",
			raw:  `{"name": ""}`,
			want: OptionalString{Present: true, IsString: true, Value: ""},
		},
		{
			name: "wrong type recorded not rejected",
			raw:  `{"name": 42}`,
			want: OptionalString{Present: true},
		},
		{
			name: "array is wrong type",
			raw:  `{"name": ["a"]}`,
			want: OptionalString{Present: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if p.Name != tt.want {
				t.Errorf("got %+v, want %+v", p.Name, tt.want)
			}
		})
	}
}

func TestOptionalBoolUnmarshal(t *testing.T) {
	type payload struct {
		Featured OptionalBool `json:"featured"`
	}

	tests := []struct {
		name string
		raw  string
		want OptionalBool
	}{
		{"absent", `{}`, OptionalBool{}},
		{"true", `{"featured": true}`, OptionalBool{Present: true, IsBool: true, Value: true}},
		{"false", `{"featured": false}`, OptionalBool{Present: true, IsBool: true, Value: false}},
		{"null is wrong type", `{"featured": null}`, OptionalBool{Present: true}},
		{"string is wrong type", `{"featured": "yes"}`, OptionalBool{Present: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if p.Featured != tt.want {
				t.Errorf("got %+v, want %+v", p.Featured, tt.want)
			}
		})
	}
}
