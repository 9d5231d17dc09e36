package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodePatch(t *testing.T, raw string) *TagPatch {
	t.Helper()
	var patch TagPatch
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return &patch
}

func TestTagPatchReplace(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		current []string
		want    []string
	}{
		{
			name:    "replace ignores current tags",
			raw:     `["Go", "Postgres"]`,
			current: []string{"Old", "Tags"},
			want:    []string{"Go", "Postgres"},
		},
		{
			name:    "replace normalizes",
			raw:     `["  Go  ", "go", ""]`,
			current: nil,
			want:    []string{"Go"},
		},
		{
			name:    "empty array clears",
			raw:     `[]`,
			current: []string{"Old"},
			want:    []string{},
		},
		{
			name:    "non-string elements skipped",
			raw:     `["Go", 42, null, "Postgres"]`,
			current: nil,
			want:    []string{"Go", "Postgres"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := decodePatch(t, tt.raw)
			if patch.Invalid {
				t.Fatalf("patch unexpectedly invalid: %s", tt.raw)
			}
			got, ok := patch.Resolve(tt.current)
			if !ok {
				t.Fatalf("Resolve failed for %s", tt.raw)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%s, %v) = %v, want %v", tt.raw, tt.current, got, tt.want)
			}
		})
	}
}

func TestTagPatchDelta(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		current []string
		want    []string
	}{
		{
			name:    "add onto current",
			raw:     `{"add": ["c"]}`,
			current: []string{"a", "b"},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "remove from current",
			raw:     `{"remove": ["a"]}`,
			current: []string{"a", "b"},
			want:    []string{"b"},
		},
		{
			name:    "add and remove together",
			raw:     `{"add": ["c"], "remove": ["a"]}`,
			current: []string{"a", "b"},
			want:    []string{"b", "c"},
		},
		{
			name:    "remove wins over add of same tag",
			raw:     `{"add": ["c"], "remove": ["c"]}`,
			current: []string{"a"},
			want:    []string{"a"},
		},
		{
			name:    "remove matches by canonical key",
			raw:     `{"remove": ["API DESIGN"]}`,
			current: []string{"API Design", "Go"},
			want:    []string{"Go"},
		},
		{
			name:    "set replaces base before add",
			raw:     `{"set": [], "add": ["c"]}`,
			current: []string{"a", "b"},
			want:    []string{"c"},
		},
		{
			name:    "set alone",
			raw:     `{"set": ["x", "y"]}`,
			current: []string{"a"},
			want:    []string{"x", "y"},
		},
		{
			name:    "null set falls back to current",
			raw:     `{"set": null, "add": ["c"]}`,
			current: []string{"a"},
			want:    []string{"a", "c"},
		},
		{
			name:    "add dedupes against base",
			raw:     `{"add": ["go", "Rust"]}`,
			current: []string{"Go"},
			want:    []string{"Go", "Rust"},
		},
		{
			name:    "empty object is a no-op",
			raw:     `{}`,
			current: []string{"a", "b"},
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := decodePatch(t, tt.raw)
			if patch.Invalid {
				t.Fatalf("patch unexpectedly invalid: %s", tt.raw)
			}
			got, ok := patch.Resolve(tt.current)
			if !ok {
				t.Fatalf("Resolve failed for %s", tt.raw)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%s, %v) = %v, want %v", tt.raw, tt.current, got, tt.want)
			}
		})
	}
}

func TestTagPatchInvalidShapes(t *testing.T) {
	invalid := []string{`null`, `"go"`, `42`, `true`}
	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			patch := decodePatch(t, raw)
			if !patch.Invalid {
				t.Errorf("patch %s should be invalid", raw)
			}
			if _, ok := patch.Resolve([]string{"a"}); ok {
				t.Errorf("Resolve of invalid patch %s should fail", raw)
			}
		})
	}
}

func TestReplaceList(t *testing.T) {
	patch := ReplaceList([]string{"Go", "go", "  "})
	got, ok := patch.Resolve([]string{"ignored"})
	if !ok {
		t.Fatal("Resolve failed")
	}
	if !reflect.DeepEqual(got, []string{"Go"}) {
		t.Errorf("Resolve = %v, want [Go]", got)
	}
}
