package textutil

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims whitespace",
			input: []string{"  Go  ", "Postgres"},
			want:  []string{"Go", "Postgres"},
		},
		{
			name:  "drops empties",
			input: []string{"Go", "", "   ", "Postgres"},
			want:  []string{"Go", "Postgres"},
		},
		{
			name:  "dedupes by slug key, first casing wins",
			input: []string{"B", "b", "A"},
			want:  []string{"B", "A"},
		},
		{
			name:  "multi-word tags dedupe on slug",
			input: []string{"API Design", "api design", "API  design"},
			want:  []string{"API Design"},
		},
		{
			name:  "drops tags with no slug content",
			input: []string{"!!!", "Go"},
			want:  []string{"Go"},
		},
		{
			name:  "preserves order",
			input: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	input := []string{"  Go  ", "go", "API Design", ""}
	once := NormalizeTags(input)
	twice := NormalizeTags(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("NormalizeTags not idempotent: %v != %v", once, twice)
	}
}
