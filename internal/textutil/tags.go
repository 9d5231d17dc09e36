package textutil

import "strings"

// NormalizeTags canonicalizes a free-text tag list. Entries are trimmed,
// empties dropped, and duplicates removed by slug key so that "Go" and "go"
// are the same tag. The first occurrence wins: its original casing and its
// position in the list are both kept.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	result := make([]string, 0, len(raw))
	for _, tag := range raw {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := Slugify(trimmed)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
