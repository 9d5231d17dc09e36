package models

import (
	"bytes"
	"encoding/json"

	"inkwell/internal/textutil"
)

// TagPatch is the tagged union accepted by the "tags" field of create and
// patch requests:
//
//   - Replace form: a plain JSON array of strings. The result is the
//     normalized array; current tags are ignored entirely.
//   - Delta form: an object with optional "set", "add" and "remove" arrays.
//     The base is normalize(set) when set is present (an empty set clears
//     the base), otherwise the normalized current tags. Adds are appended
//     and re-normalized, then removes are applied by canonical key, so a
//     tag named in both add and remove ends up removed.
//
// Any other JSON shape, explicit null included, is recorded as invalid
// rather than failing the decode, so tag-shape problems accumulate
// alongside other field errors. TagPatch is used as a value field, never a
// pointer: a pointer field decodes JSON null to nil without calling
// UnmarshalJSON, which would silently read "tags": null as tags-absent.
type TagPatch struct {
	Present bool
	Invalid bool

	replace []string
	isDelta bool
	set     *[]string
	add     []string
	remove  []string
}

// ReplaceList builds a replace-form patch, used by the create path where
// there are no current tags.
func ReplaceList(tags []string) TagPatch {
	return TagPatch{Present: true, replace: tags}
}

// UnmarshalJSON decodes either union form. Non-string array elements are
// skipped silently, matching the normalizer's contract.
func (p *TagPatch) UnmarshalJSON(data []byte) error {
	p.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		p.Invalid = true
		return nil
	}

	if list, ok := decodeStringList(data); ok {
		p.replace = list
		return nil
	}

	var delta struct {
		Set    json.RawMessage `json:"set"`
		Add    json.RawMessage `json:"add"`
		Remove json.RawMessage `json:"remove"`
	}
	if err := json.Unmarshal(data, &delta); err != nil {
		p.Invalid = true
		return nil
	}

	p.isDelta = true
	if delta.Set != nil {
		if list, ok := decodeStringList(delta.Set); ok {
			p.set = &list
		}
	}
	if delta.Add != nil {
		if list, ok := decodeStringList(delta.Add); ok {
			p.add = list
		}
	}
	if delta.Remove != nil {
		if list, ok := decodeStringList(delta.Remove); ok {
			p.remove = list
		}
	}
	return nil
}

// Resolve applies the patch to the current tag list and returns the new
// canonical list. Resolving an invalid patch returns false.
func (p *TagPatch) Resolve(current []string) ([]string, bool) {
	if p.Invalid {
		return nil, false
	}

	if !p.isDelta {
		return textutil.NormalizeTags(p.replace), true
	}

	var base []string
	if p.set != nil {
		base = textutil.NormalizeTags(*p.set)
	} else {
		base = textutil.NormalizeTags(current)
	}

	withAdds := base
	if p.add != nil {
		combined := make([]string, 0, len(base)+len(p.add))
		combined = append(combined, base...)
		combined = append(combined, p.add...)
		withAdds = textutil.NormalizeTags(combined)
	}

	if p.remove == nil {
		return withAdds, true
	}

	removeKeys := make(map[string]struct{}, len(p.remove))
	for _, tag := range p.remove {
		if key := textutil.Slugify(tag); key != "" {
			removeKeys[key] = struct{}{}
		}
	}

	result := make([]string, 0, len(withAdds))
	for _, tag := range withAdds {
		if _, removed := removeKeys[textutil.Slugify(tag)]; removed {
			continue
		}
		result = append(result, tag)
	}
	return result, true
}

// decodeStringList decodes a JSON array, keeping only string elements.
// Returns false if the value is not an array at all (null included, so an
// explicit "set": null reads as set-absent, not set-empty).
func decodeStringList(data []byte) ([]string, bool) {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil, false
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	list := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		list = append(list, s)
	}
	return list, true
}
