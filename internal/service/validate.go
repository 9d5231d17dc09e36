// Package service implements the content services: the post patch/merge
// engine, the create paths and the news variant. Validation is
// accumulating: every violation found in a pass is collected and the
// request fails atomically with the full list, never just the first
// problem.
package service

import (
	"strings"
	"time"

	"inkwell/internal/httputil"
	"inkwell/internal/isotime"
)

// errorList accumulates field violations across one validation pass.
type errorList struct {
	fields []string
}

func (e *errorList) add(msg string) {
	e.fields = append(e.fields, msg)
}

func (e *errorList) empty() bool {
	return len(e.fields) == 0
}

// requiredString validates a present field that must be a non-blank string.
// The returned value is trimmed. On failure the field error is recorded and
// ok is false.
func requiredString(errs *errorList, field string, v httputil.OptionalString) (string, bool) {
	if !v.IsString {
		errs.add(field + " is required.")
		return "", false
	}
	trimmed := strings.TrimSpace(v.Value)
	if trimmed == "" {
		errs.add(field + " is required.")
		return "", false
	}
	return trimmed, true
}

// requiredText validates a present field that must be a string with
// non-whitespace content, but keeps the raw value: markdown bodies are
// stored exactly as supplied.
func requiredText(errs *errorList, field string, v httputil.OptionalString) (string, bool) {
	if !v.IsString {
		errs.add(field + " must be a string.")
		return "", false
	}
	if strings.TrimSpace(v.Value) == "" {
		errs.add(field + " is required.")
		return "", false
	}
	return v.Value, true
}

// optionalString validates a present field that may be a string or null.
// A blank string collapses to null; any other JSON type is a violation.
func optionalString(errs *errorList, field string, v httputil.OptionalString) (*string, bool) {
	if v.Null {
		return nil, true
	}
	if !v.IsString {
		errs.add(field + " must be a string or null.")
		return nil, false
	}
	trimmed := strings.TrimSpace(v.Value)
	if trimmed == "" {
		return nil, true
	}
	return &trimmed, true
}

// isoTimestampField validates a present field that must be a valid ISO
// timestamp string or null. The value is canonicalized, so a returned
// timestamp always round-trips through isotime identically.
func isoTimestampField(errs *errorList, field string, v httputil.OptionalString) (*time.Time, bool) {
	if v.Null {
		return nil, true
	}
	if !v.IsString {
		errs.add(field + " must be a string or null.")
		return nil, false
	}
	t, err := isotime.Parse(v.Value)
	if err != nil {
		errs.add(field + " must be a valid ISO timestamp.")
		return nil, false
	}
	return &t, true
}

// versionToken validates an expected_updated_at field: it must be an ISO
// timestamp string, and its canonical form is what the concurrency guard
// compares. A malformed token is a validation error, not a conflict.
func versionToken(errs *errorList, field string, v httputil.OptionalString) (string, bool) {
	if !v.IsString {
		errs.add(field + " must be an ISO timestamp string.")
		return "", false
	}
	canonical, err := isotime.Canonicalize(v.Value)
	if err != nil {
		errs.add(field + " must be a valid ISO timestamp.")
		return "", false
	}
	return canonical, true
}

// booleanField validates a present field that must be exactly a JSON
// boolean.
func booleanField(errs *errorList, field string, v httputil.OptionalBool) (bool, bool) {
	if !v.IsBool {
		errs.add(field + " must be a boolean.")
		return false, false
	}
	return v.Value, true
}

// statusField validates a present status field against the allowed enum
// values.
func statusField(errs *errorList, v httputil.OptionalString) (string, bool) {
	if !v.IsString || (v.Value != "draft" && v.Value != "published") {
		errs.add("status must be draft or published.")
		return "", false
	}
	return v.Value, true
}
