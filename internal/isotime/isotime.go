// Package isotime provides the canonical timestamp form used across the
// Codex API: UTC, millisecond precision, "Z" suffix. Every timestamp that
// crosses the API boundary is parsed and re-emitted through this package so
// that string comparison of two canonical timestamps is equivalent to
// comparing the instants they name.
package isotime

import (
	"fmt"
	"time"
)

// Layout is the canonical wire format (RFC 3339 with fixed millisecond
// precision, always UTC).
const Layout = "2006-01-02T15:04:05.000Z"

// acceptedLayouts are the input shapes Parse will take. Canonical output is
// always Layout, so Parse(Format(t)) round-trips.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse parses an ISO-8601 timestamp string and truncates it to the
// canonical precision. Returns an error if the value is not a valid
// calendar timestamp.
func Parse(value string) (time.Time, error) {
	for _, layout := range acceptedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO timestamp %q", value)
}

// Format renders a time in the canonical form.
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(Layout)
}

// FormatPtr renders an optional time, mapping nil to nil for JSON null.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// Canonicalize parses and re-formats a timestamp string, yielding its
// canonical form. Canonicalize(Canonicalize(s)) == Canonicalize(s) for any
// valid input.
func Canonicalize(value string) (string, error) {
	t, err := Parse(value)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

// Now returns the current time at canonical precision. Version tokens
// generated by the store go through this so a stored token and its wire
// form always agree.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
