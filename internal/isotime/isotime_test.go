package isotime

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"canonical form", "2025-01-02T03:04:05.000Z", "2025-01-02T03:04:05.000Z", false},
		{"nanosecond precision truncated", "2025-01-02T03:04:05.123456789Z", "2025-01-02T03:04:05.123Z", false},
		{"offset converted to UTC", "2025-01-02T03:04:05+02:00", "2025-01-02T01:04:05.000Z", false},
		{"no fractional seconds", "2025-01-02T03:04:05Z", "2025-01-02T03:04:05.000Z", false},
		{"date only", "2025-01-02", "2025-01-02T00:00:00.000Z", false},
		{"seconds without zone", "2025-01-02T03:04:05", "2025-01-02T03:04:05.000Z", false},
		{"not a timestamp", "yesterday", "", true},
		{"impossible date", "2025-13-45T00:00:00Z", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if formatted := Format(got); formatted != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, formatted, tt.want)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	original := time.Date(2025, 6, 15, 10, 30, 45, 123000000, time.UTC)
	formatted := Format(original)

	parsed, err := Parse(formatted)
	if err != nil {
		t.Fatalf("Parse(Format(t)) failed: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("round trip changed instant: %v != %v", parsed, original)
	}
	if reformatted := Format(parsed); reformatted != formatted {
		t.Errorf("round trip changed string: %q != %q", reformatted, formatted)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"2025-01-02T03:04:05.999999Z",
		"2025-01-02T03:04:05+05:30",
		"2025-12-31",
	}
	for _, input := range inputs {
		once, err := Canonicalize(input)
		if err != nil {
			t.Fatalf("Canonicalize(%q) failed: %v", input, err)
		}
		twice, err := Canonicalize(once)
		if err != nil {
			t.Fatalf("Canonicalize(%q) failed: %v", once, err)
		}
		if once != twice {
			t.Errorf("Canonicalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestFormatPtr(t *testing.T) {
	if got := FormatPtr(nil); got != nil {
		t.Errorf("FormatPtr(nil) = %v, want nil", *got)
	}

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := FormatPtr(&ts)
	if got == nil || *got != "2025-01-02T03:04:05.000Z" {
		t.Errorf("FormatPtr = %v, want 2025-01-02T03:04:05.000Z", got)
	}
}

func TestNowPrecision(t *testing.T) {
	now := Now()
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Now() carries sub-millisecond precision: %v", now)
	}
	if now.Location() != time.UTC {
		t.Errorf("Now() not in UTC: %v", now.Location())
	}
}
