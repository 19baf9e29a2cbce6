package dateutil

import (
	"errors"
	"testing"
	"time"
)

var fixed = time.Date(2025, time.June, 5, 14, 7, 9, 0, time.UTC)

// ---------------------------------------------------------------------------
// TestFormat
// ---------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"iso", ISODate, "2025-06-05"},
		{"compact timestamp", CompactTimestamp, "20250605_140709"},
		{"metadata file name", MetadataFileName, "metadata_20250605_140709"},
		{"dashboard", DashboardDateTime, "2025-06-05 14:07:09"},
		{"long month", "MMMM D, YYYY", "June 5, 2025"},
		{"short month", "MMM YY", "Jun 25"},
		{"minutes vs month", "MM/mm", "06/07"},
		{"preset by name", "european", "05/06/2025"},
		{"preset case-insensitive", "US", "06/05/2025"},
		{"bracket literal", "[Day] D", "Day 5"},
		{"non-token literal", "YYYY.MM", "2025.06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Format(tt.pattern, fixed)
			if err != nil {
				t.Fatalf("Format(%q) unexpected error: %v", tt.pattern, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestLayout_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{"empty", ""},
		{"unclosed bracket", "[abc YYYY"},
		{"too long", "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Layout(tt.pattern); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("Layout(%q) error = %v, want ErrInvalidDateFormat", tt.pattern, err)
			}
		})
	}
}
