// Package dateutil formats timestamps from user-friendly token patterns.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable format pattern.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength caps pattern length.
const MaxDateFormatLength = 64

// Common patterns.
const (
	ISODate           = "YYYY-MM-DD"
	CompactTimestamp  = "YYYYMMDD_HHmmss"
	MetadataFileName  = "[metadata_]" + CompactTimestamp
	DashboardDateTime = "YYYY-MM-DD HH:mm:ss"
)

// tokens are matched case-sensitively, longest first at each position.
// MM is the month and mm the minute.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts accepted by Layout.
var Presets = map[string]string{
	"iso":      ISODate,
	"compact":  CompactTimestamp,
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Layout converts a token pattern (or preset name) into a Go time layout.
// Text inside [brackets] is copied literally, as is any character that is
// not a token.
func Layout(pattern string) (string, error) {
	if preset, ok := Presets[strings.ToLower(pattern)]; ok {
		pattern = preset
	}
	if pattern == "" {
		return "", fmt.Errorf("%w: pattern cannot be empty", ErrInvalidDateFormat)
	}
	if len(pattern) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := writeToken(&b, pattern[i:])
		if n == 0 {
			b.WriteByte(pattern[i])
			n = 1
		}
		i += n
	}
	return b.String(), nil
}

func writeToken(b *strings.Builder, rest string) int {
	for _, t := range tokens {
		if strings.HasPrefix(rest, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// Format renders t with a token pattern.
func Format(pattern string, t time.Time) (string, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
