package enclose

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is a logical file type handled by the pipeline or the validator.
type Format string

// Known formats.
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatText     Format = "txt"
	FormatJPEG     Format = "jpeg"
)

// formatAliases maps alternate spellings to their canonical format.
var formatAliases = map[string]Format{
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"html":     FormatHTML,
	"htm":      FormatHTML,
	"pdf":      FormatPDF,
	"svg":      FormatSVG,
	"png":      FormatPNG,
	"txt":      FormatText,
	"jpeg":     FormatJPEG,
	"jpg":      FormatJPEG,
}

// conversions lists the legal source -> target pairs.
var conversions = map[Format][]Format{
	FormatMarkdown: {FormatHTML, FormatPDF, FormatSVG, FormatPNG},
	FormatHTML:     {FormatPDF, FormatSVG, FormatPNG},
	FormatPDF:      {FormatSVG, FormatPNG},
	FormatSVG:      {FormatPNG},
}

// pipelineFormats is the display order for inputs and outputs.
var pipelineFormats = []Format{FormatMarkdown, FormatHTML, FormatPDF, FormatSVG, FormatPNG}

// ParseFormat normalizes a user-provided format name (case-insensitive,
// optional leading dot). Returns ErrUnsupportedFormat for unknown names.
func ParseFormat(s string) (Format, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatOf returns the format implied by a path's extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// PipelineFormats returns the formats accepted as conversion input or output.
func PipelineFormats() []Format {
	return slices.Clone(pipelineFormats)
}

// SupportedConversions returns a copy of the conversion matrix.
func SupportedConversions() map[Format][]Format {
	out := make(map[Format][]Format, len(conversions))
	for src, dsts := range conversions {
		out[src] = slices.Clone(dsts)
	}
	return out
}

// CanConvert reports whether from -> to is a supported conversion.
func CanConvert(from, to Format) bool {
	return slices.Contains(conversions[from], to)
}

// checkConversion validates a conversion request without touching the filesystem.
func checkConversion(from, to Format) error {
	if _, ok := conversions[from]; !ok {
		return fmt.Errorf("%w: input format %q", ErrUnsupportedFormat, from)
	}
	if !CanConvert(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrUnsupportedFormat, from, to)
	}
	return nil
}
