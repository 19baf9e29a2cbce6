package enclose

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-enclose/internal/pdfinfo"
)

// sniffLength is how much of a text file is inspected.
const sniffLength = 1024

// octetStream is reported when no signature matches.
const octetStream = "application/octet-stream"

// expectedMIME maps each validatable format to its MIME type.
var expectedMIME = map[Format]string{
	FormatPDF:      "application/pdf",
	FormatSVG:      "image/svg+xml",
	FormatPNG:      "image/png",
	FormatJPEG:     "image/jpeg",
	FormatHTML:     "text/html",
	FormatText:     "text/plain",
	FormatMarkdown: "text/markdown",
}

// markdownHints are line starts that mark a file as markdown.
var markdownHints = []string{"# ", "## ", "* ", "- "}

// ValidateFileSignature reports whether the file at path looks like the
// expected format, with a human-readable message either way. Text formats
// are sniffed from the first bytes; binary formats by magic bytes.
func ValidateFileSignature(path string, expected Format) (bool, string) {
	if _, err := os.Stat(path); err != nil {
		return false, "File does not exist: " + path
	}

	mime, ok := expectedMIME[expected]
	if !ok {
		return false, fmt.Sprintf("Unsupported file type for validation: %s", expected)
	}
	name := strings.ToUpper(string(expected))

	switch expected {
	case FormatHTML, FormatMarkdown, FormatText:
		head, err := readHead(path)
		if err != nil {
			return false, fmt.Sprintf("Error reading %s file: %v", name, err)
		}
		switch {
		case expected == FormatHTML && (strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")):
			return true, "Valid HTML file: " + mime
		case expected == FormatMarkdown && containsAny(head, markdownHints):
			return true, "Valid Markdown file: " + mime
		case expected == FormatText:
			return true, "Valid text file: " + mime
		}
		return false, fmt.Sprintf("Invalid %s file: Content doesn't match expected format", name)

	case FormatSVG:
		head, err := readHead(path)
		if err != nil {
			return false, fmt.Sprintf("Error reading SVG file: %v", err)
		}
		if strings.Contains(head, "<!doctype svg") || strings.Contains(head, "<svg") {
			return true, "Valid SVG file: " + mime
		}
		return false, "Invalid SVG file: Missing SVG/XML declaration"
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf("Error validating file: %v", err)
	}
	if info.Size() == 0 {
		return false, "File is empty"
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return false, fmt.Sprintf("Error validating file: %v", err)
	}
	if detected.Is(octetStream) {
		return false, "Could not determine file type"
	}
	if detected.Is(mime) {
		return true, fmt.Sprintf("Valid %s file: %s", name, mime)
	}
	return false, fmt.Sprintf("Invalid %s file. Expected %s, got %s", name, mime, baseMIME(detected.String()))
}

// ValidationResult is the outcome of ValidateConvertedFile.
type ValidationResult struct {
	File              string  `json:"file"`
	Exists            bool    `json:"exists"`
	SizeBytes         int64   `json:"size_bytes"`
	MIMEType          string  `json:"mime_type"`
	IsValid           bool    `json:"is_valid"`
	ValidationMessage string  `json:"validation_message"`
	OriginalSize      int64   `json:"original_size,omitempty"`
	SizeRatio         float64 `json:"size_ratio,omitempty"`
	PageCount         int     `json:"page_count,omitempty"`
}

// Err returns an ErrValidation error for an invalid result, nil otherwise.
func (r *ValidationResult) Err() error {
	if r == nil || r.IsValid {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrValidation, r.File, r.ValidationMessage)
}

// ValidateConvertedFile checks a produced file against the format implied by
// its extension. When original names an existing file, its size and the
// size ratio are recorded too. Valid PDFs also get their page count.
func ValidateConvertedFile(path, original string) ValidationResult {
	res := ValidationResult{File: path}

	info, err := os.Stat(path)
	if err != nil {
		res.ValidationMessage = "File does not exist"
		return res
	}
	res.Exists = true
	res.SizeBytes = info.Size()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		res.ValidationMessage = "No file extension found"
		return res
	}

	res.MIMEType = detectMIME(path)

	format, err := ParseFormat(ext)
	if err != nil {
		res.ValidationMessage = "Unsupported file type for validation: " + ext
	} else {
		res.IsValid, res.ValidationMessage = ValidateFileSignature(path, format)
	}

	if res.IsValid && format == FormatPDF {
		if n, err := pdfinfo.PageCountFile(path); err == nil {
			res.PageCount = n
		}
	}

	if original != "" {
		if orig, err := os.Stat(original); err == nil {
			res.OriginalSize = orig.Size()
			if orig.Size() > 0 {
				res.SizeRatio = float64(res.SizeBytes) / float64(orig.Size())
			}
		}
	}
	return res
}

// detectMIME returns the detected MIME type without parameters.
func detectMIME(path string) string {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "error: " + err.Error()
	}
	return baseMIME(detected.String())
}

// baseMIME drops parameters such as "; charset=utf-8".
func baseMIME(m string) string {
	base, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(base)
}

// readHead returns the lowercased first sniffLength bytes of path.
func readHead(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, sniffLength)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.ToLower(string(buf[:n])), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
